package playback

import "fmt"

// State is the controller's playback state.
type State int32

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Source tells which path produced a sound.
type Source int

const (
	Recorded Source = iota
	Synthesized
)

func (s Source) String() string {
	if s == Synthesized {
		return "synthesized"
	}
	return "recorded"
}

// EventKind identifies a notification.
type EventKind int

const (
	// Started fires when a sound begins to play.
	Started EventKind = iota
	// Ended fires when a sound played to completion.
	Ended
	// Errored fires when a sound could not be loaded or played.
	Errored
	// IdleEvent fires when the controller returns to Idle.
	IdleEvent
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Ended:
		return "ended"
	case Errored:
		return "errored"
	case IdleEvent:
		return "idle"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Terminal reports whether the event ends a sound.
func (k EventKind) Terminal() bool {
	return k == Ended || k == Errored
}

// Event is a playback notification. SymbolID and Source are empty for
// IdleEvent.
type Event struct {
	Kind     EventKind
	SymbolID string
	Source   Source
	Err      error
}

func (e Event) String() string {
	if e.Kind == IdleEvent {
		return "idle"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s (%s): %v", e.Kind, e.SymbolID, e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s (%s)", e.Kind, e.SymbolID, e.Source)
}

// Observer receives events. It is called with the controller's lock held:
// it must return quickly and must not call back into the controller.
type Observer func(Event)
