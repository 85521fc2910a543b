package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/laoaac/aacboard/internal/playback"
)

type playbackMsg playback.Event

// Mailbox queues playback events for the program. Observe never blocks, so
// it is safe to use as a playback.Observer.
type Mailbox struct {
	mu     sync.Mutex
	queue  []playback.Event
	signal chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{signal: make(chan struct{}, 1)}
}

// Observe enqueues ev.
func (m *Mailbox) Observe(ev playback.Event) {
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// next blocks until an event is available and returns it.
func (m *Mailbox) next() playback.Event {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			ev := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return ev
		}
		m.mu.Unlock()
		<-m.signal
	}
}

func waitForPlayback(m *Mailbox) tea.Cmd {
	return func() tea.Msg {
		return playbackMsg(m.next())
	}
}
