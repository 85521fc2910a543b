// Package session wires the sentence buffer, usage tracker and playback
// controller together the way the board uses them.
package session

import (
	"errors"
	"strings"

	"github.com/laoaac/aacboard/internal/playback"
	"github.com/laoaac/aacboard/internal/sentence"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/laoaac/aacboard/internal/usage"
)

// ErrEmptyText is returned when a custom symbol has no text.
var ErrEmptyText = errors.New("text cannot be empty")

// Speaker plays symbols. *playback.Controller implements it.
type Speaker interface {
	Speak(s symbols.Symbol)
	SpeakSequence(list []symbols.Symbol)
	Stop()
	State() playback.State
}

// Session is one user's board state.
type Session struct {
	Catalog *symbols.Catalog
	Buffer  *sentence.Buffer
	Usage   *usage.Tracker
	Speaker Speaker
}

// New creates a session with an empty sentence and no usage history.
func New(catalog *symbols.Catalog, speaker Speaker) *Session {
	return &Session{
		Catalog: catalog,
		Buffer:  sentence.NewBuffer(),
		Usage:   usage.NewTracker(),
		Speaker: speaker,
	}
}

// Select adds s to the sentence, records it as recently used and speaks it.
func (s *Session) Select(sym symbols.Symbol) sentence.Item {
	item := s.Buffer.Append(sym)
	s.Usage.RecordUse(sym)
	s.Speaker.Speak(sym)
	return item
}

// SelectCustom selects a new custom symbol for text.
func (s *Session) SelectCustom(text string) (sentence.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return sentence.Item{}, ErrEmptyText
	}
	return s.Select(symbols.NewCustom(text)), nil
}

// SpeakSentence speaks the whole sentence in order.
func (s *Session) SpeakSentence() {
	s.Speaker.SpeakSequence(s.Buffer.Symbols())
}

// ClearSentence empties the sentence and silences any playback.
func (s *Session) ClearSentence() {
	s.Buffer.Clear()
	s.Speaker.Stop()
}

// RemoveAt removes the sentence item at index.
func (s *Session) RemoveAt(index int) {
	s.Buffer.RemoveAt(index)
}

// ToggleFavorite flips whether sym is a favorite and returns the new value.
func (s *Session) ToggleFavorite(sym symbols.Symbol) bool {
	return s.Usage.ToggleFavorite(sym)
}

// Speaking reports whether audio is playing.
func (s *Session) Speaking() bool {
	return s.Speaker.State() == playback.Playing
}
