// Package usage tracks recently used and favorite symbols for the session.
// Nothing here is persisted.
package usage

import (
	"slices"
	"sync"

	"github.com/laoaac/aacboard/internal/symbols"
)

// MaxRecent is the length of the recent list.
const MaxRecent = 8

// Tracker keeps a bounded most-recent-first history and a favorites set,
// both keyed by symbol id.
type Tracker struct {
	mu        sync.RWMutex
	recent    []symbols.Symbol
	favorites []symbols.Symbol
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordUse moves s to the head of the recent list, dropping any earlier
// entry with the same id and anything past MaxRecent.
func (t *Tracker) RecordUse(s symbols.Symbol) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]symbols.Symbol, 0, MaxRecent)
	next = append(next, s)
	for _, r := range t.recent {
		if len(next) == MaxRecent {
			break
		}
		if r.ID != s.ID {
			next = append(next, r)
		}
	}
	t.recent = next
}

// ToggleFavorite adds s to the favorites, or removes it if a favorite with
// the same id is already present. It reports the new membership.
func (t *Tracker) ToggleFavorite(s symbols.Symbol) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.favoriteIndex(s.ID); i >= 0 {
		t.favorites = slices.Delete(t.favorites, i, i+1)
		return false
	}
	t.favorites = append(t.favorites, s)
	return true
}

// IsFavorite reports whether a symbol with s's id is a favorite.
func (t *Tracker) IsFavorite(s symbols.Symbol) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.favoriteIndex(s.ID) >= 0
}

// Recent returns the recent list, most recent first.
func (t *Tracker) Recent() []symbols.Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.recent)
}

// Favorites returns the favorites in the order they were added.
func (t *Tracker) Favorites() []symbols.Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.favorites)
}

func (t *Tracker) favoriteIndex(id string) int {
	return slices.IndexFunc(t.favorites, func(f symbols.Symbol) bool {
		return f.ID == id
	})
}
