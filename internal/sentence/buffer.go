// Package sentence maintains the ordered message being composed on the board.
package sentence

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/laoaac/aacboard/internal/symbols"
)

// Item is one occurrence of a symbol in the sentence. The same symbol may
// appear several times; InstanceID tells the occurrences apart.
type Item struct {
	symbols.Symbol
	InstanceID string
}

// Buffer is an ordered sequence of items. Insertion order is spoken order.
type Buffer struct {
	mu    sync.RWMutex
	items []Item
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a new occurrence of s at the tail and returns it.
func (b *Buffer) Append(s symbols.Symbol) Item {
	item := Item{Symbol: s, InstanceID: s.ID + "-" + uuid.NewString()}

	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()

	return item
}

// RemoveAt removes the item at index. Out-of-range indexes are ignored.
func (b *Buffer) RemoveAt(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return
	}
	b.items = append(b.items[:index:index], b.items[index+1:]...)
}

// Clear empties the buffer. It does not touch playback.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.items = nil
	b.mu.Unlock()
}

// Len returns the number of items.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Items returns a copy of the items in order.
func (b *Buffer) Items() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Symbols returns the symbols in spoken order.
func (b *Buffer) Symbols() []symbols.Symbol {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]symbols.Symbol, len(b.items))
	for i, it := range b.items {
		out[i] = it.Symbol
	}
	return out
}

// Text joins the item texts with single spaces.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	parts := make([]string, len(b.items))
	for i, it := range b.items {
		parts[i] = it.Text
	}
	return strings.Join(parts, " ")
}
