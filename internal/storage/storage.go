// Package storage provides the device-local key/value store that backs
// persisted preferences.
package storage

import (
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Get when no value is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a scoped read/write surface for small structured records.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Memory is a KV held in process memory. Values survive as long as the
// instance does, which lets tests simulate a restart by reopening a store
// over the same Memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Set return an error, for exercising write failures.
	FailWrites bool
}

// NewMemory returns an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return errors.New("memory store: writes disabled")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
