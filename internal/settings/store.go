package settings

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/storage"
)

// Store owns the current preferences for one user profile. Create it once
// per session and pass it to whatever needs it.
type Store struct {
	kv        storage.KV
	presenter Presenter
	logger    *log.Logger

	mu      sync.Mutex
	current Settings

	// write-back queue, drained in order by writeLoop
	qmu     sync.Mutex
	pending []Settings
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithPresenter sets the presentation root that receives appearance changes.
func WithPresenter(p Presenter) Option {
	return func(s *Store) { s.presenter = p }
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore loads preferences from kv and starts the write-back worker.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	s.Load()
	go s.writeLoop()
	return s
}

// Load re-reads the stored record. A missing or corrupt record yields the
// defaults; it is never an error.
func (s *Store) Load() Settings {
	loaded := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = loaded
	s.apply(loaded.Appearance())
	return loaded
}

// Get returns the current preferences.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update merges p over the current preferences. Appearance changes reach the
// presenter before Update returns; the new record is queued for durable
// write-back without waiting for it.
func (s *Store) Update(p Patch) (Settings, error) {
	if err := p.Validate(); err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(p), nil
}

// ToggleDarkMode flips dark mode.
func (s *Store) ToggleDarkMode() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := !s.current.DarkMode
	return s.updateLocked(Patch{DarkMode: &v})
}

// ToggleHighContrast flips high contrast.
func (s *Store) ToggleHighContrast() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := !s.current.HighContrast
	return s.updateLocked(Patch{HighContrast: &v})
}

// SetGridDensity sets the number of grid columns.
func (s *Store) SetGridDensity(d GridDensity) (Settings, error) {
	return s.Update(Patch{GridDensity: &d})
}

// SetFontSize sets the text scale.
func (s *Store) SetFontSize(f FontSize) (Settings, error) {
	return s.Update(Patch{FontSize: &f})
}

// Close waits for queued writes to reach storage and stops the worker.
// It does not close the underlying KV.
func (s *Store) Close() {
	s.once.Do(func() {
		s.qmu.Lock()
		s.closed = true
		s.qmu.Unlock()
		s.signal()
		<-s.done
	})
}

func (s *Store) updateLocked(p Patch) Settings {
	prev := s.current
	next := p.Apply(prev)
	s.current = next

	if prev.Appearance() != next.Appearance() {
		s.apply(next.Appearance())
	}
	s.enqueue(next)
	return next
}

func (s *Store) read() Settings {
	raw, err := s.kv.Get(RecordKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return Defaults()
	}
	if err != nil {
		s.logger.Warn("Could not read settings, using defaults", "err", err)
		return Defaults()
	}

	loaded, err := decode(raw)
	if err != nil {
		s.logger.Warn("Stored settings are corrupt, using defaults", "err", err)
	}
	return loaded
}

func (s *Store) apply(a Appearance) {
	if s.presenter != nil {
		s.presenter.ApplyAppearance(a)
	}
}

func (s *Store) enqueue(next Settings) {
	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		<-s.done
		s.persist(next)
		return
	}
	s.pending = append(s.pending, next)
	s.qmu.Unlock()
	s.signal()
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) writeLoop() {
	defer close(s.done)

	for range s.wake {
		s.qmu.Lock()
		batch := s.pending
		s.pending = nil
		closed := s.closed
		s.qmu.Unlock()

		// Every queued record is written, in order.
		for _, rec := range batch {
			s.persist(rec)
		}
		if closed {
			return
		}
	}
}

func (s *Store) persist(rec Settings) {
	raw, err := encode(rec)
	if err != nil {
		s.logger.Error("Could not encode settings", "err", err)
		return
	}
	if err := s.kv.Set(RecordKey, raw); err != nil {
		s.logger.Warn("Could not persist settings", "err", err)
	}
}
