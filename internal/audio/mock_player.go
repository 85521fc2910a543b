package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSimulatedFailure is returned by MockPlayer when failures are enabled.
var ErrSimulatedFailure = errors.New("simulated playback error")

// MockPlayer implements Player without producing sound. It waits for the
// duration the PCM would take to play, scaled by a delay factor. It is used
// in tests and when the board runs muted.
type MockPlayer struct {
	mu          sync.Mutex
	delayFactor float64
	failing     bool
	closed      bool
	callbacks   MockCallbacks
	played      [][]byte

	playCount   atomic.Int64
	cancelCount atomic.Int64
	active      atomic.Int32
	maxActive   atomic.Int32
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay   func(pcm []byte)
	OnCancel func()
	OnEnd    func()
}

// NewMockPlayer creates a mock player playing at real time.
func NewMockPlayer(callbacks MockCallbacks) *MockPlayer {
	return &MockPlayer{delayFactor: 1.0, callbacks: callbacks}
}

// Play simulates playback of pcm.
func (mp *MockPlayer) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	mp.mu.Lock()
	if mp.closed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	failing := mp.failing
	d := time.Duration(float64(Duration(pcm)) * mp.delayFactor)
	mp.played = append(mp.played, append([]byte(nil), pcm...))
	cb := mp.callbacks
	mp.mu.Unlock()

	mp.playCount.Add(1)
	if n := mp.active.Add(1); n > mp.maxActive.Load() {
		mp.maxActive.Store(n)
	}
	defer mp.active.Add(-1)

	if cb.OnPlay != nil {
		cb.OnPlay(pcm)
	}
	if failing {
		return ErrSimulatedFailure
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		mp.cancelCount.Add(1)
		if cb.OnCancel != nil {
			cb.OnCancel()
		}
		return ctx.Err()
	case <-timer.C:
		if cb.OnEnd != nil {
			cb.OnEnd()
		}
		return nil
	}
}

// Close makes further Play calls fail.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.closed = true
	return nil
}

// SetDelayFactor scales simulated durations: 0.5 plays twice as fast.
func (mp *MockPlayer) SetDelayFactor(factor float64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.delayFactor = factor
}

// SetFailing makes every subsequent Play fail immediately.
func (mp *MockPlayer) SetFailing(failing bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.failing = failing
}

// Played returns copies of every buffer passed to Play.
func (mp *MockPlayer) Played() [][]byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([][]byte(nil), mp.played...)
}

// GetMetrics returns playback metrics for testing.
func (mp *MockPlayer) GetMetrics() MockPlayerMetrics {
	return MockPlayerMetrics{
		PlayCount:   mp.playCount.Load(),
		CancelCount: mp.cancelCount.Load(),
		MaxActive:   int(mp.maxActive.Load()),
	}
}

// MockPlayerMetrics contains playback metrics for testing.
type MockPlayerMetrics struct {
	PlayCount   int64
	CancelCount int64
	// MaxActive is the largest number of overlapping Play calls seen.
	MaxActive int
}

var _ Player = (*MockPlayer)(nil)
