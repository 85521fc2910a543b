package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays PCM to completion. Play blocks until the sound has finished,
// failed, or ctx is cancelled; on cancellation the sound stops at once and
// ctx.Err() is returned.
type Player interface {
	Play(ctx context.Context, pcm []byte) error
	Close() error
}

// pollInterval is how often an active oto player is checked for completion.
const pollInterval = 10 * time.Millisecond

// OtoPlayer implements Player on the system audio device. oto allows one
// context per process, so create a single OtoPlayer and share it.
type OtoPlayer struct {
	context *oto.Context

	mu     sync.Mutex
	closed bool

	// volume is a float64 scaled by 1e6 for atomic access.
	volume atomic.Uint64
}

// PlayerConfig contains configuration for the audio device.
type PlayerConfig struct {
	BufferSize time.Duration
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		BufferSize: 50 * time.Millisecond,
	}
}

// NewOtoPlayer opens the audio device.
func NewOtoPlayer(config PlayerConfig) (*OtoPlayer, error) {
	if config.BufferSize <= 0 {
		return nil, errors.New("buffer size must be positive")
	}

	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   config.BufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	p := &OtoPlayer{context: ctx}
	p.volume.Store(1_000_000)
	return p, nil
}

// Play plays pcm on the device.
func (p *OtoPlayer) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	stream := newStream(pcm)
	player := p.context.NewPlayer(stream)
	p.mu.Unlock()

	defer stream.Close()
	defer player.Close()

	player.SetVolume(p.Volume())
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if player.IsPlaying() {
				continue
			}
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
			return nil
		}
	}
}

// SetVolume sets the playback volume (0.0 to 1.0) for sounds started
// afterwards.
func (p *OtoPlayer) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.volume.Store(uint64(volume * 1_000_000))
	return nil
}

// Volume returns the current volume.
func (p *OtoPlayer) Volume() float64 {
	return float64(p.volume.Load()) / 1_000_000
}

// Close stops accepting new sounds. oto/v3 has no way to release its
// context, so the device stays open until the process exits.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// stream keeps the PCM buffer referenced for as long as oto reads from it.
type stream struct {
	mu     sync.Mutex
	data   []byte
	reader *bytes.Reader
}

func newStream(pcm []byte) *stream {
	data := make([]byte, len(pcm))
	copy(data, pcm)
	return &stream{data: data, reader: bytes.NewReader(data)}
}

func (s *stream) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil {
		return 0, io.EOF
	}
	return s.reader.Read(b)
}

// Close releases the buffer.
func (s *stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.reader = nil
}

var _ Player = (*OtoPlayer)(nil)
