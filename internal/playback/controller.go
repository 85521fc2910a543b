// Package playback speaks symbols aloud. A Controller owns at most one
// playing sound at a time: starting a new one or stopping cancels the
// current sound, and a cancelled sound never reports back.
package playback

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/audio"
	"github.com/laoaac/aacboard/internal/speech"
	"github.com/laoaac/aacboard/internal/symbols"
)

// ClipLoader loads the recorded clip of a symbol as PCM.
type ClipLoader interface {
	Load(ctx context.Context, id string) ([]byte, error)
}

// Controller plays recorded clips, falling back to synthesized speech.
// All methods return immediately; sounds play on a worker goroutine.
type Controller struct {
	player audio.Player
	clips  ClipLoader
	synth  speech.Synthesizer
	logger *log.Logger

	// opMu serializes Speak, SpeakSequence and Stop so handle hand-over is
	// never interleaved.
	opMu sync.Mutex

	mu       sync.Mutex
	current  *handle // live handle, nil when idle
	last     *handle // most recent handle, possibly finished
	observer Observer
	closed   bool

	state atomic.Int32
}

// handle is one playback job.
type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller.
func New(player audio.Player, clips ClipLoader, synth speech.Synthesizer, opts ...Option) *Controller {
	c := &Controller{
		player: player,
		clips:  clips,
		synth:  synth,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.synth == nil {
		c.synth = speech.Unavailable{}
	}
	return c
}

// SetObserver replaces the event observer.
func (c *Controller) SetObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// State returns the current state. It is Playing from the moment a sound
// is requested until the controller reports IdleEvent or is stopped.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Speak plays s, cancelling whatever is playing. Custom symbols are
// synthesized; others play their recorded clip and fall back to synthesis
// if it is missing or broken.
//
// Speak returns before the sound plays, but after the previous worker has
// exited. A worker cancelled inside a decoder or synthesizer process holds
// Speak, SpeakSequence and Stop for at most that process runner's KillDelay.
func (c *Controller) Speak(s symbols.Symbol) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.release()
	c.launch(func(ctx context.Context, h *handle) {
		c.speakOne(ctx, h, s, true)
	})
}

// SpeakSequence plays list one symbol at a time, cancelling whatever is
// playing. Every symbol yields exactly one Ended or Errored event and a
// failure moves on to the next symbol. An empty list does nothing.
func (c *Controller) SpeakSequence(list []symbols.Symbol) {
	if len(list) == 0 {
		return
	}
	list = append([]symbols.Symbol(nil), list...)

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.release()
	c.launch(func(ctx context.Context, h *handle) {
		for _, s := range list {
			if ctx.Err() != nil {
				return
			}
			c.speakOne(ctx, h, s, false)
		}
	})
}

// Stop silences the current sound and reports IdleEvent. It does nothing
// when idle.
func (c *Controller) Stop() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.release() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify(Event{Kind: IdleEvent})
}

// Close stops playback; later calls to Speak and SpeakSequence are ignored.
func (c *Controller) Close() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.release()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// release cancels the current handle and waits for its worker to return.
// Detaching happens before cancelling, so the worker's remaining events
// are dropped. Reports whether a sound was live.
func (c *Controller) release() bool {
	c.mu.Lock()
	live := c.current != nil
	h := c.last
	c.current = nil
	c.state.Store(int32(Idle))
	c.mu.Unlock()

	if h != nil {
		h.cancel()
		<-h.done
	}
	return live
}

// launch starts work on a new handle. Callers hold opMu and have released
// the previous handle.
func (c *Controller) launch(work func(ctx context.Context, h *handle)) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &handle{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return
	}
	c.current = h
	c.last = h
	c.state.Store(int32(Playing))
	c.mu.Unlock()

	go func() {
		defer close(h.done)
		defer cancel()

		work(ctx, h)
		c.finish(h)
	}()
}

// finish returns to Idle if h is still the live handle.
func (c *Controller) finish(h *handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != h {
		return
	}
	c.current = nil
	c.state.Store(int32(Idle))
	c.notify(Event{Kind: IdleEvent})
}

// emit delivers ev if h is still live.
func (c *Controller) emit(h *handle, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != h {
		return
	}
	c.notify(ev)
}

// must be called with c.mu held
func (c *Controller) notify(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

// speakOne plays a single symbol. With fallback set, a recorded clip that
// fails is followed by synthesized speech of the symbol's text.
func (c *Controller) speakOne(ctx context.Context, h *handle, s symbols.Symbol, fallback bool) {
	if s.IsCustom {
		c.synthesize(ctx, h, s)
		return
	}

	pcm, err := c.clips.Load(ctx, s.ID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		perr := loadError(s.ID, err)
		if perr.Expected() {
			c.logger.Debug("no recorded clip", "id", s.ID)
		} else {
			c.logger.Warn("failed to load clip", "id", s.ID, "err", err)
		}
		c.emit(h, Event{Kind: Errored, SymbolID: s.ID, Source: Recorded, Err: perr})
		if fallback {
			c.synthesize(ctx, h, s)
		}
		return
	}

	if err := c.play(ctx, h, s.ID, Recorded, pcm); err != nil && fallback {
		c.synthesize(ctx, h, s)
	}
}

// synthesize speaks s.Text with the fallback voice.
func (c *Controller) synthesize(ctx context.Context, h *handle, s symbols.Symbol) {
	pcm, err := c.synth.Synthesize(ctx, s.Text)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("speech synthesis failed", "id", s.ID, "err", err)
		c.emit(h, Event{Kind: Errored, SymbolID: s.ID, Source: Synthesized, Err: synthError(s.ID, err)})
		return
	}
	c.play(ctx, h, s.ID, Synthesized, pcm)
}

// play emits Started, plays pcm and emits Ended or Errored. It returns the
// playback error, or nil if cancelled.
func (c *Controller) play(ctx context.Context, h *handle, id string, source Source, pcm []byte) error {
	c.emit(h, Event{Kind: Started, SymbolID: id, Source: source})

	err := c.player.Play(ctx, pcm)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		c.logger.Warn("playback failed", "id", id, "source", source, "err", err)
		c.emit(h, Event{Kind: Errored, SymbolID: id, Source: source, Err: audioError(source, id, err)})
		return err
	}

	c.emit(h, Event{Kind: Ended, SymbolID: id, Source: source})
	return nil
}
