package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/laoaac/aacboard/internal/audio"
	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/playback"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenClips fails every load the way a corrupt file would.
type brokenClips struct{}

func (brokenClips) Load(_ context.Context, id string) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", id, clips.ErrClipNotFound)
}

type echoSynth struct {
	mu    sync.Mutex
	texts []string
}

func (e *echoSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
	return audio.Silence(30 * time.Millisecond), nil
}

type events struct {
	mu   sync.Mutex
	list []playback.Event
}

func (e *events) observe(ev playback.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, ev)
}

func (e *events) has(kind playback.EventKind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range e.list {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// fakeSpeaker records calls without playing anything.
type fakeSpeaker struct {
	spoken    []symbols.Symbol
	sequences [][]symbols.Symbol
	stops     int
}

func (f *fakeSpeaker) Speak(s symbols.Symbol)              { f.spoken = append(f.spoken, s) }
func (f *fakeSpeaker) SpeakSequence(list []symbols.Symbol) { f.sequences = append(f.sequences, list) }
func (f *fakeSpeaker) Stop()                               { f.stops++ }
func (f *fakeSpeaker) State() playback.State               { return playback.Idle }

func TestSelectWaterFallsBackToSpeech(t *testing.T) {
	synth := &echoSynth{}
	ev := &events{}
	ctrl := playback.New(audio.NewMockPlayer(audio.MockCallbacks{}), brokenClips{}, synth,
		playback.WithObserver(ev.observe))
	defer ctrl.Close()

	s := New(symbols.Default(), ctrl)
	water, ok := s.Catalog.Lookup("n1")
	require.True(t, ok)

	s.Select(water)

	items := s.Buffer.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "ນ້ຳ", items[0].Text)
	assert.Equal(t, "n1", s.Usage.Recent()[0].ID)
	assert.True(t, s.Speaking())

	require.Eventually(t, func() bool { return ev.has(playback.IdleEvent) },
		3*time.Second, 5*time.Millisecond)
	assert.False(t, s.Speaking())
	assert.True(t, ev.has(playback.Errored))
	assert.Equal(t, []string{"ນ້ຳ"}, synth.texts)
}

func TestSelectCustom(t *testing.T) {
	sp := &fakeSpeaker{}
	s := New(symbols.Default(), sp)

	_, err := s.SelectCustom("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, 0, s.Buffer.Len())

	item, err := s.SelectCustom(" ຂອບໃຈ ")
	require.NoError(t, err)
	assert.True(t, item.IsCustom)
	assert.Equal(t, "ຂອບໃຈ", item.Text)
	require.Len(t, sp.spoken, 1)
	assert.True(t, sp.spoken[0].IsCustom)
	assert.Equal(t, item.ID, s.Usage.Recent()[0].ID)
}

func TestSpeakAndClearSentence(t *testing.T) {
	sp := &fakeSpeaker{}
	s := New(symbols.Default(), sp)

	for _, id := range []string{"q1", "n1", "q1"} {
		sym, ok := s.Catalog.Lookup(id)
		require.True(t, ok)
		s.Select(sym)
	}

	s.RemoveAt(1)
	s.RemoveAt(7)
	s.SpeakSentence()
	require.Len(t, sp.sequences, 1)
	assert.Len(t, sp.sequences[0], 2)

	s.ClearSentence()
	assert.Equal(t, 0, s.Buffer.Len())
	assert.Equal(t, 1, sp.stops)
	assert.Len(t, s.Usage.Recent(), 2, "clearing keeps usage history")
}

func TestToggleFavorite(t *testing.T) {
	s := New(symbols.Default(), &fakeSpeaker{})
	sym, _ := s.Catalog.Lookup("f1")

	assert.True(t, s.ToggleFavorite(sym))
	assert.True(t, s.Usage.IsFavorite(sym))
	assert.False(t, s.ToggleFavorite(sym))
	assert.False(t, s.Usage.IsFavorite(sym))
}
