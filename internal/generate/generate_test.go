package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu    sync.Mutex
	texts []string
	fail  map[string]bool
}

func (w *fakeWriter) WriteMP3(_ context.Context, text, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail[text] {
		return errors.New("service refused")
	}
	w.texts = append(w.texts, text)
	return os.WriteFile(path, []byte(text), 0o644)
}

func TestGenerateWritesAndSkips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	w := &fakeWriter{}
	g := New(w, clips.NewLibrary(dir, nil), nil)

	res, err := g.Generate(context.Background(), "n1", "ນ້ຳ")
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, filepath.Join(dir, "n1.mp3"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "ນ້ຳ", string(data))

	res, err = g.Generate(context.Background(), "n1", "ນ້ຳ")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Len(t, w.texts, 1)

	g.Force = true
	res, err = g.Generate(context.Background(), "n1", "ນ້ຳ")
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, w.texts, 2)
}

func TestGenerateRejectsMissingInput(t *testing.T) {
	g := New(&fakeWriter{}, clips.NewLibrary(t.TempDir(), nil), nil)

	_, err := g.Generate(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = g.Generate(context.Background(), "n1", "  ")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = g.Generate(context.Background(), "../x", "x")
	assert.ErrorIs(t, err, clips.ErrInvalidID)
}

func TestGenerateAllContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	w := &fakeWriter{fail: map[string]bool{"bad": true}}
	g := New(w, clips.NewLibrary(dir, nil), nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.mp3"), []byte("old"), 0o644))

	syms := []symbols.Symbol{
		{ID: "a", Text: "good"},
		{ID: "b", Text: "bad"},
		{ID: "c", Text: "kept"},
	}

	var seen []string
	results, err := g.GenerateAll(context.Background(), syms, func(r Result) { seen = append(seen, r.ID) })
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	generated, skipped, failed := Summary(results)
	assert.Equal(t, 1, generated)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	_, err = os.Stat(filepath.Join(dir, ".b.mp3.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestGenerateAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(&fakeWriter{}, clips.NewLibrary(t.TempDir(), nil), nil)
	results, err := g.GenerateAll(ctx, symbols.Default().All(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
