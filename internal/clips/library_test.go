package clips

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/laoaac/aacboard/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDecoder returns the file contents as PCM.
type fakeDecoder struct {
	mu    sync.Mutex
	calls int
}

func (d *fakeDecoder) DecodeFile(_ context.Context, path string) ([]byte, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return os.ReadFile(path)
}

func (d *fakeDecoder) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func writeClip(t *testing.T, dir, id, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+Ext), []byte(data), 0o644))
}

func newCache(t *testing.T) *cache.ClipCache {
	t.Helper()
	c, err := cache.New(cache.DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestPath(t *testing.T) {
	l := NewLibrary("/srv/audio", &fakeDecoder{})

	p, err := l.Path("n1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/audio", "n1.mp3"), p)

	for _, bad := range []string{"", "..", "../etc/passwd", `a\b`} {
		_, err := l.Path(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestLoadMissingClip(t *testing.T) {
	l := NewLibrary(t.TempDir(), &fakeDecoder{})

	_, err := l.Load(context.Background(), "n1")
	require.ErrorIs(t, err, ErrClipNotFound)
	assert.False(t, l.Exists("n1"))
}

func TestLoadUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, dir, "n1", "water")

	dec := &fakeDecoder{}
	l := NewLibrary(dir, dec, WithCache(newCache(t)))

	for i := 0; i < 3; i++ {
		pcm, err := l.Load(context.Background(), "n1")
		require.NoError(t, err)
		assert.Equal(t, "water", string(pcm))
	}
	assert.Equal(t, 1, dec.Calls())
	assert.True(t, l.Exists("n1"))
}

func TestLoadSeesRerecordedClip(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, dir, "n1", "old")

	l := NewLibrary(dir, &fakeDecoder{}, WithCache(newCache(t)))
	pcm, err := l.Load(context.Background(), "n1")
	require.NoError(t, err)
	require.Equal(t, "old", string(pcm))

	writeClip(t, dir, "n1", "newer")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "n1.mp3"), future, future))

	pcm, err = l.Load(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "newer", string(pcm))
}

func TestIDs(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, dir, "n1", "a")
	writeClip(t, dir, "q2", "b")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	ids, err := NewLibrary(dir, &fakeDecoder{}).IDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n1", "q2"}, ids)
}

func TestWatchInvalidates(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, dir, "n1", "old")

	dec := &fakeDecoder{}
	l := NewLibrary(dir, dec, WithCache(newCache(t)))
	_, err := l.Load(context.Background(), "n1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx, func(id string) { changed <- id }) }()

	// The watcher may not be registered yet, so keep touching the file.
	require.Eventually(t, func() bool {
		writeClip(t, dir, "n1", "new")
		select {
		case id := <-changed:
			return id == "n1"
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	l.mu.Lock()
	_, cached := l.keys["n1"]
	l.mu.Unlock()
	assert.False(t, cached)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	l := NewLibrary(filepath.Join(t.TempDir(), "missing"), &fakeDecoder{})
	assert.Error(t, l.Watch(context.Background(), nil))
}
