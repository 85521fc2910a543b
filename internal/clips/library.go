// Package clips resolves symbol ids to their pre-recorded audio clips and
// loads them as PCM.
package clips

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/cache"
)

// Ext is the extension of recorded clips.
const Ext = ".mp3"

var (
	// ErrClipNotFound is returned when a symbol has no recorded clip. It is
	// an expected condition and triggers fallback synthesis.
	ErrClipNotFound = errors.New("clip not found")

	// ErrInvalidID is returned for ids that cannot name a file.
	ErrInvalidID = errors.New("invalid clip id")
)

// Decoder turns a clip file into PCM.
type Decoder interface {
	DecodeFile(ctx context.Context, path string) ([]byte, error)
}

// Cache stores decoded clips.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Invalidate(key string) error
}

// Library loads recorded clips from a directory laid out as <dir>/<id>.mp3.
type Library struct {
	dir     string
	decoder Decoder
	cache   Cache
	logger  *log.Logger

	mu   sync.Mutex
	keys map[string]string // id -> cache key of the last decoded version
}

// Option configures a Library.
type Option func(*Library)

// WithCache caches decoded clips.
func WithCache(c Cache) Option {
	return func(l *Library) { l.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// NewLibrary creates a library rooted at dir.
func NewLibrary(dir string, decoder Decoder, opts ...Option) *Library {
	l := &Library{
		dir:     dir,
		decoder: decoder,
		logger:  log.Default(),
		keys:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the clip directory.
func (l *Library) Dir() string {
	return l.dir
}

// Path returns the locator of the clip for id.
func (l *Library) Path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(l.dir, id+Ext), nil
}

// Exists reports whether a clip is recorded for id.
func (l *Library) Exists(id string) bool {
	path, err := l.Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load returns the decoded clip for id.
func (l *Library) Load(ctx context.Context, id string) ([]byte, error) {
	path, err := l.Path(id)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrClipNotFound)
		}
		return nil, fmt.Errorf("stat clip %s: %w", id, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", id, ErrClipNotFound)
	}

	// The file's identity is part of the key so a re-recorded clip is never
	// served stale, even from a disk cache written by an earlier run.
	key := cache.Key("recorded", id,
		strconv.FormatInt(info.ModTime().UnixNano(), 10),
		strconv.FormatInt(info.Size(), 10))

	if l.cache != nil {
		if pcm, ok := l.cache.Get(key); ok {
			return pcm, nil
		}
	}

	pcm, err := l.decoder.DecodeFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrClipNotFound)
		}
		return nil, fmt.Errorf("decode clip %s: %w", id, err)
	}

	if l.cache != nil {
		if err := l.cache.Put(key, pcm); err != nil {
			l.logger.Warn("failed to cache clip", "id", id, "err", err)
		}
		l.remember(id, key)
	}
	return pcm, nil
}

// Invalidate drops the cached clip for id.
func (l *Library) Invalidate(id string) {
	l.mu.Lock()
	key, ok := l.keys[id]
	delete(l.keys, id)
	l.mu.Unlock()

	if ok && l.cache != nil {
		if err := l.cache.Invalidate(key); err != nil {
			l.logger.Warn("failed to invalidate clip", "id", id, "err", err)
		}
	}
}

func (l *Library) remember(id, key string) {
	l.mu.Lock()
	old, ok := l.keys[id]
	l.keys[id] = key
	l.mu.Unlock()

	if ok && old != key && l.cache != nil {
		l.cache.Invalidate(old)
	}
}

// IDs lists the ids that have a recorded clip.
func (l *Library) IDs() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if id, ok := clipID(e.Name()); ok && e.Type().IsRegular() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func clipID(name string) (string, bool) {
	if !strings.HasSuffix(name, Ext) {
		return "", false
	}
	id := strings.TrimSuffix(name, Ext)
	return id, id != ""
}
