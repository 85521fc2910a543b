package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// ClipCache is the two-tier cache used for decoded clips. Disk hits are
// promoted to memory.
type ClipCache struct {
	memory *MemoryCache
	disk   *DiskCache // nil when disabled

	mu         sync.Mutex
	promotions int64
}

// New creates a clip cache from config.
func New(config Config) (*ClipCache, error) {
	if config.MemoryCapacity <= 0 {
		return nil, fmt.Errorf("memory capacity must be positive, got %d", config.MemoryCapacity)
	}

	cc := &ClipCache{memory: NewMemoryCache(config.MemoryCapacity)}
	if config.DiskPath != "" {
		disk, err := NewDiskCache(config.DiskPath, config.DiskCapacity, config.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		cc.disk = disk
	}

	log.Debug("clip cache ready",
		"memory", humanize.IBytes(uint64(config.MemoryCapacity)),
		"disk", config.DiskPath != "")
	return cc, nil
}

// Key builds a cache key from its parts, e.g. Key("recorded", "n1").
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

func (cc *ClipCache) Get(key string) ([]byte, bool) {
	if data, ok := cc.memory.Get(key); ok {
		return data, true
	}
	if cc.disk == nil {
		return nil, false
	}
	data, ok := cc.disk.Get(key)
	if !ok {
		return nil, false
	}

	if err := cc.memory.Put(key, data); err == nil {
		cc.mu.Lock()
		cc.promotions++
		cc.mu.Unlock()
	}
	return data, true
}

// Put stores value in every tier. A value too large for memory is still
// written to disk.
func (cc *ClipCache) Put(key string, value []byte) error {
	err := cc.memory.Put(key, value)
	if err != nil && !errors.Is(err, ErrItemTooLarge) {
		return err
	}
	if cc.disk != nil {
		if derr := cc.disk.Put(key, value); derr != nil {
			return fmt.Errorf("disk tier: %w", derr)
		}
		return nil
	}
	return err
}

// Invalidate removes key from every tier.
func (cc *ClipCache) Invalidate(key string) error {
	err := cc.memory.Delete(key)
	if cc.disk != nil {
		err = errors.Join(err, cc.disk.Delete(key))
	}
	return err
}

// Clear empties every tier.
func (cc *ClipCache) Clear() error {
	err := cc.memory.Clear()
	if cc.disk != nil {
		err = errors.Join(err, cc.disk.Clear())
	}
	return err
}

// Stats returns per-tier metrics, memory first.
func (cc *ClipCache) Stats() []Stats {
	out := []Stats{cc.memory.Stats()}
	if cc.disk != nil {
		out = append(out, cc.disk.Stats())
	}
	return out
}

// Promotions returns how many disk hits were copied into memory.
func (cc *ClipCache) Promotions() int64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.promotions
}

// Close flushes the disk tier and logs usage.
func (cc *ClipCache) Close() error {
	for i, s := range cc.Stats() {
		log.Debug("clip cache",
			"level", Level(i),
			"items", s.ItemCount,
			"size", humanize.IBytes(uint64(s.Size)),
			"hit_rate", fmt.Sprintf("%.0f%%", s.HitRate()*100))
	}
	if cc.disk != nil {
		return cc.disk.Close()
	}
	return nil
}
