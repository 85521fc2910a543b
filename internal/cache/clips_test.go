package cache

import (
	"bytes"
	"testing"
)

func TestDiskCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}

	// Silence compresses well, so this entry goes through zstd.
	pcm := make([]byte, 8192)
	if err := dc.Put("recorded|n1", pcm); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if s := dc.Stats(); s.Size >= int64(len(pcm)) {
		t.Errorf("stored size %d, expected compression", s.Size)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dc, err = NewDiskCache(dir, 1<<20, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer dc.Close()

	got, ok := dc.Get("recorded|n1")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if !bytes.Equal(got, pcm) {
		t.Error("round trip changed the clip")
	}
}

func TestDiskCache_Eviction(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	dc.Put("a", make([]byte, 60))
	dc.Put("b", make([]byte, 60))

	if dc.Contains("a") {
		t.Error("oldest entry not evicted")
	}
	if !dc.Contains("b") {
		t.Error("newest entry missing")
	}
	if dc.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d", dc.Stats().Evictions)
	}
}

func TestClipCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig()
	config.DiskPath = dir

	cc, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	key := Key("recorded", "n1")
	if err := cc.Put(key, []byte("clip")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cc.Close(); err != nil {
		t.Fatal(err)
	}

	// A fresh cache starts with an empty memory tier.
	cc, err = New(config)
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Close()

	if got, ok := cc.Get(key); !ok || string(got) != "clip" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if cc.Promotions() != 1 {
		t.Errorf("Promotions = %d, want 1", cc.Promotions())
	}
	if s := cc.Stats(); len(s) != 2 || s[0].ItemCount != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestClipCache_Invalidate(t *testing.T) {
	config := DefaultConfig()
	config.DiskPath = t.TempDir()
	cc, err := New(config)
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Close()

	cc.Put("k", []byte("v"))
	if err := cc.Invalidate("k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := cc.Get("k"); ok {
		t.Error("entry survived Invalidate")
	}
}

func TestClipCache_MemoryOnly(t *testing.T) {
	cc, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(cc.Stats()) != 1 {
		t.Errorf("expected a single tier")
	}
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for zero capacity")
	}
}
