package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		pcm  []byte
		want time.Duration
	}{
		{"empty", nil, 0},
		{"one second", make([]byte, SampleRate*2), time.Second},
		{"half second", make([]byte, SampleRate), 500 * time.Millisecond},
		{"odd trailing byte", make([]byte, 3), time.Second / SampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.pcm); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSilence(t *testing.T) {
	pcm := Silence(100 * time.Millisecond)
	if len(pcm) != 8820 {
		t.Fatalf("expected 8820 bytes, got %d", len(pcm))
	}
	if Duration(pcm) != 100*time.Millisecond {
		t.Errorf("round trip duration = %v", Duration(pcm))
	}
}

func TestStreamCopiesAndReleases(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	s := newStream(src)
	src[0] = 9

	buf := make([]byte, 2)
	n, err := s.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("Read() = %d, %v", n, err)
	}
	if buf[0] != 1 {
		t.Errorf("stream shares caller buffer")
	}

	s.Close()
	if _, err := s.Read(buf); err != io.EOF {
		t.Errorf("Read after Close = %v, want EOF", err)
	}
}

func TestDecoder(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// A stand-in ffmpeg that echoes its input.
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\ncat\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	d := Decoder{Binary: fake}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	in := []byte("not really mp3")
	pcm, err := d.Decode(context.Background(), in)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(pcm, in) {
		t.Errorf("Decode() = %q, want %q", pcm, in)
	}

	clip := filepath.Join(dir, "n1.mp3")
	if err := os.WriteFile(clip, in, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.DecodeFile(context.Background(), clip); err != nil {
		t.Errorf("DecodeFile() error = %v", err)
	}

	if _, err := d.DecodeFile(context.Background(), filepath.Join(dir, "missing.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DecodeFile(missing) = %v, want ErrNotExist", err)
	}

	if _, err := d.Decode(context.Background(), nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("Decode(nil) = %v, want ErrEmptyAudio", err)
	}
}

func TestDecoderMissingBinary(t *testing.T) {
	d := Decoder{Binary: "aacboard-no-such-ffmpeg"}
	if err := d.Validate(); err == nil {
		t.Error("expected Validate to fail")
	}
	if _, err := d.Decode(context.Background(), []byte{1}); err == nil {
		t.Error("expected Decode to fail")
	}
}
