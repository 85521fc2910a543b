package audio

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/laoaac/aacboard/internal/subprocess"
)

// maxPCMSize caps decoded output; clips on the board are single words.
const maxPCMSize = 20 * 1024 * 1024

// Decoder converts compressed audio into playable PCM using ffmpeg.
type Decoder struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg".
	Binary string

	// Tempo adjusts playback speed (0.5 to 2.0). Zero or 1.0 leaves it.
	Tempo float64

	Runner subprocess.Runner
}

// Validate checks that ffmpeg is available.
func (d Decoder) Validate() error {
	return subprocess.Available(d.binary())
}

// DecodeFile decodes the file at path.
func (d Decoder) DecodeFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Decode(ctx, data)
}

// Decode decodes an in-memory clip (mp3, wav, ogg, ...).
func (d Decoder) Decode(ctx context.Context, encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, ErrEmptyAudio
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
	}
	if d.Tempo > 0 && d.Tempo != 1.0 {
		tempo := d.Tempo
		if tempo < 0.5 {
			tempo = 0.5
		} else if tempo > 2.0 {
			tempo = 2.0
		}
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", tempo))
	}
	args = append(args, "pipe:1")

	pcm, err := d.Runner.Run(ctx, encoded, d.binary(), args...)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("decode audio: ffmpeg produced no output")
	}
	if len(pcm) > maxPCMSize {
		return nil, fmt.Errorf("decode audio: output too large: %d bytes (max %d)", len(pcm), maxPCMSize)
	}
	return pcm, nil
}

func (d Decoder) binary() string {
	if d.Binary == "" {
		return "ffmpeg"
	}
	return d.Binary
}
