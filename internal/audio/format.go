package audio

import (
	"errors"
	"time"
)

// All audio handled by the board is 16-bit little-endian mono PCM at
// 44.1kHz, the format oto plays reliably everywhere.
const (
	SampleRate     = 44100
	Channels       = 1
	BitDepth       = 16
	bytesPerSample = BitDepth / 8
)

var (
	// ErrEmptyAudio is returned when asked to play no data.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrPlayerClosed is returned by Play after Close.
	ErrPlayerClosed = errors.New("player is closed")
)

// Duration returns the playing time of pcm.
func Duration(pcm []byte) time.Duration {
	samples := len(pcm) / (Channels * bytesPerSample)
	return time.Duration(samples) * time.Second / SampleRate
}

// Silence returns d worth of silent PCM.
func Silence(d time.Duration) []byte {
	samples := int(d * SampleRate / time.Second)
	return make([]byte, samples*Channels*bytesPerSample)
}
