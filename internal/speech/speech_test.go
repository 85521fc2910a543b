package speech

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laoaac/aacboard/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEdgeTTS writes the requested text as the "mp3" and counts calls.
const fakeEdgeTTS = `#!/bin/sh
echo call >> "$(dirname "$0")/calls"
while [ $# -gt 0 ]; do
  case "$1" in
    --write-media) shift; out="$1" ;;
    --text) shift; text="$1" ;;
  esac
  shift
done
printf '%s' "$text" > "$out"
`

type passthrough struct{}

func (passthrough) Decode(_ context.Context, b []byte) ([]byte, error) { return b, nil }

func installFake(t *testing.T) (binary string, calls func() int) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	binary = filepath.Join(dir, "edge-tts")
	require.NoError(t, os.WriteFile(binary, []byte(fakeEdgeTTS), 0o755))
	return binary, func() int {
		data, _ := os.ReadFile(filepath.Join(dir, "calls"))
		return strings.Count(string(data), "call")
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())
	assert.Equal(t, "lo-LA", p.Locale)
	assert.InDelta(t, 0.9, p.Rate, 1e-9)

	assert.Equal(t, []string{
		"--voice", "lo-LA-KeomanyNeural",
		"--rate=-10%",
		"--pitch=+0Hz",
		"--volume=+0%",
	}, p.Args())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Profile)
	}{
		{"bad locale", func(p *Profile) { p.Locale = "not a locale!" }},
		{"no voice", func(p *Profile) { p.Voice = "" }},
		{"zero rate", func(p *Profile) { p.Rate = 0 }},
		{"pitch too high", func(p *Profile) { p.Pitch = 2.5 }},
		{"volume too high", func(p *Profile) { p.Volume = 1.5 }},
		{"voice for another language", func(p *Profile) { p.Voice = "th-TH-PremwadeeNeural" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.modify(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestSynthesize(t *testing.T) {
	binary, calls := installFake(t)

	c, err := cache.New(cache.DefaultConfig())
	require.NoError(t, err)

	e, err := NewEdgeTTS(Config{
		Profile:           DefaultProfile(),
		Binary:            binary,
		RequestsPerMinute: 6000,
		TempDir:           t.TempDir(),
		Decoder:           passthrough{},
		Cache:             c,
	})
	require.NoError(t, err)
	require.NoError(t, e.Available())

	pcm, err := e.Synthesize(context.Background(), "  ສະບາຍດີ ")
	require.NoError(t, err)
	assert.Equal(t, "ສະບາຍດີ", string(pcm))

	_, err = e.Synthesize(context.Background(), "ສະບາຍດີ")
	require.NoError(t, err)
	assert.Equal(t, 1, calls(), "second request should hit the cache")
}

func TestSynthesizeErrors(t *testing.T) {
	e, err := NewEdgeTTS(Config{
		Profile: DefaultProfile(),
		Binary:  "aacboard-no-such-edge-tts",
		Decoder: passthrough{},
		TempDir: t.TempDir(),
	})
	require.NoError(t, err)

	_, err = e.Synthesize(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = e.Synthesize(context.Background(), strings.Repeat("ກ", maxTextLength+1))
	assert.Error(t, err)

	assert.ErrorIs(t, e.Available(), ErrSynthesisUnavailable)
	_, err = e.Synthesize(context.Background(), "ນ້ຳ")
	assert.ErrorIs(t, err, ErrSynthesisUnavailable)
}

func TestWriteMP3(t *testing.T) {
	binary, _ := installFake(t)
	e, err := NewEdgeTTS(Config{Profile: DefaultProfile(), Binary: binary, RequestsPerMinute: 6000})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "n1.mp3")
	require.NoError(t, e.WriteMP3(context.Background(), "ນ້ຳ", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ນ້ຳ", string(data))
}

func TestNewEdgeTTSRejectsBadProfile(t *testing.T) {
	p := DefaultProfile()
	p.Rate = -1
	_, err := NewEdgeTTS(Config{Profile: p})
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSynthesisUnavailable)
}
