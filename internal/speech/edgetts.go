package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/cache"
	"github.com/laoaac/aacboard/internal/subprocess"
	"golang.org/x/time/rate"
)

const (
	// maxTextLength bounds a single utterance in runes.
	maxTextLength = 1000

	defaultRequestsPerMinute = 60
)

var (
	// ErrSynthesisUnavailable is returned when no synthesis backend can run.
	ErrSynthesisUnavailable = errors.New("speech synthesis unavailable")

	// ErrEmptyText is returned when asked to speak nothing.
	ErrEmptyText = errors.New("text cannot be empty")
)

// Synthesizer turns text into playable PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Decoder converts the synthesized mp3 into PCM.
type Decoder interface {
	Decode(ctx context.Context, encoded []byte) ([]byte, error)
}

// Cache stores synthesized PCM.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Config configures an EdgeTTS synthesizer.
type Config struct {
	Profile Profile

	// Binary is the edge-tts executable. Defaults to "edge-tts".
	Binary string

	// RequestsPerMinute limits calls to the online voice service.
	RequestsPerMinute int

	// Timeout bounds a single edge-tts invocation.
	Timeout time.Duration

	// KillDelay bounds how long a cancelled edge-tts may linger; see
	// subprocess.Runner.
	KillDelay time.Duration

	TempDir string

	Decoder Decoder
	Cache   Cache
	Logger  *log.Logger
}

// EdgeTTS synthesizes speech with edge-tts and decodes it with ffmpeg.
type EdgeTTS struct {
	profile Profile
	binary  string
	tempDir string

	limiter *rate.Limiter
	runner  subprocess.Runner
	decoder Decoder
	cache   Cache
	logger  *log.Logger
}

// NewEdgeTTS creates a synthesizer. It does not check that edge-tts is
// installed; see Available.
func NewEdgeTTS(config Config) (*EdgeTTS, error) {
	if err := config.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid speech profile: %w", err)
	}
	if config.Binary == "" {
		config.Binary = "edge-tts"
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaultRequestsPerMinute
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	return &EdgeTTS{
		profile: config.Profile,
		binary:  config.Binary,
		tempDir: config.TempDir,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
		runner:  subprocess.Runner{Timeout: config.Timeout, KillDelay: config.KillDelay},
		decoder: config.Decoder,
		cache:   config.Cache,
		logger:  config.Logger,
	}, nil
}

// Profile returns the voice profile.
func (e *EdgeTTS) Profile() Profile {
	return e.profile
}

// Available reports whether edge-tts can be run.
func (e *EdgeTTS) Available() error {
	if err := subprocess.Available(e.binary); err != nil {
		return fmt.Errorf("%w: %w", ErrSynthesisUnavailable, err)
	}
	return nil
}

// Synthesize returns PCM for text.
func (e *EdgeTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text, err := checkText(text)
	if err != nil {
		return nil, err
	}
	if e.decoder == nil {
		return nil, fmt.Errorf("%w: no decoder", ErrSynthesisUnavailable)
	}

	key := cache.Key("synth", e.profile.String(), text)
	if e.cache != nil {
		if pcm, ok := e.cache.Get(key); ok {
			return pcm, nil
		}
	}

	mp3, err := e.mp3(ctx, text)
	if err != nil {
		return nil, err
	}

	pcm, err := e.decoder.Decode(ctx, mp3)
	if err != nil {
		return nil, fmt.Errorf("decode speech: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Put(key, pcm); err != nil {
			e.logger.Debug("failed to cache speech", "err", err)
		}
	}
	return pcm, nil
}

// WriteMP3 synthesizes text into an mp3 file at path.
func (e *EdgeTTS) WriteMP3(ctx context.Context, text, path string) error {
	text, err := checkText(text)
	if err != nil {
		return err
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	args := append([]string{"--text", text}, e.profile.Args()...)
	args = append(args, "--write-media", path)

	if _, err := e.runner.Run(ctx, nil, e.binary, args...); err != nil {
		if errors.Is(err, subprocess.ErrNotInstalled) {
			return fmt.Errorf("%w: %w", ErrSynthesisUnavailable, err)
		}
		return fmt.Errorf("edge-tts: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("edge-tts wrote no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("edge-tts produced an empty file")
	}
	return nil
}

func (e *EdgeTTS) mp3(ctx context.Context, text string) ([]byte, error) {
	f, err := os.CreateTemp(e.tempDir, "aacboard-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := e.WriteMP3(ctx, text, path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func checkText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > maxTextLength {
		return "", fmt.Errorf("text too long: %d characters (max %d)", n, maxTextLength)
	}
	return text, nil
}

// Unavailable is a Synthesizer for when no backend is installed.
type Unavailable struct {
	Reason error
}

func (u Unavailable) Synthesize(context.Context, string) ([]byte, error) {
	if u.Reason != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisUnavailable, u.Reason)
	}
	return nil, ErrSynthesisUnavailable
}

var (
	_ Synthesizer = (*EdgeTTS)(nil)
	_ Synthesizer = Unavailable{}
)
