package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/audio"
	"github.com/laoaac/aacboard/internal/cache"
	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/playback"
	"github.com/laoaac/aacboard/internal/settings"
	"github.com/laoaac/aacboard/internal/speech"
	"github.com/laoaac/aacboard/internal/storage"
	"github.com/laoaac/aacboard/internal/subprocess"
	"github.com/laoaac/aacboard/utils"
	"github.com/spf13/viper"
)

// openStorage opens the preference database at storage.dir.
func openStorage() (*storage.Badger, error) {
	dir := utils.ExpandPath(viper.GetString("storage.dir"))
	if dir == "" {
		return nil, errors.New("storage.dir is not set")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("unable to create storage directory: %w", err)
	}
	kv, err := storage.OpenBadger(storage.BadgerOptions{Dir: dir, Scope: "board"})
	if err != nil {
		return nil, fmt.Errorf("unable to open storage: %w", err)
	}
	return kv, nil
}

// openSettings restores appearance into presenter and returns the store
// over kv.
func openSettings(kv storage.KV, presenter settings.Presenter) *settings.Store {
	opts := []settings.Option{settings.WithLogger(log.Default())}
	if presenter != nil {
		settings.Bootstrap(kv, presenter)
		opts = append(opts, settings.WithPresenter(presenter))
	}
	return settings.NewStore(kv, opts...)
}

func speechProfile() (speech.Profile, error) {
	p := speech.DefaultProfile()
	if err := viper.UnmarshalKey("speech", &p); err != nil {
		return p, fmt.Errorf("unable to read speech config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid speech config: %w", err)
	}
	return p, nil
}

func audioDir() string {
	return utils.ExpandPath(viper.GetString("audio.dir"))
}

// playbackKillDelay bounds how long Speak and Stop wait for a cancelled
// decoder or synthesizer process.
const playbackKillDelay = 20 * time.Millisecond

func decoder() audio.Decoder {
	return audio.Decoder{
		Binary: viper.GetString("audio.ffmpeg"),
		Runner: subprocess.Runner{
			Timeout:   viper.GetDuration("audio.decode_timeout"),
			KillDelay: playbackKillDelay,
		},
	}
}

// newEdgeTTS builds the edge-tts synthesizer from the speech config.
// killDelay is zero for offline generation.
func newEdgeTTS(dec speech.Decoder, c speech.Cache, timeout string, killDelay time.Duration) (*speech.EdgeTTS, error) {
	profile, err := speechProfile()
	if err != nil {
		return nil, err
	}
	return speech.NewEdgeTTS(speech.Config{
		Profile:           profile,
		Binary:            viper.GetString("speech.binary"),
		RequestsPerMinute: viper.GetInt("speech.requests_per_minute"),
		Timeout:           viper.GetDuration(timeout),
		KillDelay:         killDelay,
		Decoder:           dec,
		Cache:             c,
		Logger:            log.Default(),
	})
}

// voice is the sound side of the board: clips, synthesis and the player,
// tied together by the playback controller.
type voice struct {
	cache      *cache.ClipCache
	library    *clips.Library
	player     audio.Player
	controller *playback.Controller
	cancel     context.CancelFunc
}

func openVoice(mute bool, observer playback.Observer) (*voice, error) {
	dec := decoder()
	if err := dec.Validate(); err != nil {
		log.Warn("Audio decoder not available, only silence will be played", "err", err)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.MemoryCapacity = viper.GetInt64("audio.cache.memory_mb") << 20
	cacheCfg.DiskCapacity = viper.GetInt64("audio.cache.disk_mb") << 20
	cacheCfg.CompressionLevel = viper.GetInt("audio.cache.compression")
	if dir := viper.GetString("audio.cache.dir"); dir != "" {
		cacheCfg.DiskPath = filepath.Join(utils.ExpandPath(dir), "clips")
	}
	cc, err := cache.New(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create clip cache: %w", err)
	}

	v := &voice{cache: cc}
	v.library = clips.NewLibrary(audioDir(), dec,
		clips.WithCache(cc),
		clips.WithLogger(log.Default()),
	)

	var synth speech.Synthesizer
	edge, err := newEdgeTTS(dec, cc, "speech.timeout", playbackKillDelay)
	if err == nil {
		err = edge.Available()
	}
	if err != nil {
		log.Warn("Speech synthesis disabled", "err", err)
		synth = speech.Unavailable{Reason: err}
	} else {
		log.Debug("Speech synthesis ready", "profile", edge.Profile())
		synth = edge
	}

	v.player = openPlayer(mute)

	var opts []playback.Option
	opts = append(opts, playback.WithLogger(log.Default()))
	if observer != nil {
		opts = append(opts, playback.WithObserver(observer))
	}
	v.controller = playback.New(v.player, v.library, synth, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	if viper.GetBool("audio.watch") {
		go func() {
			err := v.library.Watch(ctx, func(id string) {
				log.Debug("Clip changed", "id", id)
			})
			if err != nil {
				log.Warn("Stopped watching audio directory", "err", err)
			}
		}()
	}
	return v, nil
}

// openPlayer returns the sound card player, or a silent one when muted or
// when no device is available.
func openPlayer(mute bool) audio.Player {
	if !mute {
		p, err := audio.NewOtoPlayer(audio.DefaultPlayerConfig())
		if err == nil {
			return p
		}
		log.Warn("No audio device, playing silently", "err", err)
	}
	return audio.NewMockPlayer(audio.MockCallbacks{})
}

func (v *voice) Close() {
	v.cancel()
	v.controller.Close()
	if err := v.player.Close(); err != nil {
		log.Warn("Could not close audio player", "err", err)
	}
	if err := v.cache.Close(); err != nil {
		log.Warn("Could not close clip cache", "err", err)
	}
}
