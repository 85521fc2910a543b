// Package main provides the entry point for the aacboard CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/session"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/laoaac/aacboard/ui"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	mouse      bool
	mute       bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "aacboard",
		Short: "A picture communication board for the terminal",
		Long: paragraph(
			fmt.Sprintf("\nA picture %s board: pick symbols, build a sentence, and hear it spoken in Lao.", keyword("communication")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// grab config values from Viper
	mouse = viper.GetBool("mouse")
	mute = viper.GetBool("mute")
	debug = viper.GetBool("debug")
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if _, err := speechProfile(); err != nil {
		return err
	}
	if n := viper.GetInt("speech.requests_per_minute"); n < 1 || n > 600 {
		return fmt.Errorf("speech.requests_per_minute must be between 1 and 600, got %d", n)
	}
	if lvl := viper.GetInt("audio.cache.compression"); lvl < 1 || lvl > 4 {
		return fmt.Errorf("audio.cache.compression must be between 1 and 4, got %d", lvl)
	}
	return nil
}

func execute(*cobra.Command, []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the board needs a terminal; use 'aacboard speak' from scripts")
	}
	return runTUI()
}

func runTUI() error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.EnableMouse = mouse
	cfg.Mute = mute

	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close() //nolint:errcheck

	// Appearance is restored before anything is drawn.
	theme := ui.NewTheme()
	store := openSettings(kv, theme)
	defer store.Close()

	events := ui.NewMailbox()
	v, err := openVoice(cfg.Mute, events.Observe)
	if err != nil {
		return err
	}
	defer v.Close()

	sess := session.New(symbols.Default(), v.controller)

	// Run Bubble Tea program
	p := ui.NewProgram(cfg, ui.Deps{
		Session:  sess,
		Settings: store,
		Theme:    theme,
		Events:   events,
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "do not open the audio device")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("mute", rootCmd.PersistentFlags().Lookup("mute"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	setDefaults()

	rootCmd.AddCommand(configCmd, manCmd, speakCmd, settingsCmd, symbolsCmd, generateCmd)
}

func setDefaults() {
	scope := gap.NewScope(gap.User, "aacboard")
	audioDir, _ := scope.DataPath("audio")
	storageDir, _ := scope.DataPath("db")
	cacheDir, _ := scope.CacheDir()

	viper.SetDefault("mouse", false)
	viper.SetDefault("mute", false)
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.dir", audioDir)
	viper.SetDefault("audio.ffmpeg", "ffmpeg")
	viper.SetDefault("audio.decode_timeout", "30s")
	viper.SetDefault("audio.watch", true)
	viper.SetDefault("audio.cache.dir", cacheDir)
	viper.SetDefault("audio.cache.memory_mb", 64)
	viper.SetDefault("audio.cache.disk_mb", 512)
	viper.SetDefault("audio.cache.compression", 3)

	viper.SetDefault("speech.binary", "edge-tts")
	viper.SetDefault("speech.voice", "lo-LA-KeomanyNeural")
	viper.SetDefault("speech.locale", "lo-LA")
	viper.SetDefault("speech.rate", 0.9)
	viper.SetDefault("speech.pitch", 1.0)
	viper.SetDefault("speech.volume", 1.0)
	viper.SetDefault("speech.requests_per_minute", 60)
	viper.SetDefault("speech.timeout", "30s")

	viper.SetDefault("storage.dir", storageDir)

	viper.SetDefault("generate.timeout", "60s")
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "aacboard")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "aacboard")}, dirs...)
	}

	if c := os.Getenv("AACBOARD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("aacboard")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("aacboard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "aacboard.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
