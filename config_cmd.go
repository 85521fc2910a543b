package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# enable mouse support
mouse: false
# never open the audio device
mute: false
# log debug output to the log file
debug: false

audio:
  # recorded clips, one <symbol id>.mp3 per symbol
  # dir: "~/.local/share/aacboard/audio"
  # decoder used for clips and synthesized speech
  ffmpeg: "ffmpeg"
  decode_timeout: "30s"
  # pick up clips added or re-recorded while the board is open
  watch: true
  cache:
    # dir: "~/.cache/aacboard"
    memory_mb: 64
    disk_mb: 512
    # zstd level, 1 (fastest) to 4 (smallest)
    compression: 3

# fallback speech for symbols without a recorded clip
speech:
  binary: "edge-tts"
  voice: "lo-LA-KeomanyNeural"
  locale: "lo-LA"
  # 1.0 is normal speed
  rate: 0.9
  pitch: 1.0
  volume: 1.0
  requests_per_minute: 60
  timeout: "30s"

# where board settings are kept
# storage:
#   dir: "~/.local/share/aacboard/db"

generate:
  # per clip
  timeout: "60s"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the aacboard config file",
	Long:    paragraph(fmt.Sprintf("\n%s the aacboard config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("aacboard config\naacboard config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("aacboard", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
