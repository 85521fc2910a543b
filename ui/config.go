package ui

// Config contains TUI-specific configuration.
type Config struct {
	EnableMouse bool

	// Mute keeps the audio device closed; sounds are played silently.
	Mute bool

	// Show the English gloss under each symbol.
	ShowEnglish bool `env:"AACBOARD_SHOW_ENGLISH" envDefault:"true"`

	// For debugging the UI
	AltScreen bool `env:"AACBOARD_ALT_SCREEN" envDefault:"true"`
}
