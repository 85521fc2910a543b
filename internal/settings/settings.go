// Package settings is the single source of truth for the user's appearance
// and accessibility preferences. Preferences are loaded once at startup,
// changed through the Store, and written back after every change.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// RecordKey is the storage key under which preferences are persisted.
const RecordKey = "aac-settings"

var (
	// ErrInvalidGridDensity is returned for densities other than 2, 3 or 4.
	ErrInvalidGridDensity = errors.New("grid density must be 2, 3 or 4")

	// ErrInvalidFontSize is returned for unknown font sizes.
	ErrInvalidFontSize = errors.New("font size must be normal, large or elder")
)

// GridDensity is the number of symbol columns on the board.
type GridDensity int

// Supported grid densities.
const (
	GridDensity2 GridDensity = 2
	GridDensity3 GridDensity = 3
	GridDensity4 GridDensity = 4
)

// Valid reports whether d is a supported density.
func (d GridDensity) Valid() bool {
	return d == GridDensity2 || d == GridDensity3 || d == GridDensity4
}

// FontSize is the text scale of the board.
type FontSize string

// Supported font sizes.
const (
	FontNormal FontSize = "normal"
	FontLarge  FontSize = "large"
	FontElder  FontSize = "elder"
)

// FontSizes lists the font sizes in increasing order.
var FontSizes = []FontSize{FontNormal, FontLarge, FontElder}

// Valid reports whether f is a supported font size.
func (f FontSize) Valid() bool {
	return f == FontNormal || f == FontLarge || f == FontElder
}

// Label returns the Lao display label for f.
func (f FontSize) Label() string {
	switch f {
	case FontLarge:
		return "ໃຫຍ່"
	case FontElder:
		return "ຜູ້ສູງອາຍຸ"
	default:
		return "ປົກກະຕິ"
	}
}

// ParseFontSize converts s into a FontSize.
func ParseFontSize(s string) (FontSize, error) {
	f := FontSize(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFontSize, s)
	}
	return f, nil
}

// Settings is the persisted preference record. The grid density is stored
// under "gridSize" to stay readable by older records.
type Settings struct {
	DarkMode     bool        `json:"darkMode"`
	GridDensity  GridDensity `json:"gridSize"`
	HighContrast bool        `json:"highContrast"`
	FontSize     FontSize    `json:"fontSize"`
}

// Defaults returns the preferences used when nothing has been stored yet.
func Defaults() Settings {
	return Settings{
		DarkMode:     false,
		GridDensity:  GridDensity4,
		HighContrast: false,
		FontSize:     FontNormal,
	}
}

// Appearance is the part of Settings that must reach the presentation root
// before it is first shown.
func (s Settings) Appearance() Appearance {
	return Appearance{DarkMode: s.DarkMode, FontSize: s.FontSize}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	DarkMode     *bool
	GridDensity  *GridDensity
	HighContrast *bool
	FontSize     *FontSize
}

// Validate checks the values set in p.
func (p Patch) Validate() error {
	if p.GridDensity != nil && !p.GridDensity.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGridDensity, *p.GridDensity)
	}
	if p.FontSize != nil && !p.FontSize.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFontSize, *p.FontSize)
	}
	return nil
}

// Apply returns s with the fields of p merged over it.
func (p Patch) Apply(s Settings) Settings {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.GridDensity != nil {
		s.GridDensity = *p.GridDensity
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	return s
}

// decode parses a stored record and merges it over the defaults. Fields
// absent from older or partial records take their default; out-of-range
// values are cleared first so the merge replaces them too.
func decode(raw []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Defaults(), fmt.Errorf("decode settings: %w", err)
	}
	if !s.GridDensity.Valid() {
		s.GridDensity = 0
	}
	if !s.FontSize.Valid() {
		s.FontSize = ""
	}
	if err := mergo.Merge(&s, Defaults()); err != nil {
		return Defaults(), fmt.Errorf("merge settings: %w", err)
	}
	return s, nil
}

func encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}
