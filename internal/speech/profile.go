// Package speech synthesizes Lao speech for symbols that have no recorded
// clip, using the edge-tts command line tool.
package speech

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
)

// Profile describes the voice used for fallback synthesis.
type Profile struct {
	Voice  string  `mapstructure:"voice"`
	Locale string  `mapstructure:"locale"`
	Rate   float64 `mapstructure:"rate"`   // 1.0 is normal speed
	Pitch  float64 `mapstructure:"pitch"`  // 1.0 is the voice's own pitch
	Volume float64 `mapstructure:"volume"` // 0.0 to 1.0
}

// DefaultProfile speaks Lao slightly slower than normal.
func DefaultProfile() Profile {
	return Profile{
		Voice:  "lo-LA-KeomanyNeural",
		Locale: "lo-LA",
		Rate:   0.9,
		Pitch:  1.0,
		Volume: 1.0,
	}
}

// Validate checks the profile ranges and that the voice speaks the
// profile's language.
func (p Profile) Validate() error {
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", p.Locale, err)
	}
	if p.Voice == "" {
		return fmt.Errorf("voice is required")
	}
	if p.Rate <= 0 || p.Rate > 3 {
		return fmt.Errorf("rate must be in (0, 3], got %g", p.Rate)
	}
	if p.Pitch <= 0 || p.Pitch > 2 {
		return fmt.Errorf("pitch must be in (0, 2], got %g", p.Pitch)
	}
	if p.Volume < 0 || p.Volume > 1 {
		return fmt.Errorf("volume must be in [0, 1], got %g", p.Volume)
	}

	// Neural voice names start with their locale, e.g. lo-LA-KeomanyNeural.
	parts := strings.SplitN(p.Voice, "-", 3)
	if len(parts) == 3 {
		voiceTag, err := language.Parse(parts[0] + "-" + parts[1])
		if err == nil {
			want, _ := tag.Base()
			got, _ := voiceTag.Base()
			if want != got {
				return fmt.Errorf("voice %s does not speak %s", p.Voice, p.Locale)
			}
		}
	}
	return nil
}

// Args returns the edge-tts flags for the profile.
func (p Profile) Args() []string {
	return []string{
		"--voice", p.Voice,
		"--rate=" + percent(p.Rate-1),
		"--pitch=" + fmt.Sprintf("%+dHz", int(math.Round((p.Pitch-1)*50))),
		"--volume=" + percent(p.Volume-1),
	}
}

// percent formats a relative change, e.g. -0.1 as "-10%".
func percent(delta float64) string {
	return fmt.Sprintf("%+d%%", int(math.Round(delta*100)))
}

// String identifies the profile in cache keys and logs.
func (p Profile) String() string {
	return fmt.Sprintf("%s/%s/r%.2f/p%.2f/v%.2f", p.Locale, p.Voice, p.Rate, p.Pitch, p.Volume)
}
