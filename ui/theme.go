package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/laoaac/aacboard/internal/settings"
)

// Theme is the presentation root for appearance preferences. It receives
// dark mode and font size before the program starts and on every change.
type Theme struct {
	mu         sync.RWMutex
	appearance settings.Appearance
	applied    int
}

// NewTheme returns a theme with the default appearance.
func NewTheme() *Theme {
	return &Theme{appearance: settings.Defaults().Appearance()}
}

// ApplyAppearance implements settings.Presenter.
func (t *Theme) ApplyAppearance(a settings.Appearance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appearance = a
	t.applied++
}

// Appearance returns the current appearance.
func (t *Theme) Appearance() settings.Appearance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.appearance
}

// Applied returns how many times an appearance has been pushed.
func (t *Theme) Applied() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.applied
}

type palette struct {
	background lipgloss.Color
	foreground lipgloss.Color
	subtle     lipgloss.Color
	accent     lipgloss.Color
	danger     lipgloss.Color
	tileText   lipgloss.Color
}

var (
	lightPalette = palette{
		background: "#EEF2FF",
		foreground: "#1F2937",
		subtle:     "#6B7280",
		accent:     "#4F46E5",
		danger:     "#DC2626",
		tileText:   "#1F2937",
	}
	darkPalette = palette{
		background: "#111827",
		foreground: "#F3F4F6",
		subtle:     "#9CA3AF",
		accent:     "#818CF8",
		danger:     "#F87171",
		tileText:   "#111827",
	}
)

// Tile colours per hue, light then dark.
var hues = map[string][2]lipgloss.Color{
	"amber":   {"#FEF3C7", "#D4A72C"},
	"blue":    {"#DBEAFE", "#6B8FD6"},
	"cyan":    {"#CFFAFE", "#4FB3C4"},
	"emerald": {"#D1FAE5", "#4FAF8A"},
	"gray":    {"#F3F4F6", "#9CA3AF"},
	"green":   {"#DCFCE7", "#5FB878"},
	"indigo":  {"#E0E7FF", "#7F86D6"},
	"orange":  {"#FFEDD5", "#D98B4A"},
	"pink":    {"#FCE7F3", "#D07AA6"},
	"purple":  {"#F3E8FF", "#A27BD6"},
	"red":     {"#FEE2E2", "#D66B6B"},
	"rose":    {"#FFE4E6", "#D6707F"},
	"violet":  {"#EDE9FE", "#9A84D6"},
	"white":   {"#FFFFFF", "#D1D5DB"},
	"yellow":  {"#FEF9C3", "#CDB84A"},
}

// hueOf extracts the hue from a colour tag such as "bg-blue-100" or
// "from-amber-400 to-orange-500".
func hueOf(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return "gray"
	}
	parts := strings.Split(fields[0], "-")
	if len(parts) < 2 {
		return "gray"
	}
	if _, ok := hues[parts[1]]; !ok {
		return "gray"
	}
	return parts[1]
}

// styles is everything the view needs for one render.
type styles struct {
	palette      palette
	highContrast bool
	dark         bool

	// vertical padding inside tiles, grows with the font size
	tilePadding int
	emphasize   bool

	app            lipgloss.Style
	title          lipgloss.Style
	subtle         lipgloss.Style
	errorText      lipgloss.Style
	tab            lipgloss.Style
	activeTab      lipgloss.Style
	sentence       lipgloss.Style
	sentenceItem   lipgloss.Style
	sentenceCursor lipgloss.Style
	favorite       lipgloss.Style
	panel          lipgloss.Style
	selectedRow    lipgloss.Style
}

func (t *Theme) styles(highContrast bool) styles {
	a := t.Appearance()

	p := lightPalette
	if a.DarkMode {
		p = darkPalette
	}

	s := styles{palette: p, highContrast: highContrast, dark: a.DarkMode}
	switch a.FontSize {
	case settings.FontLarge:
		s.tilePadding = 1
	case settings.FontElder:
		s.tilePadding = 2
		s.emphasize = true
	}

	s.app = lipgloss.NewStyle().Padding(0, 1)
	s.title = lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	s.subtle = lipgloss.NewStyle().Foreground(p.subtle)
	s.errorText = lipgloss.NewStyle().Foreground(p.danger)
	s.tab = lipgloss.NewStyle().Padding(0, 1).Foreground(p.subtle)
	s.activeTab = lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(p.background).Background(p.accent)
	s.sentence = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1)
	s.sentenceItem = lipgloss.NewStyle().Padding(0, 1).Bold(s.emphasize)
	s.sentenceCursor = s.sentenceItem.Reverse(true)
	s.favorite = lipgloss.NewStyle().Foreground(p.danger)
	s.panel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.subtle).
		Padding(0, 1)
	s.selectedRow = lipgloss.NewStyle().Bold(true).Foreground(p.accent)

	if highContrast {
		s.sentence = s.sentence.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("#000000"))
		s.panel = s.panel.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("#000000"))
	}
	return s
}

// tile returns the style of a symbol tile of the given outer width.
func (s styles) tile(colorTag string, width int, selected bool) lipgloss.Style {
	st := lipgloss.NewStyle().
		Width(width-2).
		Align(lipgloss.Center).
		Padding(s.tilePadding, 0).
		Bold(s.emphasize).
		Border(lipgloss.RoundedBorder())

	if s.highContrast {
		st = st.Background(lipgloss.Color("#FFFFFF")).
			Foreground(lipgloss.Color("#000000")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#000000"))
	} else {
		shade := 0
		if s.dark {
			shade = 1
		}
		st = st.Background(hues[hueOf(colorTag)][shade]).
			Foreground(s.palette.tileText).
			BorderForeground(s.palette.subtle)
	}

	if selected {
		st = st.BorderForeground(s.palette.accent).Border(lipgloss.DoubleBorder())
	}
	return st
}
