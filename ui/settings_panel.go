package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/laoaac/aacboard/internal/settings"
)

// Rows of the settings panel.
const (
	rowGridDensity = iota
	rowFontSize
	rowHighContrast
	rowDarkMode
	settingsRows
)

var gridDensities = []settings.GridDensity{
	settings.GridDensity2,
	settings.GridDensity3,
	settings.GridDensity4,
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Settings):
		m.focus = focusGrid
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.settingsRow = (m.settingsRow - 1 + settingsRows) % settingsRows
	case key.Matches(msg, m.keys.Down):
		m.settingsRow = (m.settingsRow + 1) % settingsRows
	case key.Matches(msg, m.keys.Left):
		m.stepSetting(-1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Select):
		m.stepSetting(1)
	}
	m.clampCursor()
	return m, nil
}

// stepSetting moves the selected row's value by delta, wrapping around.
func (m *model) stepSetting(delta int) {
	cur := m.store.Get()

	switch m.settingsRow {
	case rowGridDensity:
		i := indexOf(gridDensities, cur.GridDensity)
		next := gridDensities[wrap(i+delta, len(gridDensities))]
		if _, err := m.store.SetGridDensity(next); err != nil {
			m.lastErr = err
		}
	case rowFontSize:
		i := indexOf(settings.FontSizes, cur.FontSize)
		next := settings.FontSizes[wrap(i+delta, len(settings.FontSizes))]
		if _, err := m.store.SetFontSize(next); err != nil {
			m.lastErr = err
		}
	case rowHighContrast:
		m.store.ToggleHighContrast()
	case rowDarkMode:
		m.store.ToggleDarkMode()
	}
}

func (m model) settingsView(st styles) string {
	cur := m.store.Get()

	onOff := func(b bool) string {
		if b {
			return "ເປີດ"
		}
		return "ປິດ"
	}

	var choices []string
	for _, d := range gridDensities {
		label := fmt.Sprintf("%dx%d", d, d)
		if d == cur.GridDensity {
			label = "[" + label + "]"
		}
		choices = append(choices, label)
	}
	grid := strings.Join(choices, " ")

	choices = choices[:0]
	for _, f := range settings.FontSizes {
		label := f.Label()
		if f == cur.FontSize {
			label = "[" + label + "]"
		}
		choices = append(choices, label)
	}
	font := strings.Join(choices, " ")

	rows := []string{
		"ຂະໜາດຕາຕະລາງ: " + grid,
		"ຂະໜາດຕົວອັກສອນ: " + font,
		"ສີຊັດເຈນ (High Contrast): " + onOff(cur.HighContrast),
		"ໂໝດມືດ (Dark Mode): " + onOff(cur.DarkMode),
	}

	var b strings.Builder
	b.WriteString(st.title.Render("ຕັ້ງຄ່າ"))
	b.WriteString("\n\n")
	for i, r := range rows {
		if i == m.settingsRow {
			b.WriteString(st.selectedRow.Render("› " + r))
		} else {
			b.WriteString("  " + r)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.subtle.Render("↑/↓ select • ←/→ change • esc close"))
	return st.panel.Render(b.String())
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
