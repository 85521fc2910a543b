package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const (
	appTitle            = "ແອັບຊ່ວຍການສື່ສານ"
	sentencePlaceholder = "ແຕະສັນຍາລັກເພື່ອສ້າງຂໍ້ຄວາມ..."
	noResults           = "ບໍ່ພົບສັນຍາລັກ"
	recentHeading       = "ໃຊ້ຫຼ້າສຸດ"
	favoriteMark        = "♥"
)

func (m model) View() string {
	st := m.theme.styles(m.store.Get().HighContrast)
	width := max(20, m.common.width-2)

	header := m.headerView(st)
	sentence := m.sentenceView(st, width)
	footer := m.footerView(st)

	var body string
	switch m.focus {
	case focusSettings:
		body = m.settingsView(st)
	case focusInput:
		body = m.inputView(st, width)
	default:
		used := lipgloss.Height(header) + lipgloss.Height(sentence) + lipgloss.Height(footer)
		body = m.boardView(st, width, m.common.height-used)
	}

	return st.app.Render(lipgloss.JoinVertical(lipgloss.Left, header, sentence, body, footer))
}

func (m model) headerView(st styles) string {
	title := st.title.Render(appTitle)
	if m.common.cfg.Mute {
		title += " " + st.subtle.Render("🔇")
	}
	if m.speaking {
		title += " " + m.spinner.View()
	}
	return title
}

func (m model) sentenceView(st styles, width int) string {
	items := m.session.Buffer.Items()
	style := st.sentence.Width(width - 2)

	if len(items) == 0 {
		return style.Render(st.subtle.Render(sentencePlaceholder))
	}

	words := make([]string, 0, len(items))
	for i, it := range items {
		w := it.Symbol.Glyph + " " + it.Symbol.Text
		if m.focus == focusSentence && i == m.sentenceCursor {
			words = append(words, st.sentenceCursor.Render(w))
		} else {
			words = append(words, st.sentenceItem.Render(w))
		}
	}
	return style.Render(strings.Join(words, ""))
}

func (m model) tabsView(st styles) string {
	tabs := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		label := c.Icon + " " + c.Name
		if i == m.category && m.search.Value() == "" {
			tabs = append(tabs, st.activeTab.Render(label))
		} else {
			tabs = append(tabs, st.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// boardView renders tabs, search, the recent row and the grid, scrolled so
// the cursor stays visible within height lines.
func (m model) boardView(st styles, width, height int) string {
	var sections []string
	sections = append(sections, m.tabsView(st))
	if m.focus == focusSearch || m.search.Value() != "" {
		sections = append(sections, m.search.View())
	}

	cols := m.columns()
	tileWidth := width / cols

	var rows []string
	offset := 0
	if m.showRecent() {
		recent := m.session.Usage.Recent()
		rows = append(rows, st.subtle.Render(recentHeading))
		rows = append(rows, m.tileRows(st, recent, 0, cols, tileWidth)...)
		offset = len(recent)
	}

	grid := m.gridSymbols()
	if len(grid) == 0 {
		rows = append(rows, st.subtle.Render(noResults))
	} else {
		rows = append(rows, m.tileRows(st, grid, offset, cols, tileWidth)...)
	}

	used := 0
	for _, s := range sections {
		used += lipgloss.Height(s)
	}
	sections = append(sections, m.scroll(rows, height-used))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// tileRows lays syms out cols per row. offset is the flat index of the
// first symbol.
func (m model) tileRows(st styles, syms []symbols.Symbol, offset, cols, tileWidth int) []string {
	var rows []string
	for start := 0; start < len(syms); start += cols {
		end := min(start+cols, len(syms))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, m.tileView(st, syms[i], tileWidth, offset+i == m.cursor && m.focus == focusGrid))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return rows
}

func (m model) tileView(st styles, s symbols.Symbol, width int, selected bool) string {
	inner := max(4, width-4)

	label := s.Text
	if m.session.Usage.IsFavorite(s) {
		label = favoriteMark + " " + label
	}
	lines := []string{s.Glyph, fit(label, inner)}
	if m.common.cfg.ShowEnglish && s.English != "" {
		lines = append(lines, st.subtle.Render(fit(s.English, inner)))
	}
	return st.tile(s.ColorTag, width, selected).Render(strings.Join(lines, "\n"))
}

// scroll returns as many rows as fit in height, keeping the row holding
// the cursor visible.
func (m model) scroll(rows []string, height int) string {
	if height <= 0 || len(rows) == 0 {
		return strings.Join(rows, "\n")
	}

	total := 0
	for _, r := range rows {
		total += lipgloss.Height(r)
	}
	if total <= height {
		return strings.Join(rows, "\n")
	}

	target := m.cursorRow(rows)
	start := 0
	for {
		used := 0
		for i := start; i <= target && i < len(rows); i++ {
			used += lipgloss.Height(rows[i])
		}
		if used <= height || start >= target {
			break
		}
		start++
	}

	var out []string
	used := 0
	for _, r := range rows[start:] {
		h := lipgloss.Height(r)
		if used+h > height && len(out) > 0 {
			break
		}
		out = append(out, r)
		used += h
	}
	return strings.Join(out, "\n")
}

// cursorRow maps the flat cursor to its index in the rendered rows, which
// include the recent heading.
func (m model) cursorRow(rows []string) int {
	cols := m.columns()
	row := 0
	cursor := m.cursor
	if m.showRecent() {
		n := len(m.session.Usage.Recent())
		recentRows := (n + cols - 1) / cols
		row++ // heading
		if cursor < n {
			return min(len(rows)-1, row+cursor/cols)
		}
		row += recentRows
		cursor -= n
	}
	return min(len(rows)-1, row+cursor/cols)
}

func (m model) inputView(st styles, width int) string {
	var b strings.Builder
	b.WriteString(st.title.Render("ພິມຂໍ້ຄວາມຂອງທ່ານ"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(st.subtle.Render("enter ເພີ່ມໃສ່ຂໍ້ຄວາມ • esc ຍົກເລີກ"))
	return st.panel.Width(min(width-2, 60)).Render(b.String())
}

func (m model) footerView(st styles) string {
	var status string
	switch {
	case m.statusMessage != "":
		status = st.title.Render(m.statusMessage)
	case m.lastErr != nil:
		status = st.errorText.Render(fmt.Sprintf("⚠ %v", m.lastErr))
	}

	actions := st.subtle.Render("s ອ່ານຂໍ້ຄວາມ • c ລຶບທັງໝົດ • t ພິມຂໍ້ຄວາມ • , ຕັ້ງຄ່າ • esc ໜ້າຫຼັກ")
	parts := []string{actions, m.help.View(m.keys)}
	if status != "" {
		parts = append([]string{status}, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// fit truncates s to width terminal cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), ellipsis)
}
