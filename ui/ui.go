// Package ui provides the terminal communication board.
package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/playback"
	"github.com/laoaac/aacboard/internal/session"
	"github.com/laoaac/aacboard/internal/settings"
	"github.com/laoaac/aacboard/internal/symbols"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied"
	ellipsis             = "…"
)

// Deps are the long-lived collaborators of the board.
type Deps struct {
	Session  *session.Session
	Settings *settings.Store
	Theme    *Theme
	Events   *Mailbox
}

// NewProgram returns a new Tea program. deps.Theme must already carry the
// restored appearance.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug("Starting aacboard", "mute", cfg.Mute, "appearance", deps.Theme.Appearance())

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, deps), opts...)
}

type statusMessageTimeoutMsg struct{}

// focus is the part of the board receiving keys.
type focus int

const (
	focusGrid focus = iota
	focusSentence
	focusSearch
	focusInput
	focusSettings
)

func (f focus) String() string {
	return map[focus]string{
		focusGrid:     "grid",
		focusSentence: "sentence",
		focusSearch:   "search",
		focusInput:    "input",
		focusSettings: "settings",
	}[f]
}

// Common stuff we'll need to access in all views.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common *commonModel

	session *session.Session
	store   *settings.Store
	theme   *Theme
	events  *Mailbox

	keys keyMap
	help help.Model

	categories []symbols.Category
	category   int
	cursor     int // index into tiles()

	focus          focus
	sentenceCursor int
	settingsRow    int

	search  textinput.Model
	input   textinput.Model
	spinner spinner.Model

	speaking      bool
	lastErr       error
	statusMessage string
	statusTimer   *time.Timer
}

func newModel(cfg Config, deps Deps) model {
	search := textinput.New()
	search.Placeholder = "ຊອກຫາສັນຍາລັກ..."
	search.Prompt = "🔍 "
	search.CharLimit = 64

	input := textinput.New()
	input.Placeholder = "ປ້ອນຂໍ້ຄວາມເພື່ອໃຫ້ອ່ານ..."
	input.Prompt = "💬 "
	input.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	return model{
		common:     &commonModel{cfg: cfg, width: 80, height: 24},
		session:    deps.Session,
		store:      deps.Settings,
		theme:      deps.Theme,
		events:     deps.Events,
		keys:       newKeyMap(),
		help:       help.New(),
		categories: deps.Session.Catalog.Categories(),
		search:     search,
		input:      input,
		spinner:    sp,
	}
}

func (m model) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForPlayback(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-8)
		m.input.Width = max(10, msg.Width-12)
		return m, nil

	case playbackMsg:
		cmds = append(cmds, m.handlePlayback(playback.Event(msg)))
		if m.events != nil {
			cmds = append(cmds, waitForPlayback(m.events))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.speaking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusInput:
			return m.updateInput(msg)
		case focusSettings:
			return m.updateSettings(msg)
		case focusSentence:
			return m.updateSentence(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handlePlayback(ev playback.Event) tea.Cmd {
	log.Debug("playback event", "event", ev.String())

	switch ev.Kind {
	case playback.Started:
		m.lastErr = nil
		if !m.speaking {
			m.speaking = true
			return m.spinner.Tick
		}
	case playback.Errored:
		var perr *playback.PlaybackError
		if errors.As(ev.Err, &perr) && perr.Expected() {
			return nil
		}
		m.lastErr = ev.Err
	case playback.IdleEvent:
		m.speaking = false
	}
	return nil
}

func (m model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tiles := m.tiles()
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		// Clears the search first, then goes home.
		if m.search.Value() != "" {
			m.search.Reset()
		} else {
			m.category = 0
		}
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < len(tiles) {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(tiles)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextCategory):
		m.category = (m.category + 1) % len(m.categories)
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevCategory):
		m.category = (m.category - 1 + len(m.categories)) % len(m.categories)
		m.cursor = 0

	case key.Matches(msg, m.keys.Select):
		if s, ok := m.selected(); ok {
			m.session.Select(s)
			m.sentenceCursor = m.session.Buffer.Len() - 1
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Favorite):
		if s, ok := m.selected(); ok {
			m.session.ToggleFavorite(s)
		}

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Type):
		m.focus = focusInput
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Settings):
		m.focus = focusSettings

	case key.Matches(msg, m.keys.EditSentence):
		if m.session.Buffer.Len() > 0 {
			m.focus = focusSentence
			m.sentenceCursor = m.session.Buffer.Len() - 1
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		return m.handleSentenceKeys(msg)
	}

	return m, nil
}

// handleSentenceKeys handles the sentence actions available from every
// board view.
func (m model) handleSentenceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Speak):
		m.session.SpeakSentence()
	case key.Matches(msg, m.keys.Stop):
		m.session.Speaker.Stop()
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearSentence()
		m.sentenceCursor = 0
		if m.focus == focusSentence {
			m.focus = focusGrid
		}
	case key.Matches(msg, m.keys.RemoveLast):
		if n := m.session.Buffer.Len(); n > 0 {
			m.session.RemoveAt(n - 1)
		}
	case key.Matches(msg, m.keys.DarkMode):
		m.store.ToggleDarkMode()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySentence()
	}
	return m, nil
}

func (m model) updateSentence(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.session.Buffer.Len()

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.EditSentence):
		m.focus = focusGrid
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		if m.sentenceCursor > 0 {
			m.sentenceCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.sentenceCursor < n-1 {
			m.sentenceCursor++
		}
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.RemoveLast):
		m.session.RemoveAt(m.sentenceCursor)
		if m.session.Buffer.Len() == 0 {
			m.focus = focusGrid
			m.sentenceCursor = 0
		} else if m.sentenceCursor >= m.session.Buffer.Len() {
			m.sentenceCursor = m.session.Buffer.Len() - 1
		}
	default:
		return m.handleSentenceKeys(msg)
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Reset()
		m.search.Blur()
		m.focus = focusGrid
		m.cursor = 0
		return m, nil
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		m.search.Blur()
		m.focus = focusGrid
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.focus = focusGrid
		return m, nil
	case tea.KeyEnter:
		if _, err := m.session.SelectCustom(m.input.Value()); err != nil {
			// Nothing typed; keep the prompt open.
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.focus = focusGrid
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) copySentence() tea.Cmd {
	text := m.session.Buffer.Text()
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		log.Warn("Could not copy sentence", "err", err)
		return m.newStatusMessage(fmt.Sprintf("copy failed: %v", err))
	}
	return m.newStatusMessage("ຄັດລອກແລ້ວ")
}

func (m *model) newStatusMessage(s string) tea.Cmd {
	m.statusMessage = s
	if m.statusTimer != nil {
		m.statusTimer.Stop()
	}
	m.statusTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusTimer)
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// showRecent reports whether the recently used row is on screen.
func (m model) showRecent() bool {
	return m.search.Value() == "" &&
		m.categories[m.category].ID == "quick" &&
		len(m.session.Usage.Recent()) > 0
}

// gridSymbols returns the symbols of the main grid.
func (m model) gridSymbols() []symbols.Symbol {
	if q := m.search.Value(); q != "" {
		if found := m.session.Catalog.Search(q); len(found) > 0 {
			return found
		}
		return m.session.Catalog.Suggest(q)
	}
	return m.categories[m.category].Symbols
}

// tiles returns every selectable tile: the recent row, then the grid.
func (m model) tiles() []symbols.Symbol {
	var out []symbols.Symbol
	if m.showRecent() {
		out = append(out, m.session.Usage.Recent()...)
	}
	return append(out, m.gridSymbols()...)
}

func (m model) selected() (symbols.Symbol, bool) {
	tiles := m.tiles()
	if m.cursor < 0 || m.cursor >= len(tiles) {
		return symbols.Symbol{}, false
	}
	return tiles[m.cursor], true
}

func (m *model) clampCursor() {
	if n := len(m.tiles()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m model) columns() int {
	return int(m.store.Get().GridDensity)
}
