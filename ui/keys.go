package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Select       key.Binding
	Favorite     key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Search       key.Binding
	Speak        key.Binding
	Stop         key.Binding
	Clear        key.Binding
	RemoveLast   key.Binding
	EditSentence key.Binding
	Type         key.Binding
	Settings     key.Binding
	DarkMode     key.Binding
	Copy         key.Binding
	Back         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "say")),
		Favorite:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		NextCategory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Speak:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "speak sentence")),
		Stop:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Clear:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		RemoveLast:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "remove last")),
		EditSentence: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit sentence")),
		Type:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type text")),
		Settings:     key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		DarkMode:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark mode")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy sentence")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Speak, k.Clear, k.Search, k.Type, k.Settings, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextCategory, k.PrevCategory},
		{k.Select, k.Favorite, k.Search, k.Type},
		{k.Speak, k.Stop, k.Clear, k.RemoveLast, k.EditSentence, k.Copy},
		{k.Settings, k.DarkMode, k.Back, k.Help, k.Quit},
	}
}
