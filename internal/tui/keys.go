package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of the list view. It satisfies help.KeyMap.
type keyMap struct {
	Down       key.Binding
	Up         key.Binding
	First      key.Binding
	Last       key.Binding
	Enter      key.Binding
	Leave      key.Binding
	Toggle     key.Binding
	Visual     key.Binding
	VisualLine key.Binding
	Escape     key.Binding
	Yank       key.Binding
	YankAll    key.Binding
	Delete     key.Binding
	Clear      key.Binding
	Add        key.Binding
	Search     key.Binding
	Settings   key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		Enter: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l", "enter folder"),
		),
		Leave: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "leave folder"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Visual: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "visual"),
		),
		VisualLine: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "select below"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel selection"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy selection"),
		),
		YankAll: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy all"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add path"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown under the list.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Visual, keys.Yank, keys.Delete, keys.Add, keys.Settings, keys.Help, keys.Quit}
}

// FullHelp is shown when help is expanded.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Down, keys.Up, keys.First, keys.Last},
		{keys.Enter, keys.Leave, keys.Toggle, keys.Search},
		{keys.Visual, keys.VisualLine, keys.Escape},
		{keys.Yank, keys.YankAll, keys.Delete, keys.Clear},
		{keys.Add, keys.Refresh, keys.Settings, keys.Help, keys.Quit},
	}
}

// settingsKeyMap drives the settings panel.
type settingsKeyMap struct {
	Down   key.Binding
	Up     key.Binding
	Toggle key.Binding
	Close  key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", ",", "q"),
			key.WithHelp("esc", "close"),
		),
	}
}

func (keys settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Down, keys.Up, keys.Toggle, keys.Close}
}

func (keys settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp()}
}
