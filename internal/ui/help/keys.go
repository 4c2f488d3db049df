package help

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the demo and its components
type KeyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	FocusToggle key.Binding
	Refresh     key.Binding

	// Table navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding // Previous column
	Right    key.Binding // Next column
	PageUp   key.Binding
	PageDown key.Binding

	// Table actions
	Sort        key.Binding
	Filter      key.Binding // Open the column's filter popup
	ResetFilter key.Binding
	ResetAll    key.Binding
	CopyWhere   key.Binding
	SavePreset  key.Binding
	NextPreset  key.Binding
	Export      key.Binding

	// Console
	ClearConsole key.Binding
}

// DefaultKeyMap is the built-in key binding set
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r/F5", "refresh"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "previous column"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next column"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "previous page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "next page"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle sort"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f", "enter"),
		key.WithHelp("f", "filter column"),
	),
	ResetFilter: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reset column filter"),
	),
	ResetAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "reset all filters"),
	),
	CopyWhere: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy WHERE clause"),
	),
	SavePreset: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "save preset"),
	),
	NextPreset: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "apply next preset"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export page"),
	),
	ClearConsole: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear console"),
	),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Sort, k.ResetFilter, k.FocusToggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.FocusToggle, k.Refresh},
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Sort, k.Filter, k.ResetFilter, k.ResetAll, k.CopyWhere, k.SavePreset, k.NextPreset, k.Export},
		{k.ClearConsole},
	}
}

// PopupKeys are the bindings shown inside a filter popup
func PopupKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/↓", "Select operator"},
		{"Enter", "Confirm step / apply"},
		{"a", "Add another condition"},
		{"d", "Delete selected condition"},
		{"r", "Reset column filter"},
		{"Esc", "Back / close"},
	}
}
