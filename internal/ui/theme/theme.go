package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme shared by all components
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableHeaderText  lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color
	FilterActive     lipgloss.Color // Header marker for filtered columns
	SortIndicator    lipgloss.Color

	// Console colors
	ConsoleText  lipgloss.Color
	ConsoleTime  lipgloss.Color
	ConsoleLight lipgloss.Color
}

// Names lists the built-in themes
func Names() []string {
	return []string{"default", "catppuccin"}
}

// GetTheme returns a theme by name, the default theme when unknown
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
