package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		TableHeader:      lipgloss.Color("#181825"), // Mantle
		TableHeaderText:  lipgloss.Color("#cba6f7"), // Mauve
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#313244"), // Surface0
		FilterActive:     lipgloss.Color("#f9e2af"), // Yellow
		SortIndicator:    lipgloss.Color("#89b4fa"), // Blue

		ConsoleText:  lipgloss.Color("#cdd6f4"), // Text
		ConsoleTime:  lipgloss.Color("#a6adc8"), // Subtext0
		ConsoleLight: lipgloss.Color("#a6e3a1"), // Green
	}
}
