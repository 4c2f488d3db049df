package models

// AppState holds the demo application state
type AppState struct {
	Width        int
	Height       int
	FocusedPanel PanelType
	ViewMode     ViewMode

	Table       string // Table shown in the demo
	CurrentSort string
	SortOrder   SortOrder
}

// PanelType identifies which panel is focused
type PanelType int

const (
	TablePanel PanelType = iota
	ConsolePanel
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:        80,
		Height:       24,
		FocusedPanel: TablePanel,
		ViewMode:     NormalMode,
	}
}
