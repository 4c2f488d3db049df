package components

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// HookDoneMsg reports that a sort or filter hook returned
type HookDoneMsg struct {
	Op    string // "sort" or "filter"
	Field string
	Err   error
}

// PageRequestMsg asks the owner to load the page starting at Offset
type PageRequestMsg struct {
	Offset int
}

// HookCmd runs a prepared hook call off the event loop
func HookCmd(ctx context.Context, op, field string, call func(context.Context) error) tea.Cmd {
	if call == nil {
		return nil
	}
	return func() tea.Msg {
		return HookDoneMsg{Op: op, Field: field, Err: call(ctx)}
	}
}
