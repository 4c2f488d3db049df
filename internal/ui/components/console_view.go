package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rebeliceyang/lazykit/internal/console"
	"github.com/rebeliceyang/lazykit/internal/ui/help"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

// ConsoleUpdatedMsg is sent by the producer after each new message
type ConsoleUpdatedMsg struct{}

// ConsoleView renders a console buffer under a header with an activity
// light and a clear button.
type ConsoleView struct {
	Width           int
	Height          int
	Theme           theme.Theme
	Keys            help.KeyMap
	HeaderText      string
	ClearButtonText string
	ShowLight       bool

	buf   *console.Buffer
	light bool
}

// NewConsoleView creates a view over buf
func NewConsoleView(buf *console.Buffer, th theme.Theme) *ConsoleView {
	return &ConsoleView{
		Theme:           th,
		Keys:            help.DefaultKeyMap,
		HeaderText:      "System Monitor",
		ClearButtonText: "Clear",
		ShowLight:       true,
		buf:             buf,
	}
}

// Buffer returns the buffer being rendered
func (cv *ConsoleView) Buffer() *console.Buffer {
	return cv.buf
}

// LightOn reports the state of the activity light
func (cv *ConsoleView) LightOn() bool {
	return cv.light
}

// Update toggles the light on new messages and clears on the clear key
func (cv *ConsoleView) Update(msg tea.Msg) (*ConsoleView, tea.Cmd) {
	switch msg := msg.(type) {
	case ConsoleUpdatedMsg:
		cv.light = !cv.light
	case tea.KeyMsg:
		if key.Matches(msg, cv.Keys.ClearConsole) {
			cv.buf.Clear()
		}
	}
	return cv, nil
}

// ClearButtonHit reports whether x on the header row falls on the clear
// button, clearing the buffer when it does.
func (cv *ConsoleView) ClearButtonHit(x int) bool {
	label := cv.clearLabel()
	start := cv.Width - ansi.StringWidth(label)
	if x < start || x >= cv.Width {
		return false
	}
	cv.buf.Clear()
	return true
}

func (cv *ConsoleView) clearLabel() string {
	return "[" + cv.ClearButtonText + "]"
}

// View renders the console
func (cv *ConsoleView) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cv.Theme.Foreground)
	header := headerStyle.Render(cv.HeaderText)
	if cv.ShowLight {
		lightColor := cv.Theme.Muted
		if cv.light {
			lightColor = cv.Theme.ConsoleLight
		}
		header += " " + lipgloss.NewStyle().Foreground(lightColor).Render("●")
	}

	button := lipgloss.NewStyle().Foreground(cv.Theme.Info).Render(cv.clearLabel())
	gap := cv.Width - ansi.StringWidth(header) - ansi.StringWidth(cv.clearLabel())
	if gap < 1 {
		gap = 1
	}

	lines := []string{header + strings.Repeat(" ", gap) + button}

	entries := cv.buf.Entries()
	if room := cv.Height - 1; room > 0 && len(entries) > room {
		entries = entries[len(entries)-room:]
	}

	timeStyle := lipgloss.NewStyle().Foreground(cv.Theme.ConsoleTime)
	textStyle := lipgloss.NewStyle().Foreground(cv.Theme.ConsoleText)
	for _, e := range entries {
		line := e.Message
		if cv.Width > 0 {
			line = ansi.Truncate(line, cv.Width, "…")
		}
		if stamp, rest, ok := strings.Cut(line, ": "); ok && isTimestamp(stamp) {
			lines = append(lines, timeStyle.Render(stamp)+textStyle.Render(": "+rest))
			continue
		}
		lines = append(lines, textStyle.Render(line))
	}

	return strings.Join(lines, "\n")
}

func isTimestamp(s string) bool {
	_, err := time.Parse(console.TimeFormat, s)
	return err == nil
}
