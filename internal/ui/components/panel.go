package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

// Panel frames a component with a border and an optional title
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the panel. Width and Height include the border.
func (p *Panel) View() string {
	if p.Width <= 2 || p.Height <= 2 {
		return ""
	}

	borderColor := p.Theme.Border
	if p.Focused {
		borderColor = p.Theme.BorderFocused
	}
	style := lipgloss.NewStyle().
		Width(p.Width - 2).
		Height(p.Height - 2).
		MaxHeight(p.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(borderColor)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
