package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

// KeyBinding is a key and its description as shown in the help screen
type KeyBinding struct {
	Key         string
	Description string
}

// fromBindings converts bubbles bindings to help lines
func fromBindings(bindings []key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// Sections returns the help sections in display order
func Sections(km KeyMap) []struct {
	Title string
	Keys  []KeyBinding
} {
	full := km.FullHelp()
	return []struct {
		Title string
		Keys  []KeyBinding
	}{
		{"Global", fromBindings(full[0])},
		{"Navigation", fromBindings(full[1])},
		{"Table", fromBindings(full[2])},
		{"Console", fromBindings(full[3])},
		{"Filter Popup", PopupKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazykit - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections(DefaultKeyMap) {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20)).
		Height(max(height-4, 10))

	return boxStyle.Render(b.String())
}
