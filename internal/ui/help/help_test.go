package help

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

func TestSections(t *testing.T) {
	sections := Sections(DefaultKeyMap)
	if len(sections) != 5 {
		t.Fatalf("Expected 5 sections, got %d", len(sections))
	}
	if sections[2].Title != "Table" || len(sections[2].Keys) == 0 {
		t.Errorf("Unexpected table section: %+v", sections[2])
	}
}

func TestRender(t *testing.T) {
	out := Render(100, 50, theme.DefaultTheme())
	for _, want := range []string{"lazykit", "filter column", "clear console", "Reset column filter"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}
}
