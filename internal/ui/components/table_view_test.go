package components

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/table"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type sortCall struct {
	field string
	order models.SortOrder
}

func newTestTable(t *testing.T) (*TableView, *table.Collection, *[]sortCall) {
	t.Helper()
	var calls []sortCall
	coll := table.New(table.WithSortHook(func(ctx context.Context, field string, order models.SortOrder) error {
		calls = append(calls, sortCall{field, order})
		return nil
	}))
	coll.Declare(models.Column{Field: "name", Sortable: true, Filterable: true, FilterKind: models.FilterText})
	coll.Declare(models.Column{Field: "age", Sortable: true, Filterable: true, FilterKind: models.FilterNumber})
	coll.Declare(models.Column{Field: "city", Label: "City", Filterable: true, FilterKind: models.FilterEnum})

	tv := NewTableView(context.Background(), coll, theme.DefaultTheme())
	tv.Width = 80
	tv.Height = 10
	return tv, coll, &calls
}

func TestTableView_SetPageAlignsColumns(t *testing.T) {
	tv, _, _ := newTestTable(t)

	// Page columns arrive in a different order and include an extra one
	tv.SetPage(
		[]string{"id", "city", "name", "age"},
		[][]string{{"1", "Oslo", "Jane", "31"}, {"2", "Rome", "John", "45"}},
		2, 0,
	)

	want := []string{"Jane", "31", "Oslo"}
	for i, cell := range tv.Rows[0] {
		if cell != want[i] {
			t.Errorf("Row 0 cell %d: expected %q, got %q", i, want[i], cell)
		}
	}
	if len(tv.ColumnWidths) != 3 {
		t.Errorf("Expected 3 column widths, got %d", len(tv.ColumnWidths))
	}
}

func TestTableView_SortCycle(t *testing.T) {
	tv, coll, calls := newTestTable(t)

	expected := []models.SortOrder{models.SortAscending, models.SortDescending, models.SortNone}
	for i, want := range expected {
		_, cmd := tv.Update(runeKey("s"))
		if cmd == nil {
			t.Fatalf("Press %d: expected a hook command", i)
		}
		msg, ok := cmd().(HookDoneMsg)
		if !ok || msg.Op != "sort" || msg.Field != "name" || msg.Err != nil {
			t.Fatalf("Press %d: unexpected message %#v", i, msg)
		}
		if (*calls)[i].order != want {
			t.Errorf("Press %d: expected %v, got %v", i, want, (*calls)[i].order)
		}
	}

	if field, order := coll.SortState(); field != "" || order != models.SortNone {
		t.Errorf("Expected sort cleared, got %q %v", field, order)
	}
}

func TestTableView_SortIgnoresUnsortableColumn(t *testing.T) {
	tv, _, calls := newTestTable(t)
	tv.MoveColumn(2)

	_, cmd := tv.Update(runeKey("s"))
	if cmd != nil {
		t.Error("Expected no command for an unsortable column")
	}
	if len(*calls) != 0 {
		t.Errorf("Expected no sort hook calls, got %d", len(*calls))
	}
}

func TestTableView_FilterKeyShowsPopup(t *testing.T) {
	tv, coll, _ := newTestTable(t)
	shown := ""
	_ = coll.RegisterPopup("age", table.PopupFunc(func() { shown = "age" }))

	tv.Update(tea.KeyMsg{Type: tea.KeyRight})
	tv.Update(runeKey("f"))

	if shown != "age" {
		t.Errorf("Expected age popup shown, got %q", shown)
	}
}

func TestTableView_StaleUntilNextPage(t *testing.T) {
	tv, coll, _ := newTestTable(t)
	tv.SetPage([]string{"name"}, [][]string{{"a"}, {"b"}, {"c"}}, 3, 0)
	tv.MoveSelection(2)

	_ = coll.AddFilters("name", []models.FilterCondition{models.NewCondition("name", models.OpEqual, "a")})
	if !tv.Stale() {
		t.Error("Expected view stale after a filter change")
	}
	if tv.SelectedRow != 0 {
		t.Errorf("Expected selection reset, got %d", tv.SelectedRow)
	}

	tv.SetPage([]string{"name"}, [][]string{{"a"}}, 1, 0)
	if tv.Stale() {
		t.Error("Expected view fresh after SetPage")
	}
}

func TestTableView_HeaderMarkers(t *testing.T) {
	tv, coll, _ := newTestTable(t)
	tv.SetPage([]string{"name", "age", "city"}, [][]string{{"Jane", "31", "Oslo"}}, 1, 0)

	view := tv.View()
	if strings.Contains(view, sortAscArrow) || strings.Contains(view, filterMarker) {
		t.Error("Expected no markers before sorting or filtering")
	}

	tv.Update(runeKey("s"))
	_ = coll.AddFilters("city", []models.FilterCondition{models.NewCondition("city", models.OpEqual, "Oslo")})

	view = tv.View()
	if !strings.Contains(view, sortAscArrow) {
		t.Error("Expected ascending arrow in header")
	}
	if !strings.Contains(view, filterMarker) {
		t.Error("Expected filter marker in header")
	}
	if !strings.Contains(view, "filtered: city") {
		t.Error("Expected filtered fields in status line")
	}
}

func TestTableView_HeaderClick(t *testing.T) {
	tv, coll, _ := newTestTable(t)
	var shown []string
	for _, f := range []string{"name", "age"} {
		field := f
		_ = coll.RegisterPopup(field, table.PopupFunc(func() { shown = append(shown, field) }))
	}
	tv.SetPage([]string{"name", "age", "city"}, [][]string{{"Jane", "31", "Oslo"}}, 1, 0)

	if !tv.HeaderClick(1) {
		t.Fatal("Expected a hit on the first column")
	}
	if !tv.HeaderClick(1 + tv.ColumnWidths[0] + 3) {
		t.Fatal("Expected a hit on the second column")
	}
	if tv.SelectedCol != 1 {
		t.Errorf("Expected column cursor on age, got %d", tv.SelectedCol)
	}
	if tv.HeaderClick(0) {
		t.Error("Expected the left padding to miss")
	}

	if len(shown) != 2 || shown[0] != "name" || shown[1] != "age" {
		t.Errorf("Unexpected popups shown: %v", shown)
	}
}

func TestTableView_RequestsNextPage(t *testing.T) {
	tv, _, _ := newTestTable(t)
	tv.SetPage([]string{"name"}, [][]string{{"a"}, {"b"}}, 5, 0)
	tv.MoveSelection(1)

	_, cmd := tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd == nil {
		t.Fatal("Expected a page request at the end of the page")
	}
	if msg, ok := cmd().(PageRequestMsg); !ok || msg.Offset != 2 {
		t.Errorf("Expected PageRequestMsg{Offset: 2}, got %#v", msg)
	}

	tv.SetPage([]string{"name"}, [][]string{{"c"}}, 3, 2)
	_, cmd = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Error("Expected no request past the last row")
	}
}

func TestTableView_EmptyCollection(t *testing.T) {
	tv := NewTableView(context.Background(), table.New(), theme.DefaultTheme())
	if !strings.Contains(tv.View(), "No columns declared") {
		t.Error("Expected empty state message")
	}
	if _, ok := tv.SelectedField(); ok {
		t.Error("Expected no selected field")
	}
}

func TestPad(t *testing.T) {
	if got := pad("abc", 5); got != "abc  " {
		t.Errorf("Expected padded value, got %q", got)
	}
	if got := pad("abcdef", 4); got != "abc…" {
		t.Errorf("Expected truncated value, got %q", got)
	}
	if got := pad("abc", 0); got != "" {
		t.Errorf("Expected empty value, got %q", got)
	}
}

func TestHookCmd_NilCall(t *testing.T) {
	if HookCmd(context.Background(), "sort", "x", nil) != nil {
		t.Error("Expected nil command for nil call")
	}
}
