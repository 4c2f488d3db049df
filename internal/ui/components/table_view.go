package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/table"
	"github.com/rebeliceyang/lazykit/internal/ui/help"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

const (
	sortAscArrow  = "▲"
	sortDescArrow = "▼"
	filterMarker  = "●"
)

// TableView renders the rows of one page of a table collection and turns
// header actions into sort requests and filter popups.
type TableView struct {
	Width        int
	Height       int
	Theme        theme.Theme
	Keys         help.KeyMap
	PageSize     int
	MaxCellWidth int
	MinCellWidth int

	coll *table.Collection
	ctx  context.Context

	// Page data, aligned to the declared columns
	Rows      [][]string
	TotalRows int64
	Offset    int

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int

	ColumnWidths []int

	// Set when the filter changed and the current rows are stale
	stale bool
}

// NewTableView creates a table view over coll and subscribes it to
// filter changes.
func NewTableView(ctx context.Context, coll *table.Collection, th theme.Theme) *TableView {
	tv := &TableView{
		Theme:        th,
		Keys:         help.DefaultKeyMap,
		PageSize:     20,
		MaxCellWidth: 40,
		MinCellWidth: 6,
		coll:         coll,
		ctx:          ctx,
	}
	coll.OnFilterChanged(func() error {
		tv.stale = true
		tv.SelectedRow = 0
		tv.TopRow = 0
		return nil
	})
	tv.calculateColumnWidths()
	return tv
}

// Collection returns the collection the view renders
func (tv *TableView) Collection() *table.Collection {
	return tv.coll
}

// Stale reports whether the filter changed since the last page arrived
func (tv *TableView) Stale() bool {
	return tv.stale
}

// SetPage replaces the displayed rows. columns names the page's columns;
// cells are matched to the declared columns by name and columns the
// page lacks render empty.
func (tv *TableView) SetPage(columns []string, rows [][]string, total int64, offset int) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}

	declared := tv.coll.Columns()
	tv.Rows = make([][]string, len(rows))
	for r, row := range rows {
		aligned := make([]string, len(declared))
		for c, col := range declared {
			if i, ok := index[col.Field]; ok && i < len(row) {
				aligned[c] = row[i]
			}
		}
		tv.Rows[r] = aligned
	}

	tv.TotalRows = total
	tv.Offset = offset
	tv.stale = false
	tv.clampSelection()
	tv.calculateColumnWidths()
}

// SelectedField returns the field of the column under the cursor
func (tv *TableView) SelectedField() (string, bool) {
	cols := tv.coll.Columns()
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(cols) {
		return "", false
	}
	return cols[tv.SelectedCol].Field, true
}

// SelectedRowData returns the row under the cursor
func (tv *TableView) SelectedRowData() []string {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil
	}
	return tv.Rows[tv.SelectedRow]
}

// Update handles navigation and header actions
func (tv *TableView) Update(msg tea.Msg) (*TableView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return tv, nil
	}

	switch {
	case key.Matches(keyMsg, tv.Keys.Up):
		tv.MoveSelection(-1)
	case key.Matches(keyMsg, tv.Keys.Down):
		if tv.SelectedRow == len(tv.Rows)-1 {
			return tv, tv.nextPage()
		}
		tv.MoveSelection(1)
	case key.Matches(keyMsg, tv.Keys.Left):
		tv.MoveColumn(-1)
	case key.Matches(keyMsg, tv.Keys.Right):
		tv.MoveColumn(1)
	case key.Matches(keyMsg, tv.Keys.PageUp):
		if tv.SelectedRow == 0 && tv.Offset > 0 {
			return tv, tv.prevPage()
		}
		tv.PageUp()
	case key.Matches(keyMsg, tv.Keys.PageDown):
		if tv.SelectedRow == len(tv.Rows)-1 {
			return tv, tv.nextPage()
		}
		tv.PageDown()
	case key.Matches(keyMsg, tv.Keys.Sort):
		return tv, tv.cycleSort()
	case key.Matches(keyMsg, tv.Keys.Filter):
		if field, ok := tv.SelectedField(); ok {
			tv.coll.ShowFilter(field)
		}
	case key.Matches(keyMsg, tv.Keys.ResetFilter):
		if field, ok := tv.SelectedField(); ok {
			if _, err := tv.coll.ResetFilter(field); err != nil {
				return tv, func() tea.Msg { return HookDoneMsg{Op: "filter", Field: field, Err: err} }
			}
		}
	}
	return tv, nil
}

// cycleSort advances the selected column's sort order and returns the
// command that runs the sort hook.
func (tv *TableView) cycleSort() tea.Cmd {
	cols := tv.coll.Columns()
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(cols) {
		return nil
	}
	col := cols[tv.SelectedCol]
	if !col.Sortable {
		return nil
	}

	current := models.SortNone
	if field, order := tv.coll.SortState(); field == col.Field {
		current = order
	}
	call := tv.coll.PrepareSort(col.Field, current.Next())
	return HookCmd(tv.ctx, "sort", col.Field, call)
}

func (tv *TableView) nextPage() tea.Cmd {
	next := tv.Offset + len(tv.Rows)
	if len(tv.Rows) == 0 || int64(next) >= tv.TotalRows {
		return nil
	}
	return func() tea.Msg { return PageRequestMsg{Offset: next} }
}

func (tv *TableView) prevPage() tea.Cmd {
	prev := max(tv.Offset-tv.PageSize, 0)
	return func() tea.Msg { return PageRequestMsg{Offset: prev} }
}

// HeaderClick opens the filter popup of the column drawn at x, in cells
// from the view's left edge. It reports whether a column was hit.
func (tv *TableView) HeaderClick(x int) bool {
	cols := tv.coll.Columns()
	pos := 1
	for i, width := range tv.ColumnWidths {
		if i >= len(cols) {
			break
		}
		if x >= pos && x < pos+width {
			tv.SelectedCol = i
			tv.coll.ShowFilter(cols[i].Field)
			return true
		}
		pos += width + 3
	}
	return false
}

// calculateColumnWidths calculates widths from headers and page cells
func (tv *TableView) calculateColumnWidths() {
	cols := tv.coll.Columns()
	tv.ColumnWidths = make([]int, len(cols))

	for i, col := range cols {
		if col.Width > 0 {
			tv.ColumnWidths[i] = col.Width
			continue
		}
		// Room for the sort arrow and filter marker
		w := ansi.StringWidth(col.Title()) + 4
		for _, row := range tv.Rows {
			if i < len(row) {
				w = max(w, ansi.StringWidth(row[i]))
			}
		}
		if tv.MaxCellWidth > 0 && w > tv.MaxCellWidth {
			w = tv.MaxCellWidth
		}
		tv.ColumnWidths[i] = max(w, tv.MinCellWidth)
	}
}

// View renders the table
func (tv *TableView) View() string {
	cols := tv.coll.Columns()
	if len(cols) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("No columns declared")
	}
	if len(tv.ColumnWidths) != len(cols) {
		tv.calculateColumnWidths()
	}

	var b strings.Builder

	b.WriteString(tv.renderHeader(cols))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	// Header + separator + status
	tv.VisibleRows = max(tv.Height-3, 1)

	if len(tv.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Muted).Italic(true).Render(" No rows match"))
	}
	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.Rows))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(i, tv.Rows[i]))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tv.renderStatus())

	return b.String()
}

func (tv *TableView) renderHeader(cols []models.Column) string {
	sortField, sortOrder := tv.coll.SortState()

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeaderText).
		Background(tv.Theme.TableHeader)
	markStyle := headerStyle.Foreground(tv.Theme.FilterActive)
	arrowStyle := headerStyle.Foreground(tv.Theme.SortIndicator)

	var parts []string
	for i, col := range cols {
		width := tv.ColumnWidths[i]

		var suffix []string
		var suffixWidth int
		if col.Field == sortField {
			switch sortOrder {
			case models.SortAscending:
				suffix = append(suffix, arrowStyle.Render(sortAscArrow))
				suffixWidth += 2
			case models.SortDescending:
				suffix = append(suffix, arrowStyle.Render(sortDescArrow))
				suffixWidth += 2
			}
		}
		if tv.coll.HasFilter(col.Field) {
			suffix = append(suffix, markStyle.Render(filterMarker))
			suffixWidth += 2
		}

		title := col.Title()
		titleStyle := headerStyle
		if i == tv.SelectedCol {
			titleStyle = titleStyle.Underline(true)
		}
		cell := titleStyle.Render(pad(title, width-suffixWidth))
		for _, s := range suffix {
			cell += headerStyle.Render(" ") + s
		}
		parts = append(parts, cell)
	}
	sep := headerStyle.Render(" │ ")
	return headerStyle.Render(" ") + strings.Join(parts, sep) + headerStyle.Render(" ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(index int, row []string) string {
	var parts []string
	for i, width := range tv.ColumnWidths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		parts = append(parts, pad(cell, width))
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if index == tv.SelectedRow {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	rowColor := tv.Theme.TableRowEven
	if index%2 == 1 {
		rowColor = tv.Theme.TableRowOdd
	}
	return lipgloss.NewStyle().Foreground(rowColor).Render(line)
}

func (tv *TableView) renderStatus() string {
	start, end := 0, tv.Offset+len(tv.Rows)
	if len(tv.Rows) > 0 {
		start = tv.Offset + 1
	}
	status := fmt.Sprintf(" %d-%d of %d rows", start, end, tv.TotalRows)

	if fields := tv.coll.FilteredFields(); len(fields) > 0 {
		status += " │ filtered: " + strings.Join(fields, ", ")
	}
	if field, order := tv.coll.SortState(); field != "" {
		status += fmt.Sprintf(" │ sort: %s %s", field, order)
	}
	if tv.stale {
		status += " │ refreshing…"
	}

	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(ansi.Truncate(status, max(tv.Width, 20), "…"))
}

// pad truncates or right-pads s to width display cells
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clampSelection()
}

// MoveColumn moves the column cursor left or right
func (tv *TableView) MoveColumn(delta int) {
	n := len(tv.coll.Columns())
	if n == 0 {
		return
	}
	tv.SelectedCol = min(max(tv.SelectedCol+delta, 0), n-1)
}

func (tv *TableView) clampSelection() {
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	visible := max(tv.VisibleRows, 1)
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedRow >= tv.TopRow+visible {
		tv.TopRow = tv.SelectedRow - visible + 1
	}
}

// PageUp moves the selection up by one screen
func (tv *TableView) PageUp() {
	tv.SelectedRow -= max(tv.VisibleRows, 1)
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
}

// PageDown moves the selection down by one screen
func (tv *TableView) PageDown() {
	if len(tv.Rows) == 0 {
		return
	}
	visible := max(tv.VisibleRows, 1)
	tv.SelectedRow += visible
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+visible > len(tv.Rows) {
		tv.TopRow = max(len(tv.Rows)-visible, 0)
	}
}
