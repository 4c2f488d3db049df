package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/table"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

// FilterCommittedMsg is sent after a popup wrote its column's conditions
type FilterCommittedMsg struct {
	Field string
	Count int
	Reset bool
	Err   error
}

// FilterPopupClosedMsg is sent when a popup closes without committing
type FilterPopupClosedMsg struct {
	Field string
}

// Edit modes
const (
	modeList     = ""
	modeOperator = "operator"
	modeValue    = "value"
)

// FilterPopup edits the filter conditions of a single column. Conditions
// are collected locally and written to the collection in one AddFilters
// call when the user applies them.
type FilterPopup struct {
	Width  int
	Height int
	Theme  theme.Theme

	column  models.Column
	coll    *table.Collection
	builder *filter.Builder

	visible         bool
	conditions      []models.FilterCondition
	currentIndex    int
	editMode        string
	operators       []models.FilterOperator
	operatorIndex   int
	input           textinput.Model
	validationError string
}

var _ table.Popup = (*FilterPopup)(nil)

// NewFilterPopup creates the popup for col
func NewFilterPopup(col models.Column, coll *table.Collection, th theme.Theme, dialect filter.Dialect) *FilterPopup {
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 256
	ti.Width = 30

	return &FilterPopup{
		Width:     50,
		Height:    18,
		Theme:     th,
		column:    col,
		coll:      coll,
		builder:   filter.NewBuilder(dialect),
		operators: filter.GetOperatorsForKind(col.FilterKind),
		input:     ti,
	}
}

// Show opens the popup with the column's active conditions
func (fp *FilterPopup) Show() {
	fp.visible = true
	fp.conditions = fp.coll.FilterConditions(fp.column.Field)
	fp.currentIndex = 0
	fp.validationError = ""
	fp.editMode = modeList
	if len(fp.conditions) == 0 {
		fp.startOperator()
	}
}

// Hide closes the popup, dropping uncommitted edits
func (fp *FilterPopup) Hide() {
	fp.visible = false
	fp.editMode = modeList
	fp.input.Blur()
}

// Visible reports whether the popup is open
func (fp *FilterPopup) Visible() bool {
	return fp.visible
}

// Field returns the column the popup filters
func (fp *FilterPopup) Field() string {
	return fp.column.Field
}

// Pending returns the conditions that Enter would apply
func (fp *FilterPopup) Pending() []models.FilterCondition {
	return slices.Clone(fp.conditions)
}

// Mode returns the current edit step
func (fp *FilterPopup) Mode() string {
	return fp.editMode
}

// Update handles keyboard input
func (fp *FilterPopup) Update(msg tea.Msg) (*FilterPopup, tea.Cmd) {
	if !fp.visible {
		return fp, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if fp.editMode == modeValue {
			var cmd tea.Cmd
			fp.input, cmd = fp.input.Update(msg)
			return fp, cmd
		}
		return fp, nil
	}

	switch fp.editMode {
	case modeOperator:
		return fp.handleOperatorMode(keyMsg)
	case modeValue:
		return fp.handleValueMode(keyMsg)
	default:
		return fp.handleListMode(keyMsg)
	}
}

func (fp *FilterPopup) handleListMode(msg tea.KeyMsg) (*FilterPopup, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fp.currentIndex > 0 {
			fp.currentIndex--
		}
	case "down", "j":
		if fp.currentIndex < len(fp.conditions)-1 {
			fp.currentIndex++
		}
	case "a", "n":
		fp.startOperator()
	case "d", "x":
		if fp.currentIndex < len(fp.conditions) {
			fp.conditions = slices.Delete(fp.conditions, fp.currentIndex, fp.currentIndex+1)
			if fp.currentIndex > 0 && fp.currentIndex >= len(fp.conditions) {
				fp.currentIndex--
			}
		}
	case "enter":
		return fp, fp.commit()
	case "r":
		return fp, fp.reset()
	case "esc":
		field := fp.column.Field
		fp.Hide()
		return fp, func() tea.Msg { return FilterPopupClosedMsg{Field: field} }
	}
	return fp, nil
}

func (fp *FilterPopup) handleOperatorMode(msg tea.KeyMsg) (*FilterPopup, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.validationError = ""
		if len(fp.conditions) == 0 {
			field := fp.column.Field
			fp.Hide()
			return fp, func() tea.Msg { return FilterPopupClosedMsg{Field: field} }
		}
		fp.editMode = modeList
	case "up", "k":
		if fp.operatorIndex > 0 {
			fp.operatorIndex--
		}
	case "down", "j":
		if fp.operatorIndex < len(fp.operators)-1 {
			fp.operatorIndex++
		}
	case "enter":
		op := fp.operators[fp.operatorIndex]
		if !op.NeedsValue() {
			fp.appendCondition(models.NewCondition(fp.column.Field, op, nil))
			return fp, nil
		}
		fp.editMode = modeValue
		fp.input.SetValue("")
		fp.input.Placeholder = fp.placeholder(op)
		return fp, fp.input.Focus()
	}
	return fp, nil
}

func (fp *FilterPopup) handleValueMode(msg tea.KeyMsg) (*FilterPopup, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.editMode = modeOperator
		fp.validationError = ""
		fp.input.Blur()
		return fp, nil
	case "enter":
		op := fp.operators[fp.operatorIndex]
		value, err := filter.ParseValue(fp.column, op, fp.input.Value())
		if err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		fp.input.Blur()
		fp.appendCondition(models.NewCondition(fp.column.Field, op, value))
		return fp, nil
	}

	var cmd tea.Cmd
	fp.input, cmd = fp.input.Update(msg)
	return fp, cmd
}

func (fp *FilterPopup) startOperator() {
	fp.editMode = modeOperator
	fp.operatorIndex = 0
	fp.validationError = ""
}

func (fp *FilterPopup) appendCondition(cond models.FilterCondition) {
	cond.Type = fp.column.DataType
	fp.conditions = append(fp.conditions, cond)
	fp.currentIndex = len(fp.conditions) - 1
	fp.editMode = modeList
	fp.validationError = ""
}

// commit writes the pending conditions; an empty list clears the column
func (fp *FilterPopup) commit() tea.Cmd {
	field := fp.column.Field
	conds := slices.Clone(fp.conditions)
	err := fp.coll.AddFilters(field, conds)
	fp.Hide()
	return func() tea.Msg {
		return FilterCommittedMsg{Field: field, Count: len(conds), Err: err}
	}
}

func (fp *FilterPopup) reset() tea.Cmd {
	field := fp.column.Field
	fp.conditions = nil
	removed, err := fp.coll.ResetFilter(field)
	fp.Hide()
	if !removed && err == nil {
		return func() tea.Msg { return FilterPopupClosedMsg{Field: field} }
	}
	return func() tea.Msg {
		return FilterCommittedMsg{Field: field, Reset: true, Err: err}
	}
}

func (fp *FilterPopup) placeholder(op models.FilterOperator) string {
	switch {
	case op == models.OpIn || op == models.OpNotIn:
		return "a, b, c"
	case op == models.OpLike || op == models.OpILike || op == models.OpNotLike:
		return "pattern, * matches anything"
	case fp.column.FilterKind == models.FilterDate:
		return "YYYY-MM-DD"
	case fp.column.FilterKind == models.FilterBool:
		return "true / false"
	case fp.column.FilterKind == models.FilterEnum && len(fp.column.Choices) > 0:
		return strings.Join(fp.column.Choices, " | ")
	default:
		return "value"
	}
}

// View renders the popup
func (fp *FilterPopup) View() string {
	if !fp.visible {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fp.Theme.Background).
		Background(fp.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filter: "+fp.column.Title()))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fp.Theme.Muted).
		Padding(0, 1)

	var instructions string
	switch fp.editMode {
	case modeOperator:
		instructions = "↑↓ Select operator, Enter to confirm, Esc to go back"
	case modeValue:
		instructions = "Type value, Enter to confirm, Esc to go back"
	default:
		instructions = "a=Add d=Delete r=Reset Enter=Apply Esc=Cancel"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fp.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fp.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fp.validationError))
	}

	if len(fp.conditions) > 0 {
		sections = append(sections, "", "Conditions:")
		for i, cond := range fp.conditions {
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == fp.currentIndex && fp.editMode == modeList {
				style = style.Background(fp.Theme.Selection).Foreground(fp.Theme.Foreground)
			}
			sections = append(sections, style.Render(fmt.Sprintf(" %d. %s", i+1, cond)))
		}
	}

	switch fp.editMode {
	case modeOperator:
		sections = append(sections, "", "Select operator:")
		for i, op := range fp.operators {
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == fp.operatorIndex {
				style = style.Background(fp.Theme.Selection).Foreground(fp.Theme.Foreground)
			}
			sections = append(sections, style.Render("  "+string(op)))
		}
	case modeValue:
		sections = append(sections, "",
			fmt.Sprintf("%s %s", fp.column.Field, fp.operators[fp.operatorIndex]),
			fp.input.View())
	}

	if where, _, err := fp.builder.BuildWhere(fp.conditions); err == nil && where != "" {
		previewStyle := lipgloss.NewStyle().
			Foreground(fp.Theme.Muted).
			Italic(true).
			Padding(0, 1)
		sections = append(sections, "", previewStyle.Render(where))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fp.Theme.BorderFocused).
		Foreground(fp.Theme.Foreground).
		Width(fp.Width).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
