// Package docs lists the configurable attributes of each component.
package docs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rebeliceyang/lazykit/internal/models"
	"gopkg.in/yaml.v3"
)

const none = " — "

var registry = map[string][]models.AttributeItem{
	"console": {
		{Name: "Items", Description: "Data source of the console", Type: "[]string", ValueList: none, DefaultValue: none},
		{Name: "Height", Description: "Console height in lines", Type: "int", ValueList: none, DefaultValue: "0"},
		{Name: "OnClear", Description: "Callback run when the console is cleared", Type: "func()", ValueList: none, DefaultValue: none},
		{Name: "HeaderText", Description: "Header text", Type: "string", ValueList: none, DefaultValue: "System Monitor"},
		{Name: "LightTitle", Description: "Title of the activity light", Type: "string", ValueList: none, DefaultValue: "Activity"},
		{Name: "ClearButtonText", Description: "Clear button label", Type: "string", ValueList: none, DefaultValue: "Clear"},
		{Name: "ClearButtonColor", Description: "Clear button color", Type: "Color", ValueList: "None / Primary / Secondary / Success / Danger / Warning / Info", DefaultValue: "Secondary"},
		{Name: "Capacity", Description: "Messages kept before the oldest is dropped", Type: "int", ValueList: none, DefaultValue: "8"},
		{Name: "Interval", Description: "Refresh cadence", Type: "time.Duration", ValueList: none, DefaultValue: "2s"},
	},
	"table": {
		{Name: "Columns", Description: "Column declarations, rendered in declaration order", Type: "[]Column", ValueList: none, DefaultValue: none},
		{Name: "OnSort", Description: "Called with field and order when a header is sorted", Type: "SortHook", ValueList: none, DefaultValue: "nil"},
		{Name: "OnFilter", Description: "Called with the flattened filter conditions", Type: "FilterHook", ValueList: none, DefaultValue: "nil"},
		{Name: "PageSize", Description: "Rows fetched per page", Type: "int", ValueList: none, DefaultValue: "20"},
		{Name: "MaxCellWidth", Description: "Cells wider than this are truncated", Type: "int", ValueList: none, DefaultValue: "40"},
	},
	"column": {
		{Name: "Field", Description: "Field key, unique within the table", Type: "string", ValueList: none, DefaultValue: none},
		{Name: "Label", Description: "Header text", Type: "string", ValueList: none, DefaultValue: "Field"},
		{Name: "Sortable", Description: "Header cycles the sort order", Type: "bool", ValueList: "true / false", DefaultValue: "false"},
		{Name: "Filterable", Description: "Header opens a filter popup", Type: "bool", ValueList: "true / false", DefaultValue: "false"},
		{Name: "FilterKind", Description: "Filter input offered by the popup", Type: "FilterKind", ValueList: "text / number / bool / date / enum", DefaultValue: "text"},
		{Name: "Width", Description: "Fixed width, 0 computes it from the content", Type: "int", ValueList: none, DefaultValue: "0"},
	},
	"filter-popup": {
		{Name: "Field", Description: "Field the popup filters", Type: "string", ValueList: none, DefaultValue: none},
		{Name: "Operators", Description: "Operators offered, derived from the column kind", Type: "[]FilterOperator", ValueList: "= != > >= < <= LIKE ILIKE NOT LIKE IN NOT IN IS NULL IS NOT NULL", DefaultValue: none},
		{Name: "Conditions", Description: "Pending conditions, committed together", Type: "[]FilterCondition", ValueList: none, DefaultValue: "[]"},
	},
}

// Components returns the documented component names, sorted
func Components() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attributes returns the attribute table of component
func Attributes(component string) ([]models.AttributeItem, error) {
	items, ok := registry[strings.ToLower(component)]
	if !ok {
		return nil, fmt.Errorf("unknown component %q (known: %s)", component, strings.Join(Components(), ", "))
	}
	out := make([]models.AttributeItem, len(items))
	copy(out, items)
	return out, nil
}

// Render draws the attribute table of component
func Render(component string) (string, error) {
	items, err := Attributes(component)
	if err != nil {
		return "", err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{it.Name, it.Description, it.Type, it.ValueList, it.DefaultValue}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Name", "Description", "Type", "Values", "Default").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	title := lipgloss.NewStyle().Bold(true).Render(component)
	return title + "\n" + t.Render(), nil
}

// Encode serializes the attribute table of component as json or yaml
func Encode(component, format string) ([]byte, error) {
	items, err := Attributes(component)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return json.MarshalIndent(items, "", "  ")
	case "yaml":
		return yaml.Marshal(items)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
