package models

// FilterKind selects which filter input a column offers
type FilterKind string

const (
	FilterText   FilterKind = "text"
	FilterNumber FilterKind = "number"
	FilterBool   FilterKind = "bool"
	FilterDate   FilterKind = "date"
	FilterEnum   FilterKind = "enum"
)

// Column is a table column declaration
type Column struct {
	Field      string     // Unique key, also the source column name
	Label      string     // Header text, Field when empty
	Sortable   bool
	Filterable bool
	FilterKind FilterKind
	DataType   string // Source type name (text, integer, ...)
	Width      int    // Fixed width, 0 = computed from content
	Choices    []string
}

// Title returns the header text for the column
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Field
}

// KindForType maps a source data type name to a filter kind
func KindForType(dataType string) FilterKind {
	switch dataType {
	case "integer", "int", "int4", "int8", "bigint", "smallint", "numeric", "real",
		"double precision", "float", "REAL", "INTEGER", "NUMERIC":
		return FilterNumber
	case "boolean", "bool", "BOOLEAN":
		return FilterBool
	case "date", "timestamp", "timestamptz", "timestamp with time zone",
		"timestamp without time zone", "DATE", "DATETIME", "TIMESTAMP":
		return FilterDate
	default:
		return FilterText
	}
}
