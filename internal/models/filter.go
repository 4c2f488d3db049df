package models

import "fmt"

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpNotEqual       FilterOperator = "!="
	OpGreaterThan    FilterOperator = ">"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessThan       FilterOperator = "<"
	OpLessOrEqual    FilterOperator = "<="
	OpLike           FilterOperator = "LIKE"
	OpILike          FilterOperator = "ILIKE"
	OpNotLike        FilterOperator = "NOT LIKE"
	OpIn             FilterOperator = "IN"
	OpNotIn          FilterOperator = "NOT IN"
	OpIsNull         FilterOperator = "IS NULL"
	OpIsNotNull      FilterOperator = "IS NOT NULL"
)

// NeedsValue reports whether the operator takes a right-hand value
func (op FilterOperator) NeedsValue() bool {
	return op != OpIsNull && op != OpIsNotNull
}

// FilterCondition is one filter predicate on a single field.
// It is a value type: once built it is never modified, callers replace
// whole condition sets instead.
type FilterCondition struct {
	Column   string         `yaml:"column" json:"column"`
	Operator FilterOperator `yaml:"operator" json:"operator"`
	Value    interface{}    `yaml:"value,omitempty" json:"value,omitempty"`
	Type     string         `yaml:"type,omitempty" json:"type,omitempty"` // source type (text, integer, ...)
}

// NewCondition creates a filter condition
func NewCondition(column string, op FilterOperator, value interface{}) FilterCondition {
	return FilterCondition{Column: column, Operator: op, Value: value}
}

// String renders the condition for display
func (c FilterCondition) String() string {
	if !c.Operator.NeedsValue() {
		return fmt.Sprintf("%s %s", c.Column, c.Operator)
	}
	return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Value)
}

// SortOrder is the sort direction requested for a column
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

// String returns the SQL keyword for the order, empty for SortNone
func (s SortOrder) String() string {
	switch s {
	case SortAscending:
		return "ASC"
	case SortDescending:
		return "DESC"
	default:
		return ""
	}
}

// Next cycles None -> Ascending -> Descending -> None
func (s SortOrder) Next() SortOrder {
	switch s {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}
