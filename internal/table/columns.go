package table

import "github.com/rebeliceyang/lazykit/internal/models"

// ColumnRegistry is the ordered list of declared columns.
//
// Field uniqueness is expected from callers and not enforced here.
// There is no removal: a new render pass builds a new registry (or
// calls Reset) instead.
type ColumnRegistry struct {
	columns []models.Column
}

// NewColumnRegistry creates an empty registry
func NewColumnRegistry() *ColumnRegistry {
	return &ColumnRegistry{columns: make([]models.Column, 0, 16)}
}

// Add appends a column declaration
func (r *ColumnRegistry) Add(col models.Column) {
	r.columns = append(r.columns, col)
}

// All returns the registered columns in insertion order
func (r *ColumnRegistry) All() []models.Column {
	out := make([]models.Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of registered columns
func (r *ColumnRegistry) Len() int {
	return len(r.columns)
}

// Lookup returns the first column registered under field
func (r *ColumnRegistry) Lookup(field string) (models.Column, bool) {
	for _, col := range r.columns {
		if col.Field == field {
			return col, true
		}
	}
	return models.Column{}, false
}

// Reset drops every column ahead of a new declaration pass
func (r *ColumnRegistry) Reset() {
	r.columns = r.columns[:0]
}
