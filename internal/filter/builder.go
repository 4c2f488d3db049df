package filter

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazykit/internal/models"
)

// Dialect selects placeholder and operator spelling
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// String returns the dialect name
func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// ParseDialect maps a driver name to a dialect
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Postgres, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// Builder generates SQL clauses from flattened filter conditions
type Builder struct {
	dialect Dialect
}

// NewBuilder creates a new filter builder
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Dialect returns the builder's dialect
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// BuildWhere generates a WHERE clause joining all conditions with AND.
// Placeholders start at paramIndex 1.
func (b *Builder) BuildWhere(conds []models.FilterCondition) (string, []interface{}, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}
	currentParam := 1

	for _, cond := range conds {
		clause, condArgs, err := b.buildCondition(cond, currentParam)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
		currentParam += len(condArgs)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

// BuildOrderBy generates an ORDER BY clause, empty when order is SortNone
func (b *Builder) BuildOrderBy(field string, order models.SortOrder) string {
	if field == "" || order == models.SortNone {
		return ""
	}
	return fmt.Sprintf("ORDER BY %s %s", QuoteIdent(field), order)
}

// BuildSelect generates a paginated SELECT for table
func (b *Builder) BuildSelect(table string, conds []models.FilterCondition, sortField string, order models.SortOrder, limit, offset int) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(conds)
	if err != nil {
		return "", nil, err
	}

	parts := []string{"SELECT * FROM " + QuoteTable(table)}
	if where != "" {
		parts = append(parts, where)
	}
	if orderBy := b.BuildOrderBy(sortField, order); orderBy != "" {
		parts = append(parts, orderBy)
	}
	if limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset))
	}
	return strings.Join(parts, " "), args, nil
}

// BuildCount generates a COUNT query honoring the filter
func (b *Builder) BuildCount(table string, conds []models.FilterCondition) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(conds)
	if err != nil {
		return "", nil, err
	}
	query := "SELECT COUNT(*) FROM " + QuoteTable(table)
	if where != "" {
		query += " " + where
	}
	return query, args, nil
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(cond models.FilterCondition, paramIndex int) (string, []interface{}, error) {
	column := QuoteIdent(cond.Column)

	switch cond.Operator {
	case models.OpIsNull:
		return fmt.Sprintf("%s IS NULL", column), nil, nil
	case models.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", column), nil, nil
	case models.OpEqual, models.OpNotEqual, models.OpGreaterThan, models.OpGreaterOrEqual,
		models.OpLessThan, models.OpLessOrEqual:
		return fmt.Sprintf("%s %s %s", column, cond.Operator, b.placeholder(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpLike, models.OpILike, models.OpNotLike:
		op := cond.Operator
		if op == models.OpILike && b.dialect == SQLite {
			// SQLite LIKE is already case-insensitive for ASCII
			op = models.OpLike
		}
		return fmt.Sprintf("%s %s %s", column, op, b.placeholder(paramIndex)), []interface{}{likePattern(cond.Value)}, nil
	case models.OpIn, models.OpNotIn:
		values := listValues(cond.Value)
		if len(values) == 0 {
			return "", nil, fmt.Errorf("operator %s on %s needs at least one value", cond.Operator, cond.Column)
		}
		holders := make([]string, len(values))
		for i := range values {
			holders[i] = b.placeholder(paramIndex + i)
		}
		return fmt.Sprintf("%s %s (%s)", column, cond.Operator, strings.Join(holders, ", ")), values, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator: %s", cond.Operator)
	}
}

func (b *Builder) placeholder(i int) string {
	if b.dialect == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", i)
}

// likePattern turns glob stars into SQL wildcards
func likePattern(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.ReplaceAll(s, "*", "%")
}

// listValues accepts a slice or a comma separated string
func listValues(v interface{}) []interface{} {
	switch vals := v.(type) {
	case []interface{}:
		return vals
	case []string:
		out := make([]interface{}, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	case string:
		var out []interface{}
		for _, part := range strings.Split(vals, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case nil:
		return nil
	default:
		return []interface{}{v}
	}
}

// QuoteIdent quotes an identifier for both dialects
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteTable quotes a possibly schema-qualified table name
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// GetOperatorsForKind returns the operators a filter popup offers
func GetOperatorsForKind(kind models.FilterKind) []models.FilterOperator {
	switch kind {
	case models.FilterNumber, models.FilterDate:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpGreaterThan, models.OpGreaterOrEqual,
			models.OpLessThan, models.OpLessOrEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	case models.FilterText:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpLike, models.OpILike, models.OpNotLike,
			models.OpIsNull, models.OpIsNotNull,
		}
	case models.FilterEnum:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIn, models.OpNotIn,
			models.OpIsNull, models.OpIsNotNull,
		}
	case models.FilterBool:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	default:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	}
}

// ValidOperator reports whether op is offered for kind
func ValidOperator(kind models.FilterKind, op models.FilterOperator) bool {
	for _, o := range GetOperatorsForKind(kind) {
		if o == op {
			return true
		}
	}
	return false
}
