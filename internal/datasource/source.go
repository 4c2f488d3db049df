// Package datasource runs the table's sort and filter requests against
// a database.
package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/models"
)

// ErrUnknownColumn is returned when a request names a column the table
// does not have
var ErrUnknownColumn = errors.New("unknown column")

// Request describes one page fetch
type Request struct {
	Table     string
	Filters   []models.FilterCondition
	SortField string
	SortOrder models.SortOrder
	Limit     int
	Offset    int
}

// Page is one page of results
type Page struct {
	Columns   []string
	Rows      [][]string
	TotalRows int64
	Query     string
	Args      []interface{}
	Duration  time.Duration
}

// Source is a database the demo table can read from
type Source interface {
	Columns(ctx context.Context, table string) ([]models.Column, error)
	Fetch(ctx context.Context, req Request) (*Page, error)
	Dialect() filter.Dialect
	Close() error
}

// Open opens a source for driver
func Open(ctx context.Context, driver, dsn string) (Source, error) {
	d, err := filter.ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	switch d {
	case filter.SQLite:
		return OpenSQLite(dsn)
	default:
		return OpenPostgres(ctx, dsn)
	}
}

// validate checks every filter and the sort field against cols
func validate(req Request, cols []models.Column) error {
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.Field] = true
	}
	for _, f := range req.Filters {
		if !known[f.Column] {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, f.Column)
		}
	}
	if req.SortField != "" && !known[req.SortField] {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, req.SortField)
	}
	return nil
}

// convertValueToString converts a database value to string, handling
// JSON and byte values
func convertValueToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
