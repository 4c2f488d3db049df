package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/models"
)

// SQLite reads from a SQLite database
type SQLite struct {
	db      *sql.DB
	builder *filter.Builder
}

// OpenSQLite opens the database at dsn
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return &SQLite{db: db, builder: filter.NewBuilder(filter.SQLite)}, nil
}

// DB returns the underlying handle
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Dialect returns filter.SQLite
func (s *SQLite) Dialect() filter.Dialect {
	return filter.SQLite
}

// Close closes the database
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Columns reads column metadata with PRAGMA table_info
func (s *SQLite) Columns(ctx context.Context, table string) ([]models.Column, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", filter.QuoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []models.Column
	for rows.Next() {
		var (
			cid       int
			name      string
			dataType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, models.Column{
			Field:      name,
			Sortable:   true,
			Filterable: true,
			FilterKind: models.KindForType(dataType),
			DataType:   dataType,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", table)
	}
	return columns, nil
}

// Fetch runs the count and page queries
func (s *SQLite) Fetch(ctx context.Context, req Request) (*Page, error) {
	cols, err := s.Columns(ctx, req.Table)
	if err != nil {
		return nil, err
	}
	if err := validate(req, cols); err != nil {
		return nil, err
	}

	start := time.Now()

	countQuery, countArgs, err := s.builder.BuildCount(req.Table, req.Filters)
	if err != nil {
		return nil, err
	}
	page := &Page{}
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&page.TotalRows); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	query, args, err := s.builder.BuildSelect(req.Table, req.Filters, req.SortField, req.SortOrder, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	page.Query, page.Args = query, args

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	page.Columns = columns

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = convertValueToString(v)
		}
		page.Rows = append(page.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page.Duration = time.Since(start)
	return page, nil
}
