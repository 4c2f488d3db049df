package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/models"
	"golang.org/x/sync/errgroup"
)

// Postgres reads from a PostgreSQL database through a pgx pool
type Postgres struct {
	pool    *pgxpool.Pool
	builder *filter.Builder
}

// OpenPostgres creates a pool for dsn and checks it with a ping
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool, builder: filter.NewBuilder(filter.Postgres)}, nil
}

// Dialect returns filter.Postgres
func (p *Postgres) Dialect() filter.Dialect {
	return filter.Postgres
}

// Close closes the pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Columns reads column metadata from information_schema
func (p *Postgres) Columns(ctx context.Context, table string) ([]models.Column, error) {
	schema, name := splitTable(table)
	rows, err := p.pool.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var colName, dataType string
		if err := rows.Scan(&colName, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, models.Column{
			Field:      colName,
			Sortable:   true,
			Filterable: dataType != "jsonb" && dataType != "ARRAY",
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

// Fetch runs the count and page queries concurrently
func (p *Postgres) Fetch(ctx context.Context, req Request) (*Page, error) {
	cols, err := p.Columns(ctx, req.Table)
	if err != nil {
		return nil, err
	}
	if err := validate(req, cols); err != nil {
		return nil, err
	}

	countQuery, countArgs, err := p.builder.BuildCount(req.Table, req.Filters)
	if err != nil {
		return nil, err
	}
	query, args, err := p.builder.BuildSelect(req.Table, req.Filters, req.SortField, req.SortOrder, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	page := &Page{Query: query, Args: args}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.pool.QueryRow(gctx, countQuery, countArgs...).Scan(&page.TotalRows); err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := p.pool.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query table data: %w", err)
		}
		defer rows.Close()

		fieldDescs := rows.FieldDescriptions()
		columns := make([]string, len(fieldDescs))
		for i, fd := range fieldDescs {
			columns[i] = fd.Name
		}

		var data [][]string
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return err
			}
			row := make([]string, len(values))
			for i, v := range values {
				row[i] = convertValueToString(v)
			}
			data = append(data, row)
		}
		page.Columns, page.Rows = columns, data
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Duration = time.Since(start)
	return page, nil
}

// splitTable splits "schema.table", defaulting the schema to public
func splitTable(table string) (string, string) {
	if i := strings.Index(table, "."); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "public", table
}
