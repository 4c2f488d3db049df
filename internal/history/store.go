package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one fetch issued by a table
type Entry struct {
	ID           int
	Table        string
	Query        string
	Args         string
	FilterCount  int
	ExecutedAt   time.Time
	Duration     time.Duration
	RowsReturned int64
	Success      bool
	ErrorMessage string
}

// Store persists fetch history in SQLite
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a fetch
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO fetch_history
		(table_name, query, args, filter_count, duration_ms, rows_returned, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Table,
		entry.Query,
		entry.Args,
		entry.FilterCount,
		entry.Duration.Milliseconds(),
		entry.RowsReturned,
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	return s.query(`
		SELECT id, table_name, query, args, filter_count, executed_at,
		       duration_ms, rows_returned, success, error_message
		FROM fetch_history
		ORDER BY id DESC
		LIMIT ?`, limit)
}

// Search finds entries whose query contains text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	return s.query(`
		SELECT id, table_name, query, args, filter_count, executed_at,
		       duration_ms, rows_returned, success, error_message
		FROM fetch_history
		WHERE query LIKE ?
		ORDER BY id DESC
		LIMIT ?`, "%"+text+"%", limit)
}

func (s *Store) query(q string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var executedAt string

		err := rows.Scan(
			&e.ID,
			&e.Table,
			&e.Query,
			&e.Args,
			&e.FilterCount,
			&executedAt,
			&durationMs,
			&e.RowsReturned,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt, _ = time.Parse("2006-01-02 15:04:05", executedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
