package datasource

import (
	"context"
	"fmt"
	"time"
)

const demoSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL,
	age     INTEGER,
	city    TEXT,
	email   TEXT,
	active  BOOLEAN NOT NULL DEFAULT 1,
	joined  DATE
)`

var (
	demoNames  = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy", "Mallory", "Niaj", "Olivia", "Peggy", "Rupert", "Sybil", "Trent", "Victor", "Walter", "Aaron"}
	demoCities = []string{"Oslo", "Bergen", "Lisbon", "Porto", "Kyoto", "Osaka", "Austin", "Denver"}
)

// SeedDemo creates table and fills it with deterministic demo rows
// unless it already has data
func (s *SQLite) SeedDemo(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(demoSchema, table)); err != nil {
		return fmt.Errorf("failed to create demo table: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return fmt.Errorf("failed to count demo rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (id, name, age, city, email, active, joined) VALUES (?, ?, ?, ?, ?, ?, ?)", table))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		name := demoNames[i%len(demoNames)]
		if i >= len(demoNames) {
			name = fmt.Sprintf("%s %d", name, i/len(demoNames)+1)
		}
		var email interface{}
		if i%7 != 0 {
			email = fmt.Sprintf("user%02d@example.com", i)
		}
		_, err := stmt.ExecContext(ctx,
			i+1,
			name,
			18+(i*7)%50,
			demoCities[i%len(demoCities)],
			email,
			i%3 != 0,
			base.AddDate(0, 0, i*11).Format("2006-01-02"),
		)
		if err != nil {
			return fmt.Errorf("failed to insert demo row: %w", err)
		}
	}

	return tx.Commit()
}
