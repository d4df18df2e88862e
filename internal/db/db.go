// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection. The handle is
// returned to the caller for explicit wiring; there is no package-level DB.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return conn, nil
}

// Migrate creates the schema if it does not exist. Idempotent, run at
// startup. The events foreign key is advisory: ingestion never pre-checks
// post existence.
func Migrate(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			persona TEXT NOT NULL,
			audience TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id SERIAL PRIMARY KEY,
			campaign_id INTEGER NOT NULL REFERENCES campaigns(id),
			text TEXT NOT NULL,
			publish_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			external_id TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			posted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			post_id INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			value INTEGER NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}
