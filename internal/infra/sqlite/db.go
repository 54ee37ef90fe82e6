// Package sqlite provides SQLite-based persistent storage for taskdeck.
// The server keeps users, tokens and tasks here; the client keeps its
// logged-in session. Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Server: accounts
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			full_name     TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS auth_tokens (
			token      TEXT PRIMARY KEY,
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_expires ON auth_tokens(expires_at)`,

		// Server: tasks. seq keeps insertion order for listing.
		`CREATE TABLE IF NOT EXISTS tasks (
			seq                   INTEGER PRIMARY KEY AUTOINCREMENT,
			id                    TEXT NOT NULL UNIQUE,
			task_name             TEXT NOT NULL,
			responsible           TEXT NOT NULL,
			status                TEXT NOT NULL,
			priority              TEXT NOT NULL,
			category              TEXT NOT NULL DEFAULT '',
			department            TEXT NOT NULL DEFAULT '',
			estimated_hours       INTEGER NOT NULL,
			is_critical           BOOLEAN NOT NULL DEFAULT 0,
			completion_percentage INTEGER NOT NULL DEFAULT 0,
			start_date            TEXT,
			end_date              TEXT,
			remarks               TEXT NOT NULL DEFAULT '',
			last_modified_by      TEXT NOT NULL DEFAULT '',
			updated_at            INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

		// Client: the persisted session, at most one row
		`CREATE TABLE IF NOT EXISTS client_session (
			id        INTEGER PRIMARY KEY CHECK (id = 1),
			token     TEXT NOT NULL,
			username  TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role      TEXT NOT NULL,
			saved_at  INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
