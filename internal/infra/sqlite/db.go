// Package sqlite provides SQLite-based persistent storage for Pulse.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/pulse.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "pulse.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

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
		`CREATE TABLE IF NOT EXISTS accounts (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL DEFAULT '',
			points         INTEGER NOT NULL DEFAULT 0,
			level          INTEGER NOT NULL DEFAULT 1,
			streak         INTEGER NOT NULL DEFAULT 0,
			last_completed INTEGER,
			created_at     INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			account_id    TEXT NOT NULL,
			task_id       TEXT,
			kind          TEXT NOT NULL,
			duration_min  INTEGER NOT NULL,
			completed     BOOLEAN NOT NULL DEFAULT 0,
			points_earned INTEGER NOT NULL DEFAULT 0,
			started_at    INTEGER NOT NULL,
			completed_at  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_account ON sessions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_completed ON sessions(account_id, completed, completed_at)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id                  TEXT PRIMARY KEY,
			account_id          TEXT NOT NULL,
			title               TEXT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'pending',
			estimated_intervals INTEGER NOT NULL,
			completed_intervals INTEGER NOT NULL DEFAULT 0,
			created_at          INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_account ON tasks(account_id)`,
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

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
