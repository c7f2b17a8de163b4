// Package sqlite provides SQLite-based persistent storage for StudyGram.
// Uses WAL mode for concurrent reads and crash-safe writes.
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
		// Profile store: the whole UserProfile as one JSON document.
		`CREATE TABLE IF NOT EXISTS store (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Gems ledger (double-entry bookkeeping)
		`CREATE TABLE IF NOT EXISTS gem_ledger (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			type        TEXT NOT NULL,
			entry_type  TEXT NOT NULL,
			account     TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			ref         TEXT,
			description TEXT,
			balance     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gems_ts ON gem_ledger(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_gems_account ON gem_ledger(account)`,

		// Local community feed
		`CREATE TABLE IF NOT EXISTS posts (
			id          TEXT PRIMARY KEY,
			uid         TEXT NOT NULL,
			user_name   TEXT NOT NULL,
			avatar      TEXT NOT NULL DEFAULT '',
			content     TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL,
			created_at  INTEGER NOT NULL,
			likes       INTEGER NOT NULL DEFAULT 0,
			ai_analysis TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_name  TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,

		// Focus timer history
		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			subject      TEXT NOT NULL DEFAULT '',
			minutes      INTEGER NOT NULL,
			completed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_focus_completed ON focus_sessions(completed_at)`,

		// Notification history (daily cap bookkeeping)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_created ON notifications(created_at)`,
	}

	for i, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// SetValue stores a key-value pair in the generic store table.
func (d *DB) SetValue(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetValue retrieves a value by key. Returns "" if key not found.
func (d *DB) GetValue(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
