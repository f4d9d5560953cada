// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is the default backend: an embedded, single-file database with no
// server to run — a good fit for a single-instance journal service and for
// tests (":memory:" gives a throwaway database per test). We use
// modernc.org/sqlite, the pure-Go driver, so builds need no C toolchain.
//
// Entry dates are stored as TEXT in YYYY-MM-DD form. The analysis group is
// stored as a nullable mood_score plus JSON-encoded text columns; a NULL
// mood_score means the whole group is absent.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — relevant for
	// a web server where history reads and submits overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// The UNIQUE index on (user_id, entry_date) is load-bearing: it is the
// natural-key invariant "one entry per owner per day". Two concurrent
// submits for the same day cannot both insert — the loser gets a constraint
// violation that the entry store surfaces as a conflict.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			entry_date    TEXT NOT NULL,
			raw_text      TEXT NOT NULL,
			mood_score    REAL,
			emotions      TEXT,
			core_concerns TEXT,
			summary       TEXT,
			growth_tips   TEXT,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, entry_date)
		);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_user_date
			ON journal_entries(user_id, entry_date);
	`)
	if err != nil {
		return fmt.Errorf("creating journal_entries table: %w", err)
	}

	return nil
}
