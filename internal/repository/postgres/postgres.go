// Package postgres implements the repository interfaces on PostgreSQL via
// jackc/pgx. It is selected with DB_DRIVER=postgres and carries the same
// contract as the sqlite backend, including the (user_id, entry_date)
// natural-key constraint.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint breach.
const uniqueViolation = "23505"

// DB wraps a pgx connection pool and provides repository methods.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL with the given DSN and runs migrations.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}

	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return db, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS journal_entries (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			entry_date    DATE NOT NULL,
			raw_text      TEXT NOT NULL,
			mood_score    DOUBLE PRECISION,
			emotions      TEXT,
			core_concerns TEXT,
			summary       TEXT,
			growth_tips   TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
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

// isUniqueViolation reports whether err is a 23505 unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
