package db

import (
	"context"
	"fmt"
	"log/slog"

	// Pure-Go SQLite driver registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS leaderboard (
		username TEXT PRIMARY KEY,
		wins INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0),
		losses INTEGER NOT NULL DEFAULT 0 CHECK (losses >= 0),
		ties INTEGER NOT NULL DEFAULT 0 CHECK (ties >= 0)
	);`,
}

// OpenSQLite opens the database at dsn and makes sure the schema exists.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// An in-memory database lives per connection.
	if dsn == ":memory:" {
		pool.SetMaxOpenConns(1)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	slog.InfoContext(ctx, "sqlite connection initialized and schema verified", "db.dsn", dsn)
	return pool, nil
}

// Migrate creates the tables used by the application if they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
