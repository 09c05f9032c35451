package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrations run in order. Each statement must be idempotent.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS observations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product TEXT NOT NULL,
		source VARCHAR(32) NOT NULL,
		url TEXT,
		raw_text TEXT NOT NULL,
		amount BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL,
		observed_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_observations_product ON observations (LOWER(product))`,
	`CREATE INDEX IF NOT EXISTS idx_observations_observed_at ON observations (observed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_observations_status ON observations (status)`,
	`CREATE TABLE IF NOT EXISTS product_aliases (
		pattern TEXT PRIMARY KEY,
		canonical TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies Migrations inside a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range Migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migrations: %w", err)
	}

	slog.Info("database migrations applied", "count", len(Migrations))

	return nil
}
