package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawTitle string) (string, error) {
	query := `
		SELECT canonical
		FROM product_aliases
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var canonical string

	err := s.db.QueryRowContext(ctx, query, rawTitle).Scan(&canonical)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding alias: %w", err)
	}

	return canonical, nil
}

func (s *Store) CreateMapping(ctx context.Context, pattern, canonical string) error {
	query := `
		INSERT INTO product_aliases (pattern, canonical, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (pattern) DO UPDATE SET canonical = EXCLUDED.canonical, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, pattern, canonical); err != nil {
		return fmt.Errorf("creating alias: %w", err)
	}

	return nil
}
