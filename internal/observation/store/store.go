package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Column order must match scanObservation.
const selectColumns = `
	id, product, source, url, raw_text, amount, status, observed_at,
	created_at, updated_at, deleted_at
`

const insertObservation = `
	INSERT INTO observations (product, source, url, raw_text, amount, status, observed_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func scanObservation(s scanner) (*observation.Observation, error) {
	var o observation.Observation

	var sourceStr, statusStr string

	var url sql.NullString

	if err := s.Scan(
		&o.ID, &o.Product, &sourceStr, &url, &o.RawText, &o.Amount, &statusStr, &o.ObservedAt,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	); err != nil {
		return nil, err
	}

	o.Source = observation.Source(sourceStr)
	o.Status = observation.Status(statusStr)
	o.URL = url.String

	return &o, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q execer, o *observation.Observation) error {
	return q.QueryRowContext(ctx, insertObservation,
		o.Product,
		o.Source,
		o.URL,
		o.RawText,
		o.Amount,
		o.Status,
		o.ObservedAt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (s *Store) CreateObservation(ctx context.Context, o *observation.Observation) error {
	if err := insert(ctx, s.db, o); err != nil {
		return fmt.Errorf("creating observation: %w", err)
	}

	return nil
}

func (s *Store) GetObservation(ctx context.Context, id uuid.UUID) (*observation.Observation, error) {
	query := `SELECT ` + selectColumns + `
		FROM observations
		WHERE id = $1 AND deleted_at IS NULL`

	o, err := scanObservation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, observation.ErrNotFound
		}

		return nil, fmt.Errorf("getting observation: %w", err)
	}

	return o, nil
}

func (s *Store) ListObservations(ctx context.Context, filter observation.ListFilter) ([]*observation.Observation, error) {
	query := `SELECT ` + selectColumns + `
		FROM observations
		WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Product != nil {
		query += fmt.Sprintf(" AND LOWER(product) = LOWER($%d)", argIdx)

		args = append(args, *filter.Product)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND observed_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND observed_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY observed_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing observations: %w", err)
	}
	defer rows.Close()

	var obs []*observation.Observation

	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		obs = append(obs, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return obs, nil
}

func (s *Store) UpdateObservation(ctx context.Context, o *observation.Observation) error {
	query := `
		UPDATE observations
		SET product = $1, url = $2, raw_text = $3, amount = $4, status = $5, observed_at = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		o.Product,
		o.URL,
		o.RawText,
		o.Amount,
		o.Status,
		o.ObservedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating observation: %w", err)
	}

	return expectOne(res)
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status observation.Status) error {
	query := `
		UPDATE observations
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeleteObservation(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE observations
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting observation: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return observation.ErrNotFound
	}

	return nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction holding an advisory lock for the date
// range, so concurrent imports of the same period serialize.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (observation.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []observation.RecordParams) ([]*observation.Observation, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate := params[0].ObservedAt
	maxDate := params[0].ObservedAt
	keySet := make(map[observation.DupKey]struct{}, len(params))

	for _, p := range params {
		if p.ObservedAt.Before(minDate) {
			minDate = p.ObservedAt
		}

		if p.ObservedAt.After(maxDate) {
			maxDate = p.ObservedAt
		}

		keySet[observation.KeyOf(p.ObservedAt, p.Product, p.RawText)] = struct{}{}
	}

	// Widen to whole days so a label seen in the morning matches one
	// imported for the same date at midnight.
	start := truncateDay(minDate)
	end := truncateDay(maxDate).AddDate(0, 0, 1)

	query := `SELECT ` + selectColumns + `
		FROM observations
		WHERE deleted_at IS NULL AND observed_at >= $1 AND observed_at < $2
		ORDER BY observed_at ASC`

	rows, err := itx.tx.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*observation.Observation

	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		if _, found := keySet[observation.KeyOf(o.ObservedAt, o.Product, o.RawText)]; !found {
			continue
		}

		duplicates = append(duplicates, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateObservations(ctx context.Context, obs []*observation.Observation) error {
	for _, o := range obs {
		if err := insert(ctx, itx.tx, o); err != nil {
			return fmt.Errorf("creating observation: %w", err)
		}
	}

	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
