package observation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=observation
type Repository interface {
	CreateObservation(ctx context.Context, o *Observation) error
	GetObservation(ctx context.Context, id uuid.UUID) (*Observation, error)
	UpdateObservation(ctx context.Context, o *Observation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	ListObservations(ctx context.Context, filter ListFilter) ([]*Observation, error)
	DeleteObservation(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []RecordParams) ([]*Observation, error)
	CreateObservations(ctx context.Context, obs []*Observation) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type ListFilter struct {
	Status    *Status
	Product   *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Record parses the label and stores it. An unparsable label is still
// stored, with status unparsable and a zero amount.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Observation, error) {
	o := s.withDefaults(params).Resolve()

	if err := s.repo.CreateObservation(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Observation, error) {
	return s.repo.ListObservations(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Observation, error) {
	return s.repo.GetObservation(ctx, id)
}

func (s *Service) Update(ctx context.Context, o *Observation) error {
	return s.repo.UpdateObservation(ctx, o)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	switch status {
	case StatusParsed, StatusUnparsable, StatusConfirmed, StatusIgnored:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteObservation(ctx, id)
}

// Stats aggregates the usable observations of product. Unparsable and
// ignored observations do not count.
func (s *Service) Stats(ctx context.Context, product string) (*Stats, error) {
	obs, err := s.repo.ListObservations(ctx, ListFilter{Product: &product})
	if err != nil {
		return nil, fmt.Errorf("listing observations: %w", err)
	}

	stats := &Stats{Product: product}

	for _, o := range obs {
		if !o.Valid() {
			continue
		}

		if stats.Count == 0 || o.Amount < stats.Min {
			stats.Min = o.Amount
		}

		if stats.Count == 0 || o.Amount > stats.Max {
			stats.Max = o.Amount
		}

		if stats.Count == 0 || !o.ObservedAt.Before(stats.LatestAt) {
			stats.Latest = o.Amount
			stats.LatestAt = o.ObservedAt
		}

		stats.Count++
	}

	return stats, nil
}

type ImportResult struct {
	Imported  []*Observation
	New       []RecordParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming RecordParams
	Existing *Observation
}

// ImportBatch stores params unless some of them were already recorded. On
// conflict nothing is written and the caller decides which rows to keep.
func (s *Service) ImportBatch(ctx context.Context, params []RecordParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	params = s.batchDefaults(params)
	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[DupKey]*Observation, len(duplicates))
	for _, d := range duplicates {
		lookup[KeyOf(d.ObservedAt, d.Product, d.RawText)] = d
	}

	var newParams []RecordParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[KeyOf(p.ObservedAt, p.Product, p.RawText)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	obs := resolveAll(newParams)
	if err := itx.CreateObservations(ctx, obs); err != nil {
		return nil, fmt.Errorf("create observations: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: obs}, nil
}

// CreateBatch stores params without looking for duplicates.
func (s *Service) CreateBatch(ctx context.Context, params []RecordParams) ([]*Observation, error) {
	if len(params) == 0 {
		return nil, nil
	}

	params = s.batchDefaults(params)
	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	obs := resolveAll(params)
	if err := itx.CreateObservations(ctx, obs); err != nil {
		return nil, fmt.Errorf("create observations: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return obs, nil
}

// DupKey identifies an observation for duplicate detection: the same label
// for the same product on the same day.
type DupKey struct {
	Date    string
	Product string
	RawText string
}

// KeyOf builds the duplicate key. Days are taken in UTC so rows read back
// in the server's zone key the same as freshly parsed ones.
func KeyOf(observedAt time.Time, product, rawText string) DupKey {
	return DupKey{
		Date:    observedAt.UTC().Format(time.DateOnly),
		Product: strings.ToLower(strings.TrimSpace(product)),
		RawText: strings.TrimSpace(rawText),
	}
}

func (s *Service) withDefaults(p RecordParams) RecordParams {
	if p.ObservedAt.IsZero() {
		p.ObservedAt = s.now().UTC()
	}

	if p.Source == "" {
		p.Source = SourceManual
	}

	return p
}

func (s *Service) batchDefaults(params []RecordParams) []RecordParams {
	out := make([]RecordParams, len(params))
	for i, p := range params {
		out[i] = s.withDefaults(p)
	}

	return out
}

func dateRange(params []RecordParams) (time.Time, time.Time) {
	minDate := params[0].ObservedAt
	maxDate := params[0].ObservedAt

	for _, p := range params[1:] {
		if p.ObservedAt.Before(minDate) {
			minDate = p.ObservedAt
		}

		if p.ObservedAt.After(maxDate) {
			maxDate = p.ObservedAt
		}
	}

	return minDate, maxDate
}

func resolveAll(params []RecordParams) []*Observation {
	obs := make([]*Observation, len(params))
	for i, p := range params {
		obs[i] = p.Resolve()
	}

	return obs
}
