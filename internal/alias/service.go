// Package alias maps product titles as scraped from a storefront to the
// canonical names observations are filed under.
package alias

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Repository interface {
	FindMatch(ctx context.Context, rawTitle string) (string, error)
	CreateMapping(ctx context.Context, pattern, canonical string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the canonical name for rawTitle, or an empty string when no
// pattern matches.
func (s *Service) Suggest(ctx context.Context, rawTitle string) (string, error) {
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, title)
}

// Learn remembers that titles containing pattern belong to canonical.
func (s *Service) Learn(ctx context.Context, pattern, canonical string) error {
	pattern = strings.TrimSpace(pattern)
	canonical = strings.TrimSpace(canonical)

	if pattern == "" || canonical == "" {
		return fmt.Errorf("pattern and canonical name are required")
	}

	return s.repo.CreateMapping(ctx, pattern, canonical)
}

// Canonical returns the canonical name for rawTitle, falling back to the
// trimmed title itself.
func (s *Service) Canonical(ctx context.Context, rawTitle string) string {
	title := strings.TrimSpace(rawTitle)

	suggested, err := s.Suggest(ctx, title)
	if err != nil {
		slog.Warn("alias lookup failed", "title", title, "error", err)
		return title
	}

	if suggested == "" {
		return title
	}

	return suggested
}
