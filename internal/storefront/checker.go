package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

// Listing is what a storefront shows for a single product.
type Listing struct {
	Title     string
	PriceText string
	URL       string
	Available bool
}

type Scraper interface {
	Scrape(ctx context.Context, term string) (*Listing, error)
}

type Recorder interface {
	Record(ctx context.Context, params observation.RecordParams) (*observation.Observation, error)
}

type Namer interface {
	Canonical(ctx context.Context, rawTitle string) string
}

// Checker looks up a product on the storefront and records its price.
type Checker struct {
	scraper  Scraper
	recorder Recorder
	names    Namer
	now      func() time.Time
}

func NewChecker(scraper Scraper, recorder Recorder, names Namer) *Checker {
	return &Checker{scraper: scraper, recorder: recorder, names: names, now: time.Now}
}

func (c *Checker) Check(ctx context.Context, term string) (*observation.Observation, error) {
	listing, err := c.scraper.Scrape(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("scraping %q: %w", term, err)
	}

	product := listing.Title
	if c.names != nil {
		product = c.names.Canonical(ctx, listing.Title)
	}

	o, err := c.recorder.Record(ctx, observation.RecordParams{
		Product:    product,
		Source:     observation.SourceStorefront,
		URL:        listing.URL,
		RawText:    listing.PriceText,
		ObservedAt: c.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("recording observation: %w", err)
	}

	if o.Status == observation.StatusUnparsable {
		slog.Warn("unreadable price label", "product", product, "label", listing.PriceText)
	}

	return o, nil
}
