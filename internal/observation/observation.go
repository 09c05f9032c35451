package observation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

var (
	ErrNotFound      = errors.New("observation not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// Status represents the review state of an observation.
type Status string

const (
	StatusParsed     Status = "parsed"
	StatusUnparsable Status = "unparsable"
	StatusConfirmed  Status = "confirmed"
	StatusIgnored    Status = "ignored"
)

// Source records where a price label was read.
type Source string

const (
	SourceStorefront Source = "storefront"
	SourceImport     Source = "import"
	SourceManual     Source = "manual"
)

// Observation is one price label seen for a product at a point in time.
type Observation struct {
	ID         uuid.UUID
	Product    string
	Source     Source
	URL        string
	RawText    string
	Amount     int64 // Amount in cents, 0 when RawText was unparsable
	Status     Status
	ObservedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}

// Valid reports whether the observation carries a usable price.
func (o *Observation) Valid() bool {
	return o.Status == StatusParsed || o.Status == StatusConfirmed
}

// RecordParams describes a label to be recorded. Amount and Status are
// derived from RawText.
type RecordParams struct {
	Product    string
	Source     Source
	URL        string
	RawText    string
	ObservedAt time.Time
}

// Resolve parses RawText into an unsaved observation.
func (p RecordParams) Resolve() *Observation {
	o := &Observation{
		Product:    p.Product,
		Source:     p.Source,
		URL:        p.URL,
		RawText:    p.RawText,
		Status:     StatusParsed,
		ObservedAt: p.ObservedAt,
	}

	cents, err := price.ParseCents(p.RawText)
	if err != nil {
		o.Status = StatusUnparsable
		return o
	}

	o.Amount = cents

	return o
}

// Stats summarises the usable observations of a single product.
type Stats struct {
	Product  string
	Count    int
	Min      int64
	Max      int64
	Latest   int64
	LatestAt time.Time
}
