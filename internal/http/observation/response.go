package observation

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

type observationResponse struct {
	ID         uuid.UUID          `json:"id"`
	Product    string             `json:"product"`
	Source     observation.Source `json:"source"`
	URL        string             `json:"url,omitempty"`
	RawText    string             `json:"raw_text"`
	Amount     int64              `json:"amount"`
	Price      string             `json:"price"`
	Status     observation.Status `json:"status"`
	ObservedAt time.Time          `json:"observed_at"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(o *observation.Observation) observationResponse {
	return observationResponse{
		ID:         o.ID,
		Product:    o.Product,
		Source:     o.Source,
		URL:        o.URL,
		RawText:    o.RawText,
		Amount:     o.Amount,
		Price:      price.FormatCents(o.Amount),
		Status:     o.Status,
		ObservedAt: o.ObservedAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toResponseList(obs []*observation.Observation) []observationResponse {
	resp := make([]observationResponse, len(obs))
	for i, o := range obs {
		resp[i] = toResponse(o)
	}

	return resp
}

type statsResponse struct {
	Product  string    `json:"product"`
	Count    int       `json:"count"`
	Min      int64     `json:"min"`
	Max      int64     `json:"max"`
	Latest   int64     `json:"latest"`
	LatestAt time.Time `json:"latest_at,omitzero"`
}
