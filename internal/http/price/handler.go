package price

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

const maxTexts = 1000

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
}

type parseRequest struct {
	Texts []string `json:"texts"`
}

type parseResult struct {
	Text       string  `json:"text"`
	Value      float64 `json:"value"`
	Cents      int64   `json:"cents"`
	Normalized string  `json:"normalized"`
	OK         bool    `json:"ok"`
	Error      string  `json:"error,omitempty"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Texts) > maxTexts {
		http.Error(w, "too many texts", http.StatusRequestEntityTooLarge)
		return
	}

	results := make([]parseResult, 0, len(req.Texts))

	for _, text := range req.Texts {
		res := parseResult{
			Text:       text,
			Value:      price.Parse(text),
			Normalized: price.Normalize(text),
		}

		cents, err := price.ParseCents(text)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Cents = cents
			res.OK = true
		}

		results = append(results, res)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(results); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
