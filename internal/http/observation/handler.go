package observation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

type Handler struct {
	svc *observation.Service
}

func NewHandler(svc *observation.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
}

type createObservationRequest struct {
	Product    string             `json:"product"`
	Source     observation.Source `json:"source"`
	URL        string             `json:"url"`
	RawText    string             `json:"raw_text"`
	ObservedAt time.Time          `json:"observed_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Product == "" {
		http.Error(w, "product is required", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Record(r.Context(), observation.RecordParams{
		Product:    req.Product,
		Source:     req.Source,
		URL:        req.URL,
		RawText:    req.RawText,
		ObservedAt: req.ObservedAt,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := observation.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(observation.Status(s))
	}

	if s := r.URL.Query().Get("product"); s != "" {
		filter.Product = new(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
		}
	}

	obs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(obs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	product := r.URL.Query().Get("product")
	if product == "" {
		http.Error(w, "product query parameter is required", http.StatusBadRequest)
		return
	}

	st, err := h.svc.Stats(r.Context(), product)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(statsResponse(*st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeLookupError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateObservationRequest struct {
	Product    *string    `json:"product,omitempty"`
	URL        *string    `json:"url,omitempty"`
	Amount     *int64     `json:"amount,omitempty"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}

// update edits an observation. A manual amount marks it confirmed.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	if req.Product != nil {
		o.Product = *req.Product
	}

	if req.URL != nil {
		o.URL = *req.URL
	}

	if req.Amount != nil {
		if *req.Amount < 0 {
			http.Error(w, "amount must not be negative", http.StatusBadRequest)
			return
		}

		o.Amount = *req.Amount
		o.Status = observation.StatusConfirmed
	}

	if req.ObservedAt != nil {
		o.ObservedAt = *req.ObservedAt
	}

	if err := h.svc.Update(r.Context(), o); err != nil {
		writeLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateStatusRequest struct {
	Status observation.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, observation.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeLookupError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, observation.ErrNotFound) {
		http.Error(w, "observation not found", http.StatusNotFound)
		return
	}

	slog.Error("observation request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
