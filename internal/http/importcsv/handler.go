package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/pricelist"
)

type Handler struct {
	listSvc  *pricelist.Service
	obsSvc   *observation.Service
	aliasSvc *alias.Service
}

func NewHandler(listSvc *pricelist.Service, obsSvc *observation.Service, aliasSvc *alias.Service) *Handler {
	return &Handler{
		listSvc:  listSvc,
		obsSvc:   obsSvc,
		aliasSvc: aliasSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type observationResponse struct {
	ID         uuid.UUID          `json:"id"`
	Product    string             `json:"product"`
	RawText    string             `json:"raw_text"`
	Amount     int64              `json:"amount"`
	Status     observation.Status `json:"status"`
	ObservedAt time.Time          `json:"observed_at"`
	CreatedAt  time.Time          `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Observations []observationResponse `json:"observations"`
}

type recordParamsDTO struct {
	Product    string             `json:"product"`
	Source     observation.Source `json:"source"`
	URL        string             `json:"url,omitempty"`
	RawText    string             `json:"raw_text"`
	ObservedAt time.Time          `json:"observed_at"`
}

type conflictDTO struct {
	Incoming recordParamsDTO     `json:"incoming"`
	Existing observationResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []recordParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []recordParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := pricelist.Format(r.FormValue("format"))

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.listSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i, p := range params {
		suggested, err := h.aliasSvc.Suggest(r.Context(), p.Product)
		if err != nil {
			slog.Warn("alias lookup failed", "product", p.Product, "error", err)
			continue
		}

		if suggested == "" {
			continue
		}

		params[i].Product = suggested
	}

	result, err := h.obsSvc.ImportBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]recordParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toObservationResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(result.Imported)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]observation.RecordParams, 0, len(req.Params))
	for _, p := range req.Params {
		source := p.Source
		if source == "" {
			source = observation.SourceImport
		}

		params = append(params, observation.RecordParams{
			Product:    p.Product,
			Source:     source,
			URL:        p.URL,
			RawText:    p.RawText,
			ObservedAt: p.ObservedAt,
		})
	}

	obs, err := h.obsSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(obs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(obs []*observation.Observation) importSuccessResponse {
	responses := make([]observationResponse, 0, len(obs))
	for _, o := range obs {
		responses = append(responses, toObservationResponse(o))
	}

	return importSuccessResponse{
		Imported:     len(obs),
		Observations: responses,
	}
}

func toObservationResponse(o *observation.Observation) observationResponse {
	return observationResponse{
		ID:         o.ID,
		Product:    o.Product,
		RawText:    o.RawText,
		Amount:     o.Amount,
		Status:     o.Status,
		ObservedAt: o.ObservedAt,
		CreatedAt:  o.CreatedAt,
	}
}

func toParamsDTO(p observation.RecordParams) recordParamsDTO {
	return recordParamsDTO{
		Product:    p.Product,
		Source:     p.Source,
		URL:        p.URL,
		RawText:    p.RawText,
		ObservedAt: p.ObservedAt,
	}
}
