package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.export)
	r.Post("/download", h.download)
}

type reportRequest struct {
	OutputDir string              `json:"output_dir"`
	Format    report.Format       `json:"format,omitempty"`
	Status    *observation.Status `json:"status,omitempty"`
	Product   *string             `json:"product,omitempty"`
	StartDate *time.Time          `json:"start_date,omitempty"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
}

func (req reportRequest) filter() observation.ListFilter {
	return observation.ListFilter{
		Status:    req.Status,
		Product:   req.Product,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type reportResponse struct {
	Path    string `json:"path"`
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

// export writes the report to a directory on the server.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.OutputDir == "" {
		http.Error(w, "output_dir is required", http.StatusBadRequest)
		return
	}

	if !req.Format.Valid() {
		http.Error(w, fmt.Sprintf("%v: %q", report.ErrUnsupportedFormat, req.Format), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Export(r.Context(), req.filter(), req.OutputDir, req.Format)
	if err != nil {
		writeExportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(reportResponse{
		Path:    res.Path,
		Count:   len(res.Observations),
		Summary: h.svc.Summary(res.Observations),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download streams the report file back to the client.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Format.Valid() {
		http.Error(w, fmt.Sprintf("%v: %q", report.ErrUnsupportedFormat, req.Format), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "pricewatch-report-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	res, err := h.svc.Export(r.Context(), req.filter(), tmpDir, req.Format)
	if err != nil {
		writeExportError(w, err)
		return
	}

	contentType := "text/csv"
	if req.Format == report.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(res.Path)))

	http.ServeFile(w, r, res.Path)
}

func writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, report.ErrUnsupportedFormat) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}
