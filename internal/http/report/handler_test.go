package report_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	reporthttp "github.com/MrJamesThe3rd/pricewatch/internal/http/report"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
)

func setup(t *testing.T) (http.Handler, *observation.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := observation.NewMockRepository(ctrl)

	r := chi.NewRouter()
	reporthttp.NewHandler(report.NewService(observation.NewService(repo))).Routes(r)

	return r, repo
}

func sample() []*observation.Observation {
	return []*observation.Observation{{
		ID:         uuid.New(),
		Product:    "Mouse",
		RawText:    "$9.990",
		Amount:     999000,
		Status:     observation.StatusParsed,
		ObservedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func TestHandler_Export(t *testing.T) {
	h, repo := setup(t)
	dir := t.TempDir()

	repo.EXPECT().ListObservations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, f observation.ListFilter) ([]*observation.Observation, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, observation.StatusParsed, *f.Status)

			return sample(), nil
		})

	body := `{"output_dir":"` + dir + `","status":"parsed"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Path    string `json:"path"`
		Count   int    `json:"count"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "* 2026-04-01 | Mouse | 9990.00 | parsed\n", got.Summary)

	_, err := os.Stat(got.Path)
	assert.NoError(t, err)
}

func TestHandler_Export_RequiresDir(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UnknownFormat(t *testing.T) {
	type testCase struct {
		name   string
		target string
		body   string
	}

	dir := t.TempDir()

	tests := []testCase{
		{name: "export", target: "/", body: `{"output_dir":"` + dir + `","format":"pdf"}`},
		{name: "download", target: "/download", body: `{"format":"pdf"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := setup(t)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "unsupported report format")
		})
	}
}

func TestHandler_Download(t *testing.T) {
	h, repo := setup(t)

	repo.EXPECT().ListObservations(gomock.Any(), gomock.Any()).Return(sample(), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "observations_")
	assert.Contains(t, rec.Body.String(), "Mouse")
	assert.Contains(t, rec.Body.String(), "9990.00")
}
