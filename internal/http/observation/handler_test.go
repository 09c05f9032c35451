package observation_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	obshttp "github.com/MrJamesThe3rd/pricewatch/internal/http/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

func newRouter(t *testing.T) (http.Handler, *observation.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := observation.NewMockRepository(ctrl)

	r := chi.NewRouter()
	obshttp.NewHandler(observation.NewService(repo)).Routes(r)

	return r, repo
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *observation.MockRepository)
		wantCode   int
		wantAmount int64
		wantStatus observation.Status
	}

	tests := []testCase{
		{
			name: "parsed label",
			body: `{"product":"Mouse","raw_text":"$1.234,56","source":"manual"}`,
			setupMock: func(m *observation.MockRepository) {
				m.EXPECT().CreateObservation(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode:   http.StatusCreated,
			wantAmount: 123456,
			wantStatus: observation.StatusParsed,
		},
		{
			name: "unparsable label is stored",
			body: `{"product":"Mouse","raw_text":"sin stock"}`,
			setupMock: func(m *observation.MockRepository) {
				m.EXPECT().CreateObservation(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode:   http.StatusCreated,
			wantStatus: observation.StatusUnparsable,
		},
		{
			name:     "missing product",
			body:     `{"raw_text":"$10"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad json",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := do(h, http.MethodPost, "/", tt.body)
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusCreated {
				return
			}

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, float64(tt.wantAmount), got["amount"])
			assert.Equal(t, string(tt.wantStatus), got["status"])
		})
	}
}

func TestHandler_List_Filters(t *testing.T) {
	h, repo := newRouter(t)

	repo.EXPECT().ListObservations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, f observation.ListFilter) ([]*observation.Observation, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, observation.StatusParsed, *f.Status)
			require.NotNil(t, f.Product)
			assert.Equal(t, "Mouse", *f.Product)
			require.NotNil(t, f.StartDate)
			assert.Nil(t, f.EndDate)

			return []*observation.Observation{{ID: uuid.New(), Product: "Mouse", Amount: 999}}, nil
		})

	rec := do(h, http.MethodGet, "/?status=parsed&product=Mouse&start_date=2026-01-01&end_date=junk", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "9.99", got[0]["price"])
}

func TestHandler_List_EndDateCoversWholeDay(t *testing.T) {
	h, repo := newRouter(t)

	afternoon := time.Date(2026, 2, 3, 15, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().ListObservations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, f observation.ListFilter) ([]*observation.Observation, error) {
			require.NotNil(t, f.EndDate)
			assert.False(t, f.EndDate.Before(afternoon))
			assert.True(t, f.EndDate.Before(nextDay))

			return nil, nil
		})

	rec := do(h, http.MethodGet, "/?end_date=2026-02-03", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetObservation(gomock.Any(), id).Return(nil, observation.ErrNotFound)

	rec := do(h, http.MethodGet, "/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodGet, "/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Update_AmountConfirms(t *testing.T) {
	h, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetObservation(gomock.Any(), id).Return(&observation.Observation{
		ID: id, Product: "Mouse", RawText: "consultar", Status: observation.StatusUnparsable,
	}, nil)
	repo.EXPECT().UpdateObservation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, o *observation.Observation) error {
			assert.Equal(t, int64(1999000), o.Amount)
			assert.Equal(t, observation.StatusConfirmed, o.Status)

			return nil
		})

	rec := do(h, http.MethodPatch, "/"+id.String(), `{"amount":1999000}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()

	t.Run("valid", func(t *testing.T) {
		h, repo := newRouter(t)
		repo.EXPECT().UpdateStatus(gomock.Any(), id, observation.StatusIgnored).Return(nil)

		rec := do(h, http.MethodPatch, fmt.Sprintf("/%s/status", id), `{"status":"ignored"}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		h, _ := newRouter(t)

		rec := do(h, http.MethodPatch, fmt.Sprintf("/%s/status", id), `{"status":"bogus"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing row", func(t *testing.T) {
		h, repo := newRouter(t)
		repo.EXPECT().UpdateStatus(gomock.Any(), id, observation.StatusConfirmed).Return(observation.ErrNotFound)

		rec := do(h, http.MethodPatch, fmt.Sprintf("/%s/status", id), `{"status":"confirmed"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	h, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().DeleteObservation(gomock.Any(), id).Return(nil)

	rec := do(h, http.MethodDelete, "/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Stats(t *testing.T) {
	h, repo := newRouter(t)
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().ListObservations(gomock.Any(), gomock.Any()).Return([]*observation.Observation{
		{Product: "Mouse", Amount: 1000, Status: observation.StatusParsed, ObservedAt: at},
		{Product: "Mouse", Amount: 3000, Status: observation.StatusParsed, ObservedAt: at.Add(time.Hour)},
	}, nil)

	rec := do(h, http.MethodGet, "/stats?product=Mouse", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, float64(2), got["count"])
	assert.Equal(t, float64(1000), got["min"])
	assert.Equal(t, float64(3000), got["latest"])
}

func TestHandler_Stats_RequiresProduct(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
