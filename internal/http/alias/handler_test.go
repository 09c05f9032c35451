package alias_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	aliashttp "github.com/MrJamesThe3rd/pricewatch/internal/http/alias"
)

type fakeRepo struct {
	match   string
	err     error
	learned map[string]string
}

func (f *fakeRepo) FindMatch(ctx context.Context, rawTitle string) (string, error) {
	return f.match, f.err
}

func (f *fakeRepo) CreateMapping(ctx context.Context, pattern, canonical string) error {
	if f.learned == nil {
		f.learned = map[string]string{}
	}

	f.learned[pattern] = canonical

	return nil
}

func router(repo *fakeRepo) http.Handler {
	r := chi.NewRouter()
	aliashttp.NewHandler(alias.NewService(repo)).Routes(r)

	return r
}

func TestHandler_Suggest(t *testing.T) {
	type testCase struct {
		name          string
		target        string
		repo          *fakeRepo
		wantCode      int
		wantCanonical string
	}

	tests := []testCase{
		{
			name:          "match",
			target:        "/suggest?title=Mouse+Gamer+G203",
			repo:          &fakeRepo{match: "Logitech G203"},
			wantCode:      http.StatusOK,
			wantCanonical: "Logitech G203",
		},
		{
			name:     "no match",
			target:   "/suggest?title=Monitor",
			repo:     &fakeRepo{},
			wantCode: http.StatusOK,
		},
		{
			name:     "missing title",
			target:   "/suggest",
			repo:     &fakeRepo{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "store failure",
			target:   "/suggest?title=Monitor",
			repo:     &fakeRepo{err: errors.New("connection refused")},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router(tt.repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusOK {
				return
			}

			var got map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantCanonical, got["canonical"])
		})
	}
}

func TestHandler_Learn(t *testing.T) {
	repo := &fakeRepo{}

	rec := httptest.NewRecorder()
	router(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"pattern":"g203","canonical":"Logitech G203"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Logitech G203", repo.learned["g203"])

	rec = httptest.NewRecorder()
	router(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"pattern":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
