package issues_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/issues"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

func TestClient_List(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/acme/shop/issues", r.URL.Path)
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number":1,"title":"first","state":"open"},{"number":2,"title":"second","state":"open"}]`))
	}))
	defer ts.Close()

	c, err := issues.NewClient(ts.URL, "acme", "shop", "secret")
	require.NoError(t, err)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, "second", got[1].Title)
}

func TestClient_Create(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"number": 42,
			"title":  body["title"],
			"body":   body["body"],
		})
	}))
	defer ts.Close()

	c, err := issues.NewClient(ts.URL+"/", "acme", "shop", "")
	require.NoError(t, err)

	got, err := c.Create(context.Background(), "Price alert", "details")
	require.NoError(t, err)
	assert.Equal(t, 42, got.Number)
	assert.Equal(t, "Price alert", got.Title)
	assert.Equal(t, "details", got.Body)
}

func TestClient_Create_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, err := issues.NewClient(ts.URL, "acme", "shop", "bad")
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "Price alert", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, issues.ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "401")
}

func TestClient_Create_EmptyTitle(t *testing.T) {
	c, err := issues.NewClient("http://localhost", "acme", "shop", "")
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "  ", "body")
	assert.Error(t, err)
}

func TestNewClient_RequiresRepo(t *testing.T) {
	_, err := issues.NewClient("https://api.github.com", "acme", "", "")
	assert.Error(t, err)
}

func TestAlert(t *testing.T) {
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		obs       *observation.Observation
		rng       issues.Range
		wantOK    bool
		wantTitle string
	}

	tests := []testCase{
		{
			name:   "inside range",
			obs:    &observation.Observation{Product: "Mouse", Amount: 1500, Status: observation.StatusParsed, ObservedAt: at},
			rng:    issues.Range{Min: 1000, Max: 2000},
			wantOK: false,
		},
		{
			name:      "above range",
			obs:       &observation.Observation{Product: "Mouse", Amount: 250000, Status: observation.StatusParsed, ObservedAt: at},
			rng:       issues.Range{Min: 1000, Max: 2000},
			wantOK:    true,
			wantTitle: "[price] Mouse: 2500.00 outside expected range",
		},
		{
			name:   "open upper bound",
			obs:    &observation.Observation{Product: "Mouse", Amount: 250000, Status: observation.StatusParsed, ObservedAt: at},
			rng:    issues.Range{Min: 1000},
			wantOK: false,
		},
		{
			name:      "unparsable label",
			obs:       &observation.Observation{Product: "Mouse", RawText: "agotado", Status: observation.StatusUnparsable, ObservedAt: at},
			wantOK:    true,
			wantTitle: "[price] Mouse: unreadable price label",
		},
		{
			name:   "ignored observation",
			obs:    &observation.Observation{Product: "Mouse", Amount: 1, Status: observation.StatusIgnored, ObservedAt: at},
			rng:    issues.Range{Min: 1000},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, ok := issues.Alert(tt.obs, tt.rng)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, title)

			if ok {
				assert.Contains(t, body, "Product: Mouse")
				assert.Contains(t, body, "2026-05-02 09:30")
			}
		})
	}
}
