package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

func TestResolveWindow(t *testing.T) {
	type testCase struct {
		name      string
		window    Window
		wantStart time.Time
		wantAll   bool
	}

	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.FixedZone("CLT", -3*60*60))

	tests := []testCase{
		{name: "week", window: WindowWeek, wantStart: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)},
		{name: "month", window: WindowMonth, wantStart: time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)},
		{name: "quarter", window: WindowQuarter, wantStart: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{name: "year to date", window: WindowYear, wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "whole history", window: WindowAll, wantAll: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveWindow(tc.window, now)

			assert.Equal(t, tc.wantAll, got.All)
			assert.NotEmpty(t, got.Label)

			if tc.wantAll {
				return
			}

			assert.Equal(t, tc.wantStart, got.Start)
			assert.Equal(t, time.Date(2026, 3, 14, 23, 59, 59, 999999999, time.UTC), got.End)
		})
	}
}

func TestCustomWindow(t *testing.T) {
	got, err := customWindow("2026-02-01", " 2026-02-03 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.True(t, got.End.After(time.Date(2026, 2, 3, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-02-01 to 2026-02-03", got.Label)

	_, err = customWindow("2026-02-03", "2026-02-01")
	assert.Error(t, err)

	_, err = customWindow("03/02/2026", "2026-02-04")
	assert.Error(t, err)
}

func TestHistoryWindow_Apply(t *testing.T) {
	f := observation.ListFilter{}

	win := resolveWindow(WindowWeek, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	win.Apply(&f)
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)

	resolveWindow(WindowAll, time.Now()).Apply(&f)
	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}
