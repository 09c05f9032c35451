package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
)

func TestExportOptions_Filter(t *testing.T) {
	win := resolveWindow(WindowMonth, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	f := exportOptions{format: report.FormatXLSX, status: observation.StatusConfirmed, product: "  Mouse  "}.filter(win)
	require.NotNil(t, f.Status)
	assert.Equal(t, observation.StatusConfirmed, *f.Status)
	require.NotNil(t, f.Product)
	assert.Equal(t, "Mouse", *f.Product)
	require.NotNil(t, f.StartDate)

	f = exportOptions{}.filter(resolveWindow(WindowAll, time.Now()))
	assert.Nil(t, f.Status)
	assert.Nil(t, f.Product)
	assert.Nil(t, f.StartDate)
}

func TestTallyStatuses(t *testing.T) {
	assert.Equal(t, "no rows", tallyStatuses(nil))

	obs := []*observation.Observation{
		{Status: observation.StatusParsed},
		{Status: observation.StatusUnparsable},
		{Status: observation.StatusParsed},
	}
	assert.Equal(t, "3 rows: 2 parsed, 1 unparsable", tallyStatuses(obs))
}
