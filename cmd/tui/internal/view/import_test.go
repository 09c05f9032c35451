package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

type fakeNamer map[string]string

func (f fakeNamer) Canonical(_ context.Context, rawTitle string) string {
	if c, ok := f[rawTitle]; ok {
		return c
	}

	return rawTitle
}

func TestBuildPreview(t *testing.T) {
	day := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	params := []observation.RecordParams{
		{Product: "Mouse inalámbrico M170", RawText: "$ 9.990", ObservedAt: day},
		{Product: "Audífonos", RawText: "Agotado", ObservedAt: day},
		{Product: "Producto X", RawText: "", ObservedAt: day},
	}

	rows := buildPreview(context.Background(), fakeNamer{"Mouse inalámbrico M170": "Mouse M170"}, params)
	require.Len(t, rows, 3)

	assert.Equal(t, "Mouse M170", rows[0].params.Product)
	assert.Equal(t, "Mouse inalámbrico M170", rows[0].original)
	assert.True(t, rows[0].renamed())
	assert.Equal(t, int64(999000), rows[0].resolved.Amount)

	assert.False(t, rows[1].renamed())
	assert.Equal(t, observation.StatusUnparsable, rows[1].resolved.Status)

	c := countPreview(rows)
	assert.Equal(t, previewCounts{total: 3, priced: 1, unreadable: 2, renamed: 1}, c)
	assert.Equal(t, "3 rows | 1 priced | 2 unreadable | 1 renamed by alias", c.String())

	assert.Equal(t, "Mouse inalámbrico M170", params[0].Product, "input params stay as read")
}

func TestKeptParams(t *testing.T) {
	fresh := []observation.RecordParams{{Product: "Kettle"}}
	conflicts := []observation.Conflict{
		{Incoming: observation.RecordParams{Product: "Mouse"}},
		{Incoming: observation.RecordParams{Product: "Toaster"}},
	}

	got := keptParams(fresh, conflicts, map[int]bool{1: true})
	require.Len(t, got, 2)
	assert.Equal(t, "Kettle", got[0].Product)
	assert.Equal(t, "Toaster", got[1].Product)

	assert.Len(t, keptParams(fresh, conflicts, nil), 1)
}

func TestImportSummary(t *testing.T) {
	obs := []*observation.Observation{
		{Status: observation.StatusParsed},
		{Status: observation.StatusUnparsable},
	}

	assert.Equal(t, "Recorded 2 observations, 1 with unreadable prices (see Review).", importSummary(obs))
	assert.Equal(t, "Recorded 1 observations.", importSummary(obs[:1]))
}
