package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

func TestApplyEdit(t *testing.T) {
	type testCase struct {
		name       string
		original   observation.Observation
		edit       listEdit
		wantAmount int64
		wantStatus observation.Status
		wantErr    bool
	}

	tests := []testCase{
		{
			name:       "price fills unreadable label",
			original:   observation.Observation{Product: "Mouse", RawText: "Agotado", Status: observation.StatusUnparsable},
			edit:       listEdit{product: "Mouse", priceText: "9.990"},
			wantAmount: 999000,
			wantStatus: observation.StatusConfirmed,
		},
		{
			name:       "same price keeps status",
			original:   observation.Observation{Product: "Mouse", Amount: 999000, Status: observation.StatusParsed},
			edit:       listEdit{product: "Mouse M170", priceText: "9.990"},
			wantAmount: 999000,
			wantStatus: observation.StatusParsed,
		},
		{
			name:       "empty price only renames",
			original:   observation.Observation{Product: "Mouse", Status: observation.StatusUnparsable},
			edit:       listEdit{product: "Mouse M170"},
			wantStatus: observation.StatusUnparsable,
		},
		{
			name:     "garbage price",
			original: observation.Observation{Product: "Mouse", Status: observation.StatusParsed},
			edit:     listEdit{product: "Mouse", priceText: "n/a"},
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			original := tc.original
			before := original

			got, err := applyEdit(&original, tc.edit)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, before, original, "the listed observation must not change")
			assert.Equal(t, tc.edit.product, got.Product)
			assert.Equal(t, tc.wantAmount, got.Amount)
			assert.Equal(t, tc.wantStatus, got.Status)
		})
	}
}

func TestConfirmed_CopiesObservation(t *testing.T) {
	queued := &observation.Observation{Product: "Kettle", RawText: "consultar", Status: observation.StatusUnparsable}

	got := confirmed(queued, 4990)

	assert.Equal(t, int64(4990), got.Amount)
	assert.Equal(t, observation.StatusConfirmed, got.Status)
	assert.Equal(t, observation.StatusUnparsable, queued.Status)
	assert.Zero(t, queued.Amount)
}
