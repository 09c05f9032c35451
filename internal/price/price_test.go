package price_test

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"no digits", "invalid", 0},
		{"comma decimal dot thousands", "$1.234,56", 1234.56},
		{"dot decimal comma thousands", "$1,234.56", 1234.56},
		{"integer", "$999", 999},
		{"dot two digits", "$99.50", 99.5},
		{"dot one digit", "9.5", 9.5},
		{"multiple commas", "1,234,567", 1234567},
		{"multiple dots", "1.234.567", 1234567},
		{"comma two digits", "1234,56", 1234.56},
		{"comma three digits", "1,234", 1234},
		{"dot three digits", "1.234", 1234},
		{"dot four digits", "1.2345", 12345},
		{"trailing comma", "12,", 12},
		{"leading comma", ",5", 0.5},
		{"lone separator", ",", 0},
		{"separators only", ".,", 0},
		{"repeated decimal separator", "1.2.3,4.5", 0},
		{"chilean peso label", "$ 12.990", 12990},
		{"euro suffix", "1.299,00 €", 1299},
		{"letters around", "Precio: CLP 4.590 c/u", 4590},
		{"zero", "0", 0},
		{"zero with cents", "$0,00", 0},
		{"whitespace thousands", "1 234,50", 1234.5},
		{"non ascii digits ignored", "١٢٣", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, price.Parse(tt.input))
		})
	}
}

func TestParse_Overflow(t *testing.T) {
	huge := "9" + fmt.Sprintf("%0400d", 0)

	assert.Equal(t, float64(0), price.Parse(huge))

	_, err := price.ParseStrict(huge)
	assert.ErrorIs(t, err, price.ErrUnparsable)
}

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{"valid", "$1.234,56", 1234.56, nil},
		{"literal zero", "0", 0, nil},
		{"empty", "", 0, price.ErrEmpty},
		{"letters only", "gratis", 0, price.ErrEmpty},
		{"lone dot", ".", 0, price.ErrUnparsable},
		{"malformed", "1,2,3.4.5", 0, price.ErrUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := price.ParseStrict(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Zero(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"european", "1.234,56", 123456, false},
		{"american", "$1,234.56", 123456, false},
		{"one decimal", "9,9", 990, false},
		{"integer", "$ 12.990", 1299000, false},
		{"rounds half up", "1,234.565", 123457, false},
		{"rounds down", "1,234.564", 123456, false},
		{"empty", "", 0, true},
		{"unparsable", ".", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := price.ParseCents(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1234.56", price.Normalize("$1.234,56"))
	assert.Equal(t, "1234.56", price.Normalize("$1,234.56"))
	assert.Equal(t, "1234567", price.Normalize("1.234.567"))
	assert.Equal(t, "", price.Normalize("n/a"))
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "1.234,56", price.Strip("R$ 1.234,56"))
	assert.Equal(t, "", price.Strip("Hello, World!"[:5]))
	assert.Equal(t, ",", price.Strip("Hello, World!"))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "1234.56", price.FormatCents(123456))
	assert.Equal(t, "0.05", price.FormatCents(5))
	assert.Equal(t, "-1.50", price.FormatCents(-150))
}

func TestParse_Concurrent(t *testing.T) {
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 200; j++ {
				assert.Equal(t, 1234.56, price.Parse("$1.234,56"))
			}
		}()
	}

	wg.Wait()
}

func TestParse_Total_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "text")

		got := price.Parse(s)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("Parse(%q) = %v, want finite", s, got)
		}

		if got < 0 {
			t.Fatalf("Parse(%q) = %v, want non-negative", s, got)
		}
	})
}

func TestParse_Idempotent_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		units := rapid.Int64Range(0, 1_000_000_000).Draw(t, "units")
		cents := rapid.Int64Range(0, 99).Draw(t, "cents")

		canonical := fmt.Sprintf("%d.%02d", units, cents)
		first := price.Parse(canonical)

		again := price.Parse(fmt.Sprintf("%.2f", first))
		if again != first {
			t.Fatalf("reparse of %q: got %v, want %v", canonical, again, first)
		}
	})
}

func TestParseCents_LocaleStyles_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		units := rapid.Int64Range(0, 999_999_999).Draw(t, "units")
		cents := rapid.Int64Range(0, 99).Draw(t, "cents")
		european := rapid.Bool().Draw(t, "european")
		symbol := rapid.SampledFrom([]string{"$", "€", "CLP ", "US$", ""}).Draw(t, "symbol")

		thousands, decimalSep := ",", "."
		if european {
			thousands, decimalSep = ".", ","
		}

		text := fmt.Sprintf("%s%s%s%02d", symbol, group(units, thousands), decimalSep, cents)

		got, err := price.ParseCents(text)
		if err != nil {
			t.Fatalf("ParseCents(%q): %v", text, err)
		}

		if want := units*100 + cents; got != want {
			t.Fatalf("ParseCents(%q) = %d, want %d", text, got, want)
		}
	})
}

// group inserts sep every three digits from the right.
func group(n int64, sep string) string {
	digits := strconv.FormatInt(n, 10)

	var out []byte

	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, sep...)
		}

		out = append(out, digits[i])
	}

	return string(out)
}
