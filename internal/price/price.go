// Package price turns currency-formatted label text such as "$1.234,56" or
// "US$ 1,234.56" into numbers.
//
// Only digits, '.' and ',' carry meaning. Everything else (currency symbols,
// whitespace, letters) is discarded before the separators are resolved:
//
//   - both separators present: whichever occurs last is the decimal point,
//     every occurrence of the other is a thousands separator and is dropped;
//   - a single separator kind: exactly one occurrence followed by at most two
//     characters is the decimal point, anything else is a thousands separator.
//
// The two-digit rule is a heuristic. Amounts with three fractional digits
// ("1.234" as one and a quarter dinar) are read as thousands.
package price

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxFractionDigits is the longest fragment after a lone separator that is
// still read as a fractional part.
const maxFractionDigits = 2

var (
	// ErrEmpty is returned when no digit or separator survives stripping.
	ErrEmpty = errors.New("no numeric content")
	// ErrUnparsable is returned when the normalized text is not a finite number.
	ErrUnparsable = errors.New("unparsable price")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Parse returns the amount represented by text, or 0 when text holds no
// parsable number. It never fails, so 0 is both a valid price and the
// "could not parse" sentinel. Use ParseStrict to tell them apart.
func Parse(text string) float64 {
	v, err := ParseStrict(text)
	if err != nil {
		return 0
	}

	return v
}

// ParseStrict is Parse with the failure reported instead of folded into 0.
func ParseStrict(text string) (float64, error) {
	n := Normalize(text)
	if n == "" {
		return 0, ErrEmpty
	}

	v, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}

	return v, nil
}

// ParseCents parses text into integer minor units, rounding half away from
// zero when more than two fractional digits are present.
func ParseCents(text string) (int64, error) {
	if _, err := ParseStrict(text); err != nil {
		return 0, err
	}

	d, err := decimal.NewFromString(Normalize(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %q overflows", ErrUnparsable, text)
	}

	return cents.IntPart(), nil
}

// Normalize strips text and rewrites it so that at most one '.' remains,
// marking the decimal point. The result may still be malformed, e.g. when
// the decimal separator itself occurs more than once.
func Normalize(text string) string {
	s := Strip(text)

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}

		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return resolveSeparator(s, ",")
	case lastDot >= 0:
		return resolveSeparator(s, ".")
	}

	return s
}

// resolveSeparator handles text where sep is the only separator present.
func resolveSeparator(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) == 2 && len(parts[1]) <= maxFractionDigits {
		return parts[0] + "." + parts[1]
	}

	return strings.Join(parts, "")
}

// Strip keeps ASCII digits, '.' and ','. Bytes of multi-byte runes never
// match, so non-ASCII digits are dropped along with currency symbols.
func Strip(text string) string {
	var sb strings.Builder

	sb.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if ('0' <= c && c <= '9') || c == '.' || c == ',' {
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// FormatCents renders minor units as "D.DD".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
