package issues

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

// Range is the expected price band of a product, in cents. A zero bound is
// open.
type Range struct {
	Min int64
	Max int64
}

func (r Range) Contains(cents int64) bool {
	if r.Min > 0 && cents < r.Min {
		return false
	}

	if r.Max > 0 && cents > r.Max {
		return false
	}

	return true
}

// Alert builds the issue title and body for an observation. ok is false when
// the observation needs no alert.
func Alert(o *observation.Observation, r Range) (title, body string, ok bool) {
	switch {
	case o.Status == observation.StatusUnparsable:
		title = fmt.Sprintf("[price] %s: unreadable price label", o.Product)
	case o.Valid() && !r.Contains(o.Amount):
		title = fmt.Sprintf("[price] %s: %s outside expected range", o.Product, price.FormatCents(o.Amount))
	default:
		return "", "", false
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Product: %s\n", o.Product))
	sb.WriteString(fmt.Sprintf("Label: %q\n", o.RawText))
	sb.WriteString(fmt.Sprintf("Parsed: %s\n", price.FormatCents(o.Amount)))
	sb.WriteString(fmt.Sprintf("Expected: %s - %s\n", bound(r.Min), bound(r.Max)))
	sb.WriteString(fmt.Sprintf("Observed at: %s\n", o.ObservedAt.Format("2006-01-02 15:04")))

	if o.URL != "" {
		sb.WriteString(fmt.Sprintf("URL: %s\n", o.URL))
	}

	return title, sb.String(), true
}

func bound(c int64) string {
	if c == 0 {
		return "any"
	}

	return price.FormatCents(c)
}
