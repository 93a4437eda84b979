// Package chain implements the option-chain transforms: normalization,
// strike windowing, expiry selection and display projection.
package chain

import (
	"strconv"
	"strings"
	"time"

	"OptionSentinel/internal/model"
)

// expiryLayouts are the date formats accepted for the raw expiry field.
// NSE reports "30-Jan-2025"; ISO dates appear in replayed data.
var expiryLayouts = []string{"02-Jan-2006", "2006-01-02", "2-Jan-2006"}

// toFloat coerces a loosely-typed numeric value to float64, defaulting to 0.
// Strings may carry thousands separators.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" || s == "-" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// parseExpiry tries each accepted layout in turn.
func parseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize coerces raw rows into the canonical typed schema. Unparseable
// numeric fields default to 0 and never fail the row; rows whose expiry
// cannot be parsed are dropped because they cannot be bucketed by expiry.
func Normalize(raw []model.RawRow) []model.OptionRow {
	rows := make([]model.OptionRow, 0, len(raw))
	for _, r := range raw {
		expiry, ok := parseExpiry(r.Expiry)
		if !ok {
			continue
		}
		rows = append(rows, model.OptionRow{
			Strike:          toFloat(r.Strike),
			Expiry:          expiry,
			CallOI:          toFloat(r.CallOI),
			CallOIChange:    toFloat(r.CallOIChange),
			CallLastPrice:   toFloat(r.CallLastPrice),
			CallPriceChange: toFloat(r.CallPriceChange),
			PutOI:           toFloat(r.PutOI),
			PutOIChange:     toFloat(r.PutOIChange),
			PutLastPrice:    toFloat(r.PutLastPrice),
			PutPriceChange:  toFloat(r.PutPriceChange),
		})
	}
	return rows
}
