package chain

import (
	"math"

	"OptionSentinel/internal/model"
)

// StrikeStep is the strike increment the window center snaps to.
const StrikeStep = 50

// FilterStrikeWindow keeps only rows whose strike lies within ±width points
// of the nearest StrikeStep increment at or below spot. A non-positive spot
// (failed spot fetch) or empty input returns the rows unchanged, so a spot
// outage degrades to an unwindowed table instead of a blank one.
func FilterStrikeWindow(rows []model.OptionRow, spot, width float64) []model.OptionRow {
	if spot <= 0 || len(rows) == 0 {
		return rows
	}
	center := math.Floor(spot/StrikeStep) * StrikeStep
	lower := center - width
	upper := center + width

	out := make([]model.OptionRow, 0, len(rows))
	for _, r := range rows {
		if r.Strike >= lower && r.Strike <= upper {
			out = append(out, r)
		}
	}
	return out
}
