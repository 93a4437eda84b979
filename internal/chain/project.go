package chain

import (
	"sort"

	"OptionSentinel/internal/model"
)

// Project reshapes normalized rows into the call/strike/put display layout,
// sorted ascending by (expiry, strike). It is a pure rename/reorder/sort:
// no numeric field is recomputed, and repeated application of the same sort
// leaves the order unchanged.
func Project(rows []model.OptionRow) []model.SnapshotRow {
	sorted := make([]model.OptionRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Expiry.Equal(sorted[j].Expiry) {
			return sorted[i].Expiry.Before(sorted[j].Expiry)
		}
		return sorted[i].Strike < sorted[j].Strike
	})

	out := make([]model.SnapshotRow, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, model.SnapshotRow{
			Expiry:          r.Expiry.Format(model.ExpiryLayout),
			CallPriceChange: r.CallPriceChange,
			CallLastPrice:   r.CallLastPrice,
			CallOIChange:    r.CallOIChange,
			CallOI:          r.CallOI,
			Strike:          r.Strike,
			PutOI:           r.PutOI,
			PutOIChange:     r.PutOIChange,
			PutLastPrice:    r.PutLastPrice,
			PutPriceChange:  r.PutPriceChange,
		})
	}
	return out
}
