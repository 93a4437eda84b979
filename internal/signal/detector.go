// Package signal detects OI-momentum signals on the projected chain table.
package signal

import (
	"fmt"
	"strconv"
	"time"

	"OptionSentinel/internal/model"
)

// Detector scans the projected table for large negative OI deltas. A drop in
// call OI at least as large as Threshold reads as short covering on the call
// side; the emitted signal strike is the breaching strike plus Offset.
type Detector struct {
	Threshold float64
	Offset    float64
}

// NewDetector creates a Detector with the given OI-delta threshold and
// strike offset.
func NewDetector(threshold, offset float64) *Detector {
	return &Detector{Threshold: threshold, Offset: offset}
}

func formatStrike(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}

// Detect returns at most one call signal and one put signal per pass,
// regardless of how many rows breach the threshold. Each side uses the first
// breaching row in table order. Rows must already be windowed, expiry
// filtered and projected.
func (d *Detector) Detect(rows []model.SnapshotRow, now time.Time) []model.Signal {
	ts := now.Format(model.TimestampLayout)
	var out []model.Signal

	for _, r := range rows {
		if r.CallOIChange <= -d.Threshold {
			strike := r.Strike + d.Offset
			out = append(out, model.Signal{
				Timestamp: ts,
				Label:     fmt.Sprintf("BUY CE %s", formatStrike(strike)),
				Strike:    strike,
				Reason:    fmt.Sprintf("CALL OI down by %.0f", d.Threshold),
			})
			break
		}
	}
	for _, r := range rows {
		if r.PutOIChange <= -d.Threshold {
			strike := r.Strike + d.Offset
			out = append(out, model.Signal{
				Timestamp: ts,
				Label:     fmt.Sprintf("BUY PE %s", formatStrike(strike)),
				Strike:    strike,
				Reason:    fmt.Sprintf("PUT OI down by %.0f", d.Threshold),
			})
			break
		}
	}
	return out
}
