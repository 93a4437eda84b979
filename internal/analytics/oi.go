// Package analytics computes derived open-interest metrics from the
// projected chain table.
package analytics

import (
	"errors"

	"OptionSentinel/internal/model"
)

// PutCallRatio returns total put OI divided by total call OI.
func PutCallRatio(rows []model.SnapshotRow) (float64, error) {
	if len(rows) == 0 {
		return 0, errors.New("no rows provided")
	}
	var callOI, putOI float64
	for _, r := range rows {
		callOI += r.CallOI
		putOI += r.PutOI
	}
	if callOI == 0 {
		return 0, errors.New("total call OI is zero")
	}
	return putOI / callOI, nil
}

// TotalOIChange returns the summed call-side and put-side OI deltas.
func TotalOIChange(rows []model.SnapshotRow) (callDelta, putDelta float64) {
	for _, r := range rows {
		callDelta += r.CallOIChange
		putDelta += r.PutOIChange
	}
	return callDelta, putDelta
}

// MaxPain returns the strike where the combined intrinsic value of all open
// calls and puts is lowest, a common pin-risk estimate.
func MaxPain(rows []model.SnapshotRow) (float64, error) {
	if len(rows) == 0 {
		return 0, errors.New("no rows provided")
	}
	best := rows[0].Strike
	bestPain := painAt(rows, rows[0].Strike)
	for _, candidate := range rows[1:] {
		if p := painAt(rows, candidate.Strike); p < bestPain {
			bestPain = p
			best = candidate.Strike
		}
	}
	return best, nil
}

func painAt(rows []model.SnapshotRow, settle float64) float64 {
	var pain float64
	for _, r := range rows {
		if settle > r.Strike {
			pain += r.CallOI * (settle - r.Strike)
		}
		if settle < r.Strike {
			pain += r.PutOI * (r.Strike - settle)
		}
	}
	return pain
}
