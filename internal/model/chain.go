package model

import "time"

// RawRow is one option-chain row as delivered by the market-data gateway,
// before normalization. Numeric-like fields are loosely typed because the
// source mixes numbers, formatted strings ("1,234.50") and missing values.
type RawRow struct {
	Strike          any
	Expiry          string
	CallOI          any
	CallOIChange    any
	CallLastPrice   any
	CallPriceChange any
	PutOI           any
	PutOIChange     any
	PutLastPrice    any
	PutPriceChange  any
}

// OptionRow is one (expiry, strike) pair's market state after normalization.
// Numeric fields are always finite; unparseable inputs coerce to zero.
// Rows are built fresh on every poll and never mutated in place.
type OptionRow struct {
	Strike          float64
	Expiry          time.Time
	CallOI          float64
	CallOIChange    float64
	CallLastPrice   float64
	CallPriceChange float64
	PutOI           float64
	PutOIChange     float64
	PutLastPrice    float64
	PutPriceChange  float64
}

// SnapshotRow is one row of the projected display table. Field order and CSV
// headers define the snapshot artifact's column layout.
type SnapshotRow struct {
	Expiry          string  `csv:"Expiry_Date"`
	CallPriceChange float64 `csv:"CE ΔLTP"`
	CallLastPrice   float64 `csv:"CE LTP"`
	CallOIChange    float64 `csv:"CE ΔOI"`
	CallOI          float64 `csv:"CE OI"`
	Strike          float64 `csv:"Strike"`
	PutOI           float64 `csv:"PE OI"`
	PutOIChange     float64 `csv:"PE ΔOI"`
	PutLastPrice    float64 `csv:"PE LTP"`
	PutPriceChange  float64 `csv:"PE ΔLTP"`
}

// ExpiryLayout is the date format used for expiries in the snapshot artifact.
const ExpiryLayout = "2006-01-02"
