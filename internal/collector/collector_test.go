package collector

import (
	"errors"
	"testing"

	"OptionSentinel/internal/model"
)

func TestCollect_Normalizes(t *testing.T) {
	mock := &MockFetcher{
		Rows: []model.RawRow{
			{Strike: 24300.0, Expiry: "30-Jan-2025", CallOI: "1,000"},
			{Strike: 24350.0, Expiry: "bogus"},
		},
		Spot: 24310,
	}
	c := NewCollector(mock, "NIFTY")
	rows, spot, err := c.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 normalized row, got %d", len(rows))
	}
	if rows[0].CallOI != 1000 {
		t.Errorf("call OI: expected 1000, got %v", rows[0].CallOI)
	}
	if spot != 24310 {
		t.Errorf("spot: expected 24310, got %v", spot)
	}
}

func TestCollect_EmptyChain(t *testing.T) {
	c := NewCollector(&MockFetcher{Rows: []model.RawRow{}}, "NIFTY")
	_, _, err := c.Collect()
	if !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("expected ErrEmptyChain, got %v", err)
	}
}

func TestCollect_AllExpiriesUnparseable(t *testing.T) {
	c := NewCollector(&MockFetcher{
		Rows: []model.RawRow{{Strike: 24300.0, Expiry: "??"}},
	}, "NIFTY")
	_, _, err := c.Collect()
	if !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("expected ErrEmptyChain when all rows drop, got %v", err)
	}
}

func TestCollect_FetchFailureAborts(t *testing.T) {
	fetchErr := errors.New("connection refused")
	c := NewCollector(&MockFetcher{ChainErr: fetchErr}, "NIFTY")
	_, _, err := c.Collect()
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch in chain, got %v", err)
	}
}

func TestCollect_SpotFailureDegrades(t *testing.T) {
	c := NewCollector(&MockFetcher{
		Rows:    []model.RawRow{{Strike: 24300.0, Expiry: "30-Jan-2025"}},
		SpotErr: errors.New("timeout"),
	}, "NIFTY")
	rows, spot, err := c.Collect()
	if err != nil {
		t.Fatalf("spot failure must not abort the pass: %v", err)
	}
	if spot != 0 {
		t.Errorf("expected spot sentinel 0, got %v", spot)
	}
	if len(rows) != 1 {
		t.Errorf("expected rows to survive, got %d", len(rows))
	}
}
