package collector

import (
	"errors"
	"fmt"
	"log"

	"OptionSentinel/internal/chain"
	"OptionSentinel/internal/model"
)

// ErrFetch is the root of transport, HTTP and decode failures from the
// gateway. ErrEmptyChain indicates the fetch succeeded but returned no
// usable rows. Either aborts the current poll pass; the next tick retries
// naturally.
var (
	ErrFetch      = errors.New("option chain fetch failed")
	ErrEmptyChain = errors.New("option chain empty")
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Rows     []model.RawRow
	Spot     float64
	ChainErr error
	SpotErr  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchOptionChain(_ string) ([]model.RawRow, error) {
	if m.ChainErr != nil {
		return nil, m.ChainErr
	}
	if m.Rows != nil {
		return m.Rows, nil
	}
	return GenerateMockChain(m.Spot, 20), nil
}

func (m *MockFetcher) FetchSpot(_ string) (float64, error) {
	if m.SpotErr != nil {
		return 0, m.SpotErr
	}
	return m.Spot, nil
}

// GenerateMockChain builds raw rows on a 50-point strike grid around spot,
// with two expiries a week and a month out.
func GenerateMockChain(spot float64, count int) []model.RawRow {
	base := float64(int(spot/chain.StrikeStep)) * chain.StrikeStep
	expiries := []string{"02-Jan-2025", "30-Jan-2025"}
	rows := make([]model.RawRow, 0, count*len(expiries))
	for _, exp := range expiries {
		for i := 0; i < count; i++ {
			strike := base + float64(i-count/2)*chain.StrikeStep
			rows = append(rows, model.RawRow{
				Strike:          strike,
				Expiry:          exp,
				CallOI:          1000000 + float64(i)*10000,
				CallOIChange:    float64(i-count/2) * 1000,
				CallLastPrice:   150 - float64(i),
				CallPriceChange: -2.5,
				PutOI:           900000 + float64(i)*10000,
				PutOIChange:     float64(count/2-i) * 1000,
				PutLastPrice:    120 + float64(i),
				PutPriceChange:  1.5,
			})
		}
	}
	return rows
}

// Collector orchestrates fetching and normalizing one poll's market data.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol}
}

// Collect fetches the raw chain, normalizes it and refreshes the spot price.
// A fetch failure or an empty chain aborts the pass; a spot failure only
// degrades to spot=0, which disables strike windowing downstream.
func (c *Collector) Collect() ([]model.OptionRow, float64, error) {
	raw, err := c.Fetcher.FetchOptionChain(c.Symbol)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if len(raw) == 0 {
		return nil, 0, ErrEmptyChain
	}

	rows := chain.Normalize(raw)
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: no rows with parseable expiry", ErrEmptyChain)
	}

	spot, err := c.Fetcher.FetchSpot(c.Symbol)
	if err != nil {
		log.Printf("[WARN] spot fetch failed, windowing disabled this pass: %v", err)
		spot = 0
	}
	return rows, spot, nil
}
