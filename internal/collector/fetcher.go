package collector

import "OptionSentinel/internal/model"

// Fetcher defines the interface for fetching option-chain market data.
type Fetcher interface {
	// FetchOptionChain returns the raw option-chain rows for a symbol.
	FetchOptionChain(symbol string) ([]model.RawRow, error)
	// FetchSpot returns the current underlying spot price.
	FetchSpot(symbol string) (float64, error)
	Name() string
}
