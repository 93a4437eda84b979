package model

// TimestampLayout is the wall-clock format used in the durable artifacts.
const TimestampLayout = "2006-01-02 15:04:05"

// Signal is one OI-momentum alert. Signals are append-only: once written to
// the log they are never edited or removed.
type Signal struct {
	Timestamp string  `csv:"Timestamp"`
	Label     string  `csv:"Signal"`
	Strike    float64 `csv:"Strike"`
	Reason    string  `csv:"Reason"`
}

// TradeRecord is one open trade as recorded externally in the trade log.
// This process only reads and displays trades, it never writes them.
type TradeRecord struct {
	Timestamp    string  `csv:"Timestamp"`
	Type         string  `csv:"Type"`
	Strike       float64 `csv:"Strike"`
	EntryPrice   float64 `csv:"EntryPrice"`
	CurrentPrice float64 `csv:"CurrentPrice"`
	PnlPercent   float64 `csv:"P/L%"`
}
