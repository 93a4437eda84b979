package recorder

// PollEvent records the outcome of one pipeline pass.
type PollEvent struct {
	Spot        float64
	RowCount    int
	Expiries    string // comma-joined ISO dates selected this pass
	SignalCount int
	DurationMS  int64
	Trigger     string // "timer" or "manual"
	Error       string // empty on success
}

// SignalEvent archives one emitted signal.
type SignalEvent struct {
	Label  string
	Strike float64
	Reason string
}

// Recorder persists poll and signal history for later analysis.
type Recorder interface {
	RecordPoll(evt *PollEvent) error
	RecordSignal(evt *SignalEvent) error
	Close() error
}
