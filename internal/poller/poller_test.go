package poller

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"OptionSentinel/internal/collector"
	"OptionSentinel/internal/model"
	"OptionSentinel/internal/recorder"
	"OptionSentinel/internal/signal"
	"OptionSentinel/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewStore(
		filepath.Join(dir, "latest_snapshot.csv"),
		filepath.Join(dir, "signals_log.csv"),
		filepath.Join(dir, "trades_log.csv"),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func newTestPoller(t *testing.T, fetcher collector.Fetcher) (*Poller, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	p, err := NewPoller(
		context.Background(),
		collector.NewCollector(fetcher, "NIFTY"),
		signal.NewDetector(500000, 200),
		st,
		recorder.NewNoopRecorder(),
		nil,
		250,
		15*time.Minute,
	)
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}
	return p, st
}

// breachingChain returns raw rows around spot 24310 where strike 24100
// carries a call OI drop past the threshold. Strike 24000 sits outside the
// [24050, 24550] window.
func breachingChain() []model.RawRow {
	return []model.RawRow{
		{Strike: 24000.0, Expiry: "02-Jan-2025", CallOIChange: -900000.0},
		{Strike: 24100.0, Expiry: "02-Jan-2025", CallOIChange: -600000.0, CallLastPrice: 150.0},
		{Strike: 24300.0, Expiry: "02-Jan-2025", CallOIChange: -550000.0},
		{Strike: 24500.0, Expiry: "02-Jan-2025"},
		{Strike: 24300.0, Expiry: "27-Feb-2025"},
	}
}

func TestRunOnce_FullPass(t *testing.T) {
	p, st := newTestPoller(t, &collector.MockFetcher{Rows: breachingChain(), Spot: 24310})

	if err := p.RunOnce(); err != nil {
		t.Fatalf("run once: %v", err)
	}

	snap, err := st.LoadSnapshot()
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	// 24000 is windowed out; the remaining four rows survive across the two
	// selected expiries.
	if len(snap) != 4 {
		t.Fatalf("expected 4 snapshot rows, got %d", len(snap))
	}
	for _, r := range snap {
		if r.Strike == 24000 {
			t.Errorf("out-of-window strike persisted: %+v", r)
		}
	}

	signals, err := st.LoadSignals()
	if err != nil {
		t.Fatalf("load signals: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	// First breaching row inside the window is 24100; offset 200.
	if signals[0].Label != "BUY CE 24300" {
		t.Errorf("signal label: got %q", signals[0].Label)
	}

	state := p.State()
	if state.RowCount != 4 || state.Spot != 24310 {
		t.Errorf("state not updated: %+v", state)
	}
	if state.LastError != "" || state.FailureCount != 0 {
		t.Errorf("unexpected failure state: %+v", state)
	}
	if len(state.Expiries) != 2 {
		t.Errorf("expected 2 selected expiries, got %v", state.Expiries)
	}
	if state.LastPollTime.IsZero() {
		t.Error("last poll time not set")
	}
}

func TestRunOnce_EmptyChainAborts(t *testing.T) {
	p, st := newTestPoller(t, &collector.MockFetcher{Rows: []model.RawRow{}})

	err := p.RunOnce()
	if !errors.Is(err, collector.ErrEmptyChain) {
		t.Fatalf("expected ErrEmptyChain, got %v", err)
	}

	// No partial artifacts for an aborted pass.
	snap, err := st.LoadSnapshot()
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("aborted pass must not write a snapshot, got %d rows", len(snap))
	}

	state := p.State()
	if state.FailureCount != 1 {
		t.Errorf("failure count: expected 1, got %d", state.FailureCount)
	}
	if state.LastError == "" {
		t.Error("last error not recorded")
	}
}

func TestRunOnce_NoSignalKeepsLogStable(t *testing.T) {
	rows := []model.RawRow{
		{Strike: 24100.0, Expiry: "02-Jan-2025", CallOIChange: -100.0},
		{Strike: 24300.0, Expiry: "02-Jan-2025"},
	}
	p, st := newTestPoller(t, &collector.MockFetcher{Rows: rows, Spot: 24310})

	for i := 0; i < 3; i++ {
		if err := p.RunOnce(); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	signals, err := st.LoadSignals()
	if err != nil {
		t.Fatalf("load signals: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected empty signal log, got %d rows", len(signals))
	}
}

func TestRunOnce_SignalsAccumulate(t *testing.T) {
	p, st := newTestPoller(t, &collector.MockFetcher{Rows: breachingChain(), Spot: 24310})

	if err := p.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if err := p.RunOnce(); err != nil {
		t.Fatal(err)
	}
	signals, err := st.LoadSignals()
	if err != nil {
		t.Fatal(err)
	}
	// The log is append-only: each pass with a breach adds one call signal.
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals after 2 passes, got %d", len(signals))
	}
}

func TestNewPoller_ResumesSignalLog(t *testing.T) {
	st := newTestStore(t)
	seed := []model.Signal{{Timestamp: "2025-01-02 09:30:00", Label: "BUY PE 24100", Strike: 24100, Reason: "PUT OI down by 500000"}}
	if err := st.SaveSignals(seed); err != nil {
		t.Fatal(err)
	}

	p, err := NewPoller(
		context.Background(),
		collector.NewCollector(&collector.MockFetcher{Rows: breachingChain(), Spot: 24310}, "NIFTY"),
		signal.NewDetector(500000, 200),
		st,
		recorder.NewNoopRecorder(),
		nil,
		250,
		15*time.Minute,
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.RunOnce(); err != nil {
		t.Fatal(err)
	}

	signals, err := st.LoadSignals()
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected seeded + new signal, got %d", len(signals))
	}
	if signals[0].Label != "BUY PE 24100" {
		t.Errorf("seeded signal lost: %+v", signals[0])
	}
}

func TestStart_RunsFirstPassImmediately(t *testing.T) {
	p, st := newTestPoller(t, &collector.MockFetcher{Rows: breachingChain(), Spot: 24310})
	p.Start()
	defer p.Stop()

	// The interval is 15 minutes, so any snapshot appearing now must come
	// from the immediate startup pass, not the timer.
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, err := st.LoadSnapshot()
		if err != nil {
			t.Fatalf("load snapshot: %v", err)
		}
		if len(snap) > 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no snapshot written after Start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStart_Idempotent(t *testing.T) {
	p, _ := newTestPoller(t, &collector.MockFetcher{Rows: breachingChain(), Spot: 24310})
	p.Start()
	p.Start()
	p.Stop()
}
