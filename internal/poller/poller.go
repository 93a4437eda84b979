// Package poller drives the fetch-normalize-filter-detect-persist pipeline
// on a fixed cadence and serves manual one-shot triggers from the display
// surface.
package poller

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"OptionSentinel/internal/chain"
	"OptionSentinel/internal/collector"
	"OptionSentinel/internal/model"
	"OptionSentinel/internal/notifier"
	"OptionSentinel/internal/recorder"
	"OptionSentinel/internal/signal"
	"OptionSentinel/internal/store"

	"github.com/robfig/cron/v3"
)

// State is the observable health of the poll loop. Returned by value so
// readers never share memory with the poller.
type State struct {
	LastPollTime time.Time
	Spot         float64
	Expiries     []time.Time
	RowCount     int
	FailureCount int
	LastError    string
}

// Poller owns the pipeline and its shared state. At most one pipeline pass
// runs at a time: timer ticks and manual triggers contend on the same mutex.
type Poller struct {
	Collector *collector.Collector
	Detector  *signal.Detector
	Store     *store.Store
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier

	HalfWidth float64
	Interval  time.Duration
	Ctx       context.Context

	cron      *cron.Cron
	startOnce sync.Once

	runMu   sync.Mutex // serializes pipeline passes
	signals []model.Signal

	stateMu sync.RWMutex
	state   State
}

// NewPoller creates a Poller, loading any existing signal log so appends
// continue the durable history.
func NewPoller(ctx context.Context, col *collector.Collector, det *signal.Detector,
	st *store.Store, rec recorder.Recorder, tn *notifier.TelegramNotifier,
	halfWidth float64, interval time.Duration) (*Poller, error) {

	signals, err := st.LoadSignals()
	if err != nil {
		return nil, fmt.Errorf("load signal log: %w", err)
	}
	return &Poller{
		Collector: col,
		Detector:  det,
		Store:     st,
		Recorder:  rec,
		Notifier:  tn,
		HalfWidth: halfWidth,
		Interval:  interval,
		Ctx:       ctx,
		signals:   signals,
	}, nil
}

// Start launches the background poll loop and kicks off the first pass
// immediately, so the display is populated before the first interval elapses.
// Safe to call more than once; only the first call has any effect. The loop
// runs until Stop or process exit, and a failing pass never terminates it.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		p.cron = cron.New()
		spec := fmt.Sprintf("@every %s", p.Interval)
		if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
			log.Printf("[ERROR] register poll loop: %v", err)
			return
		}
		p.cron.Start()
		log.Printf("[INFO] poll loop started (every %s)", p.Interval)
		// The timer only fires after a full interval; cover the gap now.
		go p.tick()
	})
}

// Stop stops the timer loop. An in-flight pass runs to completion.
func (p *Poller) Stop() {
	if p.cron != nil {
		p.cron.Stop()
		log.Println("[INFO] poll loop stopped")
	}
}

// State returns a copy of the current poll health.
func (p *Poller) State() State {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	s := p.state
	s.Expiries = append([]time.Time(nil), p.state.Expiries...)
	return s
}

// RunOnce executes one pipeline pass on behalf of a manual trigger. The
// error is returned to the caller so the display surface can report it.
func (p *Poller) RunOnce() error {
	return p.run("manual")
}

// tick is the timer-driven trigger: failures are logged and swallowed.
func (p *Poller) tick() {
	if err := p.run("timer"); err != nil {
		log.Printf("[ERROR] scheduled poll: %v", err)
	}
}

func (p *Poller) run(trigger string) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	rowCount, spot, expiries, emitted, err := p.pipeline(start)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		p.stateMu.Lock()
		p.state.FailureCount++
		p.state.LastError = err.Error()
		p.stateMu.Unlock()

		if recErr := p.Recorder.RecordPoll(&recorder.PollEvent{
			Trigger: trigger, DurationMS: durationMS, Error: err.Error(),
		}); recErr != nil {
			log.Printf("[ERROR] record poll: %v", recErr)
		}
		return err
	}

	p.stateMu.Lock()
	p.state.LastPollTime = start
	p.state.Spot = spot
	p.state.Expiries = expiries
	p.state.RowCount = rowCount
	p.state.LastError = ""
	p.stateMu.Unlock()

	if recErr := p.Recorder.RecordPoll(&recorder.PollEvent{
		Spot:        spot,
		RowCount:    rowCount,
		Expiries:    formatExpiries(expiries),
		SignalCount: emitted,
		DurationMS:  durationMS,
		Trigger:     trigger,
	}); recErr != nil {
		log.Printf("[ERROR] record poll: %v", recErr)
	}

	log.Printf("[INFO] poll complete (%d rows, spot=%.2f, %d signals, %s)",
		rowCount, spot, emitted, trigger)
	return nil
}

// pipeline runs one full pass. Caller holds runMu.
func (p *Poller) pipeline(now time.Time) (rowCount int, spot float64, expiries []time.Time, emitted int, err error) {
	rows, spot, err := p.Collector.Collect()
	if err != nil {
		return 0, 0, nil, 0, err
	}

	rows = chain.FilterStrikeWindow(rows, spot, p.HalfWidth)
	expiries = chain.SelectExpiries(rows)
	rows = chain.FilterExpiries(rows, expiries)
	snap := chain.Project(rows)

	sigs := p.Detector.Detect(snap, now)
	for _, s := range sigs {
		log.Printf("[INFO] signal: %s", s.Label)
		p.signals = append(p.signals, s)

		if recErr := p.Recorder.RecordSignal(&recorder.SignalEvent{
			Label: s.Label, Strike: s.Strike, Reason: s.Reason,
		}); recErr != nil {
			log.Printf("[ERROR] record signal: %v", recErr)
		}
		p.trySend(notifier.FormatSignalAlert(p.Collector.Symbol, s, spot))
	}
	if err := p.Store.SaveSignals(p.signals); err != nil {
		return 0, 0, nil, 0, err
	}

	if err := p.Store.SaveSnapshot(snap); err != nil {
		return 0, 0, nil, 0, err
	}
	return len(snap), spot, expiries, len(sigs), nil
}

func (p *Poller) trySend(text string) {
	if !p.Notifier.Enabled() {
		return
	}
	if err := p.Notifier.SendWithRetry(p.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func formatExpiries(expiries []time.Time) string {
	parts := make([]string, len(expiries))
	for i, e := range expiries {
		parts[i] = e.Format(model.ExpiryLayout)
	}
	return strings.Join(parts, ",")
}
