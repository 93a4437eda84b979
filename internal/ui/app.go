// Package ui provides the terminal display surface: three tabbed read views
// over the persisted artifacts plus a manual-poll action. It never mutates
// pipeline state directly.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"OptionSentinel/internal/analytics"
	"OptionSentinel/internal/model"
	"OptionSentinel/internal/poller"
	"OptionSentinel/internal/store"
	"OptionSentinel/internal/trades"
)

const (
	pageChain   = "chain"
	pageSignals = "signals"
	pageTrades  = "trades"
)

// App is the main TUI application.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	header *tview.TextView
	status *tview.TextView

	chainView   *ChainView
	signalsView *SignalsView
	tradesView  *TradesView

	poller    *poller.Poller
	store     *store.Store
	symbol    string
	interval  time.Duration
	threshold float64
	refresh   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	polling bool
}

// NewApp creates the display surface over the given poller and store.
func NewApp(p *poller.Poller, st *store.Store, symbol string, interval time.Duration,
	threshold float64, refresh time.Duration) *App {

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		app:       tview.NewApplication(),
		poller:    p,
		store:     st,
		symbol:    symbol,
		interval:  interval,
		threshold: threshold,
		refresh:   refresh,
		ctx:       ctx,
		cancel:    cancel,
	}

	a.chainView = NewChainView()
	a.signalsView = NewSignalsView()
	a.tradesView = NewTradesView()

	a.setupLayout()
	a.setupKeyboard()
	return a
}

func (a *App) setupLayout() {
	a.header = tview.NewTextView().SetDynamicColors(true)
	a.header.SetBorder(true).SetTitle(fmt.Sprintf(" %s Option Chain ", a.symbol))

	a.pages = tview.NewPages().
		AddPage(pageChain, a.chainView.Widget(), true, true).
		AddPage(pageSignals, a.signalsView.Widget(), true, false).
		AddPage(pageTrades, a.tradesView.Widget(), true, false)

	a.status = tview.NewTextView().SetDynamicColors(true)
	a.status.SetText("[gray]1[-] chain  [gray]2[-] signals  [gray]3[-] trades  [gray]e[-] expiry  [gray]p[-] poll now  [gray]q[-] quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 4, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.app.SetRoot(layout, true)
}

func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case '1':
				a.pages.SwitchToPage(pageChain)
				return nil
			case '2':
				a.pages.SwitchToPage(pageSignals)
				return nil
			case '3':
				a.pages.SwitchToPage(pageTrades)
				return nil
			case 'e', 'E':
				a.chainView.CycleExpiry()
				return nil
			case 'p', 'P':
				a.manualPoll()
				return nil
			case 'r', 'R':
				a.reload()
				return nil
			}
		}
		return event
	})
}

// Run starts the TUI (blocking).
func (a *App) Run() error {
	a.reload()
	go a.refreshLoop()
	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// refreshLoop re-reads the persisted artifacts on a fixed cadence. Reads are
// independent of any in-flight pipeline pass.
func (a *App) refreshLoop() {
	ticker := time.NewTicker(a.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.reload)
		}
	}
}

// manualPoll triggers one pipeline pass and reports the outcome in the
// status bar. The pass runs off the UI goroutine.
func (a *App) manualPoll() {
	if a.polling {
		return
	}
	a.polling = true
	a.status.SetText("[yellow]polling...[-]")

	go func() {
		err := a.poller.RunOnce()
		a.app.QueueUpdateDraw(func() {
			a.polling = false
			if err != nil {
				a.status.SetText(fmt.Sprintf("[red]manual poll failed: %v[-]", err))
				return
			}
			state := a.poller.State()
			a.status.SetText(fmt.Sprintf("[green]manual poll complete: %d rows[-]", state.RowCount))
			a.reload()
		})
	}()
}

// reload re-reads all artifacts and redraws views and the header.
func (a *App) reload() {
	snap, err := a.store.LoadSnapshot()
	if err == nil {
		a.chainView.Update(snap)
	}
	if signals, err := a.store.LoadSignals(); err == nil {
		a.signalsView.Update(signals)
	}
	if records, err := a.store.LoadTrades(); err == nil {
		a.tradesView.Update(trades.MarkToMarket(records, snap))
	}
	a.updateHeader(snap)
}

func (a *App) updateHeader(snap []model.SnapshotRow) {
	state := a.poller.State()

	lastPoll := "waiting for first poll"
	if !state.LastPollTime.IsZero() {
		lastPoll = state.LastPollTime.Format(model.TimestampLayout)
	}

	pcrStr := "n/a"
	if pcr, err := analytics.PutCallRatio(snap); err == nil {
		pcrStr = fmt.Sprintf("%.2f", pcr)
	}
	painStr := "n/a"
	if pain, err := analytics.MaxPain(snap); err == nil {
		painStr = fmt.Sprintf("%.0f", pain)
	}

	callDelta, putDelta := analytics.TotalOIChange(snap)

	line1 := fmt.Sprintf("Symbol [white]%s[-]  Interval [white]%s[-]  OI Δ Threshold [white]%.0f[-]",
		a.symbol, a.interval, a.threshold)
	line2 := fmt.Sprintf("Spot [white]%.2f[-]  PCR [white]%s[-]  Max Pain [white]%s[-]  ΔOI CE [white]%.0f[-] PE [white]%.0f[-]  Last poll [white]%s[-]",
		state.Spot, pcrStr, painStr, callDelta, putDelta, lastPoll)
	if state.FailureCount > 0 {
		line2 += fmt.Sprintf("  [red]failures %d (%s)[-]", state.FailureCount, state.LastError)
	}
	a.header.SetText(line1 + "\n" + line2)
}
