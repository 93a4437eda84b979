package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"OptionSentinel/internal/model"
)

// SignalsView displays the full signal log, newest first.
type SignalsView struct {
	table *tview.Table
}

// NewSignalsView creates the signal log view.
func NewSignalsView() *SignalsView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)
	table.SetTitle(" Signals ").SetBorder(true)
	return &SignalsView{table: table}
}

// Widget returns the tview primitive.
func (v *SignalsView) Widget() tview.Primitive {
	return v.table
}

// Update redraws the table from the signal log.
func (v *SignalsView) Update(signals []model.Signal) {
	v.table.Clear()
	v.table.SetTitle(fmt.Sprintf(" Signals (%d) ", len(signals)))

	headers := []string{"Timestamp", "Signal", "Strike", "Reason"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	for i := range signals {
		sig := signals[len(signals)-1-i]
		color := tcell.ColorGreen
		if strings.Contains(sig.Label, "PE") {
			color = tcell.ColorRed
		}
		v.table.SetCell(i+1, 0, tview.NewTableCell(sig.Timestamp))
		v.table.SetCell(i+1, 1, tview.NewTableCell(sig.Label).SetTextColor(color))
		v.table.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("%.0f", sig.Strike)).SetAlign(tview.AlignRight))
		v.table.SetCell(i+1, 3, tview.NewTableCell(sig.Reason))
	}
}
