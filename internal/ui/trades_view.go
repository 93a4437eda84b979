package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"OptionSentinel/internal/model"
)

// TradesView displays the externally maintained open-trade log with P/L
// marked to the latest snapshot.
type TradesView struct {
	table *tview.Table
}

// NewTradesView creates the open-trades view.
func NewTradesView() *TradesView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)
	table.SetTitle(" Open Trades / P&L ").SetBorder(true)
	return &TradesView{table: table}
}

// Widget returns the tview primitive.
func (v *TradesView) Widget() tview.Primitive {
	return v.table
}

// Update redraws the table from the marked-to-market trade records.
func (v *TradesView) Update(records []model.TradeRecord) {
	v.table.Clear()
	v.table.SetTitle(fmt.Sprintf(" Open Trades / P&L (%d) ", len(records)))

	headers := []string{"Timestamp", "Type", "Strike", "Entry", "Current", "P/L%"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	for i, tr := range records {
		pnlColor := tcell.ColorGreen
		if tr.PnlPercent < 0 {
			pnlColor = tcell.ColorRed
		}
		v.table.SetCell(i+1, 0, tview.NewTableCell(tr.Timestamp))
		v.table.SetCell(i+1, 1, tview.NewTableCell(tr.Type))
		v.table.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("%.0f", tr.Strike)).SetAlign(tview.AlignRight))
		v.table.SetCell(i+1, 3, tview.NewTableCell(fmt.Sprintf("%.2f", tr.EntryPrice)).SetAlign(tview.AlignRight))
		v.table.SetCell(i+1, 4, tview.NewTableCell(fmt.Sprintf("%.2f", tr.CurrentPrice)).SetAlign(tview.AlignRight))
		v.table.SetCell(i+1, 5, tview.NewTableCell(fmt.Sprintf("%+.2f", tr.PnlPercent)).SetTextColor(pnlColor).SetAlign(tview.AlignRight))
	}
}
