package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"OptionSentinel/internal/model"
)

var chainHeaders = []string{"CE ΔLTP", "CE LTP", "CE ΔOI", "CE OI", "Strike", "PE OI", "PE ΔOI", "PE LTP", "PE ΔLTP"}

// ChainView displays the projected option chain for one selected expiry.
type ChainView struct {
	table    *tview.Table
	rows     []model.SnapshotRow
	expiries []string
	selected int
}

// NewChainView creates the chain table view.
func NewChainView() *ChainView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)
	table.SetTitle(" Option Chain ").SetBorder(true)

	return &ChainView{table: table, selected: -1}
}

// Widget returns the tview primitive.
func (v *ChainView) Widget() tview.Primitive {
	return v.table
}

// Update replaces the displayed snapshot, keeping the expiry selection when
// the same expiry is still present.
func (v *ChainView) Update(rows []model.SnapshotRow) {
	current := v.currentExpiry()
	v.rows = rows

	v.expiries = v.expiries[:0]
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r.Expiry]; !ok {
			seen[r.Expiry] = struct{}{}
			v.expiries = append(v.expiries, r.Expiry)
		}
	}

	v.selected = 0
	for i, e := range v.expiries {
		if e == current {
			v.selected = i
			break
		}
	}
	v.redraw()
}

// CycleExpiry advances the expiry selection.
func (v *ChainView) CycleExpiry() {
	if len(v.expiries) == 0 {
		return
	}
	v.selected = (v.selected + 1) % len(v.expiries)
	v.redraw()
}

func (v *ChainView) currentExpiry() string {
	if v.selected < 0 || v.selected >= len(v.expiries) {
		return ""
	}
	return v.expiries[v.selected]
}

func (v *ChainView) redraw() {
	v.table.Clear()

	expiry := v.currentExpiry()
	if expiry == "" {
		v.table.SetTitle(" Option Chain (no data yet) ")
		return
	}
	v.table.SetTitle(fmt.Sprintf(" Option Chain %s (%d/%d) ", expiry, v.selected+1, len(v.expiries)))

	for col, h := range chainHeaders {
		cell := tview.NewTableCell(h).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignRight).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	row := 1
	for _, r := range v.rows {
		if r.Expiry != expiry {
			continue
		}
		cells := []string{
			fmt.Sprintf("%.2f", r.CallPriceChange),
			fmt.Sprintf("%.2f", r.CallLastPrice),
			fmt.Sprintf("%.0f", r.CallOIChange),
			fmt.Sprintf("%.0f", r.CallOI),
			fmt.Sprintf("%.0f", r.Strike),
			fmt.Sprintf("%.0f", r.PutOI),
			fmt.Sprintf("%.0f", r.PutOIChange),
			fmt.Sprintf("%.2f", r.PutLastPrice),
			fmt.Sprintf("%.2f", r.PutPriceChange),
		}
		for col, text := range cells {
			cell := tview.NewTableCell(text).SetAlign(tview.AlignRight)
			if col == 4 {
				cell.SetTextColor(tcell.ColorYellow)
			}
			v.table.SetCell(row, col, cell)
		}
		row++
	}
}
