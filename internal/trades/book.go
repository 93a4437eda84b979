// Package trades presents the externally maintained open-trade log. The
// log is never written by this process; current prices and P/L are refreshed
// in memory against the latest snapshot for display only.
package trades

import "OptionSentinel/internal/model"

// MarkToMarket returns a copy of trades with CurrentPrice and P/L% refreshed
// from the snapshot LTP of the matching strike and side. Trades without a
// matching snapshot row keep their stored values. Rows are matched in table
// order, so a strike present in both expiries resolves to the nearer one.
func MarkToMarket(records []model.TradeRecord, snapshot []model.SnapshotRow) []model.TradeRecord {
	out := make([]model.TradeRecord, len(records))
	copy(out, records)
	if len(snapshot) == 0 {
		return out
	}
	for i, tr := range out {
		ltp, ok := lookupLTP(snapshot, tr.Type, tr.Strike)
		if !ok {
			continue
		}
		out[i].CurrentPrice = ltp
		if tr.EntryPrice > 0 {
			out[i].PnlPercent = (ltp - tr.EntryPrice) / tr.EntryPrice * 100
		}
	}
	return out
}

func lookupLTP(snapshot []model.SnapshotRow, side string, strike float64) (float64, bool) {
	for _, r := range snapshot {
		if r.Strike != strike {
			continue
		}
		switch side {
		case "CE":
			return r.CallLastPrice, true
		case "PE":
			return r.PutLastPrice, true
		}
	}
	return 0, false
}
