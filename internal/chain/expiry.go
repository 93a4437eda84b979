package chain

import (
	"sort"
	"time"

	"OptionSentinel/internal/model"
)

// SelectExpiries picks the economically relevant expiries from the rows
// present in one poll: the earliest available date ("weekly") plus the
// latest date within the calendar month containing the overall latest date
// ("monthly"), deduplicated. The result is derived only from the dates in
// the input, never from today's calendar.
func SelectExpiries(rows []model.OptionRow) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, r := range rows {
		if _, ok := seen[r.Expiry]; !ok {
			seen[r.Expiry] = struct{}{}
			dates = append(dates, r.Expiry)
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) == 1 {
		return dates
	}

	weekly := dates[0]

	// Latest date per (year, month), then the max of those maxima.
	type month struct {
		year int
		mon  time.Month
	}
	latestInMonth := make(map[month]time.Time)
	for _, d := range dates {
		m := month{d.Year(), d.Month()}
		if cur, ok := latestInMonth[m]; !ok || d.After(cur) {
			latestInMonth[m] = d
		}
	}
	var monthly time.Time
	for _, d := range latestInMonth {
		if d.After(monthly) {
			monthly = d
		}
	}

	if monthly.Equal(weekly) {
		return []time.Time{weekly}
	}
	out := []time.Time{weekly, monthly}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// FilterExpiries keeps only rows whose expiry is in the selected set.
func FilterExpiries(rows []model.OptionRow, expiries []time.Time) []model.OptionRow {
	if len(expiries) == 0 {
		return nil
	}
	keep := make(map[time.Time]struct{}, len(expiries))
	for _, e := range expiries {
		keep[e] = struct{}{}
	}
	out := make([]model.OptionRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.Expiry]; ok {
			out = append(out, r)
		}
	}
	return out
}
