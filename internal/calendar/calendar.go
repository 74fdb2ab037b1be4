// Package calendar derives month-end trading days from an irregular set of
// calendar dates, the grid every downstream stage aligns to.
package calendar

import (
	"sort"
	"time"
)

type yearMonth struct {
	year  int
	month time.Month
}

// MonthEnds groups dates by (year, month) and returns the maximum date in
// each group, sorted ascending. Duplicate input dates and irregular gaps
// between trading days are both tolerated. An empty input yields an empty
// result, never nil-vs-empty ambiguity for the caller.
func MonthEnds(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return []time.Time{}
	}

	latest := make(map[yearMonth]time.Time, len(dates))
	for _, d := range dates {
		key := yearMonth{d.Year(), d.Month()}
		if cur, ok := latest[key]; !ok || d.After(cur) {
			latest[key] = d
		}
	}

	ends := make([]time.Time, 0, len(latest))
	for _, d := range latest {
		ends = append(ends, d)
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })
	return ends
}

// AddMonths returns d shifted by n calendar months, used to build the
// lookback window boundary [t0 - lookbackMonths, t0]. Unlike time.Time's
// own AddDate, this clamps to the target month's last day instead of
// rolling over into the month after when d's day-of-month doesn't exist
// there (e.g. Jan 31, 2025 - 11 months lands on Feb 29, 2024, not
// Mar 2).
func AddMonths(d time.Time, n int) time.Time {
	y, m, _ := d.Date()
	firstOfTarget := time.Date(y, m, 1, 0, 0, 0, 0, d.Location()).AddDate(0, n, 0)
	lastDayOfTarget := firstOfTarget.AddDate(0, 1, -1).Day()

	day := d.Day()
	if day > lastDayOfTarget {
		day = lastDayOfTarget
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}
