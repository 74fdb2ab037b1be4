// Package returns converts ordered price observations into return
// sequences, leaving gaps explicit instead of smoothing or forward-filling.
package returns

import (
	"time"

	"github.com/quantselect/engine/internal/contracts"
)

// Optional is a real number that may be absent, mirroring the monthly
// return series shape described by the engine's data model.
type Optional struct {
	Value   float64
	Present bool
}

// Some wraps a present value.
func Some(v float64) Optional { return Optional{Value: v, Present: true} }

// ToReturns returns a sequence of length max(0, n-1). Position i holds
// prices[i+1]/prices[i] - 1 when both are present and prices[i] != 0;
// otherwise it is absent. No smoothing, no forward fill.
func ToReturns(prices []Optional) []Optional {
	if len(prices) <= 1 {
		return []Optional{}
	}

	out := make([]Optional, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		p0, p1 := prices[i], prices[i+1]
		if !p0.Present || !p1.Present || p0.Value == 0 {
			continue
		}
		out[i] = Some(p1.Value/p0.Value - 1)
	}
	return out
}

// AlignToGrid places a symbol's observed prices onto a common month-end
// grid, leaving a slot absent whenever no price row exists on that exact
// date. byDate is keyed by the date's Unix day (UTC midnight) to avoid
// time.Time's monotonic-reading equality pitfalls.
func AlignToGrid(grid []time.Time, byDate map[int64]float64) []Optional {
	out := make([]Optional, len(grid))
	for i, d := range grid {
		if v, ok := byDate[DayKey(d)]; ok {
			out[i] = Some(v)
		}
	}
	return out
}

// DayKey normalizes a timestamp to a comparable calendar-day key.
func DayKey(d time.Time) int64 {
	return d.UTC().Truncate(24 * time.Hour).Unix()
}

// MonthlySeries builds one symbol's monthly return series over a lookback
// grid of month-end dates, aligning observed prices to that grid first so
// missing months surface as explicit gaps rather than shifting the series.
func MonthlySeries(grid []time.Time, byDate map[int64]float64) []contracts.MonthlyPoint {
	aligned := AlignToGrid(grid, byDate)
	rets := ToReturns(aligned)

	out := make([]contracts.MonthlyPoint, len(rets))
	for i, r := range rets {
		out[i] = contracts.MonthlyPoint{
			MonthEnd: grid[i+1],
			Value:    r.Value,
			Present:  r.Present,
		}
	}
	return out
}
