// Package backtest simulates the daily buy-and-hold performance of a
// fixed-weight portfolio from its rebalance date to the end of an
// evaluation window.
package backtest

import (
	"time"

	"github.com/quantselect/engine/internal/contracts"
	"github.com/quantselect/engine/internal/returns"
)

// Clip is the per-asset per-day return cap used to neutralize data-error
// spikes. Part of the engine's contract; not configurable.
const Clip = 0.35

// Simulate produces the daily portfolio return sequence anchored at dates,
// a sorted sequence whose first element is the rebalance date t0 and whose
// remaining elements are the distinct price dates strictly after t0 up to
// the end of the window. pricesByDate[symbol] maps a day key (see
// returns.DayKey) to that symbol's adjusted close; missing entries are
// tolerated. Each emitted return renormalizes weights over whichever
// symbols traded on both the previous and current day in dates (a
// "drift-free" weighting), and is 0.0 rather than absent when no symbol
// qualifies. The result has length max(0, len(dates)-1), one entry per
// date strictly after t0.
func Simulate(dates []time.Time, weights map[string]float64, pricesByDate map[string]map[int64]float64) []contracts.DailyReturn {
	if len(dates) < 2 {
		return []contracts.DailyReturn{}
	}

	out := make([]contracts.DailyReturn, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		prevKey := returns.DayKey(dates[i-1])
		currKey := returns.DayKey(dates[i])

		sumW, weighted := 0.0, 0.0
		for symbol, w := range weights {
			bySymbol := pricesByDate[symbol]
			if bySymbol == nil {
				continue
			}
			pPrev, okPrev := bySymbol[prevKey]
			pCurr, okCurr := bySymbol[currKey]
			if !okPrev || !okCurr || pPrev == 0 {
				continue
			}

			r := pCurr/pPrev - 1
			if r > Clip {
				r = Clip
			} else if r < -Clip {
				r = -Clip
			}

			sumW += w
			weighted += w * r
		}

		if sumW <= 0 {
			out = append(out, contracts.DailyReturn{Date: dates[i], Return: 0})
			continue
		}
		out = append(out, contracts.DailyReturn{Date: dates[i], Return: weighted / sumW})
	}
	return out
}
