// Package report computes summary performance metrics (CAGR, annualized
// volatility, Sharpe ratio, maximum drawdown) over a daily return sequence
// for display purposes. This is ambient reporting for the CLI layer, not
// part of the core selection/backtest contract: the core returns a raw
// daily return sequence, and report turns that into the numbers a human
// reads on a terminal.
package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quantselect/engine/internal/contracts"
)

// TradingDaysPerYear is the annualization factor applied to daily
// volatility and to the compounding exponent in CAGR.
const TradingDaysPerYear = 252

// Summary holds the performance metrics computed from a daily return
// sequence.
type Summary struct {
	Days        int
	TotalReturn float64
	CAGR        float64
	Volatility  float64
	SharpeRatio float64
	MaxDrawdown float64
}

// Summarize computes performance metrics from a sequence of daily
// portfolio returns, assumed to be in chronological order with no gaps.
// An empty sequence returns a zero Summary.
func Summarize(dailyReturns []contracts.DailyReturn, rfAnnual float64) Summary {
	n := len(dailyReturns)
	if n == 0 {
		return Summary{}
	}

	r := make([]float64, n)
	for i, d := range dailyReturns {
		r[i] = d.Return
	}

	equity := compoundEquity(r)
	totalReturn := equity[len(equity)-1] - 1
	years := float64(n) / TradingDaysPerYear

	summary := Summary{
		Days:        n,
		TotalReturn: totalReturn,
	}
	if years > 0 {
		summary.CAGR = math.Pow(1+totalReturn, 1.0/years) - 1
	}

	summary.Volatility = stat.StdDev(r, nil) * math.Sqrt(TradingDaysPerYear)

	rfDaily := math.Pow(1+rfAnnual, 1.0/TradingDaysPerYear) - 1
	excess := make([]float64, n)
	for i, v := range r {
		excess[i] = v - rfDaily
	}
	excessSD := stat.StdDev(excess, nil)
	if excessSD > 0 {
		summary.SharpeRatio = (stat.Mean(excess, nil) / excessSD) * math.Sqrt(TradingDaysPerYear)
	}

	summary.MaxDrawdown = maxDrawdown(equity)

	return summary
}

// compoundEquity returns the equity curve starting from 1.0, one value per
// return plus the starting point, i.e. len(r)+1 values.
func compoundEquity(r []float64) []float64 {
	equity := make([]float64, len(r)+1)
	equity[0] = 1.0
	for i, v := range r {
		equity[i+1] = equity[i] * (1 + v)
	}
	return equity
}

// maxDrawdown returns the largest peak-to-trough decline observed along
// the equity curve, expressed as a positive fraction.
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	maxDD := 0.0
	peak := equity[0]
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - v) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
