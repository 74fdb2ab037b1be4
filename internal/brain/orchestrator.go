// Package brain coordinates a single selection-and-backtest invocation:
// rebalance-date selection, pre-screen, panel assembly, mean-variance
// optimization, cardinality pruning, and the forward daily-return
// simulation. The engine is strictly single-threaded and sequential per
// invocation; there is no suspension point beyond the four data-source
// reads it issues.
package brain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quantselect/engine/internal/backtest"
	"github.com/quantselect/engine/internal/calendar"
	"github.com/quantselect/engine/internal/contracts"
	"github.com/quantselect/engine/internal/panel"
	"github.com/quantselect/engine/internal/portfolio"
	"github.com/quantselect/engine/internal/returns"
	"github.com/quantselect/engine/internal/selection"
	"github.com/quantselect/engine/internal/stats"
	"github.com/quantselect/engine/internal/strategyconfig"
	"github.com/quantselect/engine/pkg/logger"
)

// Orchestrator runs the engine end to end over a single (start, end)
// window.
type Orchestrator struct {
	source   contracts.DataSource
	screener *selection.Screener
	logger   *logger.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(source contracts.DataSource, screener *selection.Screener, logger *logger.Logger) *Orchestrator {
	return &Orchestrator{source: source, screener: screener, logger: logger}
}

// Run executes one invocation for window [start, end] under cfg. A nil
// result paired with an error wrapping contracts.ErrNoResult means
// "absent": the caller should log the cause and move on. Any other
// non-nil error is fatal (numerical failure, invalid configuration, or
// context cancellation).
func (o *Orchestrator) Run(ctx context.Context, cfg strategyconfig.Config, start, end time.Time) (*contracts.Result, error) {
	if err := strategyconfig.Validate(&cfg); err != nil {
		return nil, err
	}

	allDays, err := o.source.DistinctDates(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("distinct dates: %w", err)
	}
	if len(allDays) == 0 {
		return nil, fmt.Errorf("no trading days in [%s, %s]: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), contracts.ErrNoResult)
	}

	t0, err := rebalanceDate(allDays, cfg.LookbackMonths)
	if err != nil {
		return nil, err
	}

	eligible, err := o.source.MembershipsActiveAt(ctx, t0)
	if err != nil {
		return nil, fmt.Errorf("memberships at %s: %w", t0.Format("2006-01-02"), err)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no eligible symbols at %s: %w", t0.Format("2006-01-02"), contracts.ErrNoResult)
	}

	lookbackStart := calendar.AddMonths(t0, -cfg.LookbackMonths)
	lookbackPrices, err := o.source.Prices(ctx, eligible, lookbackStart, t0)
	if err != nil {
		return nil, fmt.Errorf("lookback prices: %w", err)
	}

	monthGrid := calendar.MonthEnds(distinctDates(lookbackPrices))
	seriesBySymbol := monthlySeriesBySymbol(eligible, lookbackPrices, monthGrid)

	screened := o.screener.TopNBySharpe(eligible, seriesBySymbol, cfg.RiskFreeRate, cfg.TopN)
	if len(screened) < cfg.KFinal {
		return nil, fmt.Errorf("pre-screen kept %d symbols, need at least %d: %w",
			len(screened), cfg.KFinal, contracts.ErrNoResult)
	}

	panelSeries := make([][]returns.Optional, len(screened))
	for i, symbol := range screened {
		panelSeries[i] = seriesBySymbol[symbol]
	}
	p := panel.Assemble(panelSeries)

	minRows := cfg.MinMonths - 1
	if panel.MinRows > minRows {
		minRows = panel.MinRows
	}
	if p.Rows < minRows || p.Cols < cfg.KFinal {
		return nil, fmt.Errorf("panel too small (rows=%d cols=%d, need rows>=%d cols>=%d): %w",
			p.Rows, p.Cols, minRows, cfg.KFinal, contracts.ErrNoResult)
	}

	keptSymbols := make([]string, p.Cols)
	for j, colIdx := range p.KeptCol {
		keptSymbols[j] = screened[colIdx]
	}

	mu := stats.MeanVector(p, cfg.RawMeanVariant)
	sigma := stats.Covariance(p, cfg.Ridge)

	bounds := portfolio.Bounds{WMin: cfg.WMin, WMax: cfg.WMax}
	weights, err := portfolio.Prune(keptSymbols, mu, sigma, bounds, cfg.KFinal)
	if err != nil {
		return nil, fmt.Errorf("pruning %d symbols to %d: %w", len(keptSymbols), cfg.KFinal, err)
	}

	survivors := make([]string, 0, len(weights))
	for symbol := range weights {
		survivors = append(survivors, symbol)
	}
	sort.Strings(survivors)

	forwardPrices, err := o.source.Prices(ctx, survivors, t0, end)
	if err != nil {
		return nil, fmt.Errorf("forward prices: %w", err)
	}

	pricesByDate := groupPricesBySymbol(forwardPrices)
	forwardDates := datesStrictlyAfter(t0, distinctDates(forwardPrices))
	if len(forwardDates) == 0 {
		return nil, fmt.Errorf("no forward dates after %s: %w", t0.Format("2006-01-02"), contracts.ErrNoResult)
	}

	dates := append([]time.Time{t0}, forwardDates...)
	dailyReturns := backtest.Simulate(dates, weights, pricesByDate)

	if o.logger != nil {
		o.logger.WithFields(map[string]interface{}{
			"rebalance_date": t0.Format("2006-01-02"),
			"symbols":        len(survivors),
			"forward_days":   len(dailyReturns),
		}).Info("selection run completed")
	}

	return &contracts.Result{
		RebalanceDate: t0,
		Symbols:       survivors,
		Weights:       weights,
		DailyReturns:  dailyReturns,
	}, nil
}

// rebalanceDate returns the first month-end in allDays with at least one
// trading day in [monthEnd - lookbackMonths, monthEnd).
func rebalanceDate(allDays []time.Time, lookbackMonths int) (time.Time, error) {
	monthEnds := calendar.MonthEnds(allDays)

	sorted := append([]time.Time{}, allDays...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for _, d := range monthEnds {
		lower := calendar.AddMonths(d, -lookbackMonths)
		if hasDayInRange(sorted, lower, d) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("no month-end has a lookback trading day: %w", contracts.ErrNoResult)
}

// hasDayInRange reports whether ascending-sorted contains a day in
// [lower, upper).
func hasDayInRange(sortedDays []time.Time, lower, upper time.Time) bool {
	for _, d := range sortedDays {
		if !d.Before(lower) && d.Before(upper) {
			return true
		}
	}
	return false
}

// distinctDates returns the sorted, deduplicated calendar days present in
// prices.
func distinctDates(prices []contracts.Price) []time.Time {
	seen := make(map[int64]time.Time)
	for _, p := range prices {
		seen[returns.DayKey(p.Date)] = p.Date
	}
	out := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// datesStrictlyAfter filters dates (assumed sorted ascending) to those
// strictly after t0.
func datesStrictlyAfter(t0 time.Time, dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.After(t0) {
			out = append(out, d)
		}
	}
	return out
}

// monthlySeriesBySymbol aligns each symbol's lookback prices to grid and
// converts to a monthly return series, leaving gaps explicit.
func monthlySeriesBySymbol(symbols []string, prices []contracts.Price, grid []time.Time) map[string][]returns.Optional {
	byDate := groupPricesBySymbol(prices)

	out := make(map[string][]returns.Optional, len(symbols))
	for _, symbol := range symbols {
		aligned := returns.AlignToGrid(grid, byDate[symbol])
		out[symbol] = returns.ToReturns(aligned)
	}
	return out
}

// groupPricesBySymbol buckets price rows by symbol, then by day key, for
// O(1) lookups during alignment and simulation.
func groupPricesBySymbol(prices []contracts.Price) map[string]map[int64]float64 {
	out := make(map[string]map[int64]float64)
	for _, p := range prices {
		bySymbol, ok := out[p.Symbol]
		if !ok {
			bySymbol = make(map[int64]float64)
			out[p.Symbol] = bySymbol
		}
		bySymbol[returns.DayKey(p.Date)] = p.PriceAdj
	}
	return out
}
