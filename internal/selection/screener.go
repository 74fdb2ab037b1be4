// Package selection implements the pre-screen and run-provenance stages
// of the selection pipeline: ranking eligible symbols by Sharpe ratio and
// recording a snapshot of each completed run.
package selection

import (
	"sort"

	"github.com/quantselect/engine/internal/returns"
	"github.com/quantselect/engine/internal/stats"
	"github.com/quantselect/engine/pkg/logger"
)

// Screener implements the Top-N pre-screen: it ranks eligible symbols by
// their monthly Sharpe ratio and keeps the best topN.
type Screener struct {
	logger *logger.Logger
}

// NewScreener creates a new screener.
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{logger: logger}
}

// scored pairs a symbol with its Sharpe ratio for sorting.
type scored struct {
	symbol string
	sharpe float64
}

// TopNBySharpe ranks symbols with a defined Sharpe ratio (see
// stats.Sharpe) descending and returns the first topN symbols, in that
// order. Symbols whose Sharpe is undefined (fewer than
// stats.MinSharpeObservations present values, or non-positive excess
// standard deviation) are excluded entirely, matching the engine's
// pre-screen contract. The sort is stable: ties keep their input order.
func (s *Screener) TopNBySharpe(symbols []string, seriesBySymbol map[string][]returns.Optional, rfAnnual float64, topN int) []string {
	ranked := make([]scored, 0, len(symbols))
	for _, symbol := range symbols {
		value, ok := stats.Sharpe(seriesBySymbol[symbol], rfAnnual)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{symbol: symbol, sharpe: value})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sharpe > ranked[j].sharpe
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}

	out := make([]string, topN)
	for i := 0; i < topN; i++ {
		out[i] = ranked[i].symbol
	}

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"eligible": len(symbols),
			"scored":   len(ranked),
			"kept":     len(out),
		}).Info("pre-screen completed")
	}

	return out
}
