package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantselect/engine/internal/contracts"
)

func dayReturns(values ...float64) []contracts.DailyReturn {
	out := make([]contracts.DailyReturn, len(values))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		out[i] = contracts.DailyReturn{Date: base.AddDate(0, 0, i), Return: v}
	}
	return out
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0.02)
	assert.Equal(t, Summary{}, s)
}

func TestSummarize_FlatReturnsZeroVolatilityAndDrawdown(t *testing.T) {
	r := dayReturns(0, 0, 0, 0, 0)
	s := Summarize(r, 0)

	assert.Equal(t, 5, s.Days)
	assert.InDelta(t, 0.0, s.TotalReturn, 1e-12)
	assert.InDelta(t, 0.0, s.Volatility, 1e-12)
	assert.InDelta(t, 0.0, s.MaxDrawdown, 1e-12)
}

func TestSummarize_SteadyGainHasNoDrawdown(t *testing.T) {
	r := dayReturns(0.001, 0.001, 0.001, 0.001)
	s := Summarize(r, 0)

	assert.Greater(t, s.TotalReturn, 0.0)
	assert.Greater(t, s.CAGR, 0.0)
	assert.InDelta(t, 0.0, s.MaxDrawdown, 1e-12)
}

func TestSummarize_DrawdownCapturesWorstDecline(t *testing.T) {
	// equity path: 1 -> 1.10 -> 0.88 -> 0.968
	r := dayReturns(0.10, -0.20, 0.10)
	s := Summarize(r, 0)

	// peak 1.10, trough 0.88: drawdown = (1.10-0.88)/1.10
	assert.InDelta(t, (1.10-0.88)/1.10, s.MaxDrawdown, 1e-9)
}

func TestSummarize_SharpeUndefinedWhenNoVariance(t *testing.T) {
	r := dayReturns(0.001, 0.001, 0.001)
	s := Summarize(r, 0)
	assert.Equal(t, 0.0, s.SharpeRatio)
}

func TestSummarize_PositiveSharpeWhenExcessReturnsVary(t *testing.T) {
	r := dayReturns(0.01, -0.002, 0.008, 0.001, 0.006)
	s := Summarize(r, 0)
	assert.Greater(t, s.SharpeRatio, 0.0)
}
