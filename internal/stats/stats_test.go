package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantselect/engine/internal/panel"
	"github.com/quantselect/engine/internal/returns"
)

func series(vals ...float64) []returns.Optional {
	out := make([]returns.Optional, len(vals))
	for i, v := range vals {
		out[i] = returns.Some(v)
	}
	return out
}

func TestSharpe_RequiresMinimumObservations(t *testing.T) {
	_, ok := Sharpe(series(0.01, 0.02, 0.03), 0.04)
	assert.False(t, ok)
}

func TestSharpe_PositiveExcessReturns(t *testing.T) {
	vals := make([]float64, 24)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = 0.02
		} else {
			vals[i] = 0.03
		}
	}
	v, ok := Sharpe(series(vals...), 0.0)
	assert.True(t, ok)
	assert.Greater(t, v, 0.0)
}

func TestSharpe_ZeroVarianceIsNaN(t *testing.T) {
	vals := make([]float64, 24)
	for i := range vals {
		vals[i] = 0.01
	}
	_, ok := Sharpe(series(vals...), 0.0)
	assert.False(t, ok)
}

func TestCovariance_RidgeFloorAppliedToDiagonal(t *testing.T) {
	p := panel.Assemble([][]returns.Optional{series(0, 0, 0, 0), series(0, 0, 0, 0)})
	sigma := Covariance(p, 0.1)
	assert.GreaterOrEqual(t, sigma.At(0, 0), 0.1)
	assert.GreaterOrEqual(t, sigma.At(1, 1), 0.1)
}

func TestMeanVector_DemeanedIsApproxZero(t *testing.T) {
	vals := make([]returns.Optional, 24)
	for i := range vals {
		vals[i] = returns.Some(float64(i) * 0.001)
	}
	p := panel.Assemble([][]returns.Optional{vals})
	mu := MeanVector(p, false)
	assert.InDelta(t, 0.0, mu.AtVec(0), 1e-9)
}

func TestMeanVector_RawUsesPreDemeanMean(t *testing.T) {
	vals := make([]returns.Optional, 24)
	for i := range vals {
		vals[i] = returns.Some(0.01)
	}
	p := panel.Assemble([][]returns.Optional{vals})
	mu := MeanVector(p, true)
	assert.InDelta(t, 0.01, mu.AtVec(0), 1e-9)
}
