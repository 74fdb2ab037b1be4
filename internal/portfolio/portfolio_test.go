package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func identityCov(n int, diag float64) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, diag)
	}
	return d
}

func TestSolve_MinimalTwoAssetBounded(t *testing.T) {
	mu := mat.NewVecDense(2, []float64{0.001, 0.001})
	sigma := identityCov(2, 0.02)
	bounds := Bounds{WMin: 0.4, WMax: 0.6}

	w, err := Solve(mu, sigma, bounds)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range w {
		assert.GreaterOrEqual(t, v, bounds.WMin-1e-9)
		assert.LessOrEqual(t, v, bounds.WMax+1e-9)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestSolve_InfeasibleBoundsStillFinite(t *testing.T) {
	mu := mat.NewVecDense(2, []float64{0.001, 0.001})
	sigma := identityCov(2, 0.02)
	bounds := Bounds{WMin: 0.6, WMax: 0.9} // 2*0.6 = 1.2 > 1: infeasible

	w, err := Solve(mu, sigma, bounds)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.False(t, isNaNOrInf(v))
		sum += v
	}
	assert.Greater(t, sum, 0.0)
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e300 || v < -1e300
}

func TestSolve_RetriesOnSingularCovariance(t *testing.T) {
	mu := mat.NewVecDense(2, []float64{0.001, 0.001})
	sigma := mat.NewDense(2, 2, []float64{1, 1, 1, 1}) // singular, nonzero diagonal

	w, err := Solve(mu, sigma, Bounds{WMin: 0, WMax: 1})
	require.NoError(t, err)
	assert.Len(t, w, 2)
}

func TestPrune_TieBreakLowestIndexFirst(t *testing.T) {
	symbols := []string{"A", "B", "C"}
	mu := mat.NewVecDense(3, []float64{0, 0, 0})
	sigma := identityCov(3, 0.02) // symmetric setup -> equal weights post-solve

	out, err := Prune(symbols, mu, sigma, Bounds{WMin: 0, WMax: 1}, 2)
	require.NoError(t, err)

	assert.Len(t, out, 2)
	_, hasA := out["A"]
	assert.False(t, hasA, "lowest-index tie should be removed first")
}

func TestPrune_NoopWhenAlreadyAtTarget(t *testing.T) {
	symbols := []string{"A", "B"}
	mu := mat.NewVecDense(2, []float64{0, 0})
	sigma := identityCov(2, 0.02)

	out, err := Prune(symbols, mu, sigma, Bounds{WMin: 0, WMax: 1}, 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestBounds_Feasible(t *testing.T) {
	assert.True(t, Bounds{WMin: 0.005, WMax: 0.03}.Feasible(45))
	assert.False(t, Bounds{WMin: 0.6, WMax: 0.9}.Feasible(2))
}
