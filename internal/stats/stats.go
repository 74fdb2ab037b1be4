// Package stats computes the engine's pre-screen and covariance
// statistics: monthly Sharpe ratios for ranking, and the ridge-regularized
// mean/covariance pair the optimizer solves against.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/quantselect/engine/internal/panel"
	"github.com/quantselect/engine/internal/returns"
)

// MinSharpeObservations is the minimum number of present monthly
// observations required before a Sharpe ratio is considered defined.
const MinSharpeObservations = 12

const monthsPerYear = 12

// MonthlyRiskFree converts an annual risk-free rate into the equivalent
// monthly rate used to compute excess returns.
func MonthlyRiskFree(annual float64) float64 {
	return math.Pow(1+annual, 1.0/monthsPerYear) - 1
}

// Sharpe computes the annualized monthly Sharpe ratio of a ragged return
// series against rfAnnual, using only its present values. ok is false when
// fewer than MinSharpeObservations values are present or the sample
// standard deviation of excess returns is non-positive.
func Sharpe(series []returns.Optional, rfAnnual float64) (value float64, ok bool) {
	rfm := MonthlyRiskFree(rfAnnual)

	excess := make([]float64, 0, len(series))
	for _, p := range series {
		if p.Present {
			excess = append(excess, p.Value-rfm)
		}
	}
	if len(excess) < MinSharpeObservations {
		return 0, false
	}

	mean := stat.Mean(excess, nil)
	sd := sampleStdDev(excess, mean)
	if sd <= 0 {
		return 0, false
	}
	return (mean / sd) * math.Sqrt(monthsPerYear), true
}

// sampleStdDev computes the sample standard deviation with divisor
// max(1, n-1), matching the engine's Sharpe contract exactly rather than
// relying on gonum's default ddof handling.
func sampleStdDev(x []float64, mean float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range x {
		d := v - mean
		sumSq += d * d
	}
	divisor := len(x) - 1
	if divisor < 1 {
		divisor = 1
	}
	return math.Sqrt(sumSq / float64(divisor))
}

// MeanVector returns the mean vector μ used by the optimizer. When raw is
// false (the preserved legacy default) it returns the column means of the
// already-demeaned panel, which are ≈0 by construction — see the engine's
// design notes on this known quirk. When raw is true it returns the
// pre-demean column means instead (the RawMeanVariant behavior).
func MeanVector(p panel.Panel, raw bool) *mat.VecDense {
	if raw {
		return mat.NewVecDense(len(p.ColMean), append([]float64{}, p.ColMean...))
	}

	mu := make([]float64, p.Cols)
	for j := 0; j < p.Cols; j++ {
		col := mat.Col(nil, j, p.Data)
		mu[j] = stat.Mean(col, nil)
	}
	return mat.NewVecDense(p.Cols, mu)
}

// Covariance computes Σ = (RᵗR) / max(1, T-1) from the panel's demeaned
// matrix, then adds a ridge regularizer to every diagonal entry: λ =
// max(ridgeFloor, 0.05*|median diagonal|).
func Covariance(p panel.Panel, ridgeFloor float64) *mat.Dense {
	n := p.Cols
	sigma := mat.NewDense(n, n, nil)
	if n == 0 {
		return sigma
	}

	sigma.Mul(p.Data.T(), p.Data)
	divisor := float64(p.Rows - 1)
	if divisor < 1 {
		divisor = 1
	}
	sigma.Scale(1/divisor, sigma)

	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = sigma.At(i, i)
	}
	sorted := append([]float64{}, diag...)
	sort.Float64s(sorted)
	med := sorted[len(sorted)/2]

	lambda := ridgeFloor
	if v := 0.05 * math.Abs(med); v > lambda {
		lambda = v
	}
	for i := 0; i < n; i++ {
		sigma.Set(i, i, sigma.At(i, i)+lambda)
	}
	return sigma
}
