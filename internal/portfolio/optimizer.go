package portfolio

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/quantselect/engine/internal/contracts"
)

// applyBoundsIterations is the fixed iteration count for applyBounds; part
// of the engine's contract, not configurable.
const applyBoundsIterations = 10

// retryRidgeFraction is the extra diagonal loading (as a fraction of each
// diagonal entry's magnitude) applied on the single retry after a failed
// covariance solve.
const retryRidgeFraction = 0.10

// Solve computes the heuristic mean-variance weight vector for mu/sigma
// under box constraints: w = Σ⁻¹μ, clamped to nonnegative, normalized,
// then pushed into [WMin, WMax] by iterative renormalization. It never
// fails on an infeasible bound set (a best-effort vector is returned
// instead); it does fail, wrapping contracts.ErrNumerical, when the
// covariance matrix remains singular after one ridge-loaded retry.
func Solve(mu *mat.VecDense, sigma *mat.Dense, bounds Bounds) ([]float64, error) {
	n := mu.Len()
	if n == 0 {
		return []float64{}, nil
	}

	w, err := solveLinear(sigma, mu)
	if err != nil {
		loaded := withExtraRidge(sigma, retryRidgeFraction)
		w, err = solveLinear(loaded, mu)
		if err != nil {
			return nil, fmt.Errorf("%w: covariance solve failed after retry (n=%d): %v", contracts.ErrNumerical, n, err)
		}
	}

	clampNonNegative(w)
	normalize(w)
	return applyBounds(w, bounds), nil
}

func solveLinear(sigma *mat.Dense, mu *mat.VecDense) ([]float64, error) {
	n := mu.Len()
	dst := mat.NewVecDense(n, nil)
	if err := dst.SolveVec(sigma, mu); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = dst.AtVec(i)
	}
	return out, nil
}

func withExtraRidge(sigma *mat.Dense, fraction float64) *mat.Dense {
	n, _ := sigma.Dims()
	loaded := mat.DenseCopyOf(sigma)
	for i := 0; i < n; i++ {
		d := loaded.At(i, i)
		if d < 0 {
			d = -d
		}
		loaded.Set(i, i, loaded.At(i, i)+fraction*d)
	}
	return loaded
}

func clampNonNegative(w []float64) {
	for i, v := range w {
		if v < 0 {
			w[i] = 0
		}
	}
}

// normalize divides w by its sum when the sum is positive; otherwise w is
// left unchanged, matching the engine's "normalize only if Σw > 0" rule.
func normalize(w []float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
}

// applyBounds is the engine's box-constraint iteration: clamp to
// [0, WMax], renormalize, push every under-floor weight up to WMin,
// finance the deficit proportionally from donors above the floor, and
// renormalize again. Repeats applyBoundsIterations times; the loop never
// hard-fails, even when the bound set is infeasible for this cardinality.
func applyBounds(w []float64, bounds Bounds) []float64 {
	out := append([]float64{}, w...)
	n := len(out)
	if n == 0 {
		return out
	}

	for iter := 0; iter < applyBoundsIterations; iter++ {
		for i, v := range out {
			if v > bounds.WMax {
				out[i] = bounds.WMax
			} else if v < 0 {
				out[i] = 0
			}
		}
		normalize(out)

		before := append([]float64{}, out...)
		needy := make([]bool, n)
		deficit := 0.0
		for i, v := range before {
			if v < bounds.WMin {
				needy[i] = true
				deficit += bounds.WMin - v
				out[i] = bounds.WMin
			}
		}

		if deficit <= 0 {
			normalize(out)
			continue
		}

		donorSum := 0.0
		for i, isNeedy := range needy {
			if !isNeedy {
				donorSum += out[i] - bounds.WMin
			}
		}

		if donorSum > 1e-9 {
			for i, isNeedy := range needy {
				if isNeedy {
					continue
				}
				share := (out[i] - bounds.WMin) / donorSum
				out[i] -= share * deficit
			}
		}
		normalize(out)
	}
	return out
}
