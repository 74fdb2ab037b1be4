package portfolio

import "gonum.org/v1/gonum/mat"

// Prune greedily shrinks an optimizer's N-wide weight vector to kFinal
// symbols: repeatedly drop the active index with the smallest current
// weight (ties broken by lowest index), rebuild mu/sigma on the remaining
// subset, and re-solve. sigma's diagonal is assumed already ridged; the
// subset selection preserves those entries rather than recomputing them.
// Returns a symbol -> weight map restricted to the kFinal survivors.
func Prune(symbols []string, mu *mat.VecDense, sigma *mat.Dense, bounds Bounds, kFinal int) (map[string]float64, error) {
	n := mu.Len()
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	w, err := Solve(mu, sigma, bounds)
	if err != nil {
		return nil, err
	}

	for len(active) > kFinal {
		drop := smallestWeightIndex(active, w)
		active = removeValue(active, drop)

		subMu, subSigma := subset(active, mu, sigma)
		subW, err := Solve(subMu, subSigma, bounds)
		if err != nil {
			return nil, err
		}

		w = make([]float64, n)
		for pos, idx := range active {
			w[idx] = subW[pos]
		}
	}

	out := make(map[string]float64, len(active))
	for _, idx := range active {
		out[symbols[idx]] = w[idx]
	}
	return out, nil
}

// smallestWeightIndex returns the active index with the smallest current
// weight; ties break toward the lowest index, matching the iteration
// order of active (ascending by construction).
func smallestWeightIndex(active []int, w []float64) int {
	best := active[0]
	for _, idx := range active[1:] {
		if w[idx] < w[best] {
			best = idx
		}
	}
	return best
}

func removeValue(active []int, drop int) []int {
	out := make([]int, 0, len(active)-1)
	for _, idx := range active {
		if idx != drop {
			out = append(out, idx)
		}
	}
	return out
}

// subset extracts the sub mean-vector and sub covariance matrix for the
// given (ascending) active indices, preserving sigma's existing diagonal
// entries rather than recomputing the ridge.
func subset(active []int, mu *mat.VecDense, sigma *mat.Dense) (*mat.VecDense, *mat.Dense) {
	k := len(active)
	subMu := mat.NewVecDense(k, nil)
	subSigma := mat.NewDense(k, k, nil)

	for pi, pidx := range active {
		subMu.SetVec(pi, mu.AtVec(pidx))
		for qi, qidx := range active {
			subSigma.Set(pi, qi, sigma.At(pidx, qidx))
		}
	}
	return subMu, subSigma
}
