// Package panel assembles a dense, coverage-filtered return matrix from
// ragged per-symbol monthly return series, demeaning and zero-imputing the
// result so covariance estimation downstream has no missing cells.
package panel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/quantselect/engine/internal/returns"
)

// Coverage thresholds and minimum row count are part of the engine's
// contract; changing them is a behavioral change, so they are not exposed
// through configuration.
const (
	ColCoverage = 0.85
	RowCoverage = 0.80
	MinRows     = 24
)

// Panel is a dense T x N demeaned, zero-imputed return matrix plus the
// indices it kept from the pre-filter universe. ColMean holds the
// per-column mean that was subtracted during demeaning (the mean of each
// kept column's present values on kept rows); it exists only to serve the
// RawMeanVariant mean calculation (see internal/stats) and is not
// otherwise part of the engine's contract.
type Panel struct {
	Rows    int
	Cols    int
	Data    *mat.Dense // Rows x Cols, demeaned and zero-imputed
	ColMean []float64  // length Cols, pre-demean mean of each column
	KeptRow []int      // index into the original month-end grid
	KeptCol []int      // index into the original symbol list
}

// Assemble runs the column filter, row filter, and demean+impute passes
// described by the engine's coverage-tolerant algorithm. series[j] is
// symbol j's ragged return sequence aligned to a common month-end grid.
func Assemble(series [][]returns.Optional) Panel {
	n := len(series)
	if n == 0 {
		return Panel{Data: &mat.Dense{}, ColMean: []float64{}, KeptRow: []int{}, KeptCol: []int{}}
	}
	t := len(series[0])

	// 1. Column filter: drop columns whose present-fraction < ColCoverage.
	keptCol := make([]int, 0, n)
	for j := 0; j < n; j++ {
		present := 0
		for i := 0; i < t; i++ {
			if series[j][i].Present {
				present++
			}
		}
		if t > 0 && float64(present)/float64(t) >= ColCoverage {
			keptCol = append(keptCol, j)
		}
	}

	// 2. Row filter: on the remaining columns, drop rows whose
	// present-fraction < RowCoverage.
	keptRow := make([]int, 0, t)
	for i := 0; i < t; i++ {
		if len(keptCol) == 0 {
			break
		}
		present := 0
		for _, j := range keptCol {
			if series[j][i].Present {
				present++
			}
		}
		if float64(present)/float64(len(keptCol)) >= RowCoverage {
			keptRow = append(keptRow, i)
		}
	}

	// 3. Demean and impute: per kept column, mean of its present values on
	// kept rows; subtract from present entries; absent entries become 0.
	data := &mat.Dense{}
	if len(keptRow) > 0 && len(keptCol) > 0 {
		data = mat.NewDense(len(keptRow), len(keptCol), nil)
	}
	colMean := make([]float64, len(keptCol))

	for cj, j := range keptCol {
		sum, cnt := 0.0, 0
		for _, i := range keptRow {
			if series[j][i].Present {
				sum += series[j][i].Value
				cnt++
			}
		}
		mean := 0.0
		if cnt > 0 {
			mean = sum / float64(cnt)
		}
		colMean[cj] = mean
		for ri, i := range keptRow {
			if series[j][i].Present {
				data.Set(ri, cj, series[j][i].Value-mean)
			}
		}
	}

	return Panel{
		Rows:    len(keptRow),
		Cols:    len(keptCol),
		Data:    data,
		ColMean: colMean,
		KeptRow: keptRow,
		KeptCol: keptCol,
	}
}
