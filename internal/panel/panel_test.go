package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantselect/engine/internal/returns"
)

func present(v float64) returns.Optional { return returns.Some(v) }
func absent() returns.Optional            { return returns.Optional{} }

func TestAssemble_DropsLowCoverageColumn(t *testing.T) {
	// 24 rows; symbol A and B fully covered, symbol C only 50% covered.
	rowsN := 24
	a := make([]returns.Optional, rowsN)
	b := make([]returns.Optional, rowsN)
	c := make([]returns.Optional, rowsN)
	for i := 0; i < rowsN; i++ {
		a[i] = present(0.01)
		b[i] = present(0.02)
		if i%2 == 0 {
			c[i] = present(0.03)
		} else {
			c[i] = absent()
		}
	}

	p := Assemble([][]returns.Optional{a, b, c})

	assert.Equal(t, []int{0, 1}, p.KeptCol)
	assert.Equal(t, 2, p.Cols)
	assert.Equal(t, rowsN, p.Rows)
}

func TestAssemble_DropsLowCoverageRow(t *testing.T) {
	rowsN := 24
	a := make([]returns.Optional, rowsN)
	b := make([]returns.Optional, rowsN)
	for i := 0; i < rowsN; i++ {
		a[i] = present(0.01)
		b[i] = present(0.02)
	}
	// Row 0 has both columns missing -> below RowCoverage, dropped.
	a[0] = absent()
	b[0] = absent()

	p := Assemble([][]returns.Optional{a, b})

	assert.Equal(t, rowsN-1, p.Rows)
	assert.NotContains(t, p.KeptRow, 0)
}

func TestAssemble_DemeansAndImputesZero(t *testing.T) {
	rowsN := 24
	a := make([]returns.Optional, rowsN)
	for i := 0; i < rowsN; i++ {
		a[i] = present(float64(i) / 100)
	}
	a[5] = absent()

	// Four fully covered companion columns keep row 5 at 4/5 = 0.80
	// coverage, so it survives the row filter and a's gap is imputed.
	cols := [][]returns.Optional{a}
	for k := 0; k < 4; k++ {
		full := make([]returns.Optional, rowsN)
		for i := range full {
			full[i] = present(0.01 * float64(k+1))
		}
		cols = append(cols, full)
	}

	p := Assemble(cols)

	// The absent cell becomes exactly 0 post-demean (mean already removed).
	rowIdx := -1
	for ri, orig := range p.KeptRow {
		if orig == 5 {
			rowIdx = ri
		}
	}
	if rowIdx >= 0 {
		assert.Equal(t, 0.0, p.Data.At(rowIdx, 0))
	}

	sum := 0.0
	for ri := 0; ri < p.Rows; ri++ {
		sum += p.Data.At(ri, 0)
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestAssemble_Empty(t *testing.T) {
	p := Assemble(nil)
	assert.Equal(t, 0, p.Rows)
	assert.Equal(t, 0, p.Cols)
}
