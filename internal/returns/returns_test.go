package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToReturns_Empty(t *testing.T) {
	assert.Equal(t, []Optional{}, ToReturns(nil))
	assert.Equal(t, []Optional{}, ToReturns([]Optional{Some(1)}))
}

func TestToReturns_Basic(t *testing.T) {
	prices := []Optional{Some(100), Some(110), Optional{}, Some(90)}
	got := ToReturns(prices)

	assert.Len(t, got, 3)
	assert.True(t, got[0].Present)
	assert.InDelta(t, 0.10, got[0].Value, 1e-12)

	// prices[1] present but prices[2] absent -> gap is absent
	assert.False(t, got[1].Present)

	// prices[2] absent -> can't compute return into prices[3] either
	assert.False(t, got[2].Present)
}

func TestToReturns_ZeroPriceGuard(t *testing.T) {
	prices := []Optional{Some(0), Some(10)}
	got := ToReturns(prices)
	assert.False(t, got[0].Present)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAlignToGrid_MissingMonthIsAbsent(t *testing.T) {
	grid := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 29)}
	byDate := map[int64]float64{
		DayKey(date(2024, 1, 31)): 100,
		DayKey(date(2024, 3, 29)): 90,
	}
	got := AlignToGrid(grid, byDate)

	assert.True(t, got[0].Present)
	assert.False(t, got[1].Present)
	assert.True(t, got[2].Present)
}

func TestMonthlySeries_GapPropagatesThroughBothAdjacentReturns(t *testing.T) {
	grid := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 29)}
	byDate := map[int64]float64{
		DayKey(date(2024, 1, 31)): 100,
		DayKey(date(2024, 3, 29)): 90,
	}
	got := MonthlySeries(grid, byDate)

	assert.Len(t, got, 2)
	assert.False(t, got[0].Present) // Jan -> Feb needs Feb's price
	assert.False(t, got[1].Present) // Feb -> Mar needs Feb's price
	assert.Equal(t, date(2024, 2, 29), got[0].MonthEnd)
	assert.Equal(t, date(2024, 3, 29), got[1].MonthEnd)
}
