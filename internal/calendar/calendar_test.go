package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthEnds_Empty(t *testing.T) {
	assert.Equal(t, []time.Time{}, MonthEnds(nil))
}

func TestMonthEnds_PicksMaxPerGroup(t *testing.T) {
	in := []time.Time{
		date(2024, 1, 2), date(2024, 1, 31), date(2024, 1, 15),
		date(2024, 2, 1), date(2024, 2, 29),
		date(2024, 1, 31), // duplicate
	}
	got := MonthEnds(in)
	want := []time.Time{date(2024, 1, 31), date(2024, 2, 29)}
	assert.Equal(t, want, got)
}

func TestMonthEnds_IrregularGaps(t *testing.T) {
	in := []time.Time{date(2023, 11, 30), date(2024, 3, 28)}
	got := MonthEnds(in)
	assert.Equal(t, []time.Time{date(2023, 11, 30), date(2024, 3, 28)}, got)
}

func TestAddMonths(t *testing.T) {
	got := AddMonths(date(2024, 1, 31), -36)
	assert.Equal(t, date(2021, 1, 31), got)
}

func TestAddMonths_ClampsToShortMonth(t *testing.T) {
	// Jan 31, 2024 - 11 months lands in Feb 2023, which has no 31st;
	// the naive time.AddDate would roll into Mar 3, 2023 instead.
	got := AddMonths(date(2024, 1, 31), -11)
	assert.Equal(t, date(2023, 2, 28), got)
}

func TestAddMonths_ClampsAcrossLeapDayBoundary(t *testing.T) {
	// Jan 31, 2024 - 11 months lands on Feb 2023 (not a leap year),
	// so the clamp lands on the 28th, not the 29th.
	got := AddMonths(date(2024, 1, 31), -11)
	assert.Equal(t, 28, got.Day())

	// Jan 31, 2025 - 11 months lands on Feb 2024, a leap year, so the
	// clamp should reach the 29th.
	got2 := AddMonths(date(2025, 1, 31), -11)
	assert.Equal(t, date(2024, 2, 29), got2)
}
