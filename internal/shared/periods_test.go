package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	_, err := ParseDate("10/01/2025")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	d, err := ParseDate(" 2025-01-10 ")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", FormatDate(d))
}

func TestAddDaysCrossesMonthAndYear(t *testing.T) {
	got, err := AddDays("2024-12-28", 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-04", got)

	got, err = AddDays("2025-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", got)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", first)
	assert.Equal(t, "2024-02-29", last)
}

func TestInRangeIsInclusive(t *testing.T) {
	assert.True(t, InRange("2025-01-01", "2025-01-01", "2025-01-31"))
	assert.True(t, InRange("2025-01-31", "2025-01-01", "2025-01-31"))
	assert.False(t, InRange("2025-02-01", "2025-01-01", "2025-01-31"))
	assert.False(t, InRange("", "", "2025-01-31"))
}

func TestTodayUsesClockLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	instant := time.Date(2025, 1, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-10", Today(FixedClock(instant)))
	assert.Equal(t, "2025-01-09", Today(FixedClock(instant.In(loc))))
}
