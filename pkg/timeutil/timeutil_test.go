package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), StartOfDay(in))

	// Non-UTC inputs are converted first.
	offset := time.FixedZone("UTC+5", 5*3600)
	in = time.Date(2026, 9, 1, 2, 0, 0, 0, offset) // 2026-08-31 21:00 UTC
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestStartOfWeek_MondayBased(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	// Wednesday maps back to Monday.
	wed := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(wed))

	// Monday maps to itself.
	assert.Equal(t, monday, StartOfWeek(monday.Add(5*time.Hour)))

	// Sunday belongs to the week that started six days earlier.
	sun := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(sun))
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), EndOfWeek(wed))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 3, 1, 0, 0, 0, time.UTC)

	// Calendar days, not 24h periods.
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 31, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("31/08/2026")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	_, err := ParseClock("09:00")
	assert.NoError(t, err)

	_, err = ParseClock("9am")
	assert.Error(t, err)
	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestPluralDays(t *testing.T) {
	assert.Equal(t, "0 days", PluralDays(0))
	assert.Equal(t, "1 day", PluralDays(1))
	assert.Equal(t, "2 days", PluralDays(2))
	assert.Equal(t, "14 days", PluralDays(14))
}

func TestFormatDateStr(t *testing.T) {
	offset := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 9, 1, 2, 0, 0, 0, offset)
	assert.Equal(t, "2026-08-31", FormatDateStr(in))
}
