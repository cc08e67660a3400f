package comparison

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"15/08/2024", date(2024, time.August, 15)},
		{"15-08-2024", date(2024, time.August, 15)},
		{"2024-08-15", date(2024, time.August, 15)},
		{"2024/08/15", date(2024, time.August, 15)},
		{"15.08.2024", date(2024, time.August, 15)},
		{"2024.08.15", date(2024, time.August, 15)},
		{"2 January 2024", date(2024, time.January, 2)},
		{"Jan 2, 2024", date(2024, time.January, 2)},
		{"January 2, 2024", date(2024, time.January, 2)},
	}

	for _, tc := range cases {
		got, ok := ParseDate(tc.input)
		require.True(t, ok, "expected %q to parse", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParseDateDayFirstThenMonthFirst(t *testing.T) {
	// 15 cannot be a month, so the month-first reading applies
	got, ok := ParseDate("08/15/2024")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.August, 15), got)

	// ambiguous dates read day-first
	got, ok = ParseDate("03/04/2024")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.April, 3), got)
}

func TestParseDateUnpaddedNumbers(t *testing.T) {
	got, ok := ParseDate("1/2/2026")
	require.True(t, ok)
	assert.Equal(t, date(2026, time.February, 1), got)
}

func TestParseDateTwoDigitYears(t *testing.T) {
	got, ok := ParseDate("15/08/24")
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())

	got, ok = ParseDate("15/08/69")
	require.True(t, ok)
	assert.Equal(t, 1969, got.Year())
}

func TestParseDateEmbeddedInText(t *testing.T) {
	got, ok := ParseDate("Sanctioned on 15/08/2024 at Chennai")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.August, 15), got)
}

func TestParseDateInvalid(t *testing.T) {
	_, ok := ParseDate("not a date")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)

	_, ok = ParseDate("   ")
	assert.False(t, ok)

	// calendar overflow is rejected, not normalized
	_, ok = ParseDate("30/02/2024")
	assert.False(t, ok)
}

func TestParseDateNonString(t *testing.T) {
	_, ok := ParseDate(nil)
	assert.False(t, ok)

	_, ok = ParseDate(20240815)
	assert.False(t, ok)

	_, ok = ParseDate(true)
	assert.False(t, ok)
}
