package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-09", "09/03/2024", " 2024-03-09 ", "2024-03-09T23:30:00-03:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	for _, in := range []string{"", "09-03-2024", "2024-13-01", "amanhã"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, -30, DaysBetween(end, start))
	// Crosses a leap day.
	assert.Equal(t, 2, DaysBetween(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCivilDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	got := CivilDate(time.Date(2024, 5, 10, 22, 45, 0, 0, loc))
	assert.Equal(t, "2024-05-10", FormatDate(got))
	assert.Equal(t, time.UTC, got.Location())
}
