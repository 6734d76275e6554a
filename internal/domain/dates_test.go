package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical", "2025-06-15", true},
		{"leap day", "2024-02-29", true},
		{"empty", "", false},
		{"month 13", "2025-13-01", false},
		{"feb 30", "2025-02-30", false},
		{"feb 29 non-leap", "2025-02-29", false},
		{"day zero", "2025-01-00", false},
		{"single digit month", "2025-1-05", false},
		{"slashes", "2025/01/05", false},
		{"trailing time", "2025-01-05T00:00:00Z", false},
		{"two digit year", "25-01-05", false},
		{"garbage", "not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDate(tt.input))
		})
	}
}

func TestIsValidDate_RoundTripsFormatDate(t *testing.T) {
	start := time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3*366; i++ {
		d := start.AddDate(0, 0, i)
		s := FormatDate(d)
		require.True(t, IsValidDate(s), "formatted date %s should validate", s)

		parsed, err := ParseDate(s)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(d))
	}
}

func TestParseDate_WrapsErrInvalidDate(t *testing.T) {
	_, err := ParseDate("2025-02-30")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2025, 6, 15, 23, 30, 0, 0, loc)

	got := DateOf(late)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2025-06-15", Today(late))
}

func TestDaysBetween(t *testing.T) {
	today := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(today, time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, DaysBetween(today, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -5, DaysBetween(today, time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)))
}

func TestDaysBetween_AcrossDaylightSavingChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2025-03-09 is 23 hours long in New York.
	before := time.Date(2025, 3, 8, 12, 0, 0, 0, ny)
	after := time.Date(2025, 3, 10, 0, 30, 0, 0, ny)

	assert.Equal(t, 2, DaysBetween(before, after))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Jun 05, 2025", DisplayDate("2025-06-05"))
	assert.Equal(t, "Invalid Date", DisplayDate("2025-06-31"))
}
