package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the canonical calendar date form used for every date-bearing field.
const DateLayout = "2006-01-02"

// displayLayout mirrors the short US form shown in task tables and reports.
const displayLayout = "Jan 02, 2006"

const secondsPerDay = 24 * 60 * 60

var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate reports whether s is a canonical YYYY-MM-DD string naming a real calendar day.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses a canonical date into UTC midnight of that day.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if !canonicalDate.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// FormatDate renders the calendar day of t in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns UTC midnight of the calendar day t falls on in its own location.
// Day arithmetic on normalized values never sees a 23 or 25 hour day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the canonical form of the calendar day t falls on.
func Today(t time.Time) string {
	return FormatDate(DateOf(t))
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int((DateOf(b).Unix() - DateOf(a).Unix()) / secondsPerDay)
}

// DisplayDate renders a canonical date as "Jan 02, 2006", or "Invalid Date".
func DisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return "Invalid Date"
	}
	return t.Format(displayLayout)
}
