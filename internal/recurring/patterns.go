package recurring

import (
	"time"
)

// DailyCalculator advances one day at a time.
type DailyCalculator struct{}

func (c *DailyCalculator) NextOccurrence(after time.Time) time.Time {
	return after.AddDate(0, 0, 1)
}

func (c *DailyCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	return occurrencesBetween(start, end, c.NextOccurrence)
}

// WeeklyCalculator advances seven days at a time.
type WeeklyCalculator struct{}

func (c *WeeklyCalculator) NextOccurrence(after time.Time) time.Time {
	return after.AddDate(0, 0, 7)
}

func (c *WeeklyCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	return occurrencesBetween(start, end, c.NextOccurrence)
}

// MonthlyCalculator advances one calendar month, clamping to the end of shorter months.
type MonthlyCalculator struct{}

func (c *MonthlyCalculator) NextOccurrence(after time.Time) time.Time {
	return addMonthsClamped(after, 1)
}

// OccurrencesBetween chains NextOccurrence, as completing each occurrence on
// time does. Once a date is clamped it stays clamped (Jan 31, Feb 28, Mar 28).
func (c *MonthlyCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	return occurrencesBetween(start, end, c.NextOccurrence)
}

// QuarterlyCalculator advances three calendar months, clamping like MonthlyCalculator.
type QuarterlyCalculator struct{}

func (c *QuarterlyCalculator) NextOccurrence(after time.Time) time.Time {
	return addMonthsClamped(after, 3)
}

func (c *QuarterlyCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	return occurrencesBetween(start, end, c.NextOccurrence)
}

// YearlyCalculator advances one calendar year. Feb 29 lands on Feb 28 in common years.
type YearlyCalculator struct{}

func (c *YearlyCalculator) NextOccurrence(after time.Time) time.Time {
	return addMonthsClamped(after, 12)
}

func (c *YearlyCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	return occurrencesBetween(start, end, c.NextOccurrence)
}

// addMonthsClamped adds n calendar months to t. When the target month is
// shorter than t's day-of-month the result is the target month's last day.
// time.AddDate would instead overflow into the following month.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
