package recurring

import (
	"fmt"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// Forecast projects the due dates a PPM task will have if every occurrence is
// completed on time, starting at its current due date and ending at until (inclusive).
// Each date is the NextDueDate of the one before it.
func Forecast(task domain.PPMTask, until time.Time) ([]string, error) {
	start, err := domain.ParseDate(task.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDateInput, err)
	}

	calc := GetCalculator(task.Frequency)
	if calc == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, task.Frequency)
	}

	occurrences := calc.OccurrencesBetween(start, domain.DateOf(until))
	dates := make([]string, 0, len(occurrences))
	for _, o := range occurrences {
		dates = append(dates, domain.FormatDate(o))
	}
	return dates, nil
}

// Staggered returns start advanced n times by the frequency's calculator.
// Frequencies that do not recur fall back to weekly steps.
func Staggered(start time.Time, frequency domain.Frequency, n int) time.Time {
	calc := GetCalculator(frequency)
	if calc == nil {
		calc = &WeeklyCalculator{}
	}

	d := domain.DateOf(start)
	for range n {
		d = calc.NextOccurrence(d)
	}
	return d
}
