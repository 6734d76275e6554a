package recurring

import (
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// maxOccurrences bounds OccurrencesBetween so a corrupt range cannot spin forever.
const maxOccurrences = 1000

// PatternCalculator calculates the next occurrence date for a recurrence frequency.
// All inputs and outputs are calendar days at UTC midnight.
type PatternCalculator interface {
	// NextOccurrence returns the first due date after the given one.
	NextOccurrence(after time.Time) time.Time

	// OccurrencesBetween returns start and each NextOccurrence after it, through end inclusive.
	OccurrencesBetween(start, end time.Time) []time.Time
}

// GetCalculator returns the calculator for the given frequency, or nil when it does not recur.
func GetCalculator(frequency domain.Frequency) PatternCalculator {
	switch frequency {
	case domain.FrequencyDaily:
		return &DailyCalculator{}
	case domain.FrequencyWeekly:
		return &WeeklyCalculator{}
	case domain.FrequencyMonthly:
		return &MonthlyCalculator{}
	case domain.FrequencyQuarterly:
		return &QuarterlyCalculator{}
	case domain.FrequencyYearly:
		return &YearlyCalculator{}
	default:
		return nil
	}
}

func occurrencesBetween(start, end time.Time, next func(time.Time) time.Time) []time.Time {
	var occurrences []time.Time
	current := start

	for !current.After(end) && len(occurrences) < maxOccurrences {
		occurrences = append(occurrences, current)
		current = next(current)
	}

	return occurrences
}
