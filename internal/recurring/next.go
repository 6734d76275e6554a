package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// ErrInvalidDateInput is returned when the current due date cannot be advanced
// because it is not a canonical calendar date.
var ErrInvalidDateInput = errors.New("invalid date input for recurrence")

// NextDueDate returns the due date that follows current for the given frequency.
// A frequency that does not recur returns current unchanged.
func NextDueDate(current string, frequency domain.Frequency) (string, error) {
	due, err := domain.ParseDate(current)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDateInput, err)
	}

	calc := GetCalculator(frequency)
	if calc == nil {
		return current, nil
	}
	return domain.FormatDate(calc.NextOccurrence(due)), nil
}

// NextDueDateOr is NextDueDate with the safe fallback applied: an invalid
// current date yields today's date rather than propagating corruption.
// The boolean reports whether the fallback was used.
func NextDueDateOr(current string, frequency domain.Frequency, today time.Time) (string, bool) {
	next, err := NextDueDate(current, frequency)
	if err != nil {
		return domain.Today(today), true
	}
	return next, false
}
