// Package report aggregates PPM tasks into report summaries and renders them
// as PDF and CSV exports.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/status"
)

// RecentWindowDays is how far back a completion still counts as recent.
const RecentWindowDays = 7

// DefaultRecentUpdates is how many completions the recent updates section lists.
const DefaultRecentUpdates = 5

// Summary holds the counts shown in a report header.
type Summary struct {
	Total             int
	Completed         int
	InProgress        int
	NotStarted        int
	Overdue           int
	WithPhotos        int
	RecentlyCompleted int
}

// Summarize counts tasks by manual status, lateness, photo evidence and
// recent completion as of today.
func Summarize(tasks []domain.PPMTask, today time.Time) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusNotStarted:
			s.NotStarted++
		}
		if status.IsOverdue(t, today) {
			s.Overdue++
		}
		if len(t.Photos) > 0 {
			s.WithPhotos++
		}
		if CompletedRecently(t, today) {
			s.RecentlyCompleted++
		}
	}
	return s
}

// CompletedRecently reports whether the task's last completion falls on a
// calendar day between today minus RecentWindowDays and today, inclusive.
func CompletedRecently(t domain.PPMTask, today time.Time) bool {
	days, ok := DaysSinceCompleted(t, today)
	return ok && days >= 0 && days <= RecentWindowDays
}

// DaysSinceCompleted returns the number of calendar days from the task's last
// completion to today. The calendar day of the completion is taken in today's location.
func DaysSinceCompleted(t domain.PPMTask, today time.Time) (int, bool) {
	if t.LastCompleted == nil {
		return 0, false
	}
	return domain.DaysBetween(t.LastCompleted.In(today.Location()), today), true
}

// RecentUpdates returns up to n tasks with a completion, most recent first.
// n <= 0 means DefaultRecentUpdates.
func RecentUpdates(tasks []domain.PPMTask, n int) []domain.PPMTask {
	if n <= 0 {
		n = DefaultRecentUpdates
	}

	var done []domain.PPMTask
	for _, t := range tasks {
		if t.LastCompleted != nil {
			done = append(done, t)
		}
	}
	slices.SortStableFunc(done, func(a, b domain.PPMTask) int {
		return b.LastCompleted.Compare(*a.LastCompleted)
	})
	return done[:min(n, len(done))]
}

// FilterByDueRange keeps tasks due between from and to, inclusive.
// Both bounds must be canonical dates with from <= to.
func FilterByDueRange(tasks []domain.PPMTask, from, to string) ([]domain.PPMTask, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}

	var out []domain.PPMTask
	for _, t := range tasks {
		if cmp.Compare(t.DueDate, from) >= 0 && cmp.Compare(t.DueDate, to) <= 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

// ValidateRange checks a report date range.
func ValidateRange(from, to string) error {
	if _, err := domain.ParseDate(from); err != nil {
		return fmt.Errorf("%w: report start: %w", domain.ErrValidation, err)
	}
	if _, err := domain.ParseDate(to); err != nil {
		return fmt.Errorf("%w: report end: %w", domain.ErrValidation, err)
	}
	if from > to {
		return fmt.Errorf("%w: start date %s must not be after end date %s", domain.ErrValidation, from, to)
	}
	return nil
}

// CurrentMonth returns the first and last day of today's month, the default report range.
func CurrentMonth(today time.Time) (from, to string) {
	first := domain.DateOf(today).AddDate(0, 0, 1-today.Day())
	last := first.AddDate(0, 1, -1)
	return domain.FormatDate(first), domain.FormatDate(last)
}

// TimeAgo renders a day count the way report lines do: Today, Yesterday, N days ago.
func TimeAgo(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// truncate shortens s to limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
