// Package status derives the urgency-aware display status of PPM tasks.
//
// Everything here is a pure function of its inputs; "today" is always passed in.
package status

import (
	"fmt"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// Priority orders display statuses by urgency. Lower values sort first.
type Priority int

const (
	PriorityOverdue    Priority = 1
	PriorityDueToday   Priority = 2
	PriorityInProgress Priority = 3
	PriorityUpcoming   Priority = 4
	PriorityCompleted  Priority = 5
	PriorityNotStarted Priority = 6
)

// upcomingWindowDays is how far ahead a Not Started task is flagged as upcoming.
const upcomingWindowDays = 3

// Presentation classes, passed through unchanged to renderers.
const (
	ClassCompleted  = "status-completed"
	ClassOverdue    = "status-overdue"
	ClassDueToday   = "status-due-today"
	ClassInProgress = "status-progress"
	ClassUpcoming   = "status-upcoming"
	ClassNotStarted = "status-not-started"
)

// SmartStatus is the derived display status of a task.
type SmartStatus struct {
	Text     string
	Class    string
	Badge    string
	Priority Priority
}

// Label is the badge and text joined, as shown in task tables.
func (s SmartStatus) Label() string {
	return s.Badge + " " + s.Text
}

// Classify computes the display status for a manual status and due date as of today.
//
// Rules are evaluated in order and the first match wins. Completed is terminal;
// otherwise due-date urgency overrides the manual status.
func Classify(manual domain.ManualStatus, dueDate string, today time.Time) SmartStatus {
	if manual == "" {
		manual = domain.StatusNotStarted
	}

	if manual == domain.StatusCompleted {
		return SmartStatus{Text: string(manual), Class: ClassCompleted, Badge: "✓", Priority: PriorityCompleted}
	}

	due, err := domain.ParseDate(dueDate)
	if err == nil {
		days := domain.DaysBetween(today, due)
		switch {
		case days < 0:
			return SmartStatus{
				Text:     fmt.Sprintf("OVERDUE (%d days)", -days),
				Class:    ClassOverdue,
				Badge:    "⚠️",
				Priority: PriorityOverdue,
			}
		case days == 0:
			return SmartStatus{Text: "DUE TODAY", Class: ClassDueToday, Badge: "🔔", Priority: PriorityDueToday}
		}
	}

	if manual == domain.StatusInProgress {
		return SmartStatus{Text: string(manual), Class: ClassInProgress, Badge: "⏳", Priority: PriorityInProgress}
	}

	if err == nil {
		if days := domain.DaysBetween(today, due); days <= upcomingWindowDays {
			return SmartStatus{
				Text:     fmt.Sprintf("Due in %d %s", days, plural(days, "day")),
				Class:    ClassUpcoming,
				Badge:    "📅",
				Priority: PriorityUpcoming,
			}
		}
	}

	return SmartStatus{Text: string(manual), Class: ClassNotStarted, Badge: "○", Priority: PriorityNotStarted}
}

// ClassifyTask is Classify applied to a stored task.
func ClassifyTask(task domain.PPMTask, today time.Time) SmartStatus {
	return Classify(task.Status, task.DueDate, today)
}

// IsOverdue reports whether a task is past due and not completed.
// The dashboard, the classifier and the report summary all share this predicate.
func IsOverdue(task domain.PPMTask, today time.Time) bool {
	return ClassifyTask(task, today).Priority == PriorityOverdue
}

// IsDueToday reports whether a task is due today and not completed.
func IsDueToday(task domain.PPMTask, today time.Time) bool {
	return ClassifyTask(task, today).Priority == PriorityDueToday
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
