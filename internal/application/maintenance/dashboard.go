package maintenance

import (
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/status"
)

// Dashboard holds the headline counters shown above the task tables.
type Dashboard struct {
	DueToday   int
	Overdue    int
	InProgress int
	OpenCM     int
}

// BuildDashboard computes the dashboard counters as of today.
// DueToday and Overdue share the classifier's predicates, so a completed task
// is never counted as late. InProgress counts the manual status only.
func BuildDashboard(ppm []domain.PPMTask, cm []domain.CMTask, today time.Time) Dashboard {
	var d Dashboard
	for _, t := range ppm {
		switch {
		case status.IsOverdue(t, today):
			d.Overdue++
		case status.IsDueToday(t, today):
			d.DueToday++
		}
		if t.Status == domain.StatusInProgress {
			d.InProgress++
		}
	}
	for _, t := range cm {
		if t.Status == domain.CMStatusOpen {
			d.OpenCM++
		}
	}
	return d
}
