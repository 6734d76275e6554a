package status

import (
	"slices"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// Classified pairs a task with its display status.
type Classified struct {
	Task   domain.PPMTask
	Status SmartStatus
}

// ClassifyAll classifies tasks in their given order.
func ClassifyAll(tasks []domain.PPMTask, today time.Time) []Classified {
	out := make([]Classified, len(tasks))
	for i, t := range tasks {
		out[i] = Classified{Task: t, Status: ClassifyTask(t, today)}
	}
	return out
}

// SortByUrgency classifies tasks and orders them most urgent first.
// Ties keep their input order, which for store listings is newest first.
func SortByUrgency(tasks []domain.PPMTask, today time.Time) []Classified {
	out := ClassifyAll(tasks, today)
	slices.SortStableFunc(out, func(a, b Classified) int {
		return int(a.Status.Priority) - int(b.Status.Priority)
	})
	return out
}
