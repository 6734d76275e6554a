package domain

import (
	"slices"
	"time"

	"github.com/aglmct/tracker/internal/ptr"
)

// Photo is an image attached to a PPM task as photographic evidence.
type Photo struct {
	Name      string    `json:"name"`
	Data      string    `json:"data"` // data:<mime>;base64,<payload>
	Timestamp time.Time `json:"timestamp"`
}

// PPMTask is a planned/preventive maintenance item with an optional recurrence.
//
// JSON field names match the records persisted by the browser tracker so that
// existing exports load unchanged.
type PPMTask struct {
	ID          TaskID       `json:"id"`
	ShiftType   string       `json:"shiftType"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	DueDate     string       `json:"dueDate"` // canonical YYYY-MM-DD
	Frequency   Frequency    `json:"frequency"`
	Status      ManualStatus `json:"status"`
	DayShift    string       `json:"dayShift"`
	NightShift  string       `json:"nightShift"`
	Photos      []Photo      `json:"photos"`

	// LastCompleted is stamped each time the task is marked Completed.
	LastCompleted *time.Time `json:"lastCompleted"`
}

// Clone returns a deep copy so callers never alias store-owned state.
func (t PPMTask) Clone() PPMTask {
	t.Photos = slices.Clone(t.Photos)
	t.LastCompleted = ptr.Clone(t.LastCompleted)
	return t
}

// LatestPhoto returns the most recently appended photo, if any.
func (t PPMTask) LatestPhoto() (Photo, bool) {
	if len(t.Photos) == 0 {
		return Photo{}, false
	}
	return t.Photos[len(t.Photos)-1], true
}

// PPMFields holds the user-editable fields of a PPM task.
// Add and Update replace every mutable field with these values.
type PPMFields struct {
	ShiftType   string
	Description string
	Type        string
	DueDate     string
	Frequency   Frequency
	Status      ManualStatus
	DayShift    string
	NightShift  string
	Photos      []Photo
}

// FieldsOf returns the editable fields of an existing task, for edit-in-place flows.
func FieldsOf(t PPMTask) PPMFields {
	return PPMFields{
		ShiftType:   t.ShiftType,
		Description: t.Description,
		Type:        t.Type,
		DueDate:     t.DueDate,
		Frequency:   t.Frequency,
		Status:      t.Status,
		DayShift:    t.DayShift,
		NightShift:  t.NightShift,
		Photos:      slices.Clone(t.Photos),
	}
}

// CMTask is a corrective maintenance work order. It has no recurrence and no derived status.
type CMTask struct {
	ID           TaskID    `json:"id"`
	WorkOrder    string    `json:"workOrder"`
	Description  string    `json:"description"`
	ReportedBy   string    `json:"reportedBy"`
	DateReported string    `json:"dateReported"` // canonical YYYY-MM-DD
	Status       CMStatus  `json:"status"`
	AssignedTo   string    `json:"assignedTo"`
	Priority     string    `json:"priority"`
	Location     string    `json:"location"`
	CreatedDate  time.Time `json:"createdDate"`
}

// CMFields holds the fields supplied when a work order is raised.
type CMFields struct {
	WorkOrder    string
	Description  string
	ReportedBy   string
	DateReported string
	Status       CMStatus
	AssignedTo   string
	Priority     string
	Location     string
}
