package domain

// ManualStatus is the status a user sets on a PPM task.
// It is the persisted value; the urgency-aware display status is derived from it.
type ManualStatus string

const (
	StatusNotStarted ManualStatus = "Not Started"
	StatusInProgress ManualStatus = "In Progress"
	StatusCompleted  ManualStatus = "Completed"
)

// CMStatus is the workflow state of a corrective maintenance work order.
type CMStatus string

const (
	CMStatusOpen       CMStatus = "Open"
	CMStatusInProgress CMStatus = "In Progress"
	CMStatusCompleted  CMStatus = "Completed"
)

// Frequency is the recurrence unit of a PPM task.
// Free-form values are tolerated; only the constants below advance a due date.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyYearly    Frequency = "Yearly"
)

// Frequencies lists the supported recurrence units in ascending period order.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

// FilterAll is the sentinel filter value that disables a classification filter.
const FilterAll = "All"
