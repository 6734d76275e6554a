package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TaskID identifies a task within its store.
//
// New ids are UUIDv7 strings. Records exported from the browser tracker carry
// millisecond timestamps as JSON numbers; those decode to their decimal form.
type TaskID string

// NewTaskID returns a fresh time-ordered id.
func NewTaskID() (TaskID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return TaskID(id.String()), nil
}

// String returns the id value.
func (id TaskID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both string and numeric ids.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}
