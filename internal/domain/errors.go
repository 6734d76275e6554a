package domain

import "errors"

// Domain errors returned by the task stores and the report pipeline.

var (
	// ErrNotFound indicates the requested task does not exist.
	ErrNotFound = errors.New("task not found")

	// ErrValidation indicates user input was rejected. Nothing was changed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDate indicates a string is not a canonical YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidFrequency indicates an unrecognised recurrence frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrExternalDependency indicates a report formatter could not be initialised.
	ErrExternalDependency = errors.New("external dependency unavailable")
)
