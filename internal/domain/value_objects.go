package domain

import (
	"fmt"
	"strings"
)

// NewFrequency validates a frequency name case-insensitively and returns its canonical spelling.
// An empty string is accepted and means "does not recur".
func NewFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	for _, f := range Frequencies {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidFrequency, s)
}

// NewManualStatus validates a manual PPM status.
// Empty input defaults to Not Started.
func NewManualStatus(s string) (ManualStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusNotStarted, nil
	}

	for _, st := range []ManualStatus{StatusNotStarted, StatusInProgress, StatusCompleted} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// NewCMStatus normalises a work order status.
// Known values are canonicalised, other non-empty values are kept verbatim, empty means Open.
func NewCMStatus(s string) CMStatus {
	s = strings.TrimSpace(s)
	if s == "" {
		return CMStatusOpen
	}

	for _, st := range []CMStatus{CMStatusOpen, CMStatusInProgress, CMStatusCompleted} {
		if strings.EqualFold(s, string(st)) {
			return st
		}
	}
	return CMStatus(s)
}

// OrNA returns s, or "N/A" when s is empty.
func OrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// OrDefault returns s, or def when s is empty.
func OrDefault[T ~string](s T, def string) string {
	if s == "" {
		return def
	}
	return string(s)
}
