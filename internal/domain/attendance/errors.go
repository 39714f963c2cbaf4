package attendance

import "errors"

// Attendance domain errors
var (
	// Clock write errors
	ErrNotClockedIn         = errors.New("cannot clock out - employee is not currently clocked in")
	ErrOutsideAllowedRadius = errors.New("you are outside the facility perimeter")
	ErrLocationRequired     = errors.New("location is required to clock in")

	// Reconstruction errors, reported inside anomalies
	ErrInvalidTimeEntry = errors.New("invalid time entry")

	// General errors
	ErrTimeEntryNotFound = errors.New("time entry not found")
)
