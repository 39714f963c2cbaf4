package attendance

import (
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
)

type EntryType string

const (
	EntryClockIn    EntryType = "CLOCK_IN"
	EntryClockOut   EntryType = "CLOCK_OUT"
	EntryBreakStart EntryType = "BREAK_START"
	EntryBreakEnd   EntryType = "BREAK_END"
)

var EntryTypes = []string{
	string(EntryClockIn),
	string(EntryClockOut),
	string(EntryBreakStart),
	string(EntryBreakEnd),
}

func (t EntryType) IsValid() bool {
	switch t {
	case EntryClockIn, EntryClockOut, EntryBreakStart, EntryBreakEnd:
		return true
	}
	return false
}

// TimeEntry is one recorded clock action. Entries are append-only.
type TimeEntry struct {
	ID         string
	EmployeeID string
	Type       EntryType
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
	Note       *string
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// Location returns the recorded position, or nil when the entry has none.
func (e TimeEntry) Location() *geofence.GeoPoint {
	if e.Latitude == nil || e.Longitude == nil {
		return nil
	}
	return &geofence.GeoPoint{Latitude: *e.Latitude, Longitude: *e.Longitude}
}

type DutyStatus string

const (
	StatusOffDuty DutyStatus = "OFF_DUTY"
	StatusOnDuty  DutyStatus = "ON_DUTY"
	StatusOnBreak DutyStatus = "ON_BREAK"
)

// State is the read model derived from an employee's entries. It is never persisted.
type State struct {
	Status       DutyStatus
	OnDuty       bool
	OnBreak      bool
	LastClockIn  *time.Time
	LastClockOut *time.Time
	Anomalies    []Anomaly
}

// ShiftSegment is a completed clock-in/clock-out pair.
type ShiftSegment struct {
	EmployeeID    string
	ClockInID     string
	ClockOutID    string
	Start         time.Time
	End           time.Time
	DurationHours float64
}

type AnomalyKind string

const (
	AnomalyInvalidEntry         AnomalyKind = "INVALID_ENTRY"
	AnomalyUnmatchedClockOut    AnomalyKind = "UNMATCHED_CLOCK_OUT"
	AnomalyDuplicateClockIn     AnomalyKind = "DUPLICATE_CLOCK_IN"
	AnomalyNegativeDuration     AnomalyKind = "NEGATIVE_DURATION"
	AnomalyUnexpectedTransition AnomalyKind = "UNEXPECTED_TRANSITION"
)

// Anomaly is an entry that does not fit the expected clock sequence.
// It is reported next to the results instead of failing the computation.
type Anomaly struct {
	Kind   AnomalyKind
	Entry  TimeEntry
	Reason string
	Err    error
}
