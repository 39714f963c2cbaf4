package attendance

import (
	"fmt"
	"slices"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
)

// Reconstructor derives duty state and worked shifts from raw time entries.
// It holds no mutable state and is safe for concurrent use.
type Reconstructor struct {
	loc *time.Location
}

// NewReconstructor returns a Reconstructor that groups shifts into calendar days in loc.
func NewReconstructor(loc *time.Location) *Reconstructor {
	if loc == nil {
		loc = time.UTC
	}
	return &Reconstructor{loc: loc}
}

// CurrentState replays the entries recorded at or before asOf.
func (r *Reconstructor) CurrentState(entries []attendance.TimeEntry, asOf time.Time) attendance.State {
	valid, anomalies := r.prepare(entries)

	state := attendance.State{Status: attendance.StatusOffDuty}
	for _, e := range valid {
		if e.Timestamp.After(asOf) {
			break
		}

		expected := expectedFrom(e.Type)
		if state.Status != expected {
			anomalies = append(anomalies, attendance.Anomaly{
				Kind:   attendance.AnomalyUnexpectedTransition,
				Entry:  e,
				Reason: fmt.Sprintf("%s while %s", e.Type, state.Status),
			})
		}

		ts := e.Timestamp
		switch e.Type {
		case attendance.EntryClockIn:
			state.Status = attendance.StatusOnDuty
			state.LastClockIn = &ts
		case attendance.EntryClockOut:
			state.Status = attendance.StatusOffDuty
			state.LastClockOut = &ts
		case attendance.EntryBreakStart:
			state.Status = attendance.StatusOnBreak
		case attendance.EntryBreakEnd:
			state.Status = attendance.StatusOnDuty
		}
	}

	state.OnDuty = state.Status != attendance.StatusOffDuty
	state.OnBreak = state.Status == attendance.StatusOnBreak
	state.Anomalies = anomalies
	return state
}

// expectedFrom is the only status in which an entry type is a regular transition.
func expectedFrom(t attendance.EntryType) attendance.DutyStatus {
	switch t {
	case attendance.EntryClockIn:
		return attendance.StatusOffDuty
	case attendance.EntryBreakEnd:
		return attendance.StatusOnBreak
	default:
		return attendance.StatusOnDuty
	}
}

// ReconstructShifts pairs every clock-in with the next clock-out of the same employee.
// A shift still open at the end of the sequence is neither returned nor reported.
func (r *Reconstructor) ReconstructShifts(entries []attendance.TimeEntry) ([]attendance.ShiftSegment, []attendance.Anomaly) {
	valid, anomalies := r.prepare(entries)

	shifts := []attendance.ShiftSegment{}
	open := make(map[string]attendance.TimeEntry)

	for _, e := range valid {
		switch e.Type {
		case attendance.EntryClockIn:
			if first, ok := open[e.EmployeeID]; ok {
				anomalies = append(anomalies, attendance.Anomaly{
					Kind:   attendance.AnomalyDuplicateClockIn,
					Entry:  e,
					Reason: fmt.Sprintf("already clocked in since %s", first.Timestamp.UTC().Format(time.RFC3339)),
				})
				continue
			}
			open[e.EmployeeID] = e

		case attendance.EntryClockOut:
			in, ok := open[e.EmployeeID]
			if !ok {
				anomalies = append(anomalies, attendance.Anomaly{
					Kind:   attendance.AnomalyUnmatchedClockOut,
					Entry:  e,
					Reason: "clock-out without a preceding clock-in",
				})
				continue
			}
			delete(open, e.EmployeeID)

			duration := e.Timestamp.Sub(in.Timestamp)
			if duration < 0 {
				anomalies = append(anomalies, attendance.Anomaly{
					Kind:   attendance.AnomalyNegativeDuration,
					Entry:  e,
					Reason: fmt.Sprintf("clock-out is %s before its clock-in", -duration),
				})
				continue
			}

			shifts = append(shifts, attendance.ShiftSegment{
				EmployeeID:    e.EmployeeID,
				ClockInID:     in.ID,
				ClockOutID:    e.ID,
				Start:         in.Timestamp,
				End:           e.Timestamp,
				DurationHours: duration.Hours(),
			})
		}
	}

	return shifts, anomalies
}

// TotalHours sums the shift durations.
func (r *Reconstructor) TotalHours(shifts []attendance.ShiftSegment) float64 {
	var total float64
	for _, s := range shifts {
		if s.DurationHours > 0 {
			total += s.DurationHours
		}
	}
	return total
}

// WorkedDays counts distinct calendar days on which a shift in range started.
func (r *Reconstructor) WorkedDays(shifts []attendance.ShiftSegment, rangeStart, rangeEnd time.Time) int {
	days := make(map[string]struct{})
	for _, s := range inRange(shifts, rangeStart, rangeEnd) {
		days[s.Start.In(r.loc).Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// AverageHoursPerDay divides the hours of shifts starting in [rangeStart, rangeEnd] by the
// number of days worked. A zero bound leaves that side of the range open.
func (r *Reconstructor) AverageHoursPerDay(shifts []attendance.ShiftSegment, rangeStart, rangeEnd time.Time) float64 {
	days := r.WorkedDays(shifts, rangeStart, rangeEnd)
	if days == 0 {
		return 0
	}
	return r.TotalHours(inRange(shifts, rangeStart, rangeEnd)) / float64(days)
}

// ShiftsStartingIn returns the shifts that started in [rangeStart, rangeEnd]. A zero bound
// leaves that side of the range open.
func ShiftsStartingIn(shifts []attendance.ShiftSegment, rangeStart, rangeEnd time.Time) []attendance.ShiftSegment {
	return inRange(shifts, rangeStart, rangeEnd)
}

// AnomaliesIn keeps anomalies of entries recorded in [rangeStart, rangeEnd]. Entries without
// a usable timestamp are always kept.
func AnomaliesIn(anomalies []attendance.Anomaly, rangeStart, rangeEnd time.Time) []attendance.Anomaly {
	result := make([]attendance.Anomaly, 0, len(anomalies))
	for _, an := range anomalies {
		ts := an.Entry.Timestamp
		if !ts.IsZero() {
			if !rangeStart.IsZero() && ts.Before(rangeStart) {
				continue
			}
			if !rangeEnd.IsZero() && ts.After(rangeEnd) {
				continue
			}
		}
		result = append(result, an)
	}
	return result
}

func inRange(shifts []attendance.ShiftSegment, rangeStart, rangeEnd time.Time) []attendance.ShiftSegment {
	result := make([]attendance.ShiftSegment, 0, len(shifts))
	for _, s := range shifts {
		if !rangeStart.IsZero() && s.Start.Before(rangeStart) {
			continue
		}
		if !rangeEnd.IsZero() && s.Start.After(rangeEnd) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// prepare drops malformed entries and returns a stably sorted copy of the rest.
func (r *Reconstructor) prepare(entries []attendance.TimeEntry) ([]attendance.TimeEntry, []attendance.Anomaly) {
	valid := make([]attendance.TimeEntry, 0, len(entries))
	var anomalies []attendance.Anomaly

	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			anomalies = append(anomalies, attendance.Anomaly{
				Kind:   attendance.AnomalyInvalidEntry,
				Entry:  e,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}
		valid = append(valid, e)
	}

	slices.SortStableFunc(valid, func(a, b attendance.TimeEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return valid, anomalies
}

func validateEntry(e attendance.TimeEntry) error {
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", attendance.ErrInvalidTimeEntry)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: unknown entry type %q", attendance.ErrInvalidTimeEntry, e.Type)
	}
	if e.EmployeeID == "" {
		return fmt.Errorf("%w: missing employee id", attendance.ErrInvalidTimeEntry)
	}
	return nil
}
