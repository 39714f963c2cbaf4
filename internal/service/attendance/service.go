package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/metrics"
	"github.com/liefcare/workforce-backend/internal/pkg/sse"
	"github.com/liefcare/workforce-backend/internal/repository/postgresql"
)

// EventTimeEntryRecorded is the live feed event sent after a clock action is stored
const EventTimeEntryRecorded = "time_entry.recorded"

// ActivityPublisher receives accepted clock actions for the live activity feed
type ActivityPublisher interface {
	PublishToMany(topics []string, event sse.Event)
}

type AttendanceServiceImpl struct {
	tx postgresql.Transactor
	attendance.TimeEntryRepository
	employee.EmployeeRepository
	perimeters      facility.PerimeterProvider
	reconstructor   *Reconstructor
	publisher       ActivityPublisher
	enforceGeofence bool
	loc             *time.Location
	now             func() time.Time
}

func NewAttendanceService(
	tx postgresql.Transactor,
	timeEntryRepository attendance.TimeEntryRepository,
	employeeRepository employee.EmployeeRepository,
	perimeters facility.PerimeterProvider,
	reconstructor *Reconstructor,
	publisher ActivityPublisher,
	enforceGeofence bool,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	if reconstructor == nil {
		reconstructor = NewReconstructor(loc)
	}
	return &AttendanceServiceImpl{
		tx:                  tx,
		TimeEntryRepository: timeEntryRepository,
		EmployeeRepository:  employeeRepository,
		perimeters:          perimeters,
		reconstructor:       reconstructor,
		publisher:           publisher,
		enforceGeofence:     enforceGeofence,
		loc:                 loc,
		now:                 time.Now,
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return a.record(ctx, req, attendance.EntryClockIn)
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return a.record(ctx, req, attendance.EntryClockOut)
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return a.record(ctx, req, attendance.EntryBreakStart)
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return a.record(ctx, req, attendance.EntryBreakEnd)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, req attendance.ClockRequest, entryType attendance.EntryType) (attendance.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	distance, err := a.checkLocation(ctx, emp, req, entryType)
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	var created attendance.TimeEntry
	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := a.TimeEntryRepository.LockEmployee(txCtx, emp.ID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		entries, err := a.TimeEntryRepository.ListByEmployee(txCtx, emp.ID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list time entries: %w", err)
		}

		now := a.now().UTC()
		state := a.reconstructor.CurrentState(entries, now)
		if entryType == attendance.EntryClockOut && !state.OnDuty {
			metrics.ClockRejections.WithLabelValues(string(entryType), "not_on_duty").Inc()
			return attendance.ErrNotClockedIn
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate time entry id: %w", err)
		}

		created, err = a.TimeEntryRepository.Create(txCtx, attendance.TimeEntry{
			ID:         id.String(),
			EmployeeID: emp.ID,
			Type:       entryType,
			Timestamp:  now,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			Note:       req.Note,
		})
		if err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.TimeEntryResponse{}, err
	}

	metrics.TimeEntriesRecorded.WithLabelValues(string(entryType)).Inc()

	created.EmployeeName = &emp.Name
	created.EmployeeCode = &emp.EmployeeCode
	created.Department = &emp.Department
	resp := a.toResponse(created)
	resp.DistanceMeters = distance

	if a.publisher != nil {
		a.publisher.PublishToMany(
			[]string{sse.TopicManagers, sse.EmployeeTopic(emp.ID)},
			sse.Event{Event: EventTimeEntryRecorded, Data: resp},
		)
	}

	return resp, nil
}

// checkLocation measures the distance to the employee's facility. Clock-ins outside the
// perimeter are rejected when the geofence is enforced.
func (a *AttendanceServiceImpl) checkLocation(ctx context.Context, emp employee.Employee, req attendance.ClockRequest, entryType attendance.EntryType) (*float64, error) {
	enforce := a.enforceGeofence && entryType == attendance.EntryClockIn
	point := attendance.TimeEntry{Latitude: req.Latitude, Longitude: req.Longitude}.Location()

	if point == nil {
		if enforce {
			metrics.ClockRejections.WithLabelValues(string(entryType), "location_missing").Inc()
			return nil, attendance.ErrLocationRequired
		}
		return nil, nil
	}

	if a.perimeters == nil {
		if enforce {
			return nil, facility.ErrPerimeterNotReady
		}
		return nil, nil
	}

	facilityID := ""
	if emp.Facility != nil {
		facilityID = *emp.Facility
	}
	perimeter, err := a.perimeters.CurrentPerimeter(ctx, facilityID)
	if err != nil {
		if !enforce && errors.Is(err, facility.ErrSettingsNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load facility perimeter: %w", err)
	}

	inside, err := geofence.IsWithinPerimeter(*point, perimeter)
	if err != nil {
		metrics.GeofenceChecks.WithLabelValues("invalid").Inc()
		return nil, err
	}
	distance := math.Round(geofence.DistanceMeters(perimeter.Center, *point)*100) / 100

	if !inside {
		metrics.GeofenceChecks.WithLabelValues("outside").Inc()
		if enforce {
			metrics.ClockRejections.WithLabelValues(string(entryType), "outside_perimeter").Inc()
			return nil, attendance.ErrOutsideAllowedRadius
		}
		return &distance, nil
	}

	metrics.GeofenceChecks.WithLabelValues("inside").Inc()
	return &distance, nil
}

// GetStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	entries, err := a.TimeEntryRepository.ListByEmployee(ctx, emp.ID, nil, nil)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	now := a.now().UTC()
	state := a.reconstructor.CurrentState(entries, now)

	resp := attendance.StatusResponse{
		EmployeeID:   emp.ID,
		Status:       string(state.Status),
		OnDuty:       state.OnDuty,
		OnBreak:      state.OnBreak,
		LastClockIn:  a.formatTimePtr(state.LastClockIn),
		LastClockOut: a.formatTimePtr(state.LastClockOut),
		CanClockIn:   !state.OnDuty,
		CanClockOut:  state.OnDuty,
		Anomalies:    a.toAnomalyResponses(state.Anomalies),
	}

	switch state.Status {
	case attendance.StatusOnDuty:
		resp.Message = "Currently clocked in"
	case attendance.StatusOnBreak:
		resp.Message = "Currently on break"
	default:
		resp.Message = "Not clocked in"
	}

	if state.OnDuty && state.LastClockIn != nil {
		hours := round2(now.Sub(*state.LastClockIn).Hours())
		resp.CurrentShiftHours = &hours
	}

	return resp, nil
}

// ListTimeEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListTimeEntries(ctx context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start, end, err := attendance.ParseRange(filter.StartDate, filter.EndDate, a.loc)
	if err != nil {
		return nil, err
	}
	filter.Start, filter.End = start, end

	entries, err := a.TimeEntryRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	responses := make([]attendance.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, a.toResponse(e))
	}
	return responses, nil
}

// GetTimesheet implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTimesheet(ctx context.Context, filter attendance.TimesheetFilter) (attendance.TimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.TimesheetResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return attendance.TimesheetResponse{}, err
	}

	start, end, err := attendance.ParseRange(filter.StartDate, filter.EndDate, a.loc)
	if err != nil {
		return attendance.TimesheetResponse{}, err
	}

	// Entries before the range are still needed to close shifts that started earlier.
	entries, err := a.TimeEntryRepository.ListByEmployee(ctx, emp.ID, nil, end)
	if err != nil {
		return attendance.TimesheetResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	began := time.Now()
	shifts, anomalies := a.reconstructor.ReconstructShifts(entries)
	metrics.ReconstructionDuration.Observe(float64(time.Since(began).Microseconds()) / 1000)

	var rangeStart, rangeEnd time.Time
	if start != nil {
		rangeStart = *start
	}
	if end != nil {
		rangeEnd = *end
	}

	shifts = ShiftsStartingIn(shifts, rangeStart, rangeEnd)
	anomalies = AnomaliesIn(anomalies, rangeStart, rangeEnd)
	for _, an := range anomalies {
		metrics.AnomaliesDetected.WithLabelValues(string(an.Kind)).Inc()
	}

	resp := attendance.TimesheetResponse{
		EmployeeID:         emp.ID,
		StartDate:          filter.StartDate,
		EndDate:            filter.EndDate,
		Shifts:             make([]attendance.ShiftResponse, 0, len(shifts)),
		Anomalies:          a.toAnomalyResponses(anomalies),
		TotalHours:         round2(a.reconstructor.TotalHours(shifts)),
		DaysWorked:         a.reconstructor.WorkedDays(shifts, rangeStart, rangeEnd),
		AverageHoursPerDay: round2(a.reconstructor.AverageHoursPerDay(shifts, rangeStart, rangeEnd)),
	}
	for _, s := range shifts {
		resp.Shifts = append(resp.Shifts, attendance.ShiftResponse{
			Date:          s.Start.In(a.loc).Format("2006-01-02"),
			ClockIn:       s.Start.In(a.loc).Format(time.RFC3339),
			ClockOut:      s.End.In(a.loc).Format(time.RFC3339),
			DurationHours: round2(s.DurationHours),
		})
	}

	return resp, nil
}

func (a *AttendanceServiceImpl) toResponse(e attendance.TimeEntry) attendance.TimeEntryResponse {
	return attendance.TimeEntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		EmployeeCode: e.EmployeeCode,
		EmployeeName: e.EmployeeName,
		Department:   e.Department,
		Type:         string(e.Type),
		Timestamp:    e.Timestamp.In(a.loc).Format(time.RFC3339),
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		Note:         e.Note,
	}
}

func (a *AttendanceServiceImpl) toAnomalyResponses(anomalies []attendance.Anomaly) []attendance.AnomalyResponse {
	responses := make([]attendance.AnomalyResponse, 0, len(anomalies))
	for _, an := range anomalies {
		r := attendance.AnomalyResponse{
			Kind:      string(an.Kind),
			EntryID:   an.Entry.ID,
			EntryType: string(an.Entry.Type),
			Reason:    an.Reason,
		}
		if !an.Entry.Timestamp.IsZero() {
			r.Timestamp = an.Entry.Timestamp.In(a.loc).Format(time.RFC3339)
		}
		responses = append(responses, r)
	}
	return responses
}

// formatTimePtr safely converts a *time.Time to a string.
func (a *AttendanceServiceImpl) formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(a.loc).Format(time.RFC3339)
	return &s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
