package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/sse"
	"github.com/liefcare/workforce-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeTimeEntries struct {
	mu      sync.Mutex
	entries []attendance.TimeEntry
	locked  []string
}

func (f *fakeTimeEntries) Create(_ context.Context, e attendance.TimeEntry) (attendance.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.CreatedAt = e.Timestamp
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeTimeEntries) ListByEmployee(_ context.Context, employeeID string, start, end *time.Time) ([]attendance.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.TimeEntry
	for _, e := range f.entries {
		if e.EmployeeID != employeeID {
			continue
		}
		if start != nil && e.Timestamp.Before(*start) {
			continue
		}
		if end != nil && e.Timestamp.After(*end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeTimeEntries) List(_ context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.TimeEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Type != nil && string(e.Type) != *filter.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeTimeEntries) ListBetween(ctx context.Context, start, end *time.Time) ([]attendance.TimeEntry, error) {
	return f.entries, nil
}

func (f *fakeTimeEntries) DeleteByEmployee(_ context.Context, employeeID string) error {
	return nil
}

func (f *fakeTimeEntries) LockEmployee(_ context.Context, employeeID string) error {
	f.locked = append(f.locked, employeeID)
	return nil
}

type fakeEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakePerimeter struct {
	perimeter geofence.Perimeter
	err       error
	asked     []string
}

func (f *fakePerimeter) CurrentPerimeter(_ context.Context, facilityID string) (geofence.Perimeter, error) {
	f.asked = append(f.asked, facilityID)
	return f.perimeter, f.err
}

type fakePublisher struct {
	topics [][]string
	events []sse.Event
}

func (f *fakePublisher) PublishToMany(topics []string, event sse.Event) {
	f.topics = append(f.topics, topics)
	f.events = append(f.events, event)
}

type serviceFixture struct {
	svc       *AttendanceServiceImpl
	tx        *fakeTx
	entries   *fakeTimeEntries
	perimeter *fakePerimeter
	publisher *fakePublisher
	clock     time.Time
}

func (f *serviceFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

var facilityCenter = geofence.GeoPoint{Latitude: -6.2088, Longitude: 106.8456}

func newServiceFixture(t *testing.T, enforce bool) *serviceFixture {
	t.Helper()

	site := "site-a"
	f := &serviceFixture{
		tx:      &fakeTx{},
		entries: &fakeTimeEntries{},
		perimeter: &fakePerimeter{perimeter: geofence.Perimeter{
			Center:       facilityCenter,
			RadiusMeters: 500,
		}},
		publisher: &fakePublisher{},
		clock:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	employees := &fakeEmployees{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", EmployeeCode: "EMP001", Name: "Ana", Department: "Care", Facility: &site},
	}}

	svc := NewAttendanceService(f.tx, f.entries, employees, f.perimeter, nil, f.publisher, enforce, time.UTC)
	f.svc = svc.(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func ptr[T any](v T) *T {
	return &v
}

func insideRequest() attendance.ClockRequest {
	return attendance.ClockRequest{
		EmployeeID: "emp-1",
		Latitude:   ptr(facilityCenter.Latitude + 0.001),
		Longitude:  ptr(facilityCenter.Longitude),
	}
}

func TestAttendanceService_ClockIn_InsidePerimeter(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	resp, err := f.svc.ClockIn(ctx, insideRequest())
	require.NoError(t, err)

	assert.Equal(t, "CLOCK_IN", resp.Type)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "EMP001", *resp.EmployeeCode)
	assert.Equal(t, "2025-03-10T08:00:00Z", resp.Timestamp)
	require.NotNil(t, resp.DistanceMeters)
	assert.InDelta(t, 111.2, *resp.DistanceMeters, 0.5)
	assert.NotEmpty(t, resp.ID)

	assert.Equal(t, []string{"site-a"}, f.perimeter.asked)
	assert.Equal(t, []string{"emp-1"}, f.entries.locked)
	assert.Equal(t, 1, f.tx.calls)
	require.Len(t, f.entries.entries, 1)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, []string{sse.TopicManagers, sse.EmployeeTopic("emp-1")}, f.publisher.topics[0])
	assert.Equal(t, EventTimeEntryRecorded, f.publisher.events[0].Event)
}

func TestAttendanceService_ClockIn_OutsidePerimeter(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	req := attendance.ClockRequest{
		EmployeeID: "emp-1",
		Latitude:   ptr(facilityCenter.Latitude + 0.1),
		Longitude:  ptr(facilityCenter.Longitude),
	}
	_, err := f.svc.ClockIn(ctx, req)

	assert.ErrorIs(t, err, attendance.ErrOutsideAllowedRadius)
	assert.Empty(t, f.entries.entries)
	assert.Empty(t, f.publisher.events)
}

func TestAttendanceService_ClockIn_OutsidePerimeterNotEnforced(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)

	req := attendance.ClockRequest{
		EmployeeID: "emp-1",
		Latitude:   ptr(facilityCenter.Latitude + 0.1),
		Longitude:  ptr(facilityCenter.Longitude),
	}
	resp, err := f.svc.ClockIn(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp.DistanceMeters)
	assert.Greater(t, *resp.DistanceMeters, 500.0)
}

func TestAttendanceService_ClockIn_LocationRequired(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)

	f.svc.enforceGeofence = false
	resp, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Nil(t, resp.DistanceMeters)
}

func TestAttendanceService_ClockIn_NoFacilityConfigured(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)
	f.perimeter.err = facility.ErrSettingsNotFound

	_, err := f.svc.ClockIn(ctx, insideRequest())
	require.NoError(t, err)

	f.svc.enforceGeofence = true
	f.advance(time.Hour)
	_, err = f.svc.ClockIn(ctx, insideRequest())
	assert.ErrorIs(t, err, facility.ErrSettingsNotFound)
}

func TestAttendanceService_ClockIn_ValidationError(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1", Latitude: ptr(1.0)})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "location", verrs[0].Field)
}

func TestAttendanceService_UnknownEmployee(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	req := insideRequest()
	req.EmployeeID = "missing"
	_, err := f.svc.ClockIn(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_ClockOut_RequiresOnDuty(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	_, err := f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.Empty(t, f.entries.entries)

	_, err = f.svc.ClockIn(ctx, insideRequest())
	require.NoError(t, err)
	f.advance(8 * time.Hour)

	resp, err := f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "CLOCK_OUT", resp.Type)

	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestAttendanceService_ClockOut_AllowedDuringBreak(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	_, err := f.svc.ClockIn(ctx, insideRequest())
	require.NoError(t, err)
	f.advance(2 * time.Hour)
	_, err = f.svc.StartBreak(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	f.advance(time.Minute)

	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.NoError(t, err)
}

func TestAttendanceService_GetStatus(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, true)

	status, err := f.svc.GetStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "OFF_DUTY", status.Status)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)
	assert.Nil(t, status.CurrentShiftHours)
	assert.Empty(t, status.Anomalies)

	_, err = f.svc.ClockIn(ctx, insideRequest())
	require.NoError(t, err)
	f.advance(3 * time.Hour)
	_, err = f.svc.StartBreak(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	f.advance(30 * time.Minute)

	status, err = f.svc.GetStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "ON_BREAK", status.Status)
	assert.True(t, status.OnDuty)
	assert.True(t, status.OnBreak)
	assert.False(t, status.CanClockIn)
	assert.True(t, status.CanClockOut)
	assert.Equal(t, "Currently on break", status.Message)
	require.NotNil(t, status.LastClockIn)
	assert.Equal(t, "2025-03-10T08:00:00Z", *status.LastClockIn)
	require.NotNil(t, status.CurrentShiftHours)
	assert.Equal(t, 3.5, *status.CurrentShiftHours)
}

func TestAttendanceService_GetStatus_ReportsOutOfSequenceEntries(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)

	_, err := f.svc.EndBreak(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	status, err := f.svc.GetStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "ON_DUTY", status.Status)
	require.Len(t, status.Anomalies, 1)
	assert.Equal(t, string(attendance.AnomalyUnexpectedTransition), status.Anomalies[0].Kind)
}

func TestAttendanceService_ListTimeEntries(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)

	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	f.advance(time.Hour)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	entries, err := f.svc.ListTimeEntries(ctx, attendance.TimeEntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "CLOCK_OUT", entries[0].Type)

	entries, err = f.svc.ListTimeEntries(ctx, attendance.TimeEntryFilter{Type: ptr("clock_in")})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CLOCK_IN", entries[0].Type)

	_, err = f.svc.ListTimeEntries(ctx, attendance.TimeEntryFilter{Type: ptr("LUNCH")})
	assert.Error(t, err)
}

func TestAttendanceService_GetTimesheet(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)
	clock := func(at time.Time, typ attendance.EntryType) {
		f.entries.entries = append(f.entries.entries, attendance.TimeEntry{
			ID: at.Format(time.RFC3339), EmployeeID: "emp-1", Type: typ, Timestamp: at,
		})
	}

	// Night shift started before the range
	clock(time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC), attendance.EntryClockIn)
	clock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), attendance.EntryClockOut)
	clock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), attendance.EntryClockIn)
	clock(time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC), attendance.EntryClockIn)
	clock(time.Date(2025, 3, 11, 17, 0, 0, 0, time.UTC), attendance.EntryClockOut)
	clock(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), attendance.EntryClockIn)
	clock(time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC), attendance.EntryClockOut)
	clock(time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC), attendance.EntryClockIn)

	resp, err := f.svc.GetTimesheet(ctx, attendance.TimesheetFilter{
		EmployeeID: "emp-1",
		StartDate:  ptr("2025-03-10"),
		EndDate:    ptr("2025-03-12"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Shifts, 2)
	assert.Equal(t, "2025-03-11", resp.Shifts[0].Date)
	assert.Equal(t, 8.0, resp.Shifts[0].DurationHours)
	assert.Equal(t, 4.0, resp.Shifts[1].DurationHours)
	assert.Equal(t, 12.0, resp.TotalHours)
	assert.Equal(t, 2, resp.DaysWorked)
	assert.Equal(t, 6.0, resp.AverageHoursPerDay)

	require.Len(t, resp.Anomalies, 1)
	assert.Equal(t, string(attendance.AnomalyDuplicateClockIn), resp.Anomalies[0].Kind)
}

func TestAttendanceService_GetTimesheet_InvalidRange(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, false)

	_, err := f.svc.GetTimesheet(ctx, attendance.TimesheetFilter{
		EmployeeID: "emp-1",
		StartDate:  ptr("2025-03-12"),
		EndDate:    ptr("2025-03-10"),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "end_date", verrs[0].Field)
}
