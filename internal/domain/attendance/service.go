package attendance

import (
	"context"
)

// AttendanceService defines clock actions and time-entry queries
type AttendanceService interface {
	// ClockIn records a CLOCK_IN after the geofence check
	ClockIn(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)

	// ClockOut records a CLOCK_OUT; rejected unless the employee is on duty
	ClockOut(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)

	StartBreak(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)
	EndBreak(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)

	// GetStatus derives the current on-duty state of an employee
	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// ListTimeEntries lists entries for one or all employees
	ListTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]TimeEntryResponse, error)

	// GetTimesheet reconstructs shifts and totals over a range
	GetTimesheet(ctx context.Context, filter TimesheetFilter) (TimesheetResponse, error)
}
