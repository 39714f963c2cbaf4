package attendance

import (
	"strings"
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockRequest struct {
	EmployeeID string   `json:"-"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Note       *string  `json:"note,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeEntryResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeCode   *string  `json:"employee_code,omitempty"`
	EmployeeName   *string  `json:"employee_name,omitempty"`
	Department     *string  `json:"department,omitempty"`
	Type           string   `json:"type"`
	Timestamp      string   `json:"timestamp"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Note           *string  `json:"note,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// ========================================
// QUERY DTOs
// ========================================

type TimeEntryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD or RFC3339
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD or RFC3339
	Type       *string `json:"type,omitempty"`
	Limit      int     `json:"limit"`

	// Resolved by the service from StartDate/EndDate
	Start *time.Time `json:"-"`
	End   *time.Time `json:"-"`
}

func (f *TimeEntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 100 // Default limit
	}
	if f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 1000",
		})
	}

	if f.Type != nil {
		upper := strings.ToUpper(*f.Type)
		if !validator.IsInSlice(upper, EntryTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type must be one of: CLOCK_IN, CLOCK_OUT, BREAK_START, BREAK_END",
			})
		}
		f.Type = &upper
	}

	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimesheetFilter struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (f *TimesheetFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if startDate != nil && *startDate != "" && !validator.IsValidDateOrDateTime(*startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD or RFC3339 format",
		})
	}

	if endDate != nil && *endDate != "" && !validator.IsValidDateOrDateTime(*endDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD or RFC3339 format",
		})
	}

	if len(errs) == 0 {
		start, end, _ := ParseRange(startDate, endDate, time.UTC)
		if start != nil && end != nil && end.Before(*start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	return errs
}

// ParseRange resolves optional date bounds in loc. A plain date as the end bound
// covers that whole day.
func ParseRange(startDate, endDate *string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if startDate != nil && *startDate != "" {
		t, err := validator.ParseDateOrDateTime(*startDate, loc)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}

	if endDate != nil && *endDate != "" {
		t, err := validator.ParseDateOrDateTime(*endDate, loc)
		if err != nil {
			return nil, nil, err
		}
		if _, isDate := validator.IsValidDate(*endDate); isDate {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		end = &t
	}

	return start, end, nil
}

// ========================================
// STATUS & TIMESHEET DTOs
// ========================================

type AnomalyResponse struct {
	Kind      string `json:"kind"`
	EntryID   string `json:"entry_id,omitempty"`
	EntryType string `json:"entry_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Reason    string `json:"reason"`
}

type StatusResponse struct {
	EmployeeID        string            `json:"employee_id"`
	Status            string            `json:"status"`
	OnDuty            bool              `json:"on_duty"`
	OnBreak           bool              `json:"on_break"`
	LastClockIn       *string           `json:"last_clock_in,omitempty"`
	LastClockOut      *string           `json:"last_clock_out,omitempty"`
	CurrentShiftHours *float64          `json:"current_shift_hours,omitempty"`
	CanClockIn        bool              `json:"can_clock_in"`
	CanClockOut       bool              `json:"can_clock_out"`
	Anomalies         []AnomalyResponse `json:"anomalies"`
	Message           string            `json:"message"`
}

type ShiftResponse struct {
	Date          string  `json:"date"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      string  `json:"clock_out"`
	DurationHours float64 `json:"duration_hours"`
}

type TimesheetResponse struct {
	EmployeeID         string            `json:"employee_id"`
	StartDate          *string           `json:"start_date,omitempty"`
	EndDate            *string           `json:"end_date,omitempty"`
	Shifts             []ShiftResponse   `json:"shifts"`
	Anomalies          []AnomalyResponse `json:"anomalies"`
	TotalHours         float64           `json:"total_hours"`
	DaysWorked         int               `json:"days_worked"`
	AverageHoursPerDay float64           `json:"average_hours_per_day"`
}

// ========================================
// LIVE FEED DTOs
// ========================================

// StreamTokenResponse is the short-lived token used to open the activity stream
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
