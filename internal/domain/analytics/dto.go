package analytics

import (
	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

type StatsFilter struct {
	EmployeeCode *string `json:"employee_code,omitempty"`
	Department   *string `json:"department,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD or RFC3339
	EndDate      *string `json:"end_date,omitempty"`
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeCode != nil && validator.IsEmpty(*f.EmployeeCode) {
		f.EmployeeCode = nil
	}
	if f.Department != nil && validator.IsEmpty(*f.Department) {
		f.Department = nil
	}

	if f.StartDate != nil && *f.StartDate != "" && !validator.IsValidDateOrDateTime(*f.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD or RFC3339 format",
		})
	}
	if f.EndDate != nil && *f.EndDate != "" && !validator.IsValidDateOrDateTime(*f.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD or RFC3339 format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockStatus struct {
	Status       string  `json:"status"`
	OnDuty       bool    `json:"on_duty"`
	OnBreak      bool    `json:"on_break"`
	LastClockIn  *string `json:"last_clock_in,omitempty"`
	LastClockOut *string `json:"last_clock_out,omitempty"`
}

type EmployeeStats struct {
	TotalHours         float64 `json:"total_hours"`
	DaysWorked         int     `json:"days_worked"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
	ClockIns           int     `json:"clock_ins"`
	ClockOuts          int     `json:"clock_outs"`
	Anomalies          int     `json:"anomalies"`
}

type EmployeeStatsResponse struct {
	EmployeeCode string        `json:"employee_code"`
	Name         string        `json:"name"`
	Department   string        `json:"department"`
	Stats        EmployeeStats `json:"stats"`
	ClockStatus  ClockStatus   `json:"clock_status"`
}

type DepartmentEmployeeStats struct {
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	Position     string  `json:"position"`
	ClockIns     int     `json:"clock_ins"`
	ClockOuts    int     `json:"clock_outs"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
	IsClockedIn  bool    `json:"is_clocked_in"`
}

type DepartmentStatsResponse struct {
	Department string                    `json:"department"`
	Employees  []DepartmentEmployeeStats `json:"employees"`
	TotalHours float64                   `json:"total_hours"`
}

type Period struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

type EntryTotals struct {
	TotalTimeEntries int    `json:"total_time_entries"`
	TotalClockIns    int    `json:"total_clock_ins"`
	TotalClockOuts   int    `json:"total_clock_outs"`
	TotalBreaks      int    `json:"total_breaks"`
	Period           Period `json:"period"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Activity struct {
	Time      string `json:"time"`
	Action    string `json:"action"`
	StaffName string `json:"staff_name"`
	Type      string `json:"type"`
}

type RealTimeStats struct {
	TotalStaff     int               `json:"total_staff"`
	ActiveStaff    int               `json:"active_staff"`
	OnBreak        int               `json:"on_break"`
	OffDuty        int               `json:"off_duty"`
	Departments    []DepartmentCount `json:"departments"`
	RecentActivity []Activity        `json:"recent_activity"`
}

type OverallStatsResponse struct {
	OverallStats  EntryTotals   `json:"overall_stats"`
	RealTimeStats RealTimeStats `json:"real_time_stats"`
}

type AnalyticsResponse struct {
	EmployeeStats   *EmployeeStatsResponse   `json:"employee_stats,omitempty"`
	DepartmentStats *DepartmentStatsResponse `json:"department_stats,omitempty"`
	Overall         *OverallStatsResponse    `json:"overall,omitempty"`
}
