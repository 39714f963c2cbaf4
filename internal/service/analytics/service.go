package analytics

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/analytics"
	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/pkg/export"
	"github.com/liefcare/workforce-backend/internal/pkg/metrics"
	attendanceservice "github.com/liefcare/workforce-backend/internal/service/attendance"
)

const recentActivityLimit = 10

type AnalyticsServiceImpl struct {
	employeeRepo  employee.EmployeeRepository
	timeEntryRepo attendance.TimeEntryRepository
	reconstructor *attendanceservice.Reconstructor
	loc           *time.Location
	now           func() time.Time
}

func NewAnalyticsService(
	employeeRepo employee.EmployeeRepository,
	timeEntryRepo attendance.TimeEntryRepository,
	reconstructor *attendanceservice.Reconstructor,
	loc *time.Location,
) analytics.AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if reconstructor == nil {
		reconstructor = attendanceservice.NewReconstructor(loc)
	}
	return &AnalyticsServiceImpl{
		employeeRepo:  employeeRepo,
		timeEntryRepo: timeEntryRepo,
		reconstructor: reconstructor,
		loc:           loc,
		now:           time.Now,
	}
}

// period is a resolved StatsFilter range. Zero bounds are open.
type period struct {
	start, end time.Time
	startPtr   *time.Time
	endPtr     *time.Time
}

func (p period) contains(t time.Time) bool {
	if !p.start.IsZero() && t.Before(p.start) {
		return false
	}
	if !p.end.IsZero() && t.After(p.end) {
		return false
	}
	return true
}

func (s *AnalyticsServiceImpl) resolvePeriod(filter analytics.StatsFilter) (period, error) {
	start, end, err := attendance.ParseRange(filter.StartDate, filter.EndDate, s.loc)
	if err != nil {
		return period{}, err
	}
	p := period{startPtr: start, endPtr: end}
	if start != nil {
		p.start = *start
	}
	if end != nil {
		p.end = *end
	}
	return p, nil
}

// GetAnalytics implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetAnalytics(ctx context.Context, filter analytics.StatsFilter) (analytics.AnalyticsResponse, error) {
	if err := filter.Validate(); err != nil {
		return analytics.AnalyticsResponse{}, err
	}

	switch {
	case filter.EmployeeCode != nil:
		stats, err := s.GetEmployeeStats(ctx, filter)
		if err != nil {
			return analytics.AnalyticsResponse{}, err
		}
		return analytics.AnalyticsResponse{EmployeeStats: &stats}, nil

	case filter.Department != nil:
		stats, err := s.GetDepartmentStats(ctx, filter)
		if err != nil {
			return analytics.AnalyticsResponse{}, err
		}
		return analytics.AnalyticsResponse{DepartmentStats: &stats}, nil

	default:
		stats, err := s.GetOverallStats(ctx, filter)
		if err != nil {
			return analytics.AnalyticsResponse{}, err
		}
		return analytics.AnalyticsResponse{Overall: &stats}, nil
	}
}

// GetEmployeeStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetEmployeeStats(ctx context.Context, filter analytics.StatsFilter) (analytics.EmployeeStatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return analytics.EmployeeStatsResponse{}, err
	}
	if filter.EmployeeCode == nil {
		return analytics.EmployeeStatsResponse{}, employee.ErrEmployeeNotFound
	}

	p, err := s.resolvePeriod(filter)
	if err != nil {
		return analytics.EmployeeStatsResponse{}, err
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, *filter.EmployeeCode)
	if err != nil {
		return analytics.EmployeeStatsResponse{}, err
	}

	entries, err := s.timeEntryRepo.ListByEmployee(ctx, emp.ID, nil, nil)
	if err != nil {
		return analytics.EmployeeStatsResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	shifts, anomalies := s.reconstruct(entries, p)
	clockIns, clockOuts := countClocks(entries, p)
	state := s.reconstructor.CurrentState(entries, s.now().UTC())

	return analytics.EmployeeStatsResponse{
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.Name,
		Department:   emp.Department,
		Stats: analytics.EmployeeStats{
			TotalHours:         round2(s.reconstructor.TotalHours(shifts)),
			DaysWorked:         s.reconstructor.WorkedDays(shifts, p.start, p.end),
			AverageHoursPerDay: round2(s.reconstructor.AverageHoursPerDay(shifts, p.start, p.end)),
			ClockIns:           clockIns,
			ClockOuts:          clockOuts,
			Anomalies:          len(anomalies),
		},
		ClockStatus: s.clockStatus(state),
	}, nil
}

// GetDepartmentStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetDepartmentStats(ctx context.Context, filter analytics.StatsFilter) (analytics.DepartmentStatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}
	if filter.Department == nil {
		return analytics.DepartmentStatsResponse{}, analytics.ErrDepartmentNotFound
	}

	p, err := s.resolvePeriod(filter)
	if err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{Department: filter.Department})
	if err != nil {
		return analytics.DepartmentStatsResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) == 0 {
		return analytics.DepartmentStatsResponse{}, analytics.ErrDepartmentNotFound
	}

	byEmployee, err := s.entriesByEmployee(ctx, nil, nil)
	if err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}

	now := s.now().UTC()
	resp := analytics.DepartmentStatsResponse{
		Department: *filter.Department,
		Employees:  make([]analytics.DepartmentEmployeeStats, 0, len(employees)),
	}
	var total float64
	for _, emp := range employees {
		entries := byEmployee[emp.ID]
		shifts, _ := s.reconstruct(entries, p)
		clockIns, clockOuts := countClocks(entries, p)
		state := s.reconstructor.CurrentState(entries, now)
		hours := s.reconstructor.TotalHours(shifts)
		total += hours

		resp.Employees = append(resp.Employees, analytics.DepartmentEmployeeStats{
			EmployeeCode: emp.EmployeeCode,
			Name:         emp.Name,
			Department:   emp.Department,
			Position:     emp.Position,
			ClockIns:     clockIns,
			ClockOuts:    clockOuts,
			TotalHours:   round2(hours),
			Status:       string(state.Status),
			IsClockedIn:  state.OnDuty,
		})
	}
	resp.TotalHours = round2(total)

	return resp, nil
}

// GetOverallStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetOverallStats(ctx context.Context, filter analytics.StatsFilter) (analytics.OverallStatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return analytics.OverallStatsResponse{}, err
	}

	p, err := s.resolvePeriod(filter)
	if err != nil {
		return analytics.OverallStatsResponse{}, err
	}

	ranged, err := s.timeEntryRepo.ListBetween(ctx, p.startPtr, p.endPtr)
	if err != nil {
		return analytics.OverallStatsResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return analytics.OverallStatsResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	departments, err := s.employeeRepo.CountByDepartment(ctx)
	if err != nil {
		return analytics.OverallStatsResponse{}, fmt.Errorf("failed to count departments: %w", err)
	}

	byEmployee, err := s.entriesByEmployee(ctx, nil, nil)
	if err != nil {
		return analytics.OverallStatsResponse{}, err
	}

	var resp analytics.OverallStatsResponse

	totals := &resp.OverallStats
	totals.TotalTimeEntries = len(ranged)
	for _, e := range ranged {
		switch e.Type {
		case attendance.EntryClockIn:
			totals.TotalClockIns++
		case attendance.EntryClockOut:
			totals.TotalClockOuts++
		case attendance.EntryBreakStart, attendance.EntryBreakEnd:
			totals.TotalBreaks++
		}
	}
	if p.startPtr != nil {
		start := p.start.In(s.loc).Format(time.RFC3339)
		totals.Period.Start = &start
	}
	if p.endPtr != nil {
		end := p.end.In(s.loc).Format(time.RFC3339)
		totals.Period.End = &end
	}

	live := &resp.RealTimeStats
	live.TotalStaff = len(employees)
	now := s.now().UTC()
	names := make(map[string]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
		switch s.reconstructor.CurrentState(byEmployee[emp.ID], now).Status {
		case attendance.StatusOnDuty:
			live.ActiveStaff++
		case attendance.StatusOnBreak:
			live.OnBreak++
		}
	}
	live.OffDuty = live.TotalStaff - live.ActiveStaff - live.OnBreak

	live.Departments = make([]analytics.DepartmentCount, 0, len(departments))
	for _, d := range departments {
		live.Departments = append(live.Departments, analytics.DepartmentCount{Department: d.Department, Count: d.Count})
	}

	live.RecentActivity = make([]analytics.Activity, 0, recentActivityLimit)
	for i := len(ranged) - 1; i >= 0 && len(live.RecentActivity) < recentActivityLimit; i-- {
		e := ranged[i]
		name := "Unknown"
		if e.EmployeeName != nil && *e.EmployeeName != "" {
			name = *e.EmployeeName
		} else if n, ok := names[e.EmployeeID]; ok && n != "" {
			name = n
		}
		live.RecentActivity = append(live.RecentActivity, analytics.Activity{
			Time:      e.Timestamp.In(s.loc).Format(time.RFC3339),
			Action:    actionLabel(e.Type),
			StaffName: name,
			Type:      string(e.Type),
		})
	}

	return resp, nil
}

// ExportTimesheets implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) ExportTimesheets(ctx context.Context, filter analytics.StatsFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	p, err := s.resolvePeriod(filter)
	if err != nil {
		return err
	}

	var employees []employee.Employee
	if filter.EmployeeCode != nil {
		emp, err := s.employeeRepo.GetByEmployeeCode(ctx, *filter.EmployeeCode)
		if err != nil {
			return err
		}
		employees = []employee.Employee{emp}
	} else {
		employees, err = s.employeeRepo.List(ctx, employee.EmployeeFilter{Department: filter.Department})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
	}

	byEmployee, err := s.entriesByEmployee(ctx, nil, p.endPtr)
	if err != nil {
		return err
	}

	sheet := export.Timesheet{Location: s.loc}
	for _, emp := range employees {
		shifts, anomalies := s.reconstruct(byEmployee[emp.ID], p)

		for _, sh := range shifts {
			sheet.Shifts = append(sheet.Shifts, export.ShiftRow{
				EmployeeCode: emp.EmployeeCode,
				Name:         emp.Name,
				Department:   emp.Department,
				ClockIn:      sh.Start,
				ClockOut:     sh.End,
				Hours:        sh.DurationHours,
			})
		}
		for _, an := range anomalies {
			sheet.Anomalies = append(sheet.Anomalies, export.AnomalyRow{
				EmployeeCode: emp.EmployeeCode,
				Kind:         string(an.Kind),
				EntryType:    string(an.Entry.Type),
				Timestamp:    an.Entry.Timestamp,
				Reason:       an.Reason,
			})
		}
		sheet.Summary = append(sheet.Summary, export.SummaryRow{
			EmployeeCode:       emp.EmployeeCode,
			Name:               emp.Name,
			Department:         emp.Department,
			TotalHours:         s.reconstructor.TotalHours(shifts),
			DaysWorked:         s.reconstructor.WorkedDays(shifts, p.start, p.end),
			AverageHoursPerDay: s.reconstructor.AverageHoursPerDay(shifts, p.start, p.end),
			Anomalies:          len(anomalies),
		})
	}

	slices.SortStableFunc(sheet.Shifts, func(a, b export.ShiftRow) int {
		return a.ClockIn.Compare(b.ClockIn)
	})

	if err := export.WriteTimesheetXLSX(w, sheet); err != nil {
		return fmt.Errorf("%w: %v", analytics.ErrExportFailed, err)
	}
	return nil
}

// reconstruct pairs all entries of an employee and keeps what falls inside p
func (s *AnalyticsServiceImpl) reconstruct(entries []attendance.TimeEntry, p period) ([]attendance.ShiftSegment, []attendance.Anomaly) {
	began := time.Now()
	shifts, anomalies := s.reconstructor.ReconstructShifts(entries)
	metrics.ReconstructionDuration.Observe(float64(time.Since(began).Microseconds()) / 1000)

	return attendanceservice.ShiftsStartingIn(shifts, p.start, p.end), attendanceservice.AnomaliesIn(anomalies, p.start, p.end)
}

func (s *AnalyticsServiceImpl) entriesByEmployee(ctx context.Context, start, end *time.Time) (map[string][]attendance.TimeEntry, error) {
	entries, err := s.timeEntryRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	grouped := make(map[string][]attendance.TimeEntry)
	for _, e := range entries {
		grouped[e.EmployeeID] = append(grouped[e.EmployeeID], e)
	}
	return grouped, nil
}

func (s *AnalyticsServiceImpl) clockStatus(state attendance.State) analytics.ClockStatus {
	status := analytics.ClockStatus{
		Status:  string(state.Status),
		OnDuty:  state.OnDuty,
		OnBreak: state.OnBreak,
	}
	if state.LastClockIn != nil {
		t := state.LastClockIn.In(s.loc).Format(time.RFC3339)
		status.LastClockIn = &t
	}
	if state.LastClockOut != nil {
		t := state.LastClockOut.In(s.loc).Format(time.RFC3339)
		status.LastClockOut = &t
	}
	return status
}

func countClocks(entries []attendance.TimeEntry, p period) (clockIns, clockOuts int) {
	for _, e := range entries {
		if !p.contains(e.Timestamp) {
			continue
		}
		switch e.Type {
		case attendance.EntryClockIn:
			clockIns++
		case attendance.EntryClockOut:
			clockOuts++
		}
	}
	return clockIns, clockOuts
}

func actionLabel(t attendance.EntryType) string {
	switch t {
	case attendance.EntryClockIn:
		return "Clocked In"
	case attendance.EntryClockOut:
		return "Clocked Out"
	case attendance.EntryBreakStart:
		return "Started Break"
	case attendance.EntryBreakEnd:
		return "Ended Break"
	default:
		return string(t)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
