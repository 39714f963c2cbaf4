package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
)

// StateReader derives an employee's duty state from their entries
type StateReader interface {
	CurrentState(entries []attendance.TimeEntry, asOf time.Time) attendance.State
}

// OpenShift is an employee who has been on duty longer than the configured limit
type OpenShift struct {
	EmployeeID   string
	EmployeeCode string
	Since        time.Time
	Hours        float64
}

type MaintenanceJobs struct {
	refreshTokenRepo auth.RefreshTokenRepository
	employeeRepo     employee.EmployeeRepository
	timeEntryRepo    attendance.TimeEntryRepository
	states           StateReader
	maxShift         time.Duration
	now              func() time.Time
}

func NewMaintenanceJobs(
	refreshTokenRepo auth.RefreshTokenRepository,
	employeeRepo employee.EmployeeRepository,
	timeEntryRepo attendance.TimeEntryRepository,
	states StateReader,
	maxShift time.Duration,
) *MaintenanceJobs {
	if maxShift <= 0 {
		maxShift = 16 * time.Hour
	}
	return &MaintenanceJobs{
		refreshTokenRepo: refreshTokenRepo,
		employeeRepo:     employeeRepo,
		timeEntryRepo:    timeEntryRepo,
		states:           states,
		maxShift:         maxShift,
		now:              time.Now,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_expired_refresh_tokens", 6*time.Hour, j.PruneExpiredRefreshTokens)
	scheduler.AddJob("report_open_shifts", 1*time.Hour, j.ReportOpenShifts)
}

// PruneExpiredRefreshTokens drops tokens that expired more than a day ago
func (j *MaintenanceJobs) PruneExpiredRefreshTokens(ctx context.Context) error {
	removed, err := j.refreshTokenRepo.DeleteExpired(ctx, j.now().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to prune refresh tokens: %w", err)
	}
	if removed > 0 {
		slog.Info("Cron: Pruned expired refresh tokens", "count", removed)
	}
	return nil
}

// ReportOpenShifts logs employees still clocked in past the shift limit. Entries are never
// rewritten; a manager closes the shift by recording the clock-out.
func (j *MaintenanceJobs) ReportOpenShifts(ctx context.Context) error {
	open, err := j.FindOpenShifts(ctx)
	if err != nil {
		return err
	}

	for _, s := range open {
		slog.Warn("Cron: Shift open beyond limit",
			"employee_id", s.EmployeeID,
			"employee_code", s.EmployeeCode,
			"since", s.Since,
			"hours", s.Hours)
	}
	if len(open) > 0 {
		slog.Info("Cron: Open shift check finished", "count", len(open))
	}
	return nil
}

func (j *MaintenanceJobs) FindOpenShifts(ctx context.Context) ([]OpenShift, error) {
	employees, err := j.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	now := j.now().UTC()
	var open []OpenShift
	for _, emp := range employees {
		entries, err := j.timeEntryRepo.ListByEmployee(ctx, emp.ID, nil, nil)
		if err != nil {
			slog.Error("Cron: Failed to load time entries", "employee_id", emp.ID, "error", err)
			continue
		}

		state := j.states.CurrentState(entries, now)
		if !state.OnDuty || state.LastClockIn == nil {
			continue
		}
		if elapsed := now.Sub(*state.LastClockIn); elapsed > j.maxShift {
			open = append(open, OpenShift{
				EmployeeID:   emp.ID,
				EmployeeCode: emp.EmployeeCode,
				Since:        *state.LastClockIn,
				Hours:        elapsed.Hours(),
			})
		}
	}
	return open, nil
}
