package cron

import (
	"context"
	"testing"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	auth.RefreshTokenRepository
	cutoff time.Time
}

func (f *fakeTokens) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, nil
}

type fakeEmployees struct {
	employee.EmployeeRepository
}

func (fakeEmployees) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, error) {
	return []employee.Employee{
		{ID: "emp-1", EmployeeCode: "EMP001"},
		{ID: "emp-2", EmployeeCode: "EMP002"},
		{ID: "emp-3", EmployeeCode: "EMP003"},
	}, nil
}

type fakeEntries struct {
	attendance.TimeEntryRepository
	byEmployee map[string][]attendance.TimeEntry
}

func (f fakeEntries) ListByEmployee(_ context.Context, employeeID string, _, _ *time.Time) ([]attendance.TimeEntry, error) {
	return f.byEmployee[employeeID], nil
}

// lastEntryState treats the latest clock-in without a later clock-out as on duty
type lastEntryState struct{}

func (lastEntryState) CurrentState(entries []attendance.TimeEntry, _ time.Time) attendance.State {
	state := attendance.State{Status: attendance.StatusOffDuty}
	for _, e := range entries {
		ts := e.Timestamp
		switch e.Type {
		case attendance.EntryClockIn:
			state.Status, state.LastClockIn = attendance.StatusOnDuty, &ts
		case attendance.EntryClockOut:
			state.Status, state.LastClockOut = attendance.StatusOffDuty, &ts
		}
	}
	state.OnDuty = state.Status != attendance.StatusOffDuty
	return state
}

func TestMaintenanceJobs_PruneExpiredRefreshTokens(t *testing.T) {
	tokens := &fakeTokens{}
	jobs := NewMaintenanceJobs(tokens, fakeEmployees{}, fakeEntries{}, lastEntryState{}, 0)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.PruneExpiredRefreshTokens(context.Background()))
	assert.Equal(t, now.Add(-24*time.Hour), tokens.cutoff)
}

func TestMaintenanceJobs_FindOpenShifts(t *testing.T) {
	now := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
	entries := fakeEntries{byEmployee: map[string][]attendance.TimeEntry{
		"emp-1": {{EmployeeID: "emp-1", Type: attendance.EntryClockIn, Timestamp: now.Add(-20 * time.Hour)}},
		"emp-2": {{EmployeeID: "emp-2", Type: attendance.EntryClockIn, Timestamp: now.Add(-2 * time.Hour)}},
		"emp-3": {
			{EmployeeID: "emp-3", Type: attendance.EntryClockIn, Timestamp: now.Add(-30 * time.Hour)},
			{EmployeeID: "emp-3", Type: attendance.EntryClockOut, Timestamp: now.Add(-22 * time.Hour)},
		},
	}}

	jobs := NewMaintenanceJobs(&fakeTokens{}, fakeEmployees{}, entries, lastEntryState{}, 16*time.Hour)
	jobs.now = func() time.Time { return now }

	open, err := jobs.FindOpenShifts(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "EMP001", open[0].EmployeeCode)
	assert.InDelta(t, 20.0, open[0].Hours, 0.001)

	assert.NoError(t, jobs.ReportOpenShifts(context.Background()))
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var runs []string
	s.AddJob("a", time.Hour, func(context.Context) error { runs = append(runs, "a"); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { runs = append(runs, "b"); return assert.AnError })

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, runs)
}
