package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) attendance.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const timeEntryColumns = `
	te.id, te.employee_id, te.entry_type, te.recorded_at,
	te.latitude, te.longitude, te.note, te.created_at,
	u.name, e.employee_code, e.department
`

const timeEntryFrom = `
	FROM time_entries te
	JOIN employees e ON e.id = te.employee_id
	JOIN users u ON u.id = e.user_id
`

func scanTimeEntry(row pgx.Row) (attendance.TimeEntry, error) {
	var te attendance.TimeEntry
	err := row.Scan(
		&te.ID, &te.EmployeeID, &te.Type, &te.Timestamp,
		&te.Latitude, &te.Longitude, &te.Note, &te.CreatedAt,
		&te.EmployeeName, &te.EmployeeCode, &te.Department,
	)
	return te, err
}

func collectTimeEntries(rows pgx.Rows) ([]attendance.TimeEntry, error) {
	defer rows.Close()

	entries := []attendance.TimeEntry{}
	for rows.Next() {
		te, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, te)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}
	return entries, nil
}

// Create implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, entry attendance.TimeEntry) (attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.TimeEntry{}, fmt.Errorf("failed to generate time entry id: %w", err)
		}
		entry.ID = id.String()
	}

	query := `
		INSERT INTO time_entries (id, employee_id, entry_type, recorded_at, latitude, longitude, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.EmployeeID,
		entry.Type,
		entry.Timestamp.UTC(),
		entry.Latitude,
		entry.Longitude,
		entry.Note,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return attendance.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// ListByEmployee implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + timeEntryFrom + `
		WHERE te.employee_id = $1
		  AND ($2::timestamptz IS NULL OR te.recorded_at >= $2)
		  AND ($3::timestamptz IS NULL OR te.recorded_at <= $3)
		ORDER BY te.recorded_at ASC, te.id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return collectTimeEntries(rows)
}

// List implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND te.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Type != nil {
		where += fmt.Sprintf(" AND te.entry_type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Start != nil {
		where += fmt.Sprintf(" AND te.recorded_at >= $%d", argIdx)
		args = append(args, *filter.Start)
		argIdx++
	}
	if filter.End != nil {
		where += fmt.Sprintf(" AND te.recorded_at <= $%d", argIdx)
		args = append(args, *filter.End)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY te.recorded_at DESC, te.id DESC
		LIMIT $%d
	`, timeEntryColumns, timeEntryFrom, where, argIdx)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return collectTimeEntries(rows)
}

// ListBetween implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + timeEntryFrom + `
		WHERE ($1::timestamptz IS NULL OR te.recorded_at >= $1)
		  AND ($2::timestamptz IS NULL OR te.recorded_at <= $2)
		ORDER BY te.recorded_at ASC, te.id ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return collectTimeEntries(rows)
}

// DeleteByEmployee implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM time_entries WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("failed to delete time entries: %w", err)
	}
	return nil
}

// LockEmployee implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, employeeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}
