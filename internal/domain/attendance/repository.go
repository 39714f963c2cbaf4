package attendance

import (
	"context"
	"time"
)

// TimeEntryRepository is the append-only event store for clock actions.
type TimeEntryRepository interface {
	// Create appends a new entry
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// ListByEmployee returns one employee's entries, optionally limited to [start, end]
	ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]TimeEntry, error)

	// List returns entries of all employees, newest first
	List(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, error)

	// ListBetween returns entries of all employees in timestamp order, optionally limited to [start, end]
	ListBetween(ctx context.Context, start, end *time.Time) ([]TimeEntry, error)

	// DeleteByEmployee removes every entry of an employee
	DeleteByEmployee(ctx context.Context, employeeID string) error

	// LockEmployee takes a row lock on the employee inside the current transaction
	// so concurrent clock writes for the same employee are serialized.
	LockEmployee(ctx context.Context, employeeID string) error
}
