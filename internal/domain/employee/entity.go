package employee

import (
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/user"
)

const (
	DefaultDepartment = "Care"
	DefaultPosition   = "Care Worker"
)

type Employee struct {
	ID           string
	UserID       string
	EmployeeCode string
	Department   string
	Position     string
	Facility     *string
	PhoneNumber  *string
	HireDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join users
	Name  string
	Email string
	Role  user.Role
}

// DepartmentCount is the headcount of one department
type DepartmentCount struct {
	Department string
	Count      int
}
