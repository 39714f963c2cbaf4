package employee

import (
	"context"
)

// EmployeeService defines staff administration
type EmployeeService interface {
	// ListEmployees lists staff with optional department/role/search filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by employee code
	GetEmployee(ctx context.Context, employeeCode string) (EmployeeResponse, error)

	// CreateEmployee creates the user account and the employee record together
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, employeeCode string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the employee, its time entries and its user account
	DeleteEmployee(ctx context.Context, employeeCode string) error

	ResetPassword(ctx context.Context, employeeCode string, req ResetPasswordRequest) error
}
