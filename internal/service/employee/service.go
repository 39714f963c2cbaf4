package employee

import (
	"context"
	"fmt"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/liefcare/workforce-backend/internal/pkg/utils"
	"github.com/liefcare/workforce-backend/internal/pkg/validator"
	"github.com/liefcare/workforce-backend/internal/repository/postgresql"
)

type EmployeeServiceImpl struct {
	tx               postgresql.Transactor
	employeeRepo     employee.EmployeeRepository
	userRepo         user.UserRepository
	timeEntryRepo    attendance.TimeEntryRepository
	refreshTokenRepo auth.RefreshTokenRepository
}

func NewEmployeeService(
	tx postgresql.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	timeEntryRepo attendance.TimeEntryRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:               tx,
		employeeRepo:     employeeRepo,
		userRepo:         userRepo,
		timeEntryRepo:    timeEntryRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, employeeCode string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		EmployeeCode: req.EmployeeCode,
		Department:   employee.DefaultDepartment,
		Position:     employee.DefaultPosition,
		Facility:     req.Facility,
		PhoneNumber:  req.PhoneNumber,
		Name:         req.Name,
		Email:        req.Email,
		Role:         user.Role(req.Role),
	}
	if req.Department != nil && *req.Department != "" {
		newEmployee.Department = *req.Department
	}
	if req.Position != nil && *req.Position != "" {
		newEmployee.Position = *req.Position
	}
	if req.HireDate != nil {
		if hireDate, ok := validator.IsValidDate(*req.HireDate); ok {
			newEmployee.HireDate = &hireDate
		}
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		createdUser, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: &hashed,
			Role:         user.Role(req.Role),
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		newEmployee.UserID = createdUser.ID
		created, err := s.employeeRepo.Create(txCtx, newEmployee)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		newEmployee.ID = created.ID
		newEmployee.CreatedAt = created.CreatedAt
		newEmployee.UpdatedAt = created.UpdatedAt
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(newEmployee), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, employeeCode string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil && *req.Email != emp.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if userFields := req.UserFields(); !userFields.IsEmpty() {
			if err := s.userRepo.Update(txCtx, emp.UserID, userFields); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}
		if err := s.employeeRepo.Update(txCtx, emp.ID, req); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, emp.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, employeeCode string) error {
	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return err
	}

	if claims, err := jwt.ClaimsFromContext(ctx); err == nil && claims.UserID == emp.UserID {
		return employee.ErrCannotDeleteSelf
	}

	return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.timeEntryRepo.DeleteByEmployee(txCtx, emp.ID); err != nil {
			return fmt.Errorf("failed to delete time entries: %w", err)
		}
		if err := s.employeeRepo.Delete(txCtx, emp.ID); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		if err := s.userRepo.Delete(txCtx, emp.UserID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// ResetPassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPassword(ctx context.Context, employeeCode string, req employee.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	// Existing sessions end with the old password
	return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.UpdatePassword(txCtx, emp.UserID, hashed); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := s.refreshTokenRepo.RevokeAllForUser(txCtx, emp.UserID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
		return nil
	})
}
