package signup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/signup"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/pkg/utils"
	"github.com/liefcare/workforce-backend/internal/repository/postgresql"
)

type SignupServiceImpl struct {
	tx           postgresql.Transactor
	requestRepo  signup.RequestRepository
	userRepo     user.UserRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewSignupService(
	tx postgresql.Transactor,
	requestRepo signup.RequestRepository,
	userRepo user.UserRepository,
	employeeRepo employee.EmployeeRepository,
) signup.SignupService {
	return &SignupServiceImpl{
		tx:           tx,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Submit implements signup.SignupService.
func (s *SignupServiceImpl) Submit(ctx context.Context, req signup.SubmitRequest) (signup.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return signup.SubmitResponse{}, err
	}

	exists, err := s.requestRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return signup.SubmitResponse{}, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return signup.SubmitResponse{}, signup.ErrApplicationExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return signup.SubmitResponse{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return signup.SubmitResponse{}, signup.ErrUserExists
	}

	created, err := s.requestRepo.Create(ctx, signup.Request{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Experience:          req.Experience,
		PreferredDepartment: req.PreferredDepartment,
		Message:             req.Message,
		Status:              signup.StatusPending,
	})
	if err != nil {
		return signup.SubmitResponse{}, fmt.Errorf("failed to create signup request: %w", err)
	}

	slog.Info("signup request submitted", "request_id", created.ID)

	return signup.SubmitResponse{
		RequestID:   created.ID,
		SubmittedAt: created.SubmittedAt.Format(time.RFC3339),
	}, nil
}

// List implements signup.SignupService.
func (s *SignupServiceImpl) List(ctx context.Context, filter signup.RequestFilter) (signup.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return signup.ListResponse{}, err
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return signup.ListResponse{}, fmt.Errorf("failed to list signup requests: %w", err)
	}

	responses := make([]signup.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, signup.ToResponse(r))
	}
	return signup.ListResponse{SignupRequests: responses, Count: len(responses)}, nil
}

// UpdateStatus implements signup.SignupService.
func (s *SignupServiceImpl) UpdateStatus(ctx context.Context, req signup.UpdateStatusRequest) (signup.UpdateStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return signup.UpdateStatusResponse{}, err
	}

	current, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return signup.UpdateStatusResponse{}, err
	}

	status := signup.Status(req.Status)
	if status == signup.StatusApproved && current.Status == signup.StatusApproved {
		return signup.UpdateStatusResponse{}, signup.ErrAlreadyApproved
	}

	var resp signup.UpdateStatusResponse
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		updated, err := s.requestRepo.UpdateStatus(txCtx, current.ID, status, req.ReviewNotes, req.ReviewerID)
		if err != nil {
			return fmt.Errorf("failed to update signup request status: %w", err)
		}
		resp.SignupRequest = signup.ToResponse(updated)

		if status != signup.StatusApproved {
			return nil
		}

		account, err := s.createAccount(txCtx, updated)
		if err != nil {
			return err
		}
		resp.Account = &account
		return nil
	})
	if err != nil {
		return signup.UpdateStatusResponse{}, err
	}

	if resp.Account != nil {
		slog.Info("signup request approved", "request_id", current.ID, "employee_code", resp.Account.EmployeeCode)
	}

	return resp, nil
}

// createAccount turns an approved application into a care worker account
func (s *SignupServiceImpl) createAccount(ctx context.Context, req signup.Request) (signup.CreatedAccount, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}
	if exists {
		return signup.CreatedAccount{}, signup.ErrUserExists
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}

	employeeCode, err := s.nextEmployeeCode(ctx)
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}

	createdUser, err := s.userRepo.Create(ctx, user.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hashed,
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}

	department := employee.DefaultDepartment
	if req.PreferredDepartment != nil && *req.PreferredDepartment != "" {
		department = *req.PreferredDepartment
	}
	phone := req.Phone
	hireDate := s.now().UTC()

	_, err = s.employeeRepo.Create(ctx, employee.Employee{
		UserID:       createdUser.ID,
		EmployeeCode: employeeCode,
		Department:   department,
		Position:     employee.DefaultPosition,
		PhoneNumber:  &phone,
		HireDate:     &hireDate,
	})
	if err != nil {
		return signup.CreatedAccount{}, fmt.Errorf("%w: %v", signup.ErrAccountCreateFailed, err)
	}

	return signup.CreatedAccount{
		UserID:            createdUser.ID,
		EmployeeCode:      employeeCode,
		TemporaryPassword: password,
	}, nil
}

// nextEmployeeCode derives EMP<unix millis> and steps forward past codes already taken
func (s *SignupServiceImpl) nextEmployeeCode(ctx context.Context) (string, error) {
	millis := s.now().UnixMilli()
	for i := 0; i < 10; i++ {
		code := fmt.Sprintf("EMP%d", millis)
		exists, err := s.employeeRepo.ExistsByEmployeeCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		millis++
	}
	return "", employee.ErrEmployeeCodeExists
}
