package user

import (
	"strings"
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		OAuthProvider: u.OAuthProvider,
		EmployeeID:    u.EmployeeID,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Email != nil {
		if !validator.IsValidEmail(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Role != nil {
		role := strings.ToLower(*r.Role)
		if !validator.IsInSlice(role, Roles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be one of: manager, employee",
			})
		}
		r.Role = &role
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.Name == nil && r.Role == nil
}
