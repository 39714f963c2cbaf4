package signup

import (
	"strings"
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

type SubmitRequest struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Experience          string  `json:"experience"`
	PreferredDepartment *string `json:"preferred_department,omitempty"`
	Message             *string `json:"message,omitempty"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	r.Email = strings.TrimSpace(r.Email)
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone is required",
		})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if validator.IsEmpty(r.Experience) {
		errs = append(errs, validator.ValidationError{
			Field:   "experience",
			Message: "experience is required",
		})
	}

	if r.Message != nil && len(*r.Message) > 2000 {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message must not exceed 2000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	// Empty optionals are stored as NULL
	if r.PreferredDepartment != nil && validator.IsEmpty(*r.PreferredDepartment) {
		r.PreferredDepartment = nil
	}
	if r.Message != nil && validator.IsEmpty(*r.Message) {
		r.Message = nil
	}

	return nil
}

type SubmitResponse struct {
	RequestID   string `json:"request_id"`
	SubmittedAt string `json:"submitted_at"`
}

type RequestFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		status := strings.ToUpper(*f.Status)
		if !validator.IsInSlice(status, Statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, APPROVED, REJECTED, CONTACTED",
			})
		}
		f.Status = &status
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	ID          string  `json:"-"`
	ReviewerID  *string `json:"-"`
	Status      string  `json:"status"`
	ReviewNotes *string `json:"review_notes,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	status := strings.ToUpper(strings.TrimSpace(r.Status))
	if status == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !validator.IsInSlice(status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED, CONTACTED",
		})
	}
	r.Status = status

	if r.ReviewNotes != nil && validator.IsEmpty(*r.ReviewNotes) {
		r.ReviewNotes = nil
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Experience          string  `json:"experience"`
	PreferredDepartment *string `json:"preferred_department,omitempty"`
	Message             *string `json:"message,omitempty"`
	Status              string  `json:"status"`
	ReviewNotes         *string `json:"review_notes,omitempty"`
	ReviewedAt          *string `json:"reviewed_at,omitempty"`
	SubmittedAt         string  `json:"submitted_at"`
}

func ToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		Experience:          r.Experience,
		PreferredDepartment: r.PreferredDepartment,
		Message:             r.Message,
		Status:              string(r.Status),
		ReviewNotes:         r.ReviewNotes,
		SubmittedAt:         r.SubmittedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		reviewedAt := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

type ListResponse struct {
	SignupRequests []RequestResponse `json:"signup_requests"`
	Count          int               `json:"count"`
}

// CreatedAccount is returned once, when an application is approved
type CreatedAccount struct {
	UserID            string `json:"user_id"`
	EmployeeCode      string `json:"employee_code"`
	TemporaryPassword string `json:"temporary_password"`
}

type UpdateStatusResponse struct {
	SignupRequest RequestResponse `json:"signup_request"`
	Account       *CreatedAccount `json:"account,omitempty"`
}
