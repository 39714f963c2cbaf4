package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/liefcare/workforce-backend/internal/domain/analytics"
	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/domain/signup"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound), errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, auth.ErrAccountNotRegistered):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		ServiceUnavailable(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Time entry errors
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "Cannot clock out - employee is not currently clocked in")
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Forbidden(w, "You are outside the facility perimeter")
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location is required to clock in", nil)
	case errors.Is(err, attendance.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, geofence.ErrInvalidCoordinate):
		BadRequest(w, err.Error(), nil)

	// Facility errors
	case errors.Is(err, facility.ErrSettingsNotFound):
		NotFound(w, "No facility settings found")
	case errors.Is(err, facility.ErrPerimeterNotReady):
		ServiceUnavailable(w, "Facility perimeter is not configured")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrInvalidEmployeeCode):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		Conflict(w, "Cannot delete your own employee record")

	// Signup errors
	case errors.Is(err, signup.ErrRequestNotFound):
		NotFound(w, "Signup request not found")
	case errors.Is(err, signup.ErrApplicationExists):
		Conflict(w, "An application with this email already exists")
	case errors.Is(err, signup.ErrUserExists):
		Conflict(w, "A user with this email already exists in our system")
	case errors.Is(err, signup.ErrAlreadyApproved):
		Conflict(w, "Signup request has already been approved")

	// Analytics errors
	case errors.Is(err, analytics.ErrDepartmentNotFound):
		NotFound(w, "Department has no employees")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
