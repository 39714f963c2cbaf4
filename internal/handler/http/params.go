package http

import (
	"net/http"
	"strconv"

	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
)

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getStringQueryParam returns nil when the parameter is absent or empty
func getStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// resolveEmployeeID picks the employee a request acts on. Managers may name
// any employee; everyone else is pinned to their own record.
func resolveEmployeeID(r *http.Request, requested string) (string, error) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	if requested != "" && requested != claims.EmployeeID {
		if !claims.IsManager() {
			return "", user.ErrInsufficientPermissions
		}
		return requested, nil
	}

	if claims.EmployeeID == "" {
		return "", employee.ErrEmployeeNotFound
	}
	return claims.EmployeeID, nil
}
