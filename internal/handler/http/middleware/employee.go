package middleware

import (
	"net/http"

	"github.com/liefcare/workforce-backend/internal/handler/http/response"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
)

// RequireEmployeeRecord rejects accounts with no linked employee row.
// Clock actions are always recorded against an employee.
func RequireEmployeeRecord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.EmployeeID == "" && !claims.IsManager() {
			response.Forbidden(w, "No employee record is linked to this account")
			return
		}

		next.ServeHTTP(w, r)
	})
}
