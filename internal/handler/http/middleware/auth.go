package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
)

// RevocationChecker reports access tokens revoked by logout
type RevocationChecker interface {
	IsTokenRevoked(token string) bool
}

func AuthRequired(ja *jwtauth.JWTAuth, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if revocations != nil && revocations.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
