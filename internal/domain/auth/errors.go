package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid employee code or password")
	ErrAccountDisabled            = errors.New("account is deactivated, please contact your administrator")
	ErrAccountNotRegistered       = errors.New("no staff account is registered for this google email")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrTokenExpired               = errors.New("token has expired")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrRefreshTokenCookieEmpty    = errors.New("refresh token cookie is empty")
	ErrUserNotFound               = errors.New("user not found")
	ErrGoogleLoginDisabled        = errors.New("google login is not configured")

	// OAuth callback errors
	ErrStateCookieEmpty         = errors.New("state cookie is empty")
	ErrStateParamEmpty          = errors.New("state parameter is empty")
	ErrStateMismatch            = errors.New("state mismatch")
	ErrCodeValueEmpty           = errors.New("code value is empty")
	ErrGoogleAccessDeniedByUser = errors.New("google access denied by user")
)
