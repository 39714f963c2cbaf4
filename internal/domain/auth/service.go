package auth

import (
	"context"
)

type AuthService interface {
	// Login authenticates with employee code and password
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle signs in an existing account matched by email
	LoginWithGoogle(ctx context.Context, email string, googleID string, session SessionTrackingRequest) (TokenResponse, error)

	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Me returns the profile of the authenticated user
	Me(ctx context.Context) (ProfileResponse, error)
}
