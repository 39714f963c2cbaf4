package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository stores hashed refresh tokens so they can be revoked
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked returns the owner of the token and whether it is revoked or expired
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error

	// DeleteExpired removes tokens that expired before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
