package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret", "15m", "168h", false).(*JWTService)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService()
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "nurse@liefcare.com", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService("secret", "soon", "168h", false)
	_, _, err := svc.GenerateAccessToken("user-1", "a@b.co", nil, user.RoleManager)
	assert.Error(t, err)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	svc := newTestService()

	a, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	b, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken("user-1", nil, user.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	claims, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.EmployeeID)
	assert.Equal(t, user.RoleManager, claims.Role)

	employeeID := "emp-1"
	token, _, err = svc.GenerateSSEToken("user-2", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	claims, err = svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
}

func TestSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService()

	access, _, err := svc.GenerateAccessToken("user-1", "a@b.co", nil, user.RoleManager)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.RevokeToken("old", now.Add(-time.Minute).Unix())
	svc.RevokeToken("current", now.Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("current"))
	assert.False(t, svc.IsTokenRevoked("unknown"))

	// Expired entries are pruned on the next revoke
	svc.RevokeToken("another", now.Add(time.Hour).Unix())
	assert.False(t, svc.IsTokenRevoked("old"))
}

func TestClaimsFromContext(t *testing.T) {
	svc := newTestService()
	employeeID := "emp-9"
	token, _, err := svc.GenerateAccessToken("user-9", "m@liefcare.com", &employeeID, user.RoleManager)
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), parsed, nil)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
	assert.Equal(t, "emp-9", claims.EmployeeID)
	assert.True(t, claims.IsManager())

	_, err = ClaimsFromContext(context.Background())
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService("secret", "15m", "168h", true)

	cookie := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}
