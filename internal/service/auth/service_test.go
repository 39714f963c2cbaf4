package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers struct {
	user.UserRepository
	users  map[string]user.User
	linked []string
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) LinkGoogleAccount(_ context.Context, googleID string, email string) (user.User, error) {
	for id, u := range f.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			f.users[id] = u
			f.linked = append(f.linked, id)
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeEmployees struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployees) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type storedToken struct {
	userID  string
	revoked bool
	session auth.SessionTrackingRequest
}

type fakeRefreshTokens struct {
	tokens map[string]*storedToken
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (f *fakeRefreshTokens) CreateRefreshToken(_ context.Context, userID string, token string, _ int64, session auth.SessionTrackingRequest) error {
	f.tokens[hashToken(token)] = &storedToken{userID: userID, session: session}
	return nil
}

func (f *fakeRefreshTokens) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	t, ok := f.tokens[hashToken(token)]
	if !ok {
		return "", true, auth.ErrInvalidToken
	}
	return t.userID, t.revoked, nil
}

func (f *fakeRefreshTokens) RevokeRefreshToken(_ context.Context, token string) error {
	if t, ok := f.tokens[hashToken(token)]; ok {
		t.revoked = true
	}
	return nil
}

func (f *fakeRefreshTokens) RevokeAllForUser(_ context.Context, userID string) error {
	for _, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (f *fakeRefreshTokens) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type authFixture struct {
	svc       auth.AuthService
	users     *fakeUsers
	refreshDB *fakeRefreshTokens
	jwt       jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	users := &fakeUsers{users: map[string]user.User{
		"u-1": {ID: "u-1", Email: "ana@example.com", Name: "Ana", PasswordHash: &hashed, Role: user.RoleEmployee, IsActive: true},
		"u-2": {ID: "u-2", Email: "bo@example.com", Name: "Bo", PasswordHash: &hashed, Role: user.RoleEmployee, IsActive: false},
		"u-3": {ID: "u-3", Email: "mia@example.com", Name: "Mia", PasswordHash: &hashed, Role: user.RoleManager, IsActive: true},
	}}
	employees := &fakeEmployees{employees: []employee.Employee{
		{ID: "e-1", UserID: "u-1", EmployeeCode: "EMP001", Department: "Care", Position: "Care Worker"},
		{ID: "e-2", UserID: "u-2", EmployeeCode: "EMP002", Department: "Care", Position: "Care Worker"},
	}}
	refreshDB := &fakeRefreshTokens{tokens: map[string]*storedToken{}}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)

	return &authFixture{
		svc:       NewAuthService(fakeTx{}, users, employees, jwtService, refreshDB),
		users:     users,
		refreshDB: refreshDB,
		jwt:       jwtService,
	}
}

var testSession = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{EmployeeCode: " EMP001 ", Password: "password123"}, testSession)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "EMP001", *resp.User.EmployeeCode)
	assert.Equal(t, "employee", resp.User.Role)

	stored, ok := f.refreshDB.tokens[hashToken(resp.RefreshToken)]
	require.True(t, ok)
	assert.Equal(t, "u-1", stored.userID)
	assert.Equal(t, "127.0.0.1", stored.session.IPAddress)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e-1", claims["employee_id"])
	assert.Equal(t, jwt.TokenTypeAccess, claims["type"])
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"wrong password", auth.LoginRequest{EmployeeCode: "EMP001", Password: "wrong-password"}},
		{"unknown employee code", auth.LoginRequest{EmployeeCode: "EMP999", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			_, err := f.svc.Login(context.Background(), tt.req, testSession)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
			assert.Empty(t, f.refreshDB.tokens)
		})
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "EMP002", Password: "password123"}, testSession)
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "EMP002", Password: "nope"}, testSession)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{}, testSession)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	resp, err := f.svc.LoginWithGoogle(ctx, "mia@example.com", "google-123", testSession)
	require.NoError(t, err)
	assert.Equal(t, "manager", resp.User.Role)
	assert.Nil(t, resp.User.EmployeeID)
	assert.Equal(t, []string{"u-3"}, f.users.linked)

	_, err = f.svc.LoginWithGoogle(ctx, "stranger@example.com", "google-456", testSession)
	assert.ErrorIs(t, err, auth.ErrAccountNotRegistered)

	_, err = f.svc.LoginWithGoogle(ctx, "bo@example.com", "google-789", testSession)
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	login, err := f.svc.Login(ctx, auth.LoginRequest{EmployeeCode: "EMP001", Password: "password123"}, testSession)
	require.NoError(t, err)

	resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// An access token cannot be used as a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	login, err := f.svc.Login(ctx, auth.LoginRequest{EmployeeCode: "EMP001", Password: "password123"}, testSession)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	assert.True(t, f.refreshDB.tokens[hashToken(login.RefreshToken)].revoked)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	// Logging out twice or with an unknown token is not an error
	assert.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, "unknown"))
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	login, err := f.svc.Login(ctx, auth.LoginRequest{EmployeeCode: "EMP001", Password: "password123"}, testSession)
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), login.AccessToken)
	require.NoError(t, err)
	authCtx := jwtauth.NewContext(ctx, token, nil)

	profile, err := f.svc.Me(authCtx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.ID)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "Care Worker", *profile.Position)

	_, err = f.svc.Me(ctx)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
