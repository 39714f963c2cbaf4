package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liefcare/workforce-backend/internal/domain/analytics"
	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/domain/signup"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/liefcare/workforce-backend/internal/pkg/oauth"
	"github.com/liefcare/workforce-backend/internal/pkg/sse"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

// ===== FAKES =====

type fakeAuthService struct {
	auth.AuthService
	loginErr     error
	loggedOut    []string
	tokenPayload auth.TokenResponse
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return f.tokenPayload, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context) (auth.ProfileResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}
	return auth.ProfileResponse{ID: claims.UserID, Email: claims.Email, Role: string(claims.Role)}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	requests []attendance.ClockRequest
	filters  []attendance.TimeEntryFilter
	err      error
}

func (f *fakeAttendanceService) record(req attendance.ClockRequest, t attendance.EntryType) (attendance.TimeEntryResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return attendance.TimeEntryResponse{}, f.err
	}
	return attendance.TimeEntryResponse{ID: "te-1", EmployeeID: req.EmployeeID, Type: string(t)}, nil
}

func (f *fakeAttendanceService) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return f.record(req, attendance.EntryClockIn)
}

func (f *fakeAttendanceService) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error) {
	return f.record(req, attendance.EntryClockOut)
}

func (f *fakeAttendanceService) GetStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	return attendance.StatusResponse{EmployeeID: employeeID, Status: string(attendance.StatusOffDuty), CanClockIn: true}, nil
}

func (f *fakeAttendanceService) ListTimeEntries(ctx context.Context, filter attendance.TimeEntryFilter) ([]attendance.TimeEntryResponse, error) {
	f.filters = append(f.filters, filter)
	return []attendance.TimeEntryResponse{}, nil
}

type fakeFacilityService struct {
	facility.FacilityService
}

func (f *fakeFacilityService) GetSettings(ctx context.Context) (facility.SettingsResponse, error) {
	return facility.SettingsResponse{ID: "fac-1", Name: "Lief Care Center", RadiusKm: 2}, nil
}

type fakeEmployeeService struct {
	employee.EmployeeService
}

func (f *fakeEmployeeService) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	return []employee.EmployeeResponse{{EmployeeCode: "EMP001"}}, nil
}

type fakeSignupService struct {
	signup.SignupService
	submitted []signup.SubmitRequest
}

func (f *fakeSignupService) Submit(ctx context.Context, req signup.SubmitRequest) (signup.SubmitResponse, error) {
	f.submitted = append(f.submitted, req)
	return signup.SubmitResponse{RequestID: "req-1", SubmittedAt: "2025-03-10T08:00:00Z"}, nil
}

type fakeAnalyticsService struct {
	analytics.AnalyticsService
}

func (f *fakeAnalyticsService) ExportTimesheets(ctx context.Context, filter analytics.StatsFilter, w io.Writer) error {
	_, err := w.Write([]byte("PK-fake-xlsx"))
	return err
}

// ===== HARNESS =====

type testServer struct {
	router     http.Handler
	jwtService jwt.Service
	hub        *sse.Hub

	auth       *fakeAuthService
	attendance *fakeAttendanceService
	signup     *fakeSignupService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	hub := sse.NewHub(8)

	ts := &testServer{
		jwtService: jwtSvc,
		hub:        hub,
		auth: &fakeAuthService{tokenPayload: auth.TokenResponse{
			AccessToken:           "access",
			AccessTokenExpiresIn:  3600,
			RefreshToken:          "refresh",
			RefreshTokenExpiresIn: 9999999999,
		}},
		attendance: &fakeAttendanceService{},
		signup:     &fakeSignupService{},
	}

	// OAuth is left unconfigured
	googleSvc := oauth.NewGoogleService("", "", "", nil)

	ts.router = NewRouter(jwtSvc, Handlers{
		Auth:      NewAuthHandler(jwtSvc, ts.auth, googleSvc, "http://localhost:3000", false),
		TimeEntry: NewTimeEntryHandler(ts.attendance, jwtSvc, hub),
		Facility:  NewFacilityHandler(&fakeFacilityService{}),
		Employee:  NewEmployeeHandler(&fakeEmployeeService{}),
		Signup:    NewSignupHandler(ts.signup),
		Analytics: NewAnalyticsHandler(&fakeAnalyticsService{}),
	}, RouterOptions{Env: "test", Version: "test", LogLevel: slog.LevelError})

	return ts
}

func (ts *testServer) token(t *testing.T, userID string, employeeID string, role user.Role) string {
	t.Helper()

	var empID *string
	if employeeID != "" {
		empID = &employeeID
	}
	token, _, err := ts.jwtService.GenerateAccessToken(userID, userID+"@liefcare.test", empID, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
