package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/attendance"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/liefcare/workforce-backend/internal/pkg/metrics"
	"github.com/liefcare/workforce-backend/internal/pkg/sse"
)

const streamKeepaliveInterval = 30 * time.Second

type TimeEntryHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Timesheet(w http.ResponseWriter, r *http.Request)

	// Live feed
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type TimeEntryHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	hub               *sse.Hub
}

func NewTimeEntryHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service, hub *sse.Hub) TimeEntryHandler {
	return &TimeEntryHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		hub:               hub,
	}
}

type recordFunc func(ctx context.Context, req attendance.ClockRequest) (attendance.TimeEntryResponse, error)

// ClockIn implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, "ClockIn", "Clocked in successfully", h.attendanceService.ClockIn)
}

// ClockOut implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, "ClockOut", "Clocked out successfully", h.attendanceService.ClockOut)
}

// StartBreak implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, "StartBreak", "Break started", h.attendanceService.StartBreak)
}

// EndBreak implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, "EndBreak", "Break ended", h.attendanceService.EndBreak)
}

func (h *TimeEntryHandlerImpl) clock(w http.ResponseWriter, r *http.Request, op, message string, record recordFunc) {
	var req attendance.ClockRequest

	// Body is optional for clock out and breaks
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID, err := resolveEmployeeID(r, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		slog.Error(op+" validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	entry, err := record(r.Context(), req)
	if err != nil {
		slog.Error(op+" service error", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	slog.Info(message, "employee_id", employeeID, "entry_id", entry.ID)
	response.Created(w, message, entry)
}

// Status implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID, err := resolveEmployeeID(r, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.GetStatus(r.Context(), employeeID)
	if err != nil {
		slog.Error("Status service error", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// List implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := attendance.TimeEntryFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		StartDate:  getStringQueryParam(r, "start_date"),
		EndDate:    getStringQueryParam(r, "end_date"),
		Type:       getStringQueryParam(r, "type"),
		Limit:      getIntQueryParam(r, "limit", 100),
	}

	// Staff only see their own entries
	if !claims.IsManager() {
		employeeID, err := resolveEmployeeID(r, "")
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.EmployeeID = &employeeID
	}

	if err := filter.Validate(); err != nil {
		slog.Error("List time entries validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	entries, err := h.attendanceService.ListTimeEntries(r.Context(), filter)
	if err != nil {
		slog.Error("List time entries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, &response.Meta{
		Limit:      filter.Limit,
		TotalItems: int64(len(entries)),
	})
}

// Timesheet implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Timesheet(w http.ResponseWriter, r *http.Request) {
	employeeID, err := resolveEmployeeID(r, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.TimesheetFilter{
		EmployeeID: employeeID,
		StartDate:  getStringQueryParam(r, "start_date"),
		EndDate:    getStringQueryParam(r, "end_date"),
	}
	if err := filter.Validate(); err != nil {
		slog.Error("Timesheet validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	timesheet, err := h.attendanceService.GetTimesheet(r.Context(), filter)
	if err != nil {
		slog.Error("Timesheet service error", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, timesheet)
}

// StreamToken generates a short-lived token for the live activity stream
func (h *TimeEntryHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var employeeID *string
	if claims.EmployeeID != "" {
		employeeID = &claims.EmployeeID
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(claims.UserID, employeeID, claims.Role)
	if err != nil {
		slog.Error("StreamToken generate error", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, attendance.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection for live clock activity
func (h *TimeEntryHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	topic := sse.TopicManagers
	if claims.Role != user.RoleManager {
		if claims.EmployeeID == "" {
			http.Error(w, "No employee record is linked to this account", http.StatusForbidden)
			return
		}
		topic = sse.EmployeeTopic(claims.EmployeeID)
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topic)
	metrics.LiveSubscribers.Inc()
	defer func() {
		cleanup()
		metrics.LiveSubscribers.Dec()
	}()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"topic\":%q}\n\n", topic)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
