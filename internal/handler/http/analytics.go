package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/analytics"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler interface {
	GetAnalytics(w http.ResponseWriter, r *http.Request)
	ExportTimesheets(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

func statsFilterFromQuery(r *http.Request) analytics.StatsFilter {
	return analytics.StatsFilter{
		EmployeeCode: getStringQueryParam(r, "employee_code"),
		Department:   getStringQueryParam(r, "department"),
		StartDate:    getStringQueryParam(r, "start_date"),
		EndDate:      getStringQueryParam(r, "end_date"),
	}
}

// GetAnalytics implements AnalyticsHandler.
func (h *analyticsHandlerImpl) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	filter := statsFilterFromQuery(r)

	if err := filter.Validate(); err != nil {
		slog.Error("GetAnalytics validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	resp, err := h.analyticsService.GetAnalytics(r.Context(), filter)
	if err != nil {
		slog.Error("GetAnalytics service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ExportTimesheets implements AnalyticsHandler.
func (h *analyticsHandlerImpl) ExportTimesheets(w http.ResponseWriter, r *http.Request) {
	filter := statsFilterFromQuery(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Buffer so a failed export can still be reported as JSON
	var buf bytes.Buffer
	if err := h.analyticsService.ExportTimesheets(r.Context(), filter, &buf); err != nil {
		slog.Error("ExportTimesheets service error", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("timesheets-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("ExportTimesheets write error", "error", err)
	}
}
