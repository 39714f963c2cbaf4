package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
)

type FacilityHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	CheckLocation(w http.ResponseWriter, r *http.Request)
}

type facilityHandlerImpl struct {
	facilityService facility.FacilityService
}

func NewFacilityHandler(facilityService facility.FacilityService) FacilityHandler {
	return &facilityHandlerImpl{facilityService: facilityService}
}

// GetSettings implements FacilityHandler.
func (h *facilityHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.facilityService.GetSettings(r.Context())
	if err != nil {
		slog.Error("GetSettings service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings implements FacilityHandler.
func (h *facilityHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req facility.UpdateSettingsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		slog.Error("UpdateSettings validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	settings, err := h.facilityService.UpdateSettings(r.Context(), req)
	if err != nil {
		slog.Error("UpdateSettings service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Facility settings updated", "facility_id", settings.ID, "radius_km", settings.RadiusKm)
	response.SuccessWithMessage(w, "Facility settings updated successfully", settings)
}

// CheckLocation implements FacilityHandler.
func (h *facilityHandlerImpl) CheckLocation(w http.ResponseWriter, r *http.Request) {
	var req facility.CheckLocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckLocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.facilityService.CheckLocation(r.Context(), req)
	if err != nil {
		slog.Error("CheckLocation service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
