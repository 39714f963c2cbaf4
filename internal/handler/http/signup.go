package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/liefcare/workforce-backend/internal/domain/auth"
	"github.com/liefcare/workforce-backend/internal/domain/signup"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
)

type SignupHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type signupHandlerImpl struct {
	signupService signup.SignupService
}

func NewSignupHandler(signupService signup.SignupService) SignupHandler {
	return &signupHandlerImpl{signupService: signupService}
}

// Submit implements SignupHandler. Public route.
func (h *signupHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req signup.SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Signup submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		slog.Error("Signup submit validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	resp, err := h.signupService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("Signup submit service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Signup request submitted", "request_id", resp.RequestID)
	response.Created(w, "Application submitted successfully! We will review your application and contact you soon.", resp)
}

// List implements SignupHandler.
func (h *signupHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := signup.RequestFilter{Status: getStringQueryParam(r, "status")}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.signupService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Signup list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateStatus implements SignupHandler.
func (h *signupHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req signup.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Signup status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = &claims.UserID

	if err := req.Validate(); err != nil {
		slog.Error("Signup status validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	resp, err := h.signupService.UpdateStatus(r.Context(), req)
	if err != nil {
		slog.Error("Signup status service error", "error", err, "request_id", req.ID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Signup request reviewed", "request_id", req.ID, "status", req.Status, "reviewer_id", claims.UserID)
	response.SuccessWithMessage(w, "Signup request updated successfully", resp)
}
