package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/liefcare/workforce-backend/internal/domain/employee"
	"github.com/liefcare/workforce-backend/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Department: getStringQueryParam(r, "department"),
		Role:       getStringQueryParam(r, "role"),
		Search:     getStringQueryParam(r, "search"),
	}

	if err := filter.Validate(); err != nil {
		slog.Error("ListEmployees validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		slog.Error("ListEmployees service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, employees, &response.Meta{TotalItems: int64(len(employees))})
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	emp, err := h.employeeService.GetEmployee(r.Context(), code)
	if err != nil {
		slog.Error("GetEmployee service error", "error", err, "employee_code", code)
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// CreateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		slog.Error("CreateEmployee validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	emp, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		slog.Error("CreateEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee created", "employee_code", emp.EmployeeCode)
	response.Created(w, "Employee created successfully", emp)
}

// UpdateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		slog.Error("UpdateEmployee validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	emp, err := h.employeeService.UpdateEmployee(r.Context(), code, req)
	if err != nil {
		slog.Error("UpdateEmployee service error", "error", err, "employee_code", code)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee updated", "employee_code", code)
	response.SuccessWithMessage(w, "Employee updated successfully", emp)
}

// DeleteEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.employeeService.DeleteEmployee(r.Context(), code); err != nil {
		slog.Error("DeleteEmployee service error", "error", err, "employee_code", code)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee deleted", "employee_code", code)
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// ResetPassword implements EmployeeHandler.
func (h *employeeHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req employee.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ResetPassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.employeeService.ResetPassword(r.Context(), code, req); err != nil {
		slog.Error("ResetPassword service error", "error", err, "employee_code", code)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee password reset", "employee_code", code)
	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}
