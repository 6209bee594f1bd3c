package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	loc          *time.Location
}

func NewLeaveHandler(leaveService leave.LeaveService, loc *time.Location) LeaveHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &leaveHandlerImpl{leaveService: leaveService, loc: loc}
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode leave request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.NewLeaveRequestResponse(result))
}

// Update implements LeaveHandler.
func (h *leaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.UpdateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode leave update", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.EmployeeID = employeeID

	result, err := h.leaveService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", leave.NewLeaveRequestResponse(result))
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leave.NewLeaveRequestResponse(result))
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.Approve(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", leave.NewLeaveRequestResponse(result))
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.RejectLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode rejection", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = principal.UserID

	result, err := h.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leave.NewLeaveRequestResponse(result))
}

// Get implements LeaveHandler.
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !principal.CanAccessEmployee(result.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponse(result))
}

// Summary implements LeaveHandler.
func (h *leaveHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if !principal.CanAccessEmployee(employeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	var errs validator.ValidationErrors
	start, ok := validator.IsValidDateIn(r.URL.Query().Get("start"), h.loc)
	if !ok {
		errs.Add("start", "start must be in YYYY-MM-DD format")
	}
	end, ok := validator.IsValidDateIn(r.URL.Query().Get("end"), h.loc)
	if !ok {
		errs.Add("end", "end must be in YYYY-MM-DD format")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.leaveService.Summary(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewSummaryResponse(summary))
}
