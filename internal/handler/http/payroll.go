package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Policy
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)

	// Calculation
	Calculate(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)

	// Salary records
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	MarkProcessed(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Stats
	DepartmentStats(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// queryInt returns 0 for a missing or malformed value so request validation reports it.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryIntPtr(r *http.Request, key string) *int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		v = 0
	}
	return &v
}

// ========== POLICY ==========

func (h *payrollHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayPolicy
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode pay policy", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay policy updated", result)
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := payroll.PeriodRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      queryInt(r, "month"),
		Year:       queryInt(r, "year"),
	}
	if req.EmployeeID == "" {
		req.EmployeeID = principal.EmployeeID
	}
	if err := req.Validate(true); err != nil {
		response.HandleError(w, err)
		return
	}
	if !principal.CanAccessEmployee(req.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	result, err := h.payrollService.CalculateSalary(r.Context(), req.EmployeeID, req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode generate request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(false); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GenerateMonthlySalaries(r.Context(), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary generation finished", result)
}

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode recalculate request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(true); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.RecalculateSalary(r.Context(), req.EmployeeID, req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary recalculated", payroll.NewSalaryRecordResponse(result))
}

// ========== SALARY RECORDS ==========

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.SalaryRecordFilter{
		Month: queryIntPtr(r, "month"),
		Year:  queryIntPtr(r, "year"),
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if departmentID := r.URL.Query().Get("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := payroll.SalaryStatus(status)
		filter.Status = &s
	}

	// Employees only ever see their own records.
	if !principal.IsAdmin {
		if principal.EmployeeID == "" {
			response.HandleError(w, auth.ErrEmployeeClaimMissing)
			return
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != principal.EmployeeID {
			response.HandleError(w, auth.ErrForbidden)
			return
		}
		filter.EmployeeID = &principal.EmployeeID
		filter.DepartmentID = nil
	}

	records, err := h.payrollService.ListSalaryRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, payroll.NewSalaryRecordResponse(rec))
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetSalaryRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !principal.CanAccessEmployee(result.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	response.Success(w, payroll.NewSalaryRecordResponse(result))
}

func (h *payrollHandlerImpl) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkProcessed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record processed", payroll.NewSalaryRecordResponse(result))
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record paid", payroll.NewSalaryRecordResponse(result))
}

// ========== STATS ==========

func (h *payrollHandlerImpl) DepartmentStats(w http.ResponseWriter, r *http.Request) {
	departmentID := r.URL.Query().Get("department_id")
	if validator.IsEmpty(departmentID) {
		response.HandleError(w, validator.ValidationErrors{{Field: "department_id", Message: "department_id is required"}})
		return
	}

	result, err := h.payrollService.GetDepartmentSalaryStats(r.Context(), departmentID, queryInt(r, "month"), queryInt(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
