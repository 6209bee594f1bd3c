package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	DepartmentReport(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
		now:               time.Now,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), employeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", attendance.NewAttendanceResponse(result))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), employeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", attendance.NewAttendanceResponse(result))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !principal.CanAccessEmployee(result.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	response.Success(w, attendance.NewAttendanceResponse(result))
}

// Correct implements AttendanceHandler.
func (h *attendanceHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	var req attendance.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode correction request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Correct(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance corrected", attendance.NewAttendanceResponse(result))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := attendance.PeriodQuery{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  r.URL.Query().Get("start"),
		EndDate:    r.URL.Query().Get("end"),
	}
	if query.EmployeeID == "" {
		query.EmployeeID = principal.EmployeeID
	}
	if query.EmployeeID == "" {
		response.HandleError(w, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}})
		return
	}
	if !principal.CanAccessEmployee(query.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return
	}
	if err := query.Validate(h.loc); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.Summary(r.Context(), query.EmployeeID, query.Start, query.End)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewPeriodSummaryResponse(summary))
}

// DepartmentReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) DepartmentReport(w http.ResponseWriter, r *http.Request) {
	query := attendance.PeriodQuery{
		DepartmentID: r.URL.Query().Get("department_id"),
		StartDate:    r.URL.Query().Get("start"),
		EndDate:      r.URL.Query().Get("end"),
	}

	err := query.Validate(h.loc)
	if query.DepartmentID == "" {
		errs, _ := err.(validator.ValidationErrors)
		errs.Add("department_id", "department_id is required")
		err = errs
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.DepartmentReport(r.Context(), query.DepartmentID, query.Start, query.End)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDepartmentReportResponse(report))
}
