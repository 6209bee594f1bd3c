package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired),
		errors.Is(err, auth.ErrEmployeeClaimMissing),
		errors.Is(err, auth.ErrForbidden):
		Forbidden(w, err.Error())

	// Employee and schedule errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrSessionBusy):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidCheckOut),
		errors.Is(err, attendance.ErrInvalidPeriod):
		Unprocessable(w, err.Error())

	// Leave errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveNotPending),
		errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotLeaveOwner):
		Forbidden(w, err.Error())

	// Payroll errors
	case errors.Is(err, payroll.ErrSalaryRecordNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrEmployeeProfileMissing):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrSalaryRecordExists),
		errors.Is(err, payroll.ErrInvalidStatusChange):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPeriodNotClosed),
		errors.Is(err, payroll.ErrPeriodInFuture),
		errors.Is(err, payroll.ErrInvalidPolicy):
		Unprocessable(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
