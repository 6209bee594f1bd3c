package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens the employee's session for the work date of at.
	CheckIn(ctx context.Context, employeeID string, at time.Time) (Attendance, error)

	// CheckOut closes the employee's open session and finalizes its classification.
	CheckOut(ctx context.Context, employeeID string, at time.Time) (Attendance, error)

	// Correct rewrites a session's timestamps (admin) and reclassifies it.
	Correct(ctx context.Context, req CorrectionRequest) (Attendance, error)

	GetAttendance(ctx context.Context, id string) (Attendance, error)

	Summary(ctx context.Context, employeeID string, start, end time.Time) (PeriodSummary, error)

	DepartmentReport(ctx context.Context, departmentID string, start, end time.Time) (DepartmentReport, error)

	// AutoCloseOpenSessions closes sessions left open on days before now's work date.
	AutoCloseOpenSessions(ctx context.Context, now time.Time) (int, error)
}
