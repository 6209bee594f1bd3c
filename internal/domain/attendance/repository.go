package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance sessions.
type AttendanceRepository interface {
	// Create inserts a session. A second session for the same employee and work date
	// fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no session on workDate.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Attendance, error)

	// GetOpenSession returns the latest session without a check-out, or ErrNoActiveSession.
	GetOpenSession(ctx context.Context, employeeID string) (Attendance, error)

	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployeeAndPeriod returns sessions whose work date is within [start, end],
	// ordered by check-in.
	ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// ListOpenBefore returns open sessions with a work date strictly before day.
	ListOpenBefore(ctx context.Context, day time.Time) ([]Attendance, error)
}
