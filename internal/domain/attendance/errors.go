package attendance

import "errors"

// Attendance domain errors
var (
	// Session errors
	ErrAlreadyCheckedIn = errors.New("already checked in for this work date")
	ErrNoActiveSession  = errors.New("no active attendance session")
	ErrInvalidCheckOut  = errors.New("check-out must be after check-in")
	ErrSessionBusy      = errors.New("another attendance operation for this employee is in progress")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidPeriod      = errors.New("end date must not be before start date")
)
