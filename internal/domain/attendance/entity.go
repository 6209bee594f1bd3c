package attendance

import (
	"time"
)

type Status string

const (
	StatusOnTime                Status = "on_time"
	StatusLate                  Status = "late"
	StatusEarlyDeparture        Status = "early_departure"
	StatusLateAndEarlyDeparture Status = "late_and_early_departure"
	StatusAbsent                Status = "absent"
)

// Attendance is one check-in/check-out session. WorkDate is the local calendar day of
// the check-in.
type Attendance struct {
	ID           string
	EmployeeID   string
	WorkDate     time.Time
	CheckIn      time.Time
	CheckOut     *time.Time
	LateMinutes  int
	EarlyMinutes int
	Status       Status
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the session still waits for a check-out.
func (a Attendance) IsOpen() bool {
	return a.CheckOut == nil
}

// Worked returns the closed session length, or zero while the session is open.
func (a Attendance) Worked() time.Duration {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn)
}

// Classification is the outcome of comparing a session against its schedule window.
type Classification struct {
	LateMinutes  int
	EarlyMinutes int
	Status       Status
	Open         bool
}

// Apply copies the classification onto a.
func (c Classification) Apply(a *Attendance) {
	a.LateMinutes = c.LateMinutes
	a.EarlyMinutes = c.EarlyMinutes
	a.Status = c.Status
}

// PeriodSummary aggregates one employee's sessions over an inclusive date range.
type PeriodSummary struct {
	EmployeeID       string    `json:"employee_id"`
	StartDate        time.Time `json:"-"`
	EndDate          time.Time `json:"-"`
	TotalWorkingDays int       `json:"total_working_days"`
	PresentDays      int       `json:"present_days"`
	AbsentDays       int       `json:"absent_days"`
	LateArrivals     int       `json:"late_arrivals"`
	EarlyDepartures  int       `json:"early_departures"`
	TotalHoursWorked float64   `json:"total_hours_worked"`
	AttendanceRate   float64   `json:"attendance_rate"`
}

// DepartmentReport rolls employee summaries up to a department.
type DepartmentReport struct {
	DepartmentID          string
	StartDate             time.Time
	EndDate               time.Time
	EmployeeCount         int
	AverageAttendanceRate float64
	TotalLateArrivals     int
	TotalEarlyDepartures  int
	Employees             []PeriodSummary
}
