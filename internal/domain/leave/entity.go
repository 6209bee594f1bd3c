package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
)

type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeUnpaid   LeaveType = "unpaid"
)

var LeaveTypeValues = []string{
	string(LeaveTypeAnnual),
	string(LeaveTypeSick),
	string(LeaveTypePersonal),
	string(LeaveTypeUnpaid),
}

// Paid reports whether days of this type keep full pay.
func (t LeaveType) Paid() bool {
	return t != LeaveTypeUnpaid
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// LeaveRequest covers StartDate through EndDate inclusive. DurationDays counts the
// working days in that range.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	StartDate       time.Time
	EndDate         time.Time
	LeaveType       LeaveType
	Status          LeaveRequestStatus
	DurationDays    int
	Reason          string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r LeaveRequest) Period() calendar.Period {
	return calendar.NewPeriod(r.StartDate, r.EndDate)
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// RecomputeDuration refreshes DurationDays from the current dates.
func (r *LeaveRequest) RecomputeDuration() {
	r.DurationDays = calendar.WorkingDays(r.StartDate, r.EndDate)
}

// Summary holds approved leave working days per type within a period.
type Summary struct {
	EmployeeID string    `json:"employee_id"`
	StartDate  time.Time `json:"-"`
	EndDate    time.Time `json:"-"`
	Annual     int       `json:"annual"`
	Sick       int       `json:"sick"`
	Personal   int       `json:"personal"`
	Unpaid     int       `json:"unpaid"`
	Paid       int       `json:"paid"`
	Total      int       `json:"total"`
}
