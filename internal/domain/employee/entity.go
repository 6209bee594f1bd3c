package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the pay-relevant view of an employee.
type Profile struct {
	EmployeeID   string
	Name         string
	DepartmentID *string
	BaseSalary   decimal.Decimal
	HourlyRate   *decimal.Decimal
	Status       EmploymentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

func (p Profile) IsActive() bool {
	return p.Status == EmploymentStatusActive
}

// HasHourlyRate reports whether an explicit, positive hourly rate is set.
func (p Profile) HasHourlyRate() bool {
	return p.HourlyRate != nil && p.HourlyRate.IsPositive()
}
