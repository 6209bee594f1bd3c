package payroll

import (
	"context"
)

type SalaryRecordRepository interface {
	// Create fails with ErrSalaryRecordExists when a record for the same employee and
	// period is already stored.
	Create(ctx context.Context, record SalaryRecord) (SalaryRecord, error)
	GetByID(ctx context.Context, id string) (SalaryRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*SalaryRecord, error)
	Update(ctx context.Context, record SalaryRecord) error
	List(ctx context.Context, filter SalaryRecordFilter) ([]SalaryRecord, error)
	DepartmentStats(ctx context.Context, departmentID string, month, year int) (DepartmentSalaryStats, error)
}

type PolicyRepository interface {
	// Get returns ErrPolicyNotFound when no policy has been stored yet.
	Get(ctx context.Context) (PayPolicy, error)
	Save(ctx context.Context, policy PayPolicy) (PayPolicy, error)
}
