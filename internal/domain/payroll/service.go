package payroll

import "context"

type PayrollService interface {
	// CalculateSalary previews a breakdown without storing it.
	CalculateSalary(ctx context.Context, employeeID string, month, year int) (SalaryBreakdown, error)

	// GenerateMonthlySalaries creates records for every active employee lacking one.
	GenerateMonthlySalaries(ctx context.Context, month, year int) (BatchResult, error)

	// RecalculateSalary overwrites (or creates) the record and resets it to processed.
	RecalculateSalary(ctx context.Context, employeeID string, month, year int) (SalaryRecord, error)

	MarkProcessed(ctx context.Context, id string) (SalaryRecord, error)
	MarkPaid(ctx context.Context, id string) (SalaryRecord, error)

	GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error)
	ListSalaryRecords(ctx context.Context, filter SalaryRecordFilter) ([]SalaryRecord, error)

	GetPolicy(ctx context.Context) (PayPolicy, error)
	UpdatePolicy(ctx context.Context, policy PayPolicy) (PayPolicy, error)

	GetDepartmentSalaryStats(ctx context.Context, departmentID string, month, year int) (DepartmentSalaryStats, error)
}
