package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusPending   SalaryStatus = "pending"
	SalaryStatusProcessed SalaryStatus = "processed"
	SalaryStatusPaid      SalaryStatus = "paid"
)

// SalaryRecord is the stored result of one employee's monthly calculation.
type SalaryRecord struct {
	ID          string
	EmployeeID  string
	Month       int
	Year        int
	BaseAmount  decimal.Decimal
	Deductions  decimal.Decimal
	Bonuses     decimal.Decimal
	OvertimePay decimal.Decimal
	NetAmount   decimal.Decimal
	Details     SalaryBreakdown
	Status      SalaryStatus
	ProcessedAt *time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

// Apply overwrites the computed fields from b and marks the record processed.
func (r *SalaryRecord) Apply(b SalaryBreakdown, at time.Time) {
	r.EmployeeID = b.EmployeeID
	r.Month = b.Month
	r.Year = b.Year
	r.BaseAmount = b.BaseSalary
	r.Deductions = b.Deductions.Total
	r.Bonuses = b.Bonuses.Total
	r.OvertimePay = b.Overtime.Pay
	r.NetAmount = b.NetSalary
	r.Details = b
	r.Status = SalaryStatusProcessed
	r.ProcessedAt = &at
	r.PaidAt = nil
}

// SalaryBreakdown is the full result of a calculation. It is stored as the record's
// details.
type SalaryBreakdown struct {
	EmployeeID         string                   `json:"employee_id"`
	Month              int                      `json:"month"`
	Year               int                      `json:"year"`
	BaseSalary         decimal.Decimal          `json:"base_salary"`
	StandardDailyHours decimal.Decimal          `json:"standard_daily_hours"`
	HourlyRate         decimal.Decimal          `json:"hourly_rate"`
	PerMinuteRate      decimal.Decimal          `json:"per_minute_rate"`
	WorkingDays        int                      `json:"working_days"`
	Deductions         DeductionBreakdown       `json:"deductions"`
	Bonuses            BonusBreakdown           `json:"bonuses"`
	Overtime           OvertimeBreakdown        `json:"overtime"`
	TaxableIncome      decimal.Decimal          `json:"taxable_income"`
	NetSalary          decimal.Decimal          `json:"net_salary"`
	Attendance         attendance.PeriodSummary `json:"attendance"`
	Leave              leave.Summary            `json:"leave"`
}

type DeductionBreakdown struct {
	Late           decimal.Decimal `json:"late"`
	EarlyDeparture decimal.Decimal `json:"early_departure"`
	Attendance     decimal.Decimal `json:"attendance"`
	Leave          decimal.Decimal `json:"leave"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

type BonusBreakdown struct {
	Attendance  decimal.Decimal `json:"attendance"`
	Punctuality decimal.Decimal `json:"punctuality"`
	Performance decimal.Decimal `json:"performance"`
	Total       decimal.Decimal `json:"total"`
}

type OvertimeBreakdown struct {
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Pay        decimal.Decimal `json:"pay"`
}

// BatchItemStatus tags one employee's outcome in a batch run.
type BatchItemStatus string

const (
	BatchItemProcessed BatchItemStatus = "processed"
	BatchItemSkipped   BatchItemStatus = "skipped"
	BatchItemError     BatchItemStatus = "error"
)

type BatchItem struct {
	EmployeeID string           `json:"employee_id"`
	Name       string           `json:"name"`
	Status     BatchItemStatus  `json:"status"`
	NetAmount  *decimal.Decimal `json:"net_amount,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// BatchResult summarizes a monthly generation run.
type BatchResult struct {
	Month     int         `json:"month"`
	Year      int         `json:"year"`
	Total     int         `json:"total"`
	Processed int         `json:"processed"`
	Skipped   int         `json:"skipped"`
	Errors    int         `json:"errors"`
	Details   []BatchItem `json:"details"`
}

// DepartmentSalaryStats sums salary records per department for one month.
type DepartmentSalaryStats struct {
	DepartmentID    string          `json:"department_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	EmployeeCount   int             `json:"employee_count"`
	TotalBase       decimal.Decimal `json:"total_base"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalNet        decimal.Decimal `json:"total_net"`
	AverageNet      decimal.Decimal `json:"average_net"`
}
