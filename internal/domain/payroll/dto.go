package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// PeriodRequest identifies one employee (optional) and one month.
type PeriodRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *PeriodRequest) Validate(requireEmployee bool) error {
	var errs validator.ValidationErrors

	if requireEmployee && validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < 2000 || r.Year > 9999 {
		errs.Add("year", "year must be between 2000 and 9999")
	}

	return errs.Err()
}

type SalaryRecordFilter struct {
	EmployeeID   *string
	DepartmentID *string
	Month        *int
	Year         *int
	Status       *SalaryStatus
}

func (f *SalaryRecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Status != nil {
		valid := []string{string(SalaryStatusPending), string(SalaryStatusProcessed), string(SalaryStatusPaid)}
		if !validator.IsInSlice(string(*f.Status), valid) {
			errs.Add("status", "status must be one of: pending, processed, paid")
		}
	}

	return errs.Err()
}

type SalaryRecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	Deductions   decimal.Decimal `json:"deductions"`
	Bonuses      decimal.Decimal `json:"bonuses"`
	OvertimePay  decimal.Decimal `json:"overtime_pay"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	Details      SalaryBreakdown `json:"details"`
	Status       SalaryStatus    `json:"status"`
	ProcessedAt  *string         `json:"processed_at,omitempty"`
	PaidAt       *string         `json:"paid_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func NewSalaryRecordResponse(r SalaryRecord) SalaryRecordResponse {
	return SalaryRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Month:        r.Month,
		Year:         r.Year,
		BaseAmount:   r.BaseAmount,
		Deductions:   r.Deductions,
		Bonuses:      r.Bonuses,
		OvertimePay:  r.OvertimePay,
		NetAmount:    r.NetAmount,
		Details:      r.Details,
		Status:       r.Status,
		ProcessedAt:  timePtrToString(r.ProcessedAt),
		PaidAt:       timePtrToString(r.PaidAt),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}
