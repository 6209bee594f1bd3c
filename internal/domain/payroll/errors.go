package payroll

import "errors"

var (
	// Calculation errors
	ErrEmployeeProfileMissing = errors.New("employee profile not found")
	ErrInvalidPolicy          = errors.New("invalid pay policy")
	ErrPeriodNotClosed        = errors.New("cannot calculate salaries before the month has ended")
	ErrPeriodInFuture         = errors.New("cannot calculate salaries for a future month")

	// Record errors
	ErrSalaryRecordNotFound = errors.New("salary record not found")
	ErrSalaryRecordExists   = errors.New("salary record already exists for this period")
	ErrInvalidStatusChange  = errors.New("invalid salary status transition")
	ErrPolicyNotFound       = errors.New("pay policy not found")
)
