package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// Options tunes the payroll service.
type Options struct {
	Location *time.Location
	// Concurrency bounds how many employees a batch run calculates at once.
	Concurrency int
	// DefaultPolicy is used until a policy has been saved.
	DefaultPolicy payroll.PayPolicy
	Now           func() time.Time
}

type PayrollServiceImpl struct {
	tx database.Transactor
	payroll.SalaryRecordRepository
	payroll.PolicyRepository
	employee.ProfileRepository
	schedule.WorkScheduleRepository
	attendance.AttendanceRepository
	leave.LeaveRequestRepository
	calculator    *Calculator
	defaultPolicy payroll.PayPolicy
	concurrency   int
	now           func() time.Time
	newID         func() string
}

func NewPayrollService(
	tx database.Transactor,
	salaryRecordRepo payroll.SalaryRecordRepository,
	policyRepo payroll.PolicyRepository,
	profileRepo employee.ProfileRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	opts Options,
) payroll.PayrollService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultBatchConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PayrollServiceImpl{
		tx:                     tx,
		SalaryRecordRepository: salaryRecordRepo,
		PolicyRepository:       policyRepo,
		ProfileRepository:      profileRepo,
		WorkScheduleRepository: scheduleRepo,
		AttendanceRepository:   attendanceRepo,
		LeaveRequestRepository: leaveRequestRepo,
		calculator:             NewCalculator(opts.Location, opts.Now),
		defaultPolicy:          opts.DefaultPolicy,
		concurrency:            opts.Concurrency,
		now:                    opts.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// policy returns the stored policy, or the configured default when none is stored.
func (s *PayrollServiceImpl) policy(ctx context.Context) (payroll.PayPolicy, error) {
	p, err := s.PolicyRepository.Get(ctx)
	if err != nil {
		if errors.Is(err, payroll.ErrPolicyNotFound) {
			return s.defaultPolicy, nil
		}
		return payroll.PayPolicy{}, fmt.Errorf("failed to get pay policy: %w", err)
	}
	return p, nil
}

// buildInput gathers everything the calculator needs for one employee.
func (s *PayrollServiceImpl) buildInput(ctx context.Context, employeeID string, month, year int, policy payroll.PayPolicy) (CalculationInput, error) {
	in := CalculationInput{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Policy:     policy,
	}

	profile, err := s.ProfileRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return in, nil // reported by the calculator
		}
		return in, fmt.Errorf("failed to get employee profile: %w", err)
	}
	in.Profile = &profile

	if profile.DepartmentID != nil {
		ws, err := s.WorkScheduleRepository.GetDefaultForDepartment(ctx, *profile.DepartmentID)
		switch {
		case err == nil:
			in.Schedule = &ws
		case !errors.Is(err, schedule.ErrWorkScheduleNotFound):
			return in, fmt.Errorf("failed to get work schedule: %w", err)
		}
	}

	period, err := s.calculator.CheckPeriod(month, year)
	if err != nil {
		return in, err
	}

	in.Events, err = s.AttendanceRepository.ListByEmployeeAndPeriod(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return in, fmt.Errorf("failed to list attendance: %w", err)
	}

	in.Leaves, err = s.LeaveRequestRepository.ListApprovedOverlapping(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return in, fmt.Errorf("failed to list approved leave: %w", err)
	}

	return in, nil
}

func (s *PayrollServiceImpl) calculate(ctx context.Context, employeeID string, month, year int, policy payroll.PayPolicy) (payroll.SalaryBreakdown, error) {
	in, err := s.buildInput(ctx, employeeID, month, year, policy)
	if err != nil {
		return payroll.SalaryBreakdown{}, err
	}
	return s.calculator.Calculate(in)
}

// CalculateSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateSalary(ctx context.Context, employeeID string, month, year int) (payroll.SalaryBreakdown, error) {
	req := payroll.PeriodRequest{EmployeeID: employeeID, Month: month, Year: year}
	if err := req.Validate(true); err != nil {
		return payroll.SalaryBreakdown{}, err
	}

	policy, err := s.policy(ctx)
	if err != nil {
		return payroll.SalaryBreakdown{}, err
	}
	return s.calculate(ctx, employeeID, month, year, policy)
}

// GenerateMonthlySalaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateMonthlySalaries(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	req := payroll.PeriodRequest{Month: month, Year: year}
	if err := req.Validate(false); err != nil {
		return payroll.BatchResult{}, err
	}

	if _, err := s.calculator.CheckPeriod(month, year); err != nil {
		return payroll.BatchResult{}, err
	}

	policy, err := s.policy(ctx)
	if err != nil {
		return payroll.BatchResult{}, err
	}
	if err := policy.Validate(); err != nil {
		return payroll.BatchResult{}, fmt.Errorf("%w: %v", payroll.ErrInvalidPolicy, err)
	}

	profiles, err := s.ProfileRepository.ListActive(ctx)
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	result := payroll.BatchResult{
		Month:   month,
		Year:    year,
		Total:   len(profiles),
		Details: make([]payroll.BatchItem, len(profiles)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for i, profile := range profiles {
		g.Go(func() error {
			item := s.generateOne(ctx, profile, month, year, policy)

			mu.Lock()
			defer mu.Unlock()
			result.Details[i] = item
			switch item.Status {
			case payroll.BatchItemProcessed:
				result.Processed++
			case payroll.BatchItemSkipped:
				result.Skipped++
			default:
				result.Errors++
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Monthly salaries generated",
		"month", month,
		"year", year,
		"total", result.Total,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"errors", result.Errors)

	return result, nil
}

// generateOne calculates and stores one employee's record. Failures are reported in
// the returned item, never returned.
func (s *PayrollServiceImpl) generateOne(ctx context.Context, profile employee.Profile, month, year int, policy payroll.PayPolicy) payroll.BatchItem {
	item := payroll.BatchItem{EmployeeID: profile.EmployeeID, Name: profile.Name}

	fail := func(err error) payroll.BatchItem {
		slog.Error("Failed to generate salary record",
			"employee_id", profile.EmployeeID,
			"month", month,
			"year", year,
			"error", err)
		item.Status = payroll.BatchItemError
		item.Message = err.Error()
		return item
	}

	existing, err := s.SalaryRecordRepository.GetByEmployeePeriod(ctx, profile.EmployeeID, month, year)
	if err != nil {
		return fail(fmt.Errorf("failed to check existing salary record: %w", err))
	}
	if existing != nil {
		item.Status = payroll.BatchItemSkipped
		item.Message = payroll.ErrSalaryRecordExists.Error()
		return item
	}

	breakdown, err := s.calculate(ctx, profile.EmployeeID, month, year, policy)
	if err != nil {
		return fail(err)
	}

	now := s.now()
	record := payroll.SalaryRecord{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	record.Apply(breakdown, now)

	created, err := s.SalaryRecordRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, payroll.ErrSalaryRecordExists) {
			item.Status = payroll.BatchItemSkipped
			item.Message = err.Error()
			return item
		}
		return fail(fmt.Errorf("failed to create salary record: %w", err))
	}

	net := created.NetAmount
	item.Status = payroll.BatchItemProcessed
	item.NetAmount = &net
	return item
}

// RecalculateSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) RecalculateSalary(ctx context.Context, employeeID string, month, year int) (payroll.SalaryRecord, error) {
	req := payroll.PeriodRequest{EmployeeID: employeeID, Month: month, Year: year}
	if err := req.Validate(true); err != nil {
		return payroll.SalaryRecord{}, err
	}

	policy, err := s.policy(ctx)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}

	var saved payroll.SalaryRecord
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		breakdown, err := s.calculate(txCtx, employeeID, month, year, policy)
		if err != nil {
			return err
		}

		existing, err := s.SalaryRecordRepository.GetByEmployeePeriod(txCtx, employeeID, month, year)
		if err != nil {
			return fmt.Errorf("failed to check existing salary record: %w", err)
		}

		now := s.now()
		if existing == nil {
			record := payroll.SalaryRecord{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
			record.Apply(breakdown, now)
			saved, err = s.SalaryRecordRepository.Create(txCtx, record)
			if err != nil {
				return fmt.Errorf("failed to create salary record: %w", err)
			}
			return nil
		}

		record := *existing
		record.Apply(breakdown, now)
		record.UpdatedAt = now
		if err := s.SalaryRecordRepository.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update salary record: %w", err)
		}
		saved = record
		return nil
	})
	if err != nil {
		return payroll.SalaryRecord{}, err
	}

	slog.Info("Salary recalculated",
		"salary_record_id", saved.ID,
		"employee_id", employeeID,
		"month", month,
		"year", year,
		"net_amount", saved.NetAmount.String())

	return saved, nil
}

// transition moves a record from one status to the next.
func (s *PayrollServiceImpl) transition(ctx context.Context, id string, from, to payroll.SalaryStatus) (payroll.SalaryRecord, error) {
	var updated payroll.SalaryRecord
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		record, err := s.SalaryRecordRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if record.Status != from {
			return fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusChange, record.Status, to)
		}

		now := s.now()
		record.Status = to
		record.UpdatedAt = now
		switch to {
		case payroll.SalaryStatusProcessed:
			record.ProcessedAt = &now
		case payroll.SalaryStatusPaid:
			record.PaidAt = &now
		}

		if err := s.SalaryRecordRepository.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update salary record: %w", err)
		}
		updated = record
		return nil
	})
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	return updated, nil
}

// MarkProcessed implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkProcessed(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	return s.transition(ctx, id, payroll.SalaryStatusPending, payroll.SalaryStatusProcessed)
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	record, err := s.transition(ctx, id, payroll.SalaryStatusProcessed, payroll.SalaryStatusPaid)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	slog.Info("Salary marked paid", "salary_record_id", id, "employee_id", record.EmployeeID)
	return record, nil
}

// GetSalaryRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSalaryRecord(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	return s.SalaryRecordRepository.GetByID(ctx, id)
}

// ListSalaryRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSalaryRecords(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	records, err := s.SalaryRecordRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	return records, nil
}

// GetPolicy implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPolicy(ctx context.Context) (payroll.PayPolicy, error) {
	return s.policy(ctx)
}

// UpdatePolicy implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePolicy(ctx context.Context, policy payroll.PayPolicy) (payroll.PayPolicy, error) {
	if err := policy.Validate(); err != nil {
		return payroll.PayPolicy{}, err
	}

	policy.UpdatedAt = s.now()
	saved, err := s.PolicyRepository.Save(ctx, policy)
	if err != nil {
		return payroll.PayPolicy{}, fmt.Errorf("failed to save pay policy: %w", err)
	}

	slog.Info("Pay policy updated", "tax_method", saved.TaxMethod, "overtime_multiplier", saved.OvertimeMultiplier.String())
	return saved, nil
}

// GetDepartmentSalaryStats implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDepartmentSalaryStats(ctx context.Context, departmentID string, month, year int) (payroll.DepartmentSalaryStats, error) {
	req := payroll.PeriodRequest{Month: month, Year: year}
	if err := req.Validate(false); err != nil {
		return payroll.DepartmentSalaryStats{}, err
	}
	if validator.IsEmpty(departmentID) {
		return payroll.DepartmentSalaryStats{}, validator.ValidationErrors{{Field: "department_id", Message: "department_id is required"}}
	}

	stats, err := s.SalaryRecordRepository.DepartmentStats(ctx, departmentID, month, year)
	if err != nil {
		return payroll.DepartmentSalaryStats{}, fmt.Errorf("failed to get department salary stats: %w", err)
	}
	return stats, nil
}
