package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	loc            *time.Location
}

func NewPayrollJobs(payrollService payroll.PayrollService, loc *time.Location) *PayrollJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollJobs{payrollService: payrollService, loc: loc}
}

// RegisterJobs generates the previous month's salaries at 01:00 on the first day of
// each month. Existing records are skipped, so a repeated run is harmless.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "generate_monthly_salaries",
		Interval: time.Hour,
		Due:      MonthlyAt(1, 1, j.loc),
		Fn:       j.GeneratePreviousMonth,
	})
}

func (j *PayrollJobs) GeneratePreviousMonth(ctx context.Context, now time.Time) error {
	month, year := previousMonth(now.In(j.loc))

	slog.Info("Cron: Starting monthly salary generation", "month", month, "year", year)

	result, err := j.payrollService.GenerateMonthlySalaries(ctx, month, year)
	if err != nil {
		return fmt.Errorf("failed to generate salaries for %d-%02d: %w", year, month, err)
	}

	slog.Info("Cron: Monthly salary generation finished",
		"month", month,
		"year", year,
		"total", result.Total,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"errors", result.Errors)
	return nil
}

func previousMonth(t time.Time) (int, int) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prev := first.AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}
