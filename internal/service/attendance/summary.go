package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize aggregates the sessions whose work date falls in [start, end]. Sessions
// sharing a work date count as one present day.
func Summarize(employeeID string, start, end time.Time, events []attendance.Attendance) attendance.PeriodSummary {
	period := calendar.NewPeriod(start, end)
	summary := attendance.PeriodSummary{
		EmployeeID:       employeeID,
		StartDate:        period.Start,
		EndDate:          period.End,
		TotalWorkingDays: period.WorkingDays(),
	}

	days := make(map[string]struct{}, len(events))
	workedMinutes := int64(0)
	for _, e := range events {
		workDate := calendar.DateIn(e.WorkDate, period.Start.Location())
		if !period.Contains(workDate) {
			continue
		}
		days[workDate.Format(calendar.DateLayout)] = struct{}{}

		if e.LateMinutes > 0 {
			summary.LateArrivals++
		}
		if e.EarlyMinutes > 0 {
			summary.EarlyDepartures++
		}
		if !e.IsOpen() {
			workedMinutes += int64(wholeMinutes(e.Worked()))
		}
	}

	summary.PresentDays = len(days)
	summary.AbsentDays = summary.TotalWorkingDays - summary.PresentDays
	summary.TotalHoursWorked = decimal.NewFromInt(workedMinutes).
		Div(decimal.NewFromInt(60)).Round(1).InexactFloat64()
	summary.AttendanceRate = attendanceRate(summary.PresentDays, summary.TotalWorkingDays)

	return summary
}

// attendanceRate is present/total as a percentage with one decimal, capped at 100
// so weekend sessions cannot push it over.
func attendanceRate(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(present)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(1)
	if rate.GreaterThan(hundred) {
		rate = hundred
	}
	return rate.InexactFloat64()
}

// BuildDepartmentReport averages the employees' attendance rates and totals their
// late arrivals and early departures.
func BuildDepartmentReport(departmentID string, start, end time.Time, summaries []attendance.PeriodSummary) attendance.DepartmentReport {
	period := calendar.NewPeriod(start, end)
	report := attendance.DepartmentReport{
		DepartmentID:  departmentID,
		StartDate:     period.Start,
		EndDate:       period.End,
		EmployeeCount: len(summaries),
		Employees:     summaries,
	}
	if len(summaries) == 0 {
		report.Employees = []attendance.PeriodSummary{}
		return report
	}

	rateSum := decimal.Zero
	for _, s := range summaries {
		rateSum = rateSum.Add(decimal.NewFromFloat(s.AttendanceRate))
		report.TotalLateArrivals += s.LateArrivals
		report.TotalEarlyDepartures += s.EarlyDepartures
	}
	report.AverageAttendanceRate = rateSum.Div(decimal.NewFromInt(int64(len(summaries)))).Round(1).InexactFloat64()

	return report
}
