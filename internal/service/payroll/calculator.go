package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	attendancesvc "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	leavesvc "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	"github.com/shopspring/decimal"
)

const (
	// Fallback divisor for a monthly salary without an hourly rate: 22 days of 8 hours.
	standardMonthDays  = 22
	standardDayHours   = 8
	minutesPerHour     = 60
	highAttendanceRate = "0.95"
)

var (
	perfectAttendanceBonusRate = decimal.RequireFromString("0.05")
	highAttendanceBonusRate    = decimal.RequireFromString("0.02")
	punctualityBonusRate       = decimal.RequireFromString("0.01")
	sixty                      = decimal.NewFromInt(minutesPerHour)
)

// CalculationInput bundles everything one employee's monthly calculation reads.
// Schedule may be nil, in which case an 8 hour standard day is assumed.
type CalculationInput struct {
	EmployeeID string
	Month      int
	Year       int
	Policy     payroll.PayPolicy
	Profile    *employee.Profile
	Schedule   *schedule.WorkSchedule
	Events     []attendance.Attendance
	Leaves     []leave.LeaveRequest
}

// Calculator turns a CalculationInput into a SalaryBreakdown. It holds no state
// besides its clock and location, so repeated calls with the same input give the
// same result.
type Calculator struct {
	now func() time.Time
	loc *time.Location
}

func NewCalculator(loc *time.Location, now func() time.Time) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now, loc: loc}
}

// CheckPeriod rejects months that have not started or not yet ended.
func (c *Calculator) CheckPeriod(month, year int) (calendar.Period, error) {
	period := calendar.MonthPeriod(year, time.Month(month), c.loc)
	now := c.now().In(c.loc)

	if period.Start.After(now) {
		return calendar.Period{}, payroll.ErrPeriodInFuture
	}
	if now.Before(period.NextStart()) {
		return calendar.Period{}, payroll.ErrPeriodNotClosed
	}
	return period, nil
}

func (c *Calculator) Calculate(in CalculationInput) (payroll.SalaryBreakdown, error) {
	if in.Profile == nil {
		return payroll.SalaryBreakdown{}, payroll.ErrEmployeeProfileMissing
	}

	period, err := c.CheckPeriod(in.Month, in.Year)
	if err != nil {
		return payroll.SalaryBreakdown{}, err
	}

	if err := in.Policy.Validate(); err != nil {
		return payroll.SalaryBreakdown{}, fmt.Errorf("%w: %v", payroll.ErrInvalidPolicy, err)
	}

	profile := *in.Profile
	base := profile.BaseSalary.Round(2)
	standardHours := standardDailyHours(in.Schedule)
	perMinute, hourly := rates(profile)

	events := c.eventsInPeriod(in.Events, period)
	attendanceSummary := attendancesvc.Summarize(in.EmployeeID, period.Start, period.End, events)
	leaveSummary := leavesvc.Summarize(in.EmployeeID, period.Start, period.End, in.Leaves)
	workingDays := period.WorkingDays()

	b := payroll.SalaryBreakdown{
		EmployeeID:         in.EmployeeID,
		Month:              in.Month,
		Year:               in.Year,
		BaseSalary:         base,
		StandardDailyHours: standardHours.Round(2),
		HourlyRate:         hourly.Round(2),
		PerMinuteRate:      perMinute.Round(4),
		WorkingDays:        workingDays,
		Attendance:         attendanceSummary,
		Leave:              leaveSummary,
	}

	// Attendance deductions
	late, early := decimal.Zero, decimal.Zero
	for _, e := range events {
		if e.LateMinutes > 0 {
			late = late.Add(deduction(in.Policy.LateDeduction, e.LateMinutes, perMinute, hourly))
		}
		if e.EarlyMinutes > 0 {
			early = early.Add(deduction(in.Policy.EarlyDepartureDeduction, e.EarlyMinutes, perMinute, hourly))
		}
	}

	// Leave deductions
	leaveDeduction := decimal.Zero
	if leaveSummary.Unpaid > 0 && workingDays > 0 {
		leaveDeduction = decimal.NewFromInt(int64(leaveSummary.Unpaid)).
			Mul(base).
			Div(decimal.NewFromInt(int64(workingDays)))
	}

	if !in.Policy.DeductionsEnabled {
		late, early, leaveDeduction = decimal.Zero, decimal.Zero, decimal.Zero
	}

	b.Deductions.Late = late.Round(2)
	b.Deductions.EarlyDeparture = early.Round(2)
	b.Deductions.Attendance = b.Deductions.Late.Add(b.Deductions.EarlyDeparture)
	b.Deductions.Leave = leaveDeduction.Round(2)

	// Overtime
	multiplier := in.Policy.OvertimeMultiplier
	overtimeHours := decimal.Zero
	for _, e := range events {
		if e.IsOpen() {
			continue
		}
		worked := decimal.NewFromInt(int64(e.Worked() / time.Minute)).Div(sixty)
		if worked.GreaterThan(standardHours) {
			overtimeHours = overtimeHours.Add(worked.Sub(standardHours))
		}
	}
	b.Overtime = payroll.OvertimeBreakdown{
		Hours:      overtimeHours.Round(2),
		HourlyRate: hourly.Round(2),
		Multiplier: multiplier,
		Pay:        overtimeHours.Mul(hourly).Mul(multiplier).Round(2),
	}

	// Bonuses
	if in.Policy.BonusesEnabled {
		b.Bonuses.Attendance, b.Bonuses.Punctuality = attendanceBonus(base, attendanceSummary)
	} else {
		b.Bonuses.Attendance, b.Bonuses.Punctuality = decimal.Zero, decimal.Zero
	}
	b.Bonuses.Performance = decimal.Zero
	b.Bonuses.Total = b.Bonuses.Attendance.Add(b.Bonuses.Punctuality).Add(b.Bonuses.Performance)

	// Tax
	b.TaxableIncome = base.Add(b.Overtime.Pay).Add(b.Bonuses.Total)
	tax, err := CalculateTax(b.TaxableIncome, in.Policy)
	if err != nil {
		return payroll.SalaryBreakdown{}, err
	}
	b.Deductions.Tax = tax
	b.Deductions.Total = b.Deductions.Attendance.Add(b.Deductions.Leave).Add(b.Deductions.Tax)

	b.NetSalary = base.Sub(b.Deductions.Total).Add(b.Bonuses.Total).Add(b.Overtime.Pay)

	return b, nil
}

// eventsInPeriod keeps the sessions whose work date lies in the period, ordered by
// check-in.
func (c *Calculator) eventsInPeriod(events []attendance.Attendance, period calendar.Period) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(events))
	for _, e := range events {
		if period.Contains(calendar.DateIn(e.WorkDate, c.loc)) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func standardDailyHours(ws *schedule.WorkSchedule) decimal.Decimal {
	if ws == nil {
		return decimal.NewFromInt(standardDayHours)
	}
	return ws.StandardHours()
}

// rates returns the per-minute and hourly rates. Without an explicit hourly rate the
// base salary is spread over a standard month.
func rates(p employee.Profile) (perMinute, hourly decimal.Decimal) {
	if p.HasHourlyRate() {
		return p.HourlyRate.Div(sixty), *p.HourlyRate
	}
	perMinute = p.BaseSalary.Div(decimal.NewFromInt(standardMonthDays * standardDayHours * minutesPerHour))
	return perMinute, perMinute.Mul(sixty)
}

func deduction(rule payroll.DeductionRule, minutes int, perMinute, hourly decimal.Decimal) decimal.Decimal {
	switch rule.Method {
	case payroll.DeductionMethodFixed:
		return rule.Amount
	case payroll.DeductionMethodHourly:
		startedHours := decimal.NewFromInt(int64((minutes + minutesPerHour - 1) / minutesPerHour))
		rate := hourly
		if rule.Amount.IsPositive() {
			rate = rule.Amount
		}
		return startedHours.Mul(rate)
	default:
		return decimal.NewFromInt(int64(minutes)).Mul(perMinute)
	}
}

// attendanceBonus pays 5% of base for a perfect month (every working day present,
// no late arrivals or early departures) or 2% for 95% attendance, plus 1% when the
// employee was present and never late.
func attendanceBonus(base decimal.Decimal, s attendance.PeriodSummary) (attendanceBonus, punctuality decimal.Decimal) {
	attendanceBonus, punctuality = decimal.Zero, decimal.Zero

	if s.TotalWorkingDays > 0 {
		present := decimal.NewFromInt(int64(s.PresentDays))
		threshold := decimal.NewFromInt(int64(s.TotalWorkingDays)).Mul(decimal.RequireFromString(highAttendanceRate))

		switch {
		case s.PresentDays >= s.TotalWorkingDays && s.LateArrivals == 0 && s.EarlyDepartures == 0:
			attendanceBonus = base.Mul(perfectAttendanceBonusRate)
		case present.GreaterThanOrEqual(threshold):
			attendanceBonus = base.Mul(highAttendanceBonusRate)
		}
	}

	if s.LateArrivals == 0 && s.PresentDays > 0 {
		punctuality = base.Mul(punctualityBonusRate)
	}

	return attendanceBonus.Round(2), punctuality.Round(2)
}
