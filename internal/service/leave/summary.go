package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
)

// Summarize totals approved leave working days per type, clipped to [start, end].
func Summarize(employeeID string, start, end time.Time, records []leave.LeaveRequest) leave.Summary {
	period := calendar.NewPeriod(start, end)
	loc := period.Start.Location()

	summary := leave.Summary{
		EmployeeID: employeeID,
		StartDate:  period.Start,
		EndDate:    period.End,
	}

	for _, r := range records {
		if r.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		span := calendar.Period{
			Start: calendar.DateIn(r.StartDate, loc),
			End:   calendar.DateIn(r.EndDate, loc),
		}
		clipped, ok := period.Clip(span)
		if !ok {
			continue
		}
		days := clipped.WorkingDays()

		switch r.LeaveType {
		case leave.LeaveTypeAnnual:
			summary.Annual += days
		case leave.LeaveTypeSick:
			summary.Sick += days
		case leave.LeaveTypePersonal:
			summary.Personal += days
		case leave.LeaveTypeUnpaid:
			summary.Unpaid += days
		}
	}

	summary.Paid = summary.Annual + summary.Sick + summary.Personal
	summary.Total = summary.Paid + summary.Unpaid
	return summary
}
