package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
)

// DefaultGraceMinutes is the check-in tolerance used when none is configured.
const DefaultGraceMinutes = 5

// Classify compares a session against its schedule window. Grace only decides
// whether the employee counts as late; the late minutes themselves are measured from
// the scheduled start. A nil checkOut leaves the session open with no early minutes.
func Classify(checkIn time.Time, checkOut *time.Time, window schedule.Window, graceMinutes int) attendance.Classification {
	if graceMinutes < 0 {
		graceMinutes = 0
	}

	c := attendance.Classification{Open: checkOut == nil}

	graceLimit := window.Start.Add(time.Duration(graceMinutes) * time.Minute)
	if checkIn.After(graceLimit) {
		c.LateMinutes = wholeMinutes(checkIn.Sub(window.Start))
	}

	if checkOut != nil && checkOut.Before(window.End) {
		c.EarlyMinutes = wholeMinutes(window.End.Sub(*checkOut))
	}

	c.Status = statusFor(c.LateMinutes > 0, c.EarlyMinutes > 0)
	return c
}

func statusFor(late, early bool) attendance.Status {
	switch {
	case late && early:
		return attendance.StatusLateAndEarlyDeparture
	case late:
		return attendance.StatusLate
	case early:
		return attendance.StatusEarlyDeparture
	default:
		return attendance.StatusOnTime
	}
}

func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
