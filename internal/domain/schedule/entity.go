package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultStartClock   = "09:00"
	DefaultEndClock     = "17:00"
	DefaultBreakMinutes = 60
)

// WorkSchedule is a department's daily working window. StartTime and EndTime carry
// only a clock-of-day; their date part is ignored.
type WorkSchedule struct {
	ID           string
	DepartmentID *string
	Name         string
	StartTime    time.Time
	EndTime      time.Time
	BreakMinutes int
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Window is a schedule projected onto one calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Default returns the 09:00-17:00 schedule with a one hour break used when a
// department has none configured.
func Default() WorkSchedule {
	start, _ := ParseClock(DefaultStartClock)
	end, _ := ParseClock(DefaultEndClock)
	return WorkSchedule{
		Name:         "Default",
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: DefaultBreakMinutes,
		IsDefault:    true,
	}
}

// ParseClock parses an HH:MM value into a clock-of-day time.
func ParseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// WindowOn projects the schedule onto the calendar day of day, in day's location.
func (s WorkSchedule) WindowOn(day time.Time) Window {
	y, m, d := day.Date()
	loc := day.Location()
	return Window{
		Start: time.Date(y, m, d, s.StartTime.Hour(), s.StartTime.Minute(), 0, 0, loc),
		End:   time.Date(y, m, d, s.EndTime.Hour(), s.EndTime.Minute(), 0, 0, loc),
	}
}

// StandardHours is the scheduled working time per day minus the break, in hours.
func (s WorkSchedule) StandardHours() decimal.Decimal {
	start := s.StartTime.Hour()*60 + s.StartTime.Minute()
	end := s.EndTime.Hour()*60 + s.EndTime.Minute()
	return decimal.NewFromInt(int64(end - start - s.BreakMinutes)).Div(decimal.NewFromInt(60))
}
