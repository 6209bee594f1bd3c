package calendar

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Period is an inclusive range of calendar days. Start and End are truncated to
// midnight in the location they were built with.
type Period struct {
	Start time.Time
	End   time.Time
}

// DateOnly truncates t to midnight in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateIn keeps t's calendar date but places it at midnight in loc. Use it for values
// that are pure dates, such as scanned DATE columns.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDate reports whether a and b carry the same calendar date, ignoring location.
func SameDate(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NewPeriod builds a period from two instants, keeping only their dates.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: DateOnly(start), End: DateOnly(end.In(start.Location()))}
}

// MonthPeriod returns the first through last day of the given month in loc.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether the calendar day of t (seen in the period's location) is
// inside the period.
func (p Period) Contains(t time.Time) bool {
	day := DateOnly(t.In(p.Start.Location()))
	return !day.Before(p.Start) && !day.After(p.End)
}

// Overlaps reports whether the inclusive day ranges share at least one day.
func (p Period) Overlaps(o Period) bool {
	return !o.Start.After(p.End) && !o.End.Before(p.Start)
}

// Clip returns the intersection of p and o. ok is false when they do not overlap.
func (p Period) Clip(o Period) (Period, bool) {
	if !p.Overlaps(o) {
		return Period{}, false
	}
	clipped := p
	if o.Start.After(clipped.Start) {
		clipped.Start = o.Start
	}
	if o.End.Before(clipped.End) {
		clipped.End = o.End
	}
	return clipped, true
}

// WorkingDays counts the non-weekend days in the period, both ends included.
func (p Period) WorkingDays() int {
	return WorkingDays(p.Start, p.End)
}

// NextStart is midnight of the day after End.
func (p Period) NextStart() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// String renders the period as "start..end".
func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

// WorkingDays counts the non-weekend days between start and end inclusive. It
// returns 0 when end is before start.
func WorkingDays(start, end time.Time) int {
	current := DateOnly(start)
	last := DateOnly(end.In(start.Location()))

	days := 0
	for !current.After(last) {
		if !IsWeekend(current) {
			days++
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}
