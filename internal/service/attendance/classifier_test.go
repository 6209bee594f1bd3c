package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, sec, 0, time.UTC)
}

func atPtr(hour, min int) *time.Time {
	t := at(hour, min, 0)
	return &t
}

var nineToFive = schedule.Window{Start: at(9, 0, 0), End: at(17, 0, 0)}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut *time.Time
		grace    int
		late     int
		early    int
		status   attendance.Status
		open     bool
	}{
		{"on time", at(8, 55, 0), atPtr(17, 0), 5, 0, 0, attendance.StatusOnTime, false},
		{"exactly at grace limit", at(9, 5, 0), atPtr(17, 30), 5, 0, 0, attendance.StatusOnTime, false},
		{"just past grace measures from start", at(9, 5, 1), atPtr(17, 0), 5, 5, 0, attendance.StatusLate, false},
		{"late ten minutes", at(9, 10, 0), atPtr(17, 0), 5, 10, 0, attendance.StatusLate, false},
		{"partial minutes floor", at(9, 10, 59), atPtr(17, 0), 5, 10, 0, attendance.StatusLate, false},
		{"early departure", at(9, 0, 0), atPtr(16, 30), 5, 0, 30, attendance.StatusEarlyDeparture, false},
		{"late and early", at(9, 10, 0), atPtr(16, 30), 5, 10, 30, attendance.StatusLateAndEarlyDeparture, false},
		{"open on time", at(9, 2, 0), nil, 5, 0, 0, attendance.StatusOnTime, true},
		{"open and late", at(9, 20, 0), nil, 5, 20, 0, attendance.StatusLate, true},
		{"zero grace", at(9, 1, 0), atPtr(17, 0), 0, 1, 0, attendance.StatusLate, false},
		{"negative grace treated as zero", at(9, 1, 0), atPtr(17, 0), -3, 1, 0, attendance.StatusLate, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.checkIn, c.checkOut, nineToFive, c.grace)
			assert.Equal(t, c.late, got.LateMinutes)
			assert.Equal(t, c.early, got.EarlyMinutes)
			assert.Equal(t, c.status, got.Status)
			assert.Equal(t, c.open, got.Open)
			assert.NotEqual(t, attendance.StatusAbsent, got.Status)
		})
	}
}

func TestClassify_NineTenInSixteenThirtyOut(t *testing.T) {
	in := Classify(at(9, 10, 0), nil, nineToFive, DefaultGraceMinutes)
	assert.Equal(t, 10, in.LateMinutes)
	assert.Equal(t, attendance.StatusLate, in.Status)

	out := Classify(at(9, 10, 0), atPtr(16, 30), nineToFive, DefaultGraceMinutes)
	assert.Equal(t, 10, out.LateMinutes)
	assert.Equal(t, 30, out.EarlyMinutes)
	assert.Equal(t, attendance.StatusLateAndEarlyDeparture, out.Status)
}
