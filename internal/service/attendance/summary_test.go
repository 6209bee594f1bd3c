package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func session(day int, inH, inM, outH, outM int, late, early int) attendance.Attendance {
	workDate := time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
	a := attendance.Attendance{
		EmployeeID:   "emp-1",
		WorkDate:     workDate,
		CheckIn:      workDate.Add(time.Duration(inH)*time.Hour + time.Duration(inM)*time.Minute),
		LateMinutes:  late,
		EarlyMinutes: early,
	}
	if outH >= 0 {
		out := workDate.Add(time.Duration(outH)*time.Hour + time.Duration(outM)*time.Minute)
		a.CheckOut = &out
	}
	return a
}

func TestSummarize(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

	events := []attendance.Attendance{
		session(3, 9, 0, 17, 0, 0, 0),
		session(4, 9, 10, 17, 0, 10, 0),
		session(5, 9, 0, 16, 30, 0, 30),
		session(6, 9, 0, -1, 0, 0, 0),
	}

	s := Summarize("emp-1", start, end, events)
	assert.Equal(t, 5, s.TotalWorkingDays)
	assert.Equal(t, 4, s.PresentDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.Equal(t, 1, s.LateArrivals)
	assert.Equal(t, 1, s.EarlyDepartures)
	// 8h + 7h50m + 7h30m
	assert.Equal(t, 23.3, s.TotalHoursWorked)
	assert.Equal(t, 80.0, s.AttendanceRate)
}

func TestSummarize_NoWorkingDays(t *testing.T) {
	sat := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)

	s := Summarize("emp-1", sat, sun, []attendance.Attendance{session(1, 10, 0, 12, 0, 0, 0)})
	assert.Equal(t, 0, s.TotalWorkingDays)
	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, -1, s.AbsentDays)
	assert.Equal(t, 0.0, s.AttendanceRate)
}

func TestSummarize_RateBounds(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

	var events []attendance.Attendance
	for day := 3; day <= 9; day++ {
		events = append(events, session(day, 9, 0, 17, 0, 0, 0))
	}

	s := Summarize("emp-1", start, end, events)
	assert.Equal(t, 5, s.TotalWorkingDays)
	assert.Equal(t, 7, s.PresentDays)
	assert.Equal(t, 100.0, s.AttendanceRate)
}

func TestSummarize_DedupesAndFiltersByPeriod(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	events := []attendance.Attendance{
		session(3, 9, 0, 12, 0, 0, 0),
		session(3, 13, 0, 17, 0, 0, 0),
		session(10, 9, 0, 17, 0, 0, 0),
	}

	s := Summarize("emp-1", start, end, events)
	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 7.0, s.TotalHoursWorked)
	assert.Equal(t, 33.3, s.AttendanceRate)
}

func TestBuildDepartmentReport(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

	report := BuildDepartmentReport("dept-1", start, end, []attendance.PeriodSummary{
		{EmployeeID: "a", AttendanceRate: 100, LateArrivals: 2, EarlyDepartures: 1},
		{EmployeeID: "b", AttendanceRate: 80, LateArrivals: 1},
		{EmployeeID: "c", AttendanceRate: 33.3},
	})

	assert.Equal(t, 3, report.EmployeeCount)
	assert.Equal(t, 71.1, report.AverageAttendanceRate)
	assert.Equal(t, 3, report.TotalLateArrivals)
	assert.Equal(t, 1, report.TotalEarlyDepartures)

	empty := BuildDepartmentReport("dept-2", start, end, nil)
	assert.Equal(t, 0, empty.EmployeeCount)
	assert.Equal(t, 0.0, empty.AverageAttendanceRate)
	assert.NotNil(t, empty.Employees)
}
