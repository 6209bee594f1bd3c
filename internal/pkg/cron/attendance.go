package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{attendanceService: attendanceService}
}

// RegisterJobs sweeps stale sessions hourly. Sessions still open on an earlier work
// date are closed at the configured auto-checkout time.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "auto_close_open_attendances",
		Interval: time.Hour,
		Fn:       j.AutoCloseOpenSessions,
	})
}

func (j *AttendanceJobs) AutoCloseOpenSessions(ctx context.Context, now time.Time) error {
	closed, err := j.attendanceService.AutoCloseOpenSessions(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to auto-close attendances: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: Auto-closed open attendances", "count", closed)
	}
	return nil
}
