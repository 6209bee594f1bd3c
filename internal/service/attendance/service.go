package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/lock"
	"github.com/google/uuid"
)

// Options tunes session handling.
type Options struct {
	GraceMinutes        int
	Location            *time.Location
	LockTimeout         time.Duration
	AutoCheckoutEnabled bool
	// AutoCheckoutClock is the wall clock (date ignored) stale sessions are closed at.
	AutoCheckoutClock time.Time
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.ProfileRepository
	schedule.WorkScheduleRepository
	locker lock.Locker
	opts   Options
	newID  func() string
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	profileRepo employee.ProfileRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	locker lock.Locker,
	opts Options,
) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 5 * time.Second
	}
	return &AttendanceServiceImpl{
		AttendanceRepository:   attendanceRepo,
		ProfileRepository:      profileRepo,
		WorkScheduleRepository: scheduleRepo,
		locker:                 locker,
		opts:                   opts,
		newID:                  newUUID,
	}
}

func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func sessionLockKey(employeeID string) string {
	return "attendance:session:" + employeeID
}

// lockEmployee serializes session changes for one employee. The wait is bounded by
// LockTimeout.
func (s *AttendanceServiceImpl) lockEmployee(ctx context.Context, employeeID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()

	release, err := s.locker.Acquire(lockCtx, sessionLockKey(employeeID))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: %v", attendance.ErrSessionBusy, err)
		}
		return nil, fmt.Errorf("failed to lock attendance session: %w", err)
	}
	return release, nil
}

func (s *AttendanceServiceImpl) activeProfile(ctx context.Context, employeeID string) (employee.Profile, error) {
	profile, err := s.ProfileRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Profile{}, err
	}
	if !profile.IsActive() {
		return employee.Profile{}, employee.ErrEmployeeInactive
	}
	return profile, nil
}

// scheduleFor returns the department's default schedule, or the built-in default.
func (s *AttendanceServiceImpl) scheduleFor(ctx context.Context, profile employee.Profile) (schedule.WorkSchedule, error) {
	if profile.DepartmentID == nil {
		return schedule.Default(), nil
	}
	ws, err := s.WorkScheduleRepository.GetDefaultForDepartment(ctx, *profile.DepartmentID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return schedule.Default(), nil
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return ws, nil
}

func (s *AttendanceServiceImpl) classify(ws schedule.WorkSchedule, checkIn time.Time, checkOut *time.Time) attendance.Classification {
	local := checkIn.In(s.opts.Location)
	return Classify(local, checkOut, ws.WindowOn(local), s.opts.GraceMinutes)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	profile, err := s.activeProfile(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	release, err := s.lockEmployee(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	defer release()

	local := at.In(s.opts.Location)
	workDate := calendar.DateOnly(local)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	ws, err := s.scheduleFor(ctx, profile)
	if err != nil {
		return attendance.Attendance{}, err
	}

	record := attendance.Attendance{
		ID:         s.newID(),
		EmployeeID: employeeID,
		WorkDate:   workDate,
		CheckIn:    local,
		CreatedAt:  local,
		UpdatedAt:  local,
	}
	s.classify(ws, local, nil).Apply(&record)

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_id", employeeID,
		"work_date", workDate.Format(calendar.DateLayout),
		"late_minutes", created.LateMinutes,
		"status", created.Status)

	return created, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, at time.Time) (attendance.Attendance, error) {
	profile, err := s.ProfileRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	release, err := s.lockEmployee(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	defer release()

	open, err := s.AttendanceRepository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	local := at.In(s.opts.Location)
	if !local.After(open.CheckIn) {
		return attendance.Attendance{}, attendance.ErrInvalidCheckOut
	}

	ws, err := s.scheduleFor(ctx, profile)
	if err != nil {
		return attendance.Attendance{}, err
	}

	open.CheckOut = &local
	open.UpdatedAt = local
	s.classify(ws, open.CheckIn, open.CheckOut).Apply(&open)

	if err := s.AttendanceRepository.Update(ctx, open); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("Employee checked out",
		"employee_id", employeeID,
		"attendance_id", open.ID,
		"early_departure_minutes", open.EarlyMinutes,
		"status", open.Status)

	return open, nil
}

// Correct implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Correct(ctx context.Context, req attendance.CorrectionRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	// The first read only finds whose lock to take.
	owner, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	release, err := s.lockEmployee(ctx, owner.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	defer release()

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	checkIn := req.CheckInTime.In(s.opts.Location)
	workDate := calendar.DateOnly(checkIn)
	if !calendar.SameDate(workDate, record.WorkDate) {
		other, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, record.EmployeeID, workDate)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to check existing attendance: %w", err)
		}
		if other != nil && other.ID != record.ID {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}

	var checkOut *time.Time
	if req.CheckOutTime != nil {
		out := req.CheckOutTime.In(s.opts.Location)
		checkOut = &out
	}

	profile, err := s.ProfileRepository.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	ws, err := s.scheduleFor(ctx, profile)
	if err != nil {
		return attendance.Attendance{}, err
	}

	record.WorkDate = workDate
	record.CheckIn = checkIn
	record.CheckOut = checkOut
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	record.UpdatedAt = time.Now().In(s.opts.Location)
	s.classify(ws, checkIn, checkOut).Apply(&record)

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("Attendance corrected", "attendance_id", record.ID, "employee_id", record.EmployeeID)
	return record, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.Attendance, error) {
	return s.AttendanceRepository.GetByID(ctx, id)
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, employeeID string, start, end time.Time) (attendance.PeriodSummary, error) {
	if end.Before(start) {
		return attendance.PeriodSummary{}, attendance.ErrInvalidPeriod
	}
	if _, err := s.ProfileRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.PeriodSummary{}, err
	}

	events, err := s.AttendanceRepository.ListByEmployeeAndPeriod(ctx, employeeID, start, end)
	if err != nil {
		return attendance.PeriodSummary{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return Summarize(employeeID, start, end, events), nil
}

// DepartmentReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DepartmentReport(ctx context.Context, departmentID string, start, end time.Time) (attendance.DepartmentReport, error) {
	if end.Before(start) {
		return attendance.DepartmentReport{}, attendance.ErrInvalidPeriod
	}

	profiles, err := s.ProfileRepository.ListByDepartment(ctx, departmentID)
	if err != nil {
		return attendance.DepartmentReport{}, fmt.Errorf("failed to list department employees: %w", err)
	}

	summaries := make([]attendance.PeriodSummary, 0, len(profiles))
	for _, p := range profiles {
		events, err := s.AttendanceRepository.ListByEmployeeAndPeriod(ctx, p.EmployeeID, start, end)
		if err != nil {
			return attendance.DepartmentReport{}, fmt.Errorf("failed to list attendance for %s: %w", p.EmployeeID, err)
		}
		summaries = append(summaries, Summarize(p.EmployeeID, start, end, events))
	}

	return BuildDepartmentReport(departmentID, start, end, summaries), nil
}

// AutoCloseOpenSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoCloseOpenSessions(ctx context.Context, now time.Time) (int, error) {
	if !s.opts.AutoCheckoutEnabled {
		return 0, nil
	}

	today := calendar.DateOnly(now.In(s.opts.Location))
	stale, err := s.AttendanceRepository.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	closed := 0
	for _, snapshot := range stale {
		ok, err := s.autoClose(ctx, snapshot)
		if err != nil {
			slog.Error("Failed to auto-close attendance",
				"attendance_id", snapshot.ID,
				"employee_id", snapshot.EmployeeID,
				"error", err)
			continue
		}
		if ok {
			closed++
		}
	}

	return closed, nil
}

// autoClose closes the session if it is still open once the employee lock is held.
// It reports false when a check-out landed after the sweep listed the session.
func (s *AttendanceServiceImpl) autoClose(ctx context.Context, snapshot attendance.Attendance) (bool, error) {
	release, err := s.lockEmployee(ctx, snapshot.EmployeeID)
	if err != nil {
		return false, err
	}
	defer release()

	session, err := s.AttendanceRepository.GetByID(ctx, snapshot.ID)
	if err != nil {
		return false, err
	}
	if !session.IsOpen() {
		return false, nil
	}

	y, m, d := session.WorkDate.Date()
	clock := s.opts.AutoCheckoutClock
	checkOut := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, s.opts.Location)
	if !checkOut.After(session.CheckIn) {
		checkOut = time.Date(y, m, d, 23, 59, 0, 0, s.opts.Location)
		if !checkOut.After(session.CheckIn) {
			return false, attendance.ErrInvalidCheckOut
		}
	}

	profile, err := s.ProfileRepository.GetByID(ctx, session.EmployeeID)
	if err != nil {
		return false, err
	}
	ws, err := s.scheduleFor(ctx, profile)
	if err != nil {
		return false, err
	}

	note := "auto-closed: no check-out recorded"
	session.CheckOut = &checkOut
	session.Notes = &note
	session.UpdatedAt = time.Now().In(s.opts.Location)
	s.classify(ws, session.CheckIn, session.CheckOut).Apply(&session)

	if err := s.AttendanceRepository.Update(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}
