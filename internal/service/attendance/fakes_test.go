package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
)

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	// createDelay widens the check-then-insert window in concurrency tests.
	createDelay time.Duration
	// onGetByID runs before each GetByID, outside the repo mutex.
	onGetByID func(id string)
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.EmployeeID == a.EmployeeID && calendar.SameDate(existing.WorkDate, a.WorkDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if r.onGetByID != nil {
		r.onGetByID(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.EmployeeID == employeeID && calendar.SameDate(a.WorkDate, workDate) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && a.IsOpen() {
			if latest == nil || a.CheckIn.After(latest.CheckIn) {
				found := a
				latest = &found
			}
		}
	}
	if latest == nil {
		return attendance.Attendance{}, attendance.ErrNoActiveSession
	}
	return *latest, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	for id, existing := range r.records {
		if id != a.ID && existing.EmployeeID == a.EmployeeID && calendar.SameDate(existing.WorkDate, a.WorkDate) {
			return attendance.ErrAlreadyCheckedIn
		}
	}
	r.records[a.ID] = a
	return nil
}

func (r *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	period := calendar.NewPeriod(start, end)
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && period.Contains(a.WorkDate) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r *fakeAttendanceRepo) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.IsOpen() && a.WorkDate.Before(day) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[string]employee.Profile
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (employee.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return employee.Profile{}, employee.ErrEmployeeNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) ListActive(ctx context.Context) ([]employee.Profile, error) {
	var out []employee.Profile
	for _, p := range r.profiles {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeProfileRepo) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Profile, error) {
	var out []employee.Profile
	for _, p := range r.profiles {
		if p.DepartmentID != nil && *p.DepartmentID == departmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type fakeScheduleRepo struct {
	byDepartment map[string]schedule.WorkSchedule
}

func (r *fakeScheduleRepo) GetDefaultForDepartment(ctx context.Context, departmentID string) (schedule.WorkSchedule, error) {
	ws, ok := r.byDepartment[departmentID]
	if !ok {
		return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
	}
	return ws, nil
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id string) (schedule.WorkSchedule, error) {
	for _, ws := range r.byDepartment {
		if ws.ID == id {
			return ws, nil
		}
	}
	return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
}
