package payroll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeSalaryRepo struct {
	mu        sync.Mutex
	records   map[string]payroll.SalaryRecord
	createErr map[string]error
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{
		records:   make(map[string]payroll.SalaryRecord),
		createErr: make(map[string]error),
	}
}

func (r *fakeSalaryRepo) Create(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr[record.EmployeeID]; err != nil {
		return payroll.SalaryRecord{}, err
	}
	for _, existing := range r.records {
		if existing.EmployeeID == record.EmployeeID && existing.Month == record.Month && existing.Year == record.Year {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordExists
		}
	}
	r.records[record.ID] = record
	return record, nil
}

func (r *fakeSalaryRepo) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
	}
	return record, nil
}

func (r *fakeSalaryRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*payroll.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.EmployeeID == employeeID && record.Month == month && record.Year == year {
			return &record, nil
		}
	}
	return nil, nil
}

func (r *fakeSalaryRepo) Update(ctx context.Context, record payroll.SalaryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return payroll.ErrSalaryRecordNotFound
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeSalaryRepo) List(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.SalaryRecord
	for _, record := range r.records {
		if filter.EmployeeID != nil && record.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *fakeSalaryRepo) DepartmentStats(ctx context.Context, departmentID string, month, year int) (payroll.DepartmentSalaryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := payroll.DepartmentSalaryStats{DepartmentID: departmentID, Month: month, Year: year}
	for _, record := range r.records {
		if record.Month != month || record.Year != year {
			continue
		}
		stats.EmployeeCount++
		stats.TotalNet = stats.TotalNet.Add(record.NetAmount)
	}
	if stats.EmployeeCount > 0 {
		stats.AverageNet = stats.TotalNet.Div(decimal.NewFromInt(int64(stats.EmployeeCount))).Round(2)
	}
	return stats, nil
}

type fakePolicyRepo struct {
	policy *payroll.PayPolicy
}

func (r *fakePolicyRepo) Get(ctx context.Context) (payroll.PayPolicy, error) {
	if r.policy == nil {
		return payroll.PayPolicy{}, payroll.ErrPolicyNotFound
	}
	return *r.policy, nil
}

func (r *fakePolicyRepo) Save(ctx context.Context, policy payroll.PayPolicy) (payroll.PayPolicy, error) {
	r.policy = &policy
	return policy, nil
}

type fakeProfileRepo struct {
	profiles []employee.Profile
	err      error
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (employee.Profile, error) {
	for _, p := range r.profiles {
		if p.EmployeeID == id {
			return p, nil
		}
	}
	return employee.Profile{}, employee.ErrEmployeeNotFound
}

func (r *fakeProfileRepo) ListActive(ctx context.Context) ([]employee.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []employee.Profile
	for _, p := range r.profiles {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Profile, error) {
	var out []employee.Profile
	for _, p := range r.profiles {
		if p.DepartmentID != nil && *p.DepartmentID == departmentID {
			out = append(out, p)
		}
	}
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

// fakeAttendanceRepo only serves the read path the payroll service uses.
type fakeAttendanceRepo struct {
	events  map[string][]attendance.Attendance
	failFor string
}

var errAttendanceUnavailable = errors.New("attendance store unavailable")

func (r *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	if employeeID == r.failFor {
		return nil, errAttendanceUnavailable
	}
	return r.events[employeeID], nil
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	return a, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrNoActiveSession
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	return nil
}

func (r *fakeAttendanceRepo) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

type fakeLeaveRepo struct {
	approved map[string][]leave.LeaveRequest
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	return r.approved[employeeID], nil
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	return req, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *fakeLeaveRepo) Update(ctx context.Context, req leave.LeaveRequest) error {
	return nil
}
