package leave

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeLeaveRepo struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, req leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID &&
			req.Status == leave.LeaveRequestStatusApproved &&
			!req.StartDate.After(end) && !req.EndDate.Before(start) {
			out = append(out, req)
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
	return nil, nil
}

func (r *fakeProfileRepo) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Profile, error) {
	return nil, nil
}
