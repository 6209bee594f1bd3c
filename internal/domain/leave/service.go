package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveRequest, error)
	Update(ctx context.Context, req UpdateLeaveRequest) (LeaveRequest, error)
	Cancel(ctx context.Context, id, employeeID string) (LeaveRequest, error)
	Approve(ctx context.Context, id, approverID string) (LeaveRequest, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequest, error)
	Summary(ctx context.Context, employeeID string, start, end time.Time) (Summary, error)
}
