package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, req LeaveRequest) error

	// ListApprovedOverlapping returns approved requests with StartDate <= end and
	// EndDate >= start.
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
}
