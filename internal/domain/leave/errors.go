package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveNotPending      = errors.New("leave request is no longer pending")
	ErrOverlappingLeave     = errors.New("leave request overlaps an approved leave")
	ErrNotLeaveOwner        = errors.New("leave request belongs to another employee")
)
