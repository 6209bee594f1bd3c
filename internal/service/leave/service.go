package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	employee.ProfileRepository
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	profileRepo employee.ProfileRepository,
	loc *time.Location,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		ProfileRepository:      profileRepo,
		loc:                    loc,
		now:                    time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// ensureNoApprovedOverlap fails when another approved request shares a day with req.
func (s *LeaveServiceImpl) ensureNoApprovedOverlap(ctx context.Context, req leave.LeaveRequest) error {
	approved, err := s.LeaveRequestRepository.ListApprovedOverlapping(ctx, req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	for _, other := range approved {
		if other.ID != req.ID {
			return leave.ErrOverlappingLeave
		}
	}
	return nil
}

// Apply implements leave.LeaveService.
func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(s.loc); err != nil {
		return leave.LeaveRequest{}, err
	}

	if _, err := s.ProfileRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequest{}, err
	}

	now := s.now()
	request := leave.LeaveRequest{
		ID:         s.newID(),
		EmployeeID: req.EmployeeID,
		StartDate:  req.Start,
		EndDate:    req.End,
		LeaveType:  leave.LeaveType(req.LeaveType),
		Status:     leave.LeaveRequestStatusPending,
		Reason:     req.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	request.RecomputeDuration()

	var created leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNoApprovedOverlap(txCtx, request); err != nil {
			return err
		}
		var err error
		created, err = s.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request submitted",
		"leave_request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", created.LeaveType,
		"duration_days", created.DurationDays)

	return created, nil
}

// pendingOwned loads a request that the employee may still change.
func (s *LeaveServiceImpl) pendingOwned(ctx context.Context, id, employeeID string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.LeaveRequest{}, leave.ErrNotLeaveOwner
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveNotPending
	}
	return request, nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		request, err := s.pendingOwned(txCtx, req.ID, req.EmployeeID)
		if err != nil {
			return err
		}

		if req.StartDate != nil {
			request.StartDate, _ = validator.IsValidDateIn(*req.StartDate, s.loc)
		}
		if req.EndDate != nil {
			request.EndDate, _ = validator.IsValidDateIn(*req.EndDate, s.loc)
		}
		if req.LeaveType != nil {
			request.LeaveType = leave.LeaveType(*req.LeaveType)
		}
		if req.Reason != nil {
			request.Reason = *req.Reason
		}

		if request.EndDate.Before(request.StartDate) {
			return validator.ValidationErrors{{Field: "end_date", Message: "end_date must be on or after start_date"}}
		}
		request.RecomputeDuration()
		request.UpdatedAt = s.now()

		if err := s.ensureNoApprovedOverlap(txCtx, request); err != nil {
			return err
		}
		if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id, employeeID string) (leave.LeaveRequest, error) {
	request, err := s.pendingOwned(ctx, id, employeeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.LeaveRequestStatusCancelled
	request.UpdatedAt = s.now()
	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return request, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id, approverID string) (leave.LeaveRequest, error) {
	var approved leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveNotPending
		}
		if err := s.ensureNoApprovedOverlap(txCtx, request); err != nil {
			return err
		}

		now := s.now()
		request.Status = leave.LeaveRequestStatusApproved
		request.ApprovedBy = &approverID
		request.ApprovedAt = &now
		request.UpdatedAt = now

		if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request approved", "leave_request_id", id, "approved_by", approverID)
	return approved, nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveNotPending
	}

	now := s.now()
	request.Status = leave.LeaveRequestStatusRejected
	request.ApprovedBy = &req.ApproverID
	request.ApprovedAt = &now
	request.RejectionReason = &req.RejectionReason
	request.UpdatedAt = now

	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return request, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return s.LeaveRequestRepository.GetByID(ctx, id)
}

// Summary implements leave.LeaveService.
func (s *LeaveServiceImpl) Summary(ctx context.Context, employeeID string, start, end time.Time) (leave.Summary, error) {
	if end.Before(start) {
		return leave.Summary{}, validator.ValidationErrors{{Field: "end", Message: "end must not be before start"}}
	}

	records, err := s.LeaveRequestRepository.ListApprovedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return leave.Summary{}, fmt.Errorf("failed to list approved leave: %w", err)
	}
	return Summarize(employeeID, start, end, records), nil
}

