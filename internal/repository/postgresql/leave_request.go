package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, employee_id, start_date, end_date, leave_type, status, duration_days, reason,
	approved_by, approved_at, rejection_reason, created_at, updated_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.LeaveType, &lr.Status, &lr.DurationDays, &lr.Reason,
		&lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, start_date, end_date, leave_type, status, duration_days, reason
		) VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.StartDate.Format(calendar.DateLayout),
		req.EndDate.Format(calendar.DateLayout),
		req.LeaveType,
		req.Status,
		req.DurationDays,
		req.Reason,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return lr, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			start_date = $1::date,
			end_date = $2::date,
			leave_type = $3,
			status = $4,
			duration_days = $5,
			reason = $6,
			approved_by = $7,
			approved_at = $8,
			rejection_reason = $9,
			updated_at = NOW()
		WHERE id = $10
	`

	tag, err := q.Exec(ctx, query,
		req.StartDate.Format(calendar.DateLayout),
		req.EndDate.Format(calendar.DateLayout),
		req.LeaveType,
		req.Status,
		req.DurationDays,
		req.Reason,
		req.ApprovedBy,
		req.ApprovedAt,
		req.RejectionReason,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $4::date
		  AND end_date >= $3::date
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query,
		employeeID,
		leave.LeaveRequestStatusApproved,
		start.Format(calendar.DateLayout),
		end.Format(calendar.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}
