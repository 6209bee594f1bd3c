package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	EmployeeID string `json:"-"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	LeaveType  string `json:"leave_type"`
	Reason     string `json:"reason"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *ApplyLeaveRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsInSlice(r.LeaveType, LeaveTypeValues) {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, unpaid")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	r.Start, r.End = validateRange(&errs, r.StartDate, r.EndDate, loc)
	return errs.Err()
}

type UpdateLeaveRequest struct {
	ID         string  `json:"-"`
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.LeaveType != nil && !validator.IsInSlice(*r.LeaveType, LeaveTypeValues) {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, unpaid")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs.Add("reason", "reason must not be empty")
	}

	return errs.Err()
}

type RejectLeaveRequest struct {
	ID              string `json:"-"`
	ApproverID      string `json:"-"`
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RejectionReason) {
		errs.Add("rejection_reason", "rejection_reason is required")
	}
	return errs.Err()
}

func validateRange(errs *validator.ValidationErrors, startStr, endStr string, loc *time.Location) (time.Time, time.Time) {
	start, ok := validator.IsValidDateIn(startStr, loc)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, ok2 := validator.IsValidDateIn(endStr, loc)
	if !ok2 {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if ok && ok2 && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
	return start, end
}

type LeaveRequestResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	LeaveType       LeaveType          `json:"leave_type"`
	Status          LeaveRequestStatus `json:"status"`
	DurationDays    int                `json:"duration_days"`
	Reason          string             `json:"reason"`
	ApprovedBy      *string            `json:"approved_by,omitempty"`
	ApprovedAt      *string            `json:"approved_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		LeaveType:       r.LeaveType,
		Status:          r.Status,
		DurationDays:    r.DurationDays,
		Reason:          r.Reason,
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		at := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

type SummaryResponse struct {
	Summary
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		Summary:   s,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
	}
}
