package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaveService(t *testing.T) (*LeaveServiceImpl, *fakeLeaveRepo) {
	t.Helper()
	repo := newFakeLeaveRepo()
	profiles := &fakeProfileRepo{profiles: map[string]employee.Profile{
		"emp-1": {EmployeeID: "emp-1", Status: employee.EmploymentStatusActive},
		"emp-2": {EmployeeID: "emp-2", Status: employee.EmploymentStatusActive},
	}}
	svc := NewLeaveService(passthroughTx{}, repo, profiles, time.UTC).(*LeaveServiceImpl)

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("leave-%d", seq)
	}
	svc.now = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func apply(t *testing.T, svc *LeaveServiceImpl, employeeID, start, end, leaveType string) leave.LeaveRequest {
	t.Helper()
	req, err := svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		LeaveType:  leaveType,
		Reason:     "family matters",
	})
	require.NoError(t, err)
	return req
}

func TestApply(t *testing.T) {
	svc, _ := newTestLeaveService(t)

	req := apply(t, svc, "emp-1", "2025-03-06", "2025-03-11", "annual")
	assert.Equal(t, leave.LeaveRequestStatusPending, req.Status)
	// Thu, Fri, Mon, Tue
	assert.Equal(t, 4, req.DurationDays)
}

func TestApply_Validation(t *testing.T) {
	svc, _ := newTestLeaveService(t)

	_, err := svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "emp-1",
		StartDate:  "2025-03-11",
		EndDate:    "2025-03-06",
		LeaveType:  "vacation",
		Reason:     "",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "leave_type")
	assert.Contains(t, fields, "reason")

	_, err = svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "nobody", StartDate: "2025-03-06", EndDate: "2025-03-06", LeaveType: "sick", Reason: "flu",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestApply_OverlapsApprovedLeave(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	first := apply(t, svc, "emp-1", "2025-03-10", "2025-03-14", "annual")
	_, err := svc.Approve(ctx, first.ID, "admin-1")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, leave.ApplyLeaveRequest{
		EmployeeID: "emp-1", StartDate: "2025-03-14", EndDate: "2025-03-18", LeaveType: "sick", Reason: "flu",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	// Another employee is unaffected.
	apply(t, svc, "emp-2", "2025-03-14", "2025-03-18", "sick")
}

func TestApproveAndReject_OnlyPending(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	a := apply(t, svc, "emp-1", "2025-03-10", "2025-03-10", "personal")
	approvedReq, err := svc.Approve(ctx, a.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approvedReq.Status)
	require.NotNil(t, approvedReq.ApprovedBy)
	assert.Equal(t, "admin-1", *approvedReq.ApprovedBy)

	_, err = svc.Approve(ctx, a.ID, "admin-1")
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
	_, err = svc.Reject(ctx, leave.RejectLeaveRequest{ID: a.ID, ApproverID: "admin-1", RejectionReason: "too late"})
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)

	b := apply(t, svc, "emp-1", "2025-03-20", "2025-03-20", "personal")
	rejected, err := svc.Reject(ctx, leave.RejectLeaveRequest{ID: b.ID, ApproverID: "admin-1", RejectionReason: "busy week"})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)

	_, err = svc.Reject(ctx, leave.RejectLeaveRequest{ID: b.ID, ApproverID: "admin-1"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.Approve(ctx, "missing", "admin-1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestApprove_RejectsSecondOverlappingApproval(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	a := apply(t, svc, "emp-1", "2025-03-10", "2025-03-12", "annual")
	b := apply(t, svc, "emp-1", "2025-03-12", "2025-03-13", "sick")

	_, err := svc.Approve(ctx, a.ID, "admin-1")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, b.ID, "admin-1")
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	req := apply(t, svc, "emp-1", "2025-03-10", "2025-03-10", "annual")
	end := "2025-03-14"
	unpaid := "unpaid"
	updated, err := svc.Update(ctx, leave.UpdateLeaveRequest{ID: req.ID, EmployeeID: "emp-1", EndDate: &end, LeaveType: &unpaid})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DurationDays)
	assert.Equal(t, leave.LeaveTypeUnpaid, updated.LeaveType)

	_, err = svc.Update(ctx, leave.UpdateLeaveRequest{ID: req.ID, EmployeeID: "emp-2", EndDate: &end})
	assert.ErrorIs(t, err, leave.ErrNotLeaveOwner)

	early := "2025-03-01"
	_, err = svc.Update(ctx, leave.UpdateLeaveRequest{ID: req.ID, EmployeeID: "emp-1", EndDate: &early})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestCancel(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	req := apply(t, svc, "emp-1", "2025-03-10", "2025-03-10", "annual")

	_, err := svc.Cancel(ctx, req.ID, "emp-2")
	assert.ErrorIs(t, err, leave.ErrNotLeaveOwner)

	cancelled, err := svc.Cancel(ctx, req.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, req.ID, "emp-1")
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
}

func TestSummary(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	a := apply(t, svc, "emp-1", "2025-03-03", "2025-03-04", "unpaid")
	_, err := svc.Approve(ctx, a.ID, "admin-1")
	require.NoError(t, err)
	apply(t, svc, "emp-1", "2025-03-10", "2025-03-11", "annual")

	s, err := svc.Summary(ctx, "emp-1", day(time.March, 1), day(time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Unpaid)
	assert.Equal(t, 0, s.Paid)
	assert.Equal(t, 2, s.Total)
}
