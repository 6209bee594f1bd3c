package postgresqltest

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func seedProfile(t *testing.T, setup *TestDatabaseSetup, departmentID *string) string {
	t.Helper()
	id := newID()
	_, err := setup.DB.Exec(context.Background(), `
		INSERT INTO employee_profiles (employee_id, name, department_id, base_salary, hourly_rate, status)
		VALUES ($1, $2, $3, $4, NULL, 'active')
	`, id, "Employee "+id[len(id)-4:], departmentID, decimal.NewFromInt(3000))
	require.NoError(t, err)
	return id
}

func TestProfileAndScheduleRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	dept := newID()
	empID := seedProfile(t, setup, &dept)

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO work_schedules (id, department_id, name, start_time, end_time, break_minutes, is_default)
		VALUES ($1, $2, 'Early', '08:00', '16:30', 30, TRUE)
	`, newID(), dept)
	require.NoError(t, err)

	profiles := postgresql.NewProfileRepository(setup.DB)
	p, err := profiles.GetByID(ctx, empID)
	require.NoError(t, err)
	assert.True(t, p.IsActive())
	assert.False(t, p.HasHourlyRate())
	assert.True(t, decimal.NewFromInt(3000).Equal(p.BaseSalary))

	_, err = profiles.GetByID(ctx, newID())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := profiles.ListByDepartment(ctx, dept)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	schedules := postgresql.NewWorkScheduleRepository(setup.DB)
	ws, err := schedules.GetDefaultForDepartment(ctx, dept)
	require.NoError(t, err)
	assert.Equal(t, 8, ws.StartTime.Hour())
	assert.Equal(t, 30, ws.EndTime.Minute())
	assert.Equal(t, "8", ws.StandardHours().String())

	_, err = schedules.GetDefaultForDepartment(ctx, newID())
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNotFound)
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	empID := seedProfile(t, setup, nil)

	workDate := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, time.April, 1, 9, 10, 0, 0, time.UTC)
	session := attendance.Attendance{
		ID:          newID(),
		EmployeeID:  empID,
		WorkDate:    workDate,
		CheckIn:     checkIn,
		LateMinutes: 10,
		Status:      attendance.StatusLate,
	}

	_, err := repo.Create(ctx, session)
	require.NoError(t, err)

	dup := session
	dup.ID = newID()
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	open, err := repo.GetOpenSession(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, open.ID)

	stale, err := repo.ListOpenBefore(ctx, workDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	checkOut := checkIn.Add(7 * time.Hour)
	open.CheckOut = &checkOut
	open.Status = attendance.StatusLate
	require.NoError(t, repo.Update(ctx, open))

	_, err = repo.GetOpenSession(ctx, empID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)

	found, err := repo.GetByEmployeeAndDate(ctx, empID, workDate)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2025-04-01", found.WorkDate.Format("2006-01-02"))

	missing, err := repo.GetByEmployeeAndDate(ctx, empID, workDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.ListByEmployeeAndPeriod(ctx, empID, workDate, workDate.AddDate(0, 0, 29))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7*time.Hour, list[0].Worked())
}

func TestAttendanceRepository_UpdateMovesWorkDate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	empID := seedProfile(t, setup, nil)

	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	session, err := repo.Create(ctx, attendance.Attendance{
		ID:         newID(),
		EmployeeID: empID,
		WorkDate:   monday,
		CheckIn:    monday.Add(8 * time.Hour),
		Status:     attendance.StatusOnTime,
	})
	require.NoError(t, err)

	session.WorkDate = tuesday
	session.CheckIn = tuesday.Add(8 * time.Hour)
	require.NoError(t, repo.Update(ctx, session))

	moved, err := repo.GetByEmployeeAndDate(ctx, empID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, session.ID, moved.ID)

	old, err := repo.GetByEmployeeAndDate(ctx, empID, monday)
	require.NoError(t, err)
	assert.Nil(t, old)

	// The unique index now guards the new day.
	_, err = repo.Create(ctx, attendance.Attendance{
		ID:         newID(),
		EmployeeID: empID,
		WorkDate:   tuesday,
		CheckIn:    tuesday.Add(9 * time.Hour),
		Status:     attendance.StatusLate,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	other, err := repo.Create(ctx, attendance.Attendance{
		ID:         newID(),
		EmployeeID: empID,
		WorkDate:   wednesday,
		CheckIn:    wednesday.Add(8 * time.Hour),
		Status:     attendance.StatusOnTime,
	})
	require.NoError(t, err)

	other.WorkDate = tuesday
	other.CheckIn = tuesday.Add(10 * time.Hour)
	assert.ErrorIs(t, repo.Update(ctx, other), attendance.ErrAlreadyCheckedIn)

	list, err := repo.ListByEmployeeAndPeriod(ctx, empID, tuesday, tuesday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, session.ID, list[0].ID)
}

func TestLeaveRequestRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	empID := seedProfile(t, setup, nil)

	req := leave.LeaveRequest{
		ID:         newID(),
		EmployeeID: empID,
		StartDate:  time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.April, 8, 0, 0, 0, 0, time.UTC),
		LeaveType:  leave.LeaveTypeUnpaid,
		Status:     leave.LeaveRequestStatusPending,
		Reason:     "family",
	}
	req.RecomputeDuration()

	_, err := repo.Create(ctx, req)
	require.NoError(t, err)

	overlapping, err := repo.ListApprovedOverlapping(ctx, empID, req.StartDate, req.EndDate)
	require.NoError(t, err)
	assert.Empty(t, overlapping)

	approver := newID()
	now := time.Now()
	req.Status = leave.LeaveRequestStatusApproved
	req.ApprovedBy = &approver
	req.ApprovedAt = &now
	require.NoError(t, repo.Update(ctx, req))

	overlapping, err = repo.ListApprovedOverlapping(ctx, empID,
		time.Date(2025, time.April, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, 2, overlapping[0].DurationDays)

	_, err = repo.GetByID(ctx, newID())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestPayrollRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	dept := newID()
	empID := seedProfile(t, setup, &dept)

	policies := postgresql.NewPolicyRepository(setup.DB)
	_, err := policies.Get(ctx)
	assert.ErrorIs(t, err, payroll.ErrPolicyNotFound)

	policy := payroll.DefaultPolicy()
	policy.UpdatedAt = time.Now()
	_, err = policies.Save(ctx, policy)
	require.NoError(t, err)

	stored, err := policies.Get(ctx)
	require.NoError(t, err)
	require.Len(t, stored.TaxBrackets, 3)
	assert.Nil(t, stored.TaxBrackets[2].To)
	assert.NoError(t, stored.Validate())

	records := postgresql.NewSalaryRecordRepository(setup.DB)
	now := time.Now()
	rec := payroll.SalaryRecord{ID: newID()}
	rec.Apply(payroll.SalaryBreakdown{
		EmployeeID: empID,
		Month:      4,
		Year:       2025,
		BaseSalary: decimal.NewFromInt(3000),
		NetSalary:  decimal.RequireFromString("2744.00"),
	}, now)

	_, err = records.Create(ctx, rec)
	require.NoError(t, err)

	dup := rec
	dup.ID = newID()
	_, err = records.Create(ctx, dup)
	assert.ErrorIs(t, err, payroll.ErrSalaryRecordExists)

	got, err := records.GetByEmployeePeriod(ctx, empID, 4, 2025)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, payroll.SalaryStatusProcessed, got.Status)
	assert.True(t, decimal.RequireFromString("2744").Equal(got.Details.NetSalary))
	require.NotNil(t, got.EmployeeName)

	stats, err := records.DepartmentStats(ctx, dept, 4, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EmployeeCount)
	assert.True(t, decimal.RequireFromString("2744").Equal(stats.AverageNet))

	status := payroll.SalaryStatusProcessed
	list, err := records.List(ctx, payroll.SalaryRecordFilter{DepartmentID: &dept, Status: &status})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = records.GetByID(ctx, newID())
	assert.ErrorIs(t, err, payroll.ErrSalaryRecordNotFound)
}
