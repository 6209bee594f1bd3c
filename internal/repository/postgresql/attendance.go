package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, work_date, check_in, check_out,
	late_minutes, early_minutes, status, notes,
	created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.CheckIn, &att.CheckOut,
		&att.LateMinutes, &att.EarlyMinutes, &att.Status, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	result := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return result, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, work_date, check_in, check_out,
			late_minutes, early_minutes, status, notes
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.WorkDate.Format(calendar.DateLayout),
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.LateMinutes,
		newAttendance.EarlyMinutes,
		newAttendance.Status,
		newAttendance.Notes,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "uk_attendances_employee_work_date") {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND work_date = $2::date
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, workDate.Format(calendar.DateLayout)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No session that day
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoActiveSession
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			work_date = $1::date,
			check_in = $2,
			check_out = $3,
			late_minutes = $4,
			early_minutes = $5,
			status = $6,
			notes = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		att.WorkDate.Format(calendar.DateLayout),
		att.CheckIn,
		att.CheckOut,
		att.LateMinutes,
		att.EarlyMinutes,
		att.Status,
		att.Notes,
		att.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "uk_attendances_employee_work_date") {
			return attendance.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployeeAndPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND work_date BETWEEN $2::date AND $3::date
		ORDER BY check_in ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start.Format(calendar.DateLayout), end.Format(calendar.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	return collectAttendances(rows)
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_out IS NULL
		  AND work_date < $1::date
		ORDER BY work_date ASC, check_in ASC
	`

	rows, err := q.Query(ctx, query, day.Format(calendar.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}

	return collectAttendances(rows)
}
