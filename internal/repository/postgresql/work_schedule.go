package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// TIME columns are read as HH:MI text and parsed into clock-of-day values.
const workScheduleColumns = `
	id, department_id, name,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	break_minutes, is_default, created_at, updated_at
`

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

func scanWorkSchedule(row pgx.Row) (schedule.WorkSchedule, error) {
	var (
		ws         schedule.WorkSchedule
		start, end string
	)
	if err := row.Scan(
		&ws.ID, &ws.DepartmentID, &ws.Name,
		&start, &end,
		&ws.BreakMinutes, &ws.IsDefault, &ws.CreatedAt, &ws.UpdatedAt,
	); err != nil {
		return schedule.WorkSchedule{}, err
	}

	var err error
	if ws.StartTime, err = schedule.ParseClock(start); err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("invalid start_time %q: %w", start, err)
	}
	if ws.EndTime, err = schedule.ParseClock(end); err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("invalid end_time %q: %w", end, err)
	}
	return ws, nil
}

// GetDefaultForDepartment implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetDefaultForDepartment(ctx context.Context, departmentID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT ` + workScheduleColumns + `
		FROM work_schedules
		WHERE department_id = $1
		  AND is_default
		LIMIT 1
	`

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query, departmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get default work schedule: %w", err)
	}

	return ws, nil
}

// GetByID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `SELECT ` + workScheduleColumns + ` FROM work_schedules WHERE id = $1`

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	return ws, nil
}
