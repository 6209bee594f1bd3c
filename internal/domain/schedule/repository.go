package schedule

import "context"

type WorkScheduleRepository interface {
	// GetDefaultForDepartment returns ErrWorkScheduleNotFound when the department has
	// no default schedule.
	GetDefaultForDepartment(ctx context.Context, departmentID string) (WorkSchedule, error)
	GetByID(ctx context.Context, id string) (WorkSchedule, error)
}
