package schedule

import "errors"

var (
	ErrWorkScheduleNotFound = errors.New("work schedule not found")
	ErrInvalidWindow        = errors.New("work schedule end time must be after start time")
)
