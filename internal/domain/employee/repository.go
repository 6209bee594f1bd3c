package employee

import "context"

type ProfileRepository interface {
	GetByID(ctx context.Context, employeeID string) (Profile, error)
	ListActive(ctx context.Context) ([]Profile, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Profile, error)
}
