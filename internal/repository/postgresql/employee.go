package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const profileColumns = `
	employee_id, name, department_id, base_salary, hourly_rate, status, created_at, updated_at
`

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) employee.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (employee.Profile, error) {
	var (
		p      employee.Profile
		hourly decimal.NullDecimal
	)
	if err := row.Scan(
		&p.EmployeeID, &p.Name, &p.DepartmentID, &p.BaseSalary, &hourly, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return employee.Profile{}, err
	}
	if hourly.Valid {
		p.HourlyRate = &hourly.Decimal
	}
	return p, nil
}

func (e *profileRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]employee.Profile, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]employee.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee profiles: %w", err)
	}

	return profiles, nil
}

// GetByID implements employee.ProfileRepository.
func (e *profileRepositoryImpl) GetByID(ctx context.Context, employeeID string) (employee.Profile, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + profileColumns + ` FROM employee_profiles WHERE employee_id = $1`

	p, err := scanProfile(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Profile{}, employee.ErrEmployeeNotFound
		}
		return employee.Profile{}, fmt.Errorf("failed to get employee profile: %w", err)
	}

	return p, nil
}

// ListActive implements employee.ProfileRepository.
func (e *profileRepositoryImpl) ListActive(ctx context.Context) ([]employee.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM employee_profiles
		WHERE status = $1
		ORDER BY name ASC, employee_id ASC
	`
	return e.list(ctx, query, employee.EmploymentStatusActive)
}

// ListByDepartment implements employee.ProfileRepository.
func (e *profileRepositoryImpl) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM employee_profiles
		WHERE department_id = $1
		  AND status = $2
		ORDER BY name ASC, employee_id ASC
	`
	return e.list(ctx, query, departmentID, employee.EmploymentStatusActive)
}
