package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewSalaryRecordRepository(db *database.DB) payroll.SalaryRecordRepository {
	return &payrollRepository{db: db}
}

func NewPolicyRepository(db *database.DB) payroll.PolicyRepository {
	return &payrollRepository{db: db}
}

// ========== SALARY RECORDS ==========

const salaryRecordColumns = `
	sr.id, sr.employee_id, sr.month, sr.year, sr.base_amount, sr.deductions, sr.bonuses,
	sr.overtime_pay, sr.net_amount, sr.details, sr.status, sr.processed_at, sr.paid_at,
	sr.created_at, sr.updated_at, ep.name
`

func scanSalaryRecord(row pgx.Row) (payroll.SalaryRecord, error) {
	var (
		rec     payroll.SalaryRecord
		details []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Month, &rec.Year, &rec.BaseAmount, &rec.Deductions, &rec.Bonuses,
		&rec.OvertimePay, &rec.NetAmount, &details, &rec.Status, &rec.ProcessedAt, &rec.PaidAt,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	); err != nil {
		return payroll.SalaryRecord{}, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return payroll.SalaryRecord{}, fmt.Errorf("failed to decode salary details: %w", err)
		}
	}
	return rec, nil
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	detailsJSON, err := json.Marshal(record.Details)
	if err != nil {
		return payroll.SalaryRecord{}, fmt.Errorf("failed to encode salary details: %w", err)
	}

	query := `
		INSERT INTO salary_records (
			id, employee_id, month, year, base_amount, deductions, bonuses,
			overtime_pay, net_amount, details, status, processed_at, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Month, record.Year, record.BaseAmount, record.Deductions, record.Bonuses,
		record.OvertimePay, record.NetAmount, detailsJSON, record.Status, record.ProcessedAt, record.PaidAt,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uk_salary_records_employee_period") {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordExists
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to create salary record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryRecordColumns + `
		FROM salary_records sr
		LEFT JOIN employee_profiles ep ON ep.employee_id = sr.employee_id
		WHERE sr.id = $1
	`

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryRecordColumns + `
		FROM salary_records sr
		LEFT JOIN employee_profiles ep ON ep.employee_id = sr.employee_id
		WHERE sr.employee_id = $1 AND sr.month = $2 AND sr.year = $3
	`

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get salary record by period: %w", err)
	}

	return &rec, nil
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.SalaryRecord) error {
	q := GetQuerier(ctx, r.db)

	detailsJSON, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("failed to encode salary details: %w", err)
	}

	query := `
		UPDATE salary_records SET
			base_amount = $1,
			deductions = $2,
			bonuses = $3,
			overtime_pay = $4,
			net_amount = $5,
			details = $6,
			status = $7,
			processed_at = $8,
			paid_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`

	tag, err := q.Exec(ctx, query,
		record.BaseAmount, record.Deductions, record.Bonuses, record.OvertimePay, record.NetAmount,
		detailsJSON, record.Status, record.ProcessedAt, record.PaidAt, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update salary record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryRecordNotFound
	}

	return nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ep.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Month != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sr.month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sr.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sr.status = $%d", argIdx))
		args = append(args, *filter.Status)
	}

	query := `
		SELECT ` + salaryRecordColumns + `
		FROM salary_records sr
		LEFT JOIN employee_profiles ep ON ep.employee_id = sr.employee_id
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY sr.year DESC, sr.month DESC, ep.name ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.SalaryRecord, 0)
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary records: %w", err)
	}

	return records, nil
}

func (r *payrollRepository) DepartmentStats(ctx context.Context, departmentID string, month, year int) (payroll.DepartmentSalaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(sr.id),
			   COALESCE(SUM(sr.base_amount), 0),
			   COALESCE(SUM(sr.deductions), 0),
			   COALESCE(SUM(sr.bonuses), 0),
			   COALESCE(SUM(sr.overtime_pay), 0),
			   COALESCE(SUM(sr.net_amount), 0)
		FROM salary_records sr
		INNER JOIN employee_profiles ep ON ep.employee_id = sr.employee_id
		WHERE ep.department_id = $1 AND sr.month = $2 AND sr.year = $3
	`

	stats := payroll.DepartmentSalaryStats{DepartmentID: departmentID, Month: month, Year: year}
	err := q.QueryRow(ctx, query, departmentID, month, year).Scan(
		&stats.EmployeeCount, &stats.TotalBase, &stats.TotalDeductions,
		&stats.TotalBonuses, &stats.TotalOvertime, &stats.TotalNet,
	)
	if err != nil {
		return payroll.DepartmentSalaryStats{}, fmt.Errorf("failed to get department salary stats: %w", err)
	}

	stats.AverageNet = decimal.Zero
	if stats.EmployeeCount > 0 {
		stats.AverageNet = stats.TotalNet.Div(decimal.NewFromInt(int64(stats.EmployeeCount))).Round(2)
	}

	return stats, nil
}

// ========== POLICY ==========

func (r *payrollRepository) Get(ctx context.Context) (payroll.PayPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT overtime_multiplier, weekend_overtime_multiplier, holiday_overtime_multiplier,
			   late_deduction_method, late_deduction_amount,
			   early_departure_deduction_method, early_departure_deduction_amount,
			   tax_method, tax_brackets, flat_tax_rate,
			   bonuses_enabled, deductions_enabled, updated_at
		FROM payroll_policies
		WHERE id = 1
	`

	var (
		p        payroll.PayPolicy
		brackets []byte
	)
	err := q.QueryRow(ctx, query).Scan(
		&p.OvertimeMultiplier, &p.WeekendOvertimeMultiplier, &p.HolidayOvertimeMultiplier,
		&p.LateDeduction.Method, &p.LateDeduction.Amount,
		&p.EarlyDepartureDeduction.Method, &p.EarlyDepartureDeduction.Amount,
		&p.TaxMethod, &brackets, &p.FlatTaxRate,
		&p.BonusesEnabled, &p.DeductionsEnabled, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPolicy{}, payroll.ErrPolicyNotFound
		}
		return payroll.PayPolicy{}, fmt.Errorf("failed to get pay policy: %w", err)
	}

	if err := json.Unmarshal(brackets, &p.TaxBrackets); err != nil {
		return payroll.PayPolicy{}, fmt.Errorf("failed to decode tax brackets: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) Save(ctx context.Context, policy payroll.PayPolicy) (payroll.PayPolicy, error) {
	q := GetQuerier(ctx, r.db)

	brackets := policy.TaxBrackets
	if brackets == nil {
		brackets = []payroll.TaxBracket{}
	}
	bracketsJSON, err := json.Marshal(brackets)
	if err != nil {
		return payroll.PayPolicy{}, fmt.Errorf("failed to encode tax brackets: %w", err)
	}

	query := `
		INSERT INTO payroll_policies (
			id, overtime_multiplier, weekend_overtime_multiplier, holiday_overtime_multiplier,
			late_deduction_method, late_deduction_amount,
			early_departure_deduction_method, early_departure_deduction_amount,
			tax_method, tax_brackets, flat_tax_rate, bonuses_enabled, deductions_enabled, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			weekend_overtime_multiplier = EXCLUDED.weekend_overtime_multiplier,
			holiday_overtime_multiplier = EXCLUDED.holiday_overtime_multiplier,
			late_deduction_method = EXCLUDED.late_deduction_method,
			late_deduction_amount = EXCLUDED.late_deduction_amount,
			early_departure_deduction_method = EXCLUDED.early_departure_deduction_method,
			early_departure_deduction_amount = EXCLUDED.early_departure_deduction_amount,
			tax_method = EXCLUDED.tax_method,
			tax_brackets = EXCLUDED.tax_brackets,
			flat_tax_rate = EXCLUDED.flat_tax_rate,
			bonuses_enabled = EXCLUDED.bonuses_enabled,
			deductions_enabled = EXCLUDED.deductions_enabled,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	err = q.QueryRow(ctx, query,
		policy.OvertimeMultiplier, policy.WeekendOvertimeMultiplier, policy.HolidayOvertimeMultiplier,
		policy.LateDeduction.Method, policy.LateDeduction.Amount,
		policy.EarlyDepartureDeduction.Method, policy.EarlyDepartureDeduction.Amount,
		policy.TaxMethod, bracketsJSON, policy.FlatTaxRate,
		policy.BonusesEnabled, policy.DeductionsEnabled, policy.UpdatedAt,
	).Scan(&policy.UpdatedAt)
	if err != nil {
		return payroll.PayPolicy{}, fmt.Errorf("failed to save pay policy: %w", err)
	}

	policy.TaxBrackets = brackets
	return policy, nil
}
