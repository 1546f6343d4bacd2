package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, company_id, department_id, outlet_id, employee_code, full_name,
	pay_scheme, basic_pay, home_base_latitude, home_base_longitude,
	bank_code, bank_account_number, bank_account_holder_name, employment_status,
	date_of_birth, residency, marital_status, spouse_working, dependents,
	disabled, contribution_type, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.DepartmentID, &e.OutletID, &e.EmployeeCode, &e.FullName,
		&e.Scheme, &e.BasicPay, &e.HomeBaseLatitude, &e.HomeBaseLongitude,
		&e.BankCode, &e.BankAccountNumber, &e.BankAccountHolderName, &e.EmploymentStatus,
		&e.Statutory.DateOfBirth, &e.Statutory.Residency, &e.Statutory.MaritalStatus,
		&e.Statutory.SpouseWorking, &e.Statutory.Dependents,
		&e.Statutory.Disabled, &e.Statutory.ContributionType,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) GetActiveByScope(ctx context.Context, companyID string, departmentID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1
		  AND employment_status = 'active'
		  AND ($2::uuid IS NULL OR department_id = $2)
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, companyID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// ResolveBasicPay picks the salary record in effect for the period. When the
// period itself has no record the most recent prior one carries forward.
func (r *employeeRepository) ResolveBasicPay(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT basic_pay, effective_month, effective_year
		FROM employee_salaries
		WHERE employee_id = $1
		  AND (effective_year < $3 OR (effective_year = $3 AND effective_month <= $2))
		ORDER BY effective_year DESC, effective_month DESC
		LIMIT 1
	`

	var pay decimal.Decimal
	var effMonth, effYear int
	err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&pay, &effMonth, &effYear)
	if err == nil {
		carried := effYear != year || effMonth != month
		return pay, carried, nil
	}
	if err != pgx.ErrNoRows {
		return decimal.Zero, false, fmt.Errorf("failed to resolve basic pay: %w", err)
	}

	// No salary history at all: fall back to the master record.
	var basic *decimal.Decimal
	if err := q.QueryRow(ctx, `SELECT basic_pay FROM employees WHERE id = $1`, employeeID).Scan(&basic); err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, false, employee.ErrEmployeeNotFound
		}
		return decimal.Zero, false, fmt.Errorf("failed to resolve basic pay: %w", err)
	}
	if basic == nil {
		return decimal.Zero, false, employee.ErrNoBasicPay
	}

	return *basic, false, nil
}
