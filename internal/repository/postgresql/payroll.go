package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

const runColumns = `id, company_id, department_id, period_month, period_year, status,
	total_gross, total_employee_statutory, total_employer_statutory,
	total_withholding_tax, total_net_pay, finalized_at, finalized_by,
	created_at, updated_at`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.DepartmentID, &r.PeriodMonth, &r.PeriodYear, &r.Status,
		&r.TotalGross, &r.TotalEmployeeStatutory, &r.TotalEmployerStatutory,
		&r.TotalWithholdingTax, &r.TotalNetPay, &r.FinalizedAt, &r.FinalizedBy,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, company_id, department_id, period_month, period_year, status,
			total_gross, total_employee_statutory, total_employer_statutory,
			total_withholding_tax, total_net_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		run.ID, run.CompanyID, run.DepartmentID, run.PeriodMonth, run.PeriodYear, run.Status,
		run.TotalGross, run.TotalEmployeeStatutory, run.TotalEmployerStatutory,
		run.TotalWithholdingTax, run.TotalNetPay,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_run_scope_period") {
			return payroll.PayrollRun{}, payroll.ErrRunAlreadyExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE id = $1 AND company_id = $2`

	run, err := scanRun(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) GetRunByScopePeriod(ctx context.Context, companyID string, departmentID *string, month, year int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE company_id = $1
		  AND period_month = $2 AND period_year = $3
		  AND department_id IS NOT DISTINCT FROM $4
	`

	run, err := scanRun(q.QueryRow(ctx, query, companyID, month, year, departmentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run by scope: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, companyID string, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}

	if filter.PeriodMonth > 0 {
		args = append(args, filter.PeriodMonth)
		conditions = append(conditions, fmt.Sprintf("period_month = $%d", len(args)))
	}
	if filter.PeriodYear > 0 {
		args = append(args, filter.PeriodYear)
		conditions = append(conditions, fmt.Sprintf("period_year = $%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_runs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_runs
		WHERE %s
		ORDER BY period_year DESC, period_month DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, runColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, total, rows.Err()
}

func (r *payrollRepository) UpdateRunTotals(ctx context.Context, run payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET total_gross = $1, total_employee_statutory = $2, total_employer_statutory = $3,
			total_withholding_tax = $4, total_net_pay = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	tag, err := q.Exec(ctx, query,
		run.TotalGross, run.TotalEmployeeStatutory, run.TotalEmployerStatutory,
		run.TotalWithholdingTax, run.TotalNetPay, run.ID, run.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepository) FinalizeRun(ctx context.Context, id string, companyID string, finalizedBy string) error {
	q := GetQuerier(ctx, r.db)

	// Compare-and-set on status: the WHERE guard makes a concurrent second
	// finalize a no-op, which we surface as a state conflict.
	query := `
		UPDATE payroll_runs
		SET status = 'finalized', finalized_at = NOW(), finalized_by = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, finalizedBy, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to finalize payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotDraft
	}
	return nil
}

func (r *payrollRepository) DeleteRun(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_runs
		WHERE id = $1 AND company_id = $2 AND status = 'draft'
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrRunNotFound
		}
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}

	// Items go with the run.
	if _, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE run_id = $1 AND company_id = $2`, id, companyID); err != nil {
		return fmt.Errorf("failed to delete payroll items: %w", err)
	}

	return nil
}

// ========== ITEMS ==========

const itemColumns = `i.id, i.run_id, i.employee_id, i.company_id, i.scheme,
	i.basic_pay, i.overtime_amount, i.extra_day_amount, i.travel_allowance,
	i.fixed_allowance, i.commission, i.claims_amount, i.bonus,
	i.overtime_hours, i.extra_days, i.travel_days, i.worked_days, i.basic_pay_carried_forward,
	i.unpaid_leave_days, i.leave_deduction, i.manual_deduction,
	i.employee_statutory, i.employer_statutory, i.withholding_tax, i.statutory_detail,
	i.gross, i.statutory_base, i.net_pay,
	i.profile_incomplete, i.remarks, i.locked, i.created_at, i.updated_at,
	e.full_name, e.employee_code`

func scanItem(row pgx.Row) (payroll.PayrollItem, error) {
	var i payroll.PayrollItem
	var detail []byte
	err := row.Scan(
		&i.ID, &i.RunID, &i.EmployeeID, &i.CompanyID, &i.Scheme,
		&i.BasicPay, &i.OvertimeAmount, &i.ExtraDayAmount, &i.TravelAllowance,
		&i.FixedAllowance, &i.Commission, &i.ClaimsAmount, &i.Bonus,
		&i.OvertimeHours, &i.ExtraDays, &i.TravelDays, &i.WorkedDays, &i.BasicPayCarriedForward,
		&i.UnpaidLeaveDays, &i.LeaveDeduction, &i.ManualDeduction,
		&i.EmployeeStatutory, &i.EmployerStatutory, &i.WithholdingTax, &detail,
		&i.Gross, &i.StatutoryBase, &i.NetPay,
		&i.ProfileIncomplete, &i.Remarks, &i.Locked, &i.CreatedAt, &i.UpdatedAt,
		&i.EmployeeName, &i.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollItem{}, err
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &i.StatutoryDetail); err != nil {
			return payroll.PayrollItem{}, fmt.Errorf("failed to decode statutory detail: %w", err)
		}
	}
	return i, nil
}

func (r *payrollRepository) CreateItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	detail, err := json.Marshal(item.StatutoryDetail)
	if err != nil {
		return payroll.PayrollItem{}, fmt.Errorf("failed to encode statutory detail: %w", err)
	}

	query := `
		INSERT INTO payroll_items (
			id, run_id, employee_id, company_id, scheme,
			basic_pay, overtime_amount, extra_day_amount, travel_allowance,
			fixed_allowance, commission, claims_amount, bonus,
			overtime_hours, extra_days, travel_days, worked_days, basic_pay_carried_forward,
			unpaid_leave_days, leave_deduction, manual_deduction,
			employee_statutory, employer_statutory, withholding_tax, statutory_detail,
			gross, statutory_base, net_pay, profile_incomplete, remarks, locked
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		item.ID, item.RunID, item.EmployeeID, item.CompanyID, item.Scheme,
		item.BasicPay, item.OvertimeAmount, item.ExtraDayAmount, item.TravelAllowance,
		item.FixedAllowance, item.Commission, item.ClaimsAmount, item.Bonus,
		item.OvertimeHours, item.ExtraDays, item.TravelDays, item.WorkedDays, item.BasicPayCarriedForward,
		item.UnpaidLeaveDays, item.LeaveDeduction, item.ManualDeduction,
		item.EmployeeStatutory, item.EmployerStatutory, item.WithholdingTax, detail,
		item.Gross, item.StatutoryBase, item.NetPay, item.ProfileIncomplete, item.Remarks, item.Locked,
	).Scan(&id)
	if err != nil {
		return payroll.PayrollItem{}, fmt.Errorf("failed to create payroll item: %w", err)
	}

	return r.GetItemByID(ctx, id, item.CompanyID)
}

func (r *payrollRepository) GetItemByID(ctx context.Context, id string, companyID string) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `
		FROM payroll_items i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.id = $1 AND i.company_id = $2
	`

	item, err := scanItem(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollItem{}, payroll.ErrItemNotFound
		}
		return payroll.PayrollItem{}, fmt.Errorf("failed to get payroll item: %w", err)
	}

	return item, nil
}

func (r *payrollRepository) GetItemManualForUpdate(ctx context.Context, id string, companyID string) (payroll.ManualFields, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT bonus, manual_deduction, remarks
		FROM payroll_items
		WHERE id = $1 AND company_id = $2
		FOR UPDATE
	`

	var m payroll.ManualFields
	err := q.QueryRow(ctx, query, id, companyID).Scan(&m.Bonus, &m.ManualDeduction, &m.Remarks)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ManualFields{}, payroll.ErrItemNotFound
		}
		return payroll.ManualFields{}, fmt.Errorf("failed to lock payroll item: %w", err)
	}

	return m, nil
}

func (r *payrollRepository) ListItemsByRun(ctx context.Context, runID string, companyID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `
		FROM payroll_items i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.run_id = $1 AND i.company_id = $2
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *payrollRepository) UpdateItemDerived(ctx context.Context, item payroll.PayrollItem) error {
	q := GetQuerier(ctx, r.db)

	detail, err := json.Marshal(item.StatutoryDetail)
	if err != nil {
		return fmt.Errorf("failed to encode statutory detail: %w", err)
	}

	// Only derived columns: bonus, manual_deduction and remarks stay as the
	// user entered them.
	query := `
		UPDATE payroll_items
		SET basic_pay = $1, overtime_amount = $2, extra_day_amount = $3, travel_allowance = $4,
			fixed_allowance = $5, commission = $6, claims_amount = $7,
			overtime_hours = $8, extra_days = $9, travel_days = $10, worked_days = $11,
			basic_pay_carried_forward = $12,
			unpaid_leave_days = $13, leave_deduction = $14,
			employee_statutory = $15, employer_statutory = $16, withholding_tax = $17,
			statutory_detail = $18, gross = $19, statutory_base = $20, net_pay = $21,
			profile_incomplete = $22, updated_at = NOW()
		WHERE id = $23 AND company_id = $24 AND locked = FALSE
	`

	tag, err := q.Exec(ctx, query,
		item.BasicPay, item.OvertimeAmount, item.ExtraDayAmount, item.TravelAllowance,
		item.FixedAllowance, item.Commission, item.ClaimsAmount,
		item.OvertimeHours, item.ExtraDays, item.TravelDays, item.WorkedDays,
		item.BasicPayCarriedForward,
		item.UnpaidLeaveDays, item.LeaveDeduction,
		item.EmployeeStatutory, item.EmployerStatutory, item.WithholdingTax,
		detail, item.Gross, item.StatutoryBase, item.NetPay,
		item.ProfileIncomplete, item.ID, item.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrItemLocked
	}
	return nil
}

func (r *payrollRepository) UpdateItemManual(ctx context.Context, companyID string, req payroll.UpdateItemRequest) error {
	q := GetQuerier(ctx, r.db)

	sets := []string{}
	args := []interface{}{}

	if req.Bonus != nil {
		args = append(args, *req.Bonus)
		sets = append(sets, fmt.Sprintf("bonus = $%d", len(args)))
	}
	if req.ManualDeduction != nil {
		args = append(args, *req.ManualDeduction)
		sets = append(sets, fmt.Sprintf("manual_deduction = $%d", len(args)))
	}
	if req.Remarks != nil {
		args = append(args, *req.Remarks)
		sets = append(sets, fmt.Sprintf("remarks = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, req.ID, companyID)
	query := fmt.Sprintf(`
		UPDATE payroll_items
		SET %s, updated_at = NOW()
		WHERE id = $%d AND company_id = $%d AND locked = FALSE
	`, strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payroll item manual fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrItemLocked
	}
	return nil
}

func (r *payrollRepository) LockItemsByRun(ctx context.Context, runID string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE payroll_items SET locked = TRUE, updated_at = NOW() WHERE run_id = $1 AND company_id = $2`,
		runID, companyID)
	if err != nil {
		return fmt.Errorf("failed to lock payroll items: %w", err)
	}
	return nil
}

// ========== EXPORT ==========

func (r *payrollRepository) ListBankTransferRows(ctx context.Context, runID string, companyID string) ([]payroll.BankTransferRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.employee_id, e.full_name, e.bank_code, e.bank_account_number,
			   COALESCE(e.bank_account_holder_name, e.full_name), i.net_pay
		FROM payroll_items i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.run_id = $1 AND i.company_id = $2
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transfer rows: %w", err)
	}
	defer rows.Close()

	var result []payroll.BankTransferRow
	for rows.Next() {
		var row payroll.BankTransferRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.BankCode,
			&row.BankAccountNumber, &row.AccountHolderName, &row.NetPay); err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ========== YEAR TO DATE ==========

func (r *payrollRepository) GetYearToDate(ctx context.Context, employeeID string, companyID string, year, beforeMonth int) (statutory.YTD, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(i.statutory_base), 0),
			   COALESCE(SUM(i.withholding_tax), 0),
			   COUNT(*)
		FROM payroll_items i
		JOIN payroll_runs r ON r.id = i.run_id
		WHERE i.employee_id = $1 AND i.company_id = $2
		  AND r.period_year = $3 AND r.period_month < $4
		  AND r.status = 'finalized'
	`

	var ytd statutory.YTD
	var wage, withheld decimal.Decimal
	var months int
	if err := q.QueryRow(ctx, query, employeeID, companyID, year, beforeMonth).
		Scan(&wage, &withheld, &months); err != nil {
		return statutory.YTD{}, fmt.Errorf("failed to get year-to-date accumulators: %w", err)
	}

	ytd.GrossWage = wage
	ytd.TaxWithheld = withheld
	ytd.MonthsElapsed = months
	return ytd, nil
}
