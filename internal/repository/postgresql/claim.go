package postgresql

import (
	"context"
	"fmt"

	"github.com/kerjapay/payroll-backend-go/internal/domain/claim"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type claimRepository struct {
	db *database.DB
}

func NewClaimRepository(db *database.DB) claim.ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) SumApprovedUnlinked(ctx context.Context, employeeID string, companyID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM claims
		WHERE employee_id = $1 AND company_id = $2
		  AND status = 'approved' AND payroll_item_id IS NULL
		  AND EXTRACT(MONTH FROM claim_date) = $3
		  AND EXTRACT(YEAR FROM claim_date) = $4
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, companyID, month, year).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved claims: %w", err)
	}

	return total, nil
}

func (r *claimRepository) ListApprovedUnlinked(ctx context.Context, companyID string, month, year int) ([]claim.Claim, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, description, amount, status, claim_date,
			   payroll_item_id, created_at, updated_at
		FROM claims
		WHERE company_id = $1
		  AND status = 'approved' AND payroll_item_id IS NULL
		  AND EXTRACT(MONTH FROM claim_date) = $2
		  AND EXTRACT(YEAR FROM claim_date) = $3
		ORDER BY claim_date ASC
	`

	rows, err := q.Query(ctx, query, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved claims: %w", err)
	}
	defer rows.Close()

	var claims []claim.Claim
	for rows.Next() {
		var c claim.Claim
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.CompanyID, &c.Description, &c.Amount, &c.Status,
			&c.ClaimDate, &c.PayrollItemID, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

func (r *claimRepository) LinkToItem(ctx context.Context, claimID string, itemID string) error {
	q := GetQuerier(ctx, r.db)

	// The IS NULL guard makes the link write-once.
	query := `
		UPDATE claims
		SET payroll_item_id = $1, updated_at = NOW()
		WHERE id = $2 AND payroll_item_id IS NULL
	`

	tag, err := q.Exec(ctx, query, itemID, claimID)
	if err != nil {
		return fmt.Errorf("failed to link claim to payroll item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return claim.ErrClaimAlreadyLinked
	}
	return nil
}

type commissionRepository struct {
	db *database.DB
}

func NewCommissionRepository(db *database.DB) claim.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) SumByEmployeePeriod(ctx context.Context, employeeID string, companyID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM commissions
		WHERE employee_id = $1 AND company_id = $2
		  AND period_month = $3 AND period_year = $4
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, companyID, month, year).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum commissions: %w", err)
	}

	return total, nil
}
