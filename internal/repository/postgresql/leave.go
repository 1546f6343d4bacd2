package postgresql

import (
	"context"
	"fmt"

	"github.com/kerjapay/payroll-backend-go/internal/domain/leave"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// CountUnpaidDays counts approved unpaid leave days that fall inside the
// period, clipping requests that straddle a month boundary.
func (r *leaveRepository) CountUnpaidDays(ctx context.Context, employeeID string, companyID string, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(
			LEAST(end_date, (make_date($3, $4, 1) + INTERVAL '1 month - 1 day')::date)
			- GREATEST(start_date, make_date($3, $4, 1))
			+ 1
		), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND company_id = $2
		  AND leave_type = 'unpaid' AND status = 'approved'
		  AND start_date <= (make_date($3, $4, 1) + INTERVAL '1 month - 1 day')::date
		  AND end_date >= make_date($3, $4, 1)
	`

	var days int
	if err := q.QueryRow(ctx, query, employeeID, companyID, year, month).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to count unpaid leave days: %w", err)
	}

	return days, nil
}
