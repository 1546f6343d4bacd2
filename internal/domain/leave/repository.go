package leave

import "context"

// LeaveRepository is the read-side of the external leave subsystem. The engine
// only needs the unpaid-day count that feeds the leave deduction.
type LeaveRepository interface {
	CountUnpaidDays(ctx context.Context, employeeID string, companyID string, month, year int) (int, error)
}
