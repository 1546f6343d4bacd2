package payroll

import (
	"context"

	"github.com/kerjapay/payroll-backend-go/internal/statutory"
)

// PayrollRepository defines data access for runs and items.
// All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	GetRunByScopePeriod(ctx context.Context, companyID string, departmentID *string, month, year int) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, int64, error)
	// UpdateRunTotals rewrites the derived aggregate columns.
	UpdateRunTotals(ctx context.Context, run PayrollRun) error
	// FinalizeRun is the compare-and-set transition draft -> finalized.
	// ErrRunNotDraft when the guard does not match, so a concurrent second
	// finalize observes the conflict instead of repeating side effects.
	FinalizeRun(ctx context.Context, id string, companyID string, finalizedBy string) error
	DeleteRun(ctx context.Context, id string, companyID string) error

	// Items
	CreateItem(ctx context.Context, item PayrollItem) (PayrollItem, error)
	GetItemByID(ctx context.Context, id string, companyID string) (PayrollItem, error)
	// GetItemManualForUpdate reads the manual fields under a row lock. Must
	// run inside a transaction; callers overlay the result before rewriting
	// derived totals so the committed manual values are never lost.
	GetItemManualForUpdate(ctx context.Context, id string, companyID string) (ManualFields, error)
	ListItemsByRun(ctx context.Context, runID string, companyID string) ([]PayrollItem, error)
	// UpdateItemDerived rewrites only engine-derived fields, leaving the
	// manual fields (bonus, manual deduction, remarks) untouched.
	UpdateItemDerived(ctx context.Context, item PayrollItem) error
	// UpdateItemManual writes only the manual fields.
	UpdateItemManual(ctx context.Context, companyID string, req UpdateItemRequest) error
	LockItemsByRun(ctx context.Context, runID string, companyID string) error

	// Export
	ListBankTransferRows(ctx context.Context, runID string, companyID string) ([]BankTransferRow, error)

	// GetYearToDate sums statutory wage base and withheld tax across the
	// employee's finalized items for the year, up to but excluding
	// beforeMonth. Feeds the progressive withholding calculation.
	GetYearToDate(ctx context.Context, employeeID string, companyID string, year, beforeMonth int) (statutory.YTD, error)
}
