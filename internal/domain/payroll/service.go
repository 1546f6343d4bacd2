package payroll

import (
	"context"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

type PayrollService interface {
	// Runs
	CreateRun(ctx context.Context, req CreateRunRequest) (CreateRunResult, error)
	GetRun(ctx context.Context, runID string) (PayrollRun, []PayrollItem, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]PayrollRun, int64, error)
	FinalizeRun(ctx context.Context, runID string) (PayrollRun, error)
	DeleteRun(ctx context.Context, runID string) error
	GetRunSummary(ctx context.Context, runID string) (RunSummary, error)

	// Items
	RecalcItem(ctx context.Context, itemID string) (PayrollItem, error)
	RecalcAll(ctx context.Context, runID string) (RecalcAllResult, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (PayrollItem, error)

	// Export
	ExportBankTransfer(ctx context.Context, runID string) ([]BankTransferRow, error)

	// Direct computation surfaces
	ComputeStatutory(ctx context.Context, base decimal.Decimal, profile statutory.Profile, ytd statutory.YTD) (statutory.Breakdown, error)
	ComputeOutstationAllowance(ctx context.Context, employeeID string, from, to time.Time) (OutstationResult, error)
}
