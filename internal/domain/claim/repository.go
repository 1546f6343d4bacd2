package claim

import (
	"context"

	"github.com/shopspring/decimal"
)

type ClaimRepository interface {
	// SumApprovedUnlinked totals the employee's approved, not-yet-linked
	// claims whose claim date falls inside the period. Used for draft item
	// assembly; linking happens only at finalize.
	SumApprovedUnlinked(ctx context.Context, employeeID string, companyID string, month, year int) (decimal.Decimal, error)
	// ListApprovedUnlinked returns the claims eligible for linking for every
	// employee in the run's scope.
	ListApprovedUnlinked(ctx context.Context, companyID string, month, year int) ([]Claim, error)
	// LinkToItem sets the claim's payroll item exactly once.
	// ErrClaimAlreadyLinked when a link already exists.
	LinkToItem(ctx context.Context, claimID string, itemID string) error
}

type CommissionRepository interface {
	SumByEmployeePeriod(ctx context.Context, employeeID string, companyID string, month, year int) (decimal.Decimal, error)
}
