package policy

import "context"

type PolicyRepository interface {
	// GetByScope returns the policy for the company/department pair.
	// ErrPolicyNotFound when no row exists for the exact scope.
	GetByScope(ctx context.Context, companyID string, departmentID *string) (Config, error)
	// GetRateTables returns the tenant's statutory rate-table document as raw
	// JSON, or ErrPolicyNotFound when none is configured.
	GetRateTables(ctx context.Context, companyID string) ([]byte, error)
}
