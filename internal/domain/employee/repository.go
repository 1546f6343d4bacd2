package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeeRepository reads employee snapshots. All methods take companyID so a
// scope can never leak across tenants.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	// GetActiveByScope returns active employees for a company, optionally
	// narrowed to one department.
	GetActiveByScope(ctx context.Context, companyID string, departmentID *string) ([]Employee, error)
	// ResolveBasicPay returns the basic pay effective for the given period,
	// falling back to the most recent earlier value. carriedForward reports
	// that the fallback was used. ErrNoBasicPay when no value exists at all.
	ResolveBasicPay(ctx context.Context, employeeID string, month, year int) (pay decimal.Decimal, carriedForward bool, err error)
}
