package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim is a reimbursement request. PayrollItemID is set exactly once, at
// finalize time, and never cleared.
type Claim struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Description   *string
	Amount        decimal.Decimal
	Status        ClaimStatus
	ClaimDate     time.Time
	PayrollItemID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Commission is a per-period monetary entry produced by the sales/trip
// systems.
type Commission struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	Amount      decimal.Decimal
	PeriodMonth int
	PeriodYear  int
	CreatedAt   time.Time
}
