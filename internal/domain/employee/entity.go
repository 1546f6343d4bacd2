package employee

import (
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

// PayScheme selects the earnings strategy for an employee. Business logic
// branches on this tag, never on company identifiers.
type PayScheme string

const (
	SchemeOffice PayScheme = "office"
	SchemeSales  PayScheme = "sales"
	SchemeDriver PayScheme = "driver"
	SchemeShift  PayScheme = "shift"
)

func (s PayScheme) Valid() bool {
	switch s {
	case SchemeOffice, SchemeSales, SchemeDriver, SchemeShift:
		return true
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Employee is the snapshot the engine reads. Employee administration owns the
// record; nothing here is written back.
type Employee struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	OutletID     *string
	EmployeeCode string
	FullName     string
	Scheme       PayScheme
	BasicPay     *decimal.Decimal

	// Home base for outstation distance checks.
	HomeBaseLatitude  *float64
	HomeBaseLongitude *float64

	BankCode              string
	BankAccountNumber     string
	BankAccountHolderName *string

	EmploymentStatus EmploymentStatus
	Statutory        statutory.Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}
