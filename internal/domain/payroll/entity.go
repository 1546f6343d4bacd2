package payroll

import (
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// RunStatus enum. Transitions are monotonic: draft -> finalized, nothing else.
type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusFinalized RunStatus = "finalized"
)

// PayrollRun is one computation for a scope and period. Totals are always
// derived from the items, never entered directly.
type PayrollRun struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	PeriodMonth  int
	PeriodYear   int
	Status       RunStatus

	TotalGross             decimal.Decimal
	TotalEmployeeStatutory decimal.Decimal
	TotalEmployerStatutory decimal.Decimal
	TotalWithholdingTax    decimal.Decimal
	TotalNetPay            decimal.Decimal

	FinalizedAt *time.Time
	FinalizedBy *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PayrollItem is one employee's line in a run. Mutable only while the run is
// draft.
type PayrollItem struct {
	ID         string
	RunID      string
	EmployeeID string
	CompanyID  string
	Scheme     employee.PayScheme

	// Earning components. Gross must always equal their sum.
	BasicPay        decimal.Decimal
	OvertimeAmount  decimal.Decimal
	ExtraDayAmount  decimal.Decimal
	TravelAllowance decimal.Decimal
	FixedAllowance  decimal.Decimal
	Commission      decimal.Decimal
	ClaimsAmount    decimal.Decimal
	Bonus           decimal.Decimal // manual, preserved across recalc

	// Derived detail
	OvertimeHours          decimal.Decimal
	ExtraDays              int
	TravelDays             int
	WorkedDays             int
	BasicPayCarriedForward bool

	// Deductions
	UnpaidLeaveDays   int
	LeaveDeduction    decimal.Decimal
	ManualDeduction   decimal.Decimal // manual, preserved across recalc
	EmployeeStatutory decimal.Decimal
	EmployerStatutory decimal.Decimal
	WithholdingTax    decimal.Decimal
	StatutoryDetail   map[string]decimal.Decimal // per-category employee amounts

	Gross         decimal.Decimal
	StatutoryBase decimal.Decimal
	NetPay        decimal.Decimal

	ProfileIncomplete bool
	Remarks           *string // manual, preserved across recalc
	Locked            bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// EarningComponents returns the declared earning components in a fixed order.
func (i PayrollItem) EarningComponents() []decimal.Decimal {
	return []decimal.Decimal{
		i.BasicPay,
		i.OvertimeAmount,
		i.ExtraDayAmount,
		i.TravelAllowance,
		i.FixedAllowance,
		i.Commission,
		i.ClaimsAmount,
		i.Bonus,
	}
}

// SumEarnings re-derives gross from the components.
func (i PayrollItem) SumEarnings() decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.EarningComponents() {
		total = total.Add(c)
	}
	return total
}

// CheckInvariants verifies gross equals the component sum to the cent. A
// failure indicates an engine defect, not a data problem.
func (i PayrollItem) CheckInvariants() error {
	if !i.Gross.Sub(i.SumEarnings()).Abs().LessThanOrEqual(decimal.New(1, -2)) {
		return ErrArithmeticInvariant
	}
	return nil
}
