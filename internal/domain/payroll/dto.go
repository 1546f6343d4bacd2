package payroll

import (
	"fmt"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRunRequest struct {
	DepartmentID *string `json:"department_id,omitempty"`
	PeriodMonth  int     `json:"period_month"`
	PeriodYear   int     `json:"period_year"`
}

func (r CreateRunRequest) Validate() error {
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, r.PeriodMonth)
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, r.PeriodYear)
	}
	if r.DepartmentID != nil && validator.IsEmpty(*r.DepartmentID) {
		return validator.ValidationErrors{
			{Field: "department_id", Message: "must not be blank when present"},
		}
	}
	return nil
}

// SkippedEmployee reports one employee left out of automated computation.
type SkippedEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

// CreateRunResult is the partial-success contract of run creation.
type CreateRunResult struct {
	Run              PayrollRun        `json:"run"`
	Items            []PayrollItem     `json:"items"`
	SkippedEmployees []SkippedEmployee `json:"skipped_employees"`
	// CarriedForward lists employee IDs whose basic pay was carried forward
	// from an earlier period.
	CarriedForward []string `json:"carried_forward"`
}

type RecalcAllResult struct {
	Recalculated int `json:"recalculated"`
	Total        int `json:"total"`
}

// UpdateItemRequest covers the manually-entered discretionary fields only.
// Derived fields can never be written through this path.
type UpdateItemRequest struct {
	ID              string           `json:"-"`
	Bonus           *decimal.Decimal `json:"bonus,omitempty"`
	ManualDeduction *decimal.Decimal `json:"manual_deduction,omitempty"`
	Remarks         *string          `json:"remarks,omitempty"`
}

func (r UpdateItemRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "must not be negative"})
	}
	if r.ManualDeduction != nil && r.ManualDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "manual_deduction", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualFields are the operator-entered item columns. Recalculation reads
// them back under a row lock so a concurrent edit cannot be overwritten with
// totals derived from stale values.
type ManualFields struct {
	Bonus           decimal.Decimal
	ManualDeduction decimal.Decimal
	Remarks         *string
}

type RunFilter struct {
	PeriodMonth  int
	PeriodYear   int
	DepartmentID *string
	Status       *RunStatus
	Page         int
	Limit        int
}

// RunSummary aggregates one run for reporting.
type RunSummary struct {
	RunID                  string          `json:"run_id"`
	Status                 string          `json:"status"`
	EmployeeCount          int             `json:"employee_count"`
	TotalGross             decimal.Decimal `json:"total_gross"`
	TotalEmployeeStatutory decimal.Decimal `json:"total_employee_statutory"`
	TotalEmployerStatutory decimal.Decimal `json:"total_employer_statutory"`
	TotalWithholdingTax    decimal.Decimal `json:"total_withholding_tax"`
	TotalNetPay            decimal.Decimal `json:"total_net_pay"`
}

// BankTransferRow is one line of the bank upload file for a finalized run.
// NetPay comes from the persisted item, never recomputed at export time.
type BankTransferRow struct {
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      string          `json:"employee_name"`
	BankCode          string          `json:"bank_code"`
	BankAccountNumber string          `json:"bank_account_number"`
	AccountHolderName string          `json:"account_holder_name"`
	NetPay            decimal.Decimal `json:"net_pay"`
}

// OutstationDayPair is one qualifying consecutive-day pair.
type OutstationDayPair struct {
	Day1 time.Time `json:"day1"`
	Day2 time.Time `json:"day2"`
}

type OutstationResult struct {
	QualifyingPairs []OutstationDayPair `json:"qualifying_pairs"`
	QualifyingDays  int                 `json:"qualifying_days"`
	TotalAllowance  decimal.Decimal     `json:"total_allowance"`
}
