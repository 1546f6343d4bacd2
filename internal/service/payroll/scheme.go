package payroll

import (
	"fmt"

	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	domainPolicy "github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	policyService "github.com/kerjapay/payroll-backend-go/internal/service/policy"
	"github.com/shopspring/decimal"
)

// EarningsInput is everything a scheme needs to compute one employee's
// earning components for a period.
type EarningsInput struct {
	BasicPay   decimal.Decimal
	Attendance []attendance.Attendance
	Commission decimal.Decimal
	Claims     decimal.Decimal
	Outstation payroll.OutstationResult
	Config     domainPolicy.Config
}

// Earnings is a scheme's computed component set.
type Earnings struct {
	Overtime       decimal.Decimal
	OvertimeHours  decimal.Decimal
	ExtraDayAmount decimal.Decimal
	ExtraDays      int
	Travel         decimal.Decimal
	TravelDays     int
	Fixed          decimal.Decimal
	Commission     decimal.Decimal
	Claims         decimal.Decimal
	WorkedDays     int
}

// SchemeStrategy is the per-scheme contract: how earnings are computed, which
// components count toward the statutory base, and which overtime mode
// applies. Selection is by scheme tag, never by company identity.
type SchemeStrategy interface {
	OTMode() domainPolicy.OTMode
	ComputeEarnings(in EarningsInput) Earnings
	// StatutoryBase derives the scheme's statutory wage base from an
	// assembled item.
	StatutoryBase(item payroll.PayrollItem) decimal.Decimal
}

// StrategyFor maps a pay-scheme tag to its strategy.
func StrategyFor(scheme employee.PayScheme) (SchemeStrategy, error) {
	switch scheme {
	case employee.SchemeDriver:
		return driverScheme{}, nil
	case employee.SchemeOffice:
		return officeScheme{}, nil
	case employee.SchemeShift:
		return shiftScheme{}, nil
	case employee.SchemeSales:
		return salesScheme{}, nil
	}
	return nil, fmt.Errorf("unknown pay scheme %q", scheme)
}

// driverScheme: per-trip drivers. Two OT tiers (daily excess hours plus
// monthly excess days), travel allowance from the outstation engine,
// commission included. The statutory base excludes OT and travel allowance.
type driverScheme struct{}

func (driverScheme) OTMode() domainPolicy.OTMode { return domainPolicy.OTModeExcessHoursDaily }

func (driverScheme) ComputeEarnings(in EarningsInput) Earnings {
	daily := policyService.ComputeDailyExcessOT(in.Attendance, in.BasicPay, in.Config)
	workedDays := policyService.CountWorkedDays(in.Attendance)
	monthly := policyService.ComputeMonthlyExcessDays(workedDays, in.BasicPay, in.Config)

	return Earnings{
		Overtime:       daily.Amount,
		OvertimeHours:  daily.Hours,
		ExtraDayAmount: monthly.Amount,
		ExtraDays:      monthly.ExtraDays,
		Travel:         in.Outstation.TotalAllowance,
		TravelDays:     in.Outstation.QualifyingDays,
		Fixed:          decimal.Zero,
		Commission:     in.Commission,
		Claims:         in.Claims,
		WorkedDays:     workedDays,
	}
}

func (driverScheme) StatutoryBase(item payroll.PayrollItem) decimal.Decimal {
	return item.BasicPay.Add(item.Commission)
}

// officeScheme: salaried office staff. Threshold OT, config-defined fixed
// allowance. The statutory base excludes the fixed allowance.
type officeScheme struct{}

func (officeScheme) OTMode() domainPolicy.OTMode { return domainPolicy.OTModeThresholdMultiplier }

func (officeScheme) ComputeEarnings(in EarningsInput) Earnings {
	ot := policyService.ComputeThresholdOT(in.Attendance, in.BasicPay, in.Config)

	return Earnings{
		Overtime:   ot.Amount,
		Fixed:      in.Config.FixedAllowance,
		Commission: decimal.Zero,
		Claims:     in.Claims,
		WorkedDays: policyService.CountWorkedDays(in.Attendance),
	}
}

func (officeScheme) StatutoryBase(item payroll.PayrollItem) decimal.Decimal {
	return item.BasicPay.Add(item.OvertimeAmount)
}

// shiftScheme: outlet shift workers. Threshold OT, no fixed allowance.
type shiftScheme struct{}

func (shiftScheme) OTMode() domainPolicy.OTMode { return domainPolicy.OTModeThresholdMultiplier }

func (shiftScheme) ComputeEarnings(in EarningsInput) Earnings {
	ot := policyService.ComputeThresholdOT(in.Attendance, in.BasicPay, in.Config)

	return Earnings{
		Overtime:   ot.Amount,
		Fixed:      decimal.Zero,
		Commission: decimal.Zero,
		Claims:     in.Claims,
		WorkedDays: policyService.CountWorkedDays(in.Attendance),
	}
}

func (shiftScheme) StatutoryBase(item payroll.PayrollItem) decimal.Decimal {
	return item.BasicPay.Add(item.OvertimeAmount)
}

// salesScheme: commissioned sales staff. No overtime; commission counts
// toward the statutory base, reimbursed claims never do.
type salesScheme struct{}

func (salesScheme) OTMode() domainPolicy.OTMode { return domainPolicy.OTModeThresholdMultiplier }

func (salesScheme) ComputeEarnings(in EarningsInput) Earnings {
	return Earnings{
		Commission: in.Commission,
		Claims:     in.Claims,
		WorkedDays: policyService.CountWorkedDays(in.Attendance),
	}
}

func (salesScheme) StatutoryBase(item payroll.PayrollItem) decimal.Decimal {
	return item.BasicPay.Add(item.Commission)
}
