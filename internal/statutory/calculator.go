package statutory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNegativeBase = errors.New("statutory base must not be negative")

// YTD carries the cumulative accumulators required by the progressive
// withholding calculation. The caller owns history; the calculator never
// queries it.
type YTD struct {
	GrossWage     decimal.Decimal `json:"gross_wage"`
	TaxWithheld   decimal.Decimal `json:"tax_withheld"`
	MonthsElapsed int             `json:"months_elapsed"` // completed months before the current period
}

// Line is the computed result for one contribution category.
type Line struct {
	Category Category        `json:"category"`
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
}

// Breakdown is the full result of one invocation.
type Breakdown struct {
	Lines             []Line          `json:"lines"`
	EmployeeTotal     decimal.Decimal `json:"employee_total"`
	EmployerTotal     decimal.Decimal `json:"employer_total"`
	WithholdingTax    decimal.Decimal `json:"withholding_tax"`
	ProfileIncomplete bool            `json:"profile_incomplete"`
}

// Compute derives all mandatory contributions and the income-tax withholding
// for one period. Pure function: safe for unrestricted concurrent use.
//
// Monetary rounding is round-half-up to two decimal places, applied exactly
// once at the end of each category's formula.
func Compute(base decimal.Decimal, profile Profile, ytd YTD, tables RateTables, now time.Time) (Breakdown, error) {
	if base.IsNegative() {
		return Breakdown{}, ErrNegativeBase
	}

	p, incomplete := profile.normalized(now)
	age := p.ageAt(now)

	out := Breakdown{
		EmployeeTotal:     decimal.Zero,
		EmployerTotal:     decimal.Zero,
		ProfileIncomplete: incomplete,
	}

	for _, schedule := range []ContributionSchedule{
		tables.Retirement,
		tables.SocialSecurity,
		tables.EmploymentInsurance,
	} {
		line := computeContribution(base, schedule, age, *p.Residency, *p.ContributionType)
		out.Lines = append(out.Lines, line)
		out.EmployeeTotal = out.EmployeeTotal.Add(line.Employee)
		out.EmployerTotal = out.EmployerTotal.Add(line.Employer)
	}

	tax := computeWithholding(base, p, ytd, tables.Tax)
	out.WithholdingTax = tax
	out.Lines = append(out.Lines, Line{Category: CategoryIncomeTax, Employee: tax, Employer: decimal.Zero})

	return out, nil
}

func computeContribution(base decimal.Decimal, schedule ContributionSchedule, age int, residency Residency, ctype ContributionType) Line {
	line := Line{Category: schedule.Category, Employee: decimal.Zero, Employer: decimal.Zero}

	var rule *ContributionRule
	for i := range schedule.Rules {
		if schedule.Rules[i].matches(age, residency, ctype) {
			rule = &schedule.Rules[i]
			break
		}
	}
	if rule == nil || len(rule.Bands) == 0 {
		return line
	}

	var band *WageBand
	for i := range rule.Bands {
		b := &rule.Bands[i]
		if base.LessThan(b.MinWage) {
			continue
		}
		if !b.MaxWage.IsZero() && base.GreaterThan(b.MaxWage) {
			continue
		}
		band = b
		break
	}
	if band == nil {
		return line
	}

	employee := base.Mul(band.EmployeeRate).Add(band.EmployeeFixed)
	employer := base.Mul(band.EmployerRate).Add(band.EmployerFixed)

	if !rule.Ceiling.IsZero() {
		if employee.GreaterThan(rule.Ceiling) {
			employee = rule.Ceiling
		}
		if employer.GreaterThan(rule.Ceiling) {
			employer = rule.Ceiling
		}
	}

	line.Employee = employee.Round(2)
	line.Employer = employer.Round(2)
	return line
}

// computeWithholding applies the cumulative-average method: project the
// year's wage from the YTD accumulators plus the current base, tax the
// projection on the annual schedule, then take the share owed up to and
// including this month minus what was already withheld.
func computeWithholding(base decimal.Decimal, p Profile, ytd YTD, schedule TaxSchedule) decimal.Decimal {
	if len(schedule.Brackets) == 0 {
		return decimal.Zero
	}

	months := ytd.MonthsElapsed + 1
	if months > 12 {
		months = 12
	}
	monthsDec := decimal.NewFromInt(int64(months))

	cumulative := ytd.GrossWage.Add(base)
	projectedAnnual := cumulative.Div(monthsDec).Mul(decimal.NewFromInt(12))

	reliefs := schedule.IndividualRelief
	if *p.MaritalStatus == MaritalMarried && !*p.SpouseWorking {
		reliefs = reliefs.Add(schedule.SpouseRelief)
	}
	reliefs = reliefs.Add(schedule.DependentRelief.Mul(decimal.NewFromInt(int64(*p.Dependents))))
	if p.Disabled {
		reliefs = reliefs.Add(schedule.DisabledRelief)
	}

	chargeable := projectedAnnual.Sub(reliefs)
	if chargeable.IsNegative() {
		return decimal.Zero
	}

	annualTax := annualTaxFor(chargeable, schedule.Brackets)

	owedToDate := annualTax.Mul(monthsDec).Div(decimal.NewFromInt(12))
	period := owedToDate.Sub(ytd.TaxWithheld)
	if period.IsNegative() {
		return decimal.Zero
	}
	return period.Round(2)
}

func annualTaxFor(chargeable decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	bracket := brackets[0]
	for _, b := range brackets {
		if chargeable.GreaterThanOrEqual(b.Threshold) {
			bracket = b
		} else {
			break
		}
	}
	return bracket.BaseTax.Add(chargeable.Sub(bracket.Threshold).Mul(bracket.Rate))
}
