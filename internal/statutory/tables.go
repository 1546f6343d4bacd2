package statutory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category identifies one statutory contribution stream.
type Category string

const (
	CategoryRetirement          Category = "retirement"
	CategorySocialSecurity      Category = "social_security"
	CategoryEmploymentInsurance Category = "employment_insurance"
	CategoryIncomeTax           Category = "income_tax"
)

// WageBand is one row of a contribution table. MaxWage of zero means the band
// is open-ended. Rates are fractions (0.11 == 11%); the fixed amounts cover
// tables that publish flat sums per band instead of percentages.
type WageBand struct {
	MinWage       decimal.Decimal `json:"min_wage"`
	MaxWage       decimal.Decimal `json:"max_wage"`
	EmployeeRate  decimal.Decimal `json:"employee_rate"`
	EmployerRate  decimal.Decimal `json:"employer_rate"`
	EmployeeFixed decimal.Decimal `json:"employee_fixed"`
	EmployerFixed decimal.Decimal `json:"employer_fixed"`
}

// ContributionRule pairs a wage table with the profile attributes it applies
// to. Rules are evaluated in order; the first match wins. Empty selector
// slices match any value.
type ContributionRule struct {
	MinAge            *int               `json:"min_age,omitempty"`
	MaxAge            *int               `json:"max_age,omitempty"`
	Residencies       []Residency        `json:"residencies,omitempty"`
	ContributionTypes []ContributionType `json:"contribution_types,omitempty"`
	Ceiling           decimal.Decimal    `json:"ceiling"`
	Bands             []WageBand         `json:"bands"`
}

func (r ContributionRule) matches(age int, residency Residency, ctype ContributionType) bool {
	if r.MinAge != nil && age >= 0 && age < *r.MinAge {
		return false
	}
	if r.MaxAge != nil && age >= 0 && age > *r.MaxAge {
		return false
	}
	if len(r.Residencies) > 0 {
		found := false
		for _, res := range r.Residencies {
			if res == residency {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(r.ContributionTypes) > 0 {
		found := false
		for _, ct := range r.ContributionTypes {
			if ct == ctype {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ContributionSchedule is the full rule set for one category.
type ContributionSchedule struct {
	Category Category           `json:"category"`
	Rules    []ContributionRule `json:"rules"`
}

// TaxBracket is one step of the progressive annual schedule. BaseTax is the
// accumulated tax of all lower brackets, the usual published-table form.
type TaxBracket struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
	BaseTax   decimal.Decimal `json:"base_tax"`
}

// TaxSchedule holds the progressive withholding schedule plus the personal
// reliefs subtracted from projected annual income.
type TaxSchedule struct {
	IndividualRelief decimal.Decimal `json:"individual_relief"`
	SpouseRelief     decimal.Decimal `json:"spouse_relief"`
	DependentRelief  decimal.Decimal `json:"dependent_relief"`
	DisabledRelief   decimal.Decimal `json:"disabled_relief"`
	Brackets         []TaxBracket    `json:"brackets"`
}

// RateTables bundles everything the calculator needs. The authoritative data
// is supplied by the tenant configuration store; Default() exists only so a
// missing row degrades to a warning instead of blocking payroll.
type RateTables struct {
	Retirement          ContributionSchedule `json:"retirement"`
	SocialSecurity      ContributionSchedule `json:"social_security"`
	EmploymentInsurance ContributionSchedule `json:"employment_insurance"`
	Tax                 TaxSchedule          `json:"tax"`
}

// Load parses a JSON rate-table document from the configuration store.
func Load(raw []byte) (RateTables, error) {
	var t RateTables
	if err := json.Unmarshal(raw, &t); err != nil {
		return RateTables{}, fmt.Errorf("failed to parse rate tables: %w", err)
	}
	if len(t.Retirement.Rules) == 0 || len(t.Tax.Brackets) == 0 {
		return RateTables{}, fmt.Errorf("rate tables incomplete: retirement rules and tax brackets are required")
	}
	return t, nil
}

func intPtr(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Default returns a conservative placeholder table set. These values are NOT
// the statutory schedule of any jurisdiction; production deployments must
// supply the current official tables through tenant configuration.
func Default() RateTables {
	openBand := func(empRate, erRate string) []WageBand {
		return []WageBand{{
			MinWage:      decimal.Zero,
			MaxWage:      decimal.Zero,
			EmployeeRate: dec(empRate),
			EmployerRate: dec(erRate),
		}}
	}

	return RateTables{
		Retirement: ContributionSchedule{
			Category: CategoryRetirement,
			Rules: []ContributionRule{
				{
					ContributionTypes: []ContributionType{ContributionExempt},
					Bands:             []WageBand{},
				},
				{
					MaxAge: intPtr(59),
					Bands:  openBand("0.11", "0.13"),
				},
				{
					MinAge: intPtr(60),
					Bands:  openBand("0.055", "0.065"),
				},
			},
		},
		SocialSecurity: ContributionSchedule{
			Category: CategorySocialSecurity,
			Rules: []ContributionRule{
				{
					ContributionTypes: []ContributionType{ContributionExempt},
					Bands:             []WageBand{},
				},
				{
					// Past retirement age only the employer injury scheme applies.
					MinAge:  intPtr(60),
					Ceiling: dec("61.75"),
					Bands:   openBand("0", "0.0125"),
				},
				{
					Ceiling: dec("136.35"),
					Bands:   openBand("0.005", "0.0175"),
				},
			},
		},
		EmploymentInsurance: ContributionSchedule{
			Category: CategoryEmploymentInsurance,
			Rules: []ContributionRule{
				{
					// Non-residents and exempt employees do not contribute.
					Residencies: []Residency{ResidencyForeign},
					Bands:       []WageBand{},
				},
				{
					ContributionTypes: []ContributionType{ContributionExempt},
					Bands:             []WageBand{},
				},
				{
					MinAge: intPtr(60),
					Bands:  []WageBand{},
				},
				{
					Ceiling: dec("19.90"),
					Bands:   openBand("0.002", "0.002"),
				},
			},
		},
		Tax: TaxSchedule{
			IndividualRelief: dec("9000"),
			SpouseRelief:     dec("4000"),
			DependentRelief:  dec("2000"),
			DisabledRelief:   dec("6000"),
			Brackets: []TaxBracket{
				{Threshold: dec("0"), Rate: dec("0"), BaseTax: dec("0")},
				{Threshold: dec("5000"), Rate: dec("0.01"), BaseTax: dec("0")},
				{Threshold: dec("20000"), Rate: dec("0.03"), BaseTax: dec("150")},
				{Threshold: dec("35000"), Rate: dec("0.06"), BaseTax: dec("600")},
				{Threshold: dec("50000"), Rate: dec("0.11"), BaseTax: dec("1500")},
				{Threshold: dec("70000"), Rate: dec("0.19"), BaseTax: dec("3700")},
				{Threshold: dec("100000"), Rate: dec("0.25"), BaseTax: dec("9400")},
				{Threshold: dec("400000"), Rate: dec("0.26"), BaseTax: dec("84400")},
				{Threshold: dec("600000"), Rate: dec("0.28"), BaseTax: dec("136400")},
			},
		},
	}
}
