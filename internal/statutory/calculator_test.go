package statutory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func completeProfile(age int) Profile {
	dob := testNow.AddDate(-age, 0, -1)
	residency := ResidencyCitizen
	marital := MaritalSingle
	spouseWorking := true
	dependents := 0
	ctype := ContributionNormal
	return Profile{
		DateOfBirth:      &dob,
		Residency:        &residency,
		MaritalStatus:    &marital,
		SpouseWorking:    &spouseWorking,
		Dependents:       &dependents,
		ContributionType: &ctype,
	}
}

func lineFor(t *testing.T, b Breakdown, category Category) Line {
	t.Helper()
	for _, l := range b.Lines {
		if l.Category == category {
			return l
		}
	}
	t.Fatalf("no line for category %s", category)
	return Line{}
}

func TestCompute_NegativeBase(t *testing.T) {
	_, err := Compute(decimal.NewFromInt(-1), completeProfile(30), YTD{}, Default(), testNow)
	assert.ErrorIs(t, err, ErrNegativeBase)
}

func TestCompute_ContributionsUnderSixty(t *testing.T) {
	base := decimal.NewFromInt(2600)
	result, err := Compute(base, completeProfile(30), YTD{}, Default(), testNow)
	require.NoError(t, err)

	retirement := lineFor(t, result, CategoryRetirement)
	assert.True(t, retirement.Employee.Equal(decimal.RequireFromString("286")), "got %s", retirement.Employee)
	assert.True(t, retirement.Employer.Equal(decimal.RequireFromString("338")), "got %s", retirement.Employer)

	social := lineFor(t, result, CategorySocialSecurity)
	assert.True(t, social.Employee.Equal(decimal.RequireFromString("13")), "got %s", social.Employee)
	assert.True(t, social.Employer.Equal(decimal.RequireFromString("45.5")), "got %s", social.Employer)

	insurance := lineFor(t, result, CategoryEmploymentInsurance)
	assert.True(t, insurance.Employee.Equal(decimal.RequireFromString("5.2")), "got %s", insurance.Employee)
	assert.True(t, insurance.Employer.Equal(decimal.RequireFromString("5.2")), "got %s", insurance.Employer)

	assert.True(t, result.EmployeeTotal.Equal(decimal.RequireFromString("304.2")), "got %s", result.EmployeeTotal)
	assert.True(t, result.EmployerTotal.Equal(decimal.RequireFromString("388.7")), "got %s", result.EmployerTotal)
	assert.False(t, result.ProfileIncomplete)
}

func TestCompute_CeilingClamp(t *testing.T) {
	base := decimal.NewFromInt(12000)
	result, err := Compute(base, completeProfile(40), YTD{}, Default(), testNow)
	require.NoError(t, err)

	social := lineFor(t, result, CategorySocialSecurity)
	assert.True(t, social.Employee.Equal(decimal.RequireFromString("60")), "got %s", social.Employee)
	// 12000 * 0.0175 = 210, clamped at the ceiling.
	assert.True(t, social.Employer.Equal(decimal.RequireFromString("136.35")), "got %s", social.Employer)

	insurance := lineFor(t, result, CategoryEmploymentInsurance)
	assert.True(t, insurance.Employee.Equal(decimal.RequireFromString("19.9")), "got %s", insurance.Employee)
	assert.True(t, insurance.Employer.Equal(decimal.RequireFromString("19.9")), "got %s", insurance.Employer)
}

func TestCompute_AgeSixtyRules(t *testing.T) {
	base := decimal.NewFromInt(2600)
	result, err := Compute(base, completeProfile(61), YTD{}, Default(), testNow)
	require.NoError(t, err)

	retirement := lineFor(t, result, CategoryRetirement)
	assert.True(t, retirement.Employee.Equal(decimal.RequireFromString("143")), "got %s", retirement.Employee)
	assert.True(t, retirement.Employer.Equal(decimal.RequireFromString("169")), "got %s", retirement.Employer)

	// Only the employer injury scheme remains past retirement age.
	social := lineFor(t, result, CategorySocialSecurity)
	assert.True(t, social.Employee.IsZero())
	assert.True(t, social.Employer.Equal(decimal.RequireFromString("32.5")), "got %s", social.Employer)

	insurance := lineFor(t, result, CategoryEmploymentInsurance)
	assert.True(t, insurance.Employee.IsZero())
	assert.True(t, insurance.Employer.IsZero())
}

func TestCompute_ExemptContributionType(t *testing.T) {
	profile := completeProfile(30)
	exempt := ContributionExempt
	profile.ContributionType = &exempt

	result, err := Compute(decimal.NewFromInt(2600), profile, YTD{}, Default(), testNow)
	require.NoError(t, err)

	assert.True(t, result.EmployeeTotal.IsZero())
	assert.True(t, result.EmployerTotal.IsZero())
}

func TestCompute_IncompleteProfileFlagged(t *testing.T) {
	result, err := Compute(decimal.NewFromInt(2600), Profile{}, YTD{}, Default(), testNow)
	require.NoError(t, err)

	// Conservative defaults still produce a full breakdown, flagged for review.
	assert.True(t, result.ProfileIncomplete)
	assert.True(t, result.EmployeeTotal.IsPositive())
}

func TestCompute_WithholdingFirstMonth(t *testing.T) {
	base := decimal.NewFromInt(2600)
	result, err := Compute(base, completeProfile(30), YTD{}, Default(), testNow)
	require.NoError(t, err)

	// projected annual 31200, chargeable 22200, annual tax 216, one twelfth.
	assert.True(t, result.WithholdingTax.Equal(decimal.RequireFromString("18")), "got %s", result.WithholdingTax)
}

func TestCompute_WithholdingContinuesFromYTD(t *testing.T) {
	base := decimal.NewFromInt(2600)
	ytd := YTD{
		GrossWage:     decimal.NewFromInt(2600),
		TaxWithheld:   decimal.NewFromInt(18),
		MonthsElapsed: 1,
	}

	result, err := Compute(base, completeProfile(30), ytd, Default(), testNow)
	require.NoError(t, err)

	// Same projection as month one, so the second twelfth is owed.
	assert.True(t, result.WithholdingTax.Equal(decimal.RequireFromString("18")), "got %s", result.WithholdingTax)
}

func TestCompute_WithholdingSpikeMonth(t *testing.T) {
	// A bonus month raises the projection and the cumulative method catches up
	// the whole difference in the current period.
	base := decimal.NewFromInt(7600)
	ytd := YTD{
		GrossWage:     decimal.NewFromInt(2600),
		TaxWithheld:   decimal.NewFromInt(18),
		MonthsElapsed: 1,
	}

	result, err := Compute(base, completeProfile(30), ytd, Default(), testNow)
	require.NoError(t, err)

	// projected annual 61200, chargeable 52200, annual tax 1742,
	// owed to date 290.33, minus 18 already withheld.
	assert.True(t, result.WithholdingTax.Equal(decimal.RequireFromString("272.33")), "got %s", result.WithholdingTax)
}

func TestCompute_WithholdingBelowReliefs(t *testing.T) {
	result, err := Compute(decimal.NewFromInt(500), completeProfile(30), YTD{}, Default(), testNow)
	require.NoError(t, err)

	assert.True(t, result.WithholdingTax.IsZero())
}

func TestCompute_WithholdingFamilyReliefs(t *testing.T) {
	profile := completeProfile(30)
	married := MaritalMarried
	notWorking := false
	dependents := 2
	profile.MaritalStatus = &married
	profile.SpouseWorking = &notWorking
	profile.Dependents = &dependents

	result, err := Compute(decimal.NewFromInt(2600), profile, YTD{}, Default(), testNow)
	require.NoError(t, err)

	// reliefs 9000 + 4000 + 2*2000, chargeable 14200, annual tax 92.
	assert.True(t, result.WithholdingTax.Equal(decimal.RequireFromString("7.67")), "got %s", result.WithholdingTax)
}

func TestCompute_WithholdingNeverNegative(t *testing.T) {
	// Over-withheld earlier in the year: the period amount clamps at zero, no
	// refunds through payroll.
	ytd := YTD{
		GrossWage:     decimal.NewFromInt(2600),
		TaxWithheld:   decimal.NewFromInt(500),
		MonthsElapsed: 1,
	}

	result, err := Compute(decimal.NewFromInt(2600), completeProfile(30), ytd, Default(), testNow)
	require.NoError(t, err)

	assert.True(t, result.WithholdingTax.IsZero())
}

func TestLoad_RejectsIncompleteTables(t *testing.T) {
	_, err := Load([]byte(`{"tax": {"brackets": []}}`))
	assert.Error(t, err)

	_, err = Load([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoad_RoundTripsDefault(t *testing.T) {
	raw, err := json.Marshal(Default())
	require.NoError(t, err)

	tables, err := Load(raw)
	require.NoError(t, err)

	result, err := Compute(decimal.NewFromInt(2600), completeProfile(30), YTD{}, tables, testNow)
	require.NoError(t, err)
	assert.True(t, result.EmployeeTotal.Equal(decimal.RequireFromString("304.2")), "got %s", result.EmployeeTotal)
}
