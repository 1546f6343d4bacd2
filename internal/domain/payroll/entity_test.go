package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func componentItem() PayrollItem {
	return PayrollItem{
		BasicPay:        decimal.NewFromInt(2600),
		OvertimeAmount:  decimal.RequireFromString("31.25"),
		ExtraDayAmount:  decimal.NewFromInt(300),
		TravelAllowance: decimal.NewFromInt(120),
		FixedAllowance:  decimal.NewFromInt(200),
		Commission:      decimal.NewFromInt(400),
		ClaimsAmount:    decimal.RequireFromString("89.90"),
		Bonus:           decimal.NewFromInt(500),
	}
}

func TestSumEarnings(t *testing.T) {
	item := componentItem()
	assert.True(t, item.SumEarnings().Equal(decimal.RequireFromString("4241.15")), "got %s", item.SumEarnings())
}

func TestCheckInvariants(t *testing.T) {
	item := componentItem()
	item.Gross = item.SumEarnings()
	assert.NoError(t, item.CheckInvariants())

	// a cent of drift is tolerated, more is a defect
	item.Gross = item.SumEarnings().Add(decimal.New(1, -2))
	assert.NoError(t, item.CheckInvariants())

	item.Gross = item.SumEarnings().Add(decimal.New(2, -2))
	assert.ErrorIs(t, item.CheckInvariants(), ErrArithmeticInvariant)
}

func TestCreateRunRequestValidate(t *testing.T) {
	valid := CreateRunRequest{PeriodMonth: 6, PeriodYear: 2026}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, CreateRunRequest{PeriodMonth: 0, PeriodYear: 2026}.Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, CreateRunRequest{PeriodMonth: 13, PeriodYear: 2026}.Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, CreateRunRequest{PeriodMonth: 6, PeriodYear: 1999}.Validate(), ErrInvalidPeriod)

	blank := ""
	assert.Error(t, CreateRunRequest{PeriodMonth: 6, PeriodYear: 2026, DepartmentID: &blank}.Validate())
}

func TestUpdateItemRequestValidate(t *testing.T) {
	bonus := decimal.NewFromInt(500)
	assert.NoError(t, UpdateItemRequest{Bonus: &bonus}.Validate())

	negative := decimal.NewFromInt(-1)
	assert.Error(t, UpdateItemRequest{Bonus: &negative}.Validate())
	assert.Error(t, UpdateItemRequest{ManualDeduction: &negative}.Validate())

	// empty update is allowed, it just changes nothing
	assert.NoError(t, UpdateItemRequest{}.Validate())
}
