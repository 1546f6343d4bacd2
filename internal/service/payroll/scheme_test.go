package payroll

import (
	"testing"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	domainPolicy "github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minuteDay(day int, minutes int) attendance.Attendance {
	date := time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC)
	return attendance.Attendance{Date: date, WorkedMinutes: &minutes}
}

func TestStrategyFor(t *testing.T) {
	for _, scheme := range []employee.PayScheme{
		employee.SchemeOffice, employee.SchemeSales, employee.SchemeDriver, employee.SchemeShift,
	} {
		strategy, err := StrategyFor(scheme)
		require.NoError(t, err)
		require.NotNil(t, strategy)
	}

	_, err := StrategyFor(employee.PayScheme("contractor"))
	assert.Error(t, err)
}

func TestDriverScheme_Earnings(t *testing.T) {
	strategy, err := StrategyFor(employee.SchemeDriver)
	require.NoError(t, err)

	in := EarningsInput{
		BasicPay: decimal.NewFromInt(2600),
		Attendance: []attendance.Attendance{
			minuteDay(4, 600), // one OT hour
			minuteDay(5, 630), // one and a half
		},
		Commission: decimal.NewFromInt(400),
		Claims:     decimal.NewFromInt(120),
		Outstation: payroll.OutstationResult{
			QualifyingDays: 2,
			TotalAllowance: decimal.NewFromInt(120),
		},
		Config: domainPolicy.Defaults(),
	}

	earnings := strategy.ComputeEarnings(in)

	assert.True(t, earnings.OvertimeHours.Equal(decimal.RequireFromString("2.5")), "got %s", earnings.OvertimeHours)
	assert.True(t, earnings.Overtime.Equal(decimal.RequireFromString("31.25")), "got %s", earnings.Overtime)
	assert.Equal(t, 2, earnings.WorkedDays)
	assert.Equal(t, 0, earnings.ExtraDays)
	assert.Equal(t, 2, earnings.TravelDays)
	assert.True(t, earnings.Travel.Equal(decimal.NewFromInt(120)))
	assert.True(t, earnings.Commission.Equal(decimal.NewFromInt(400)))
	assert.True(t, earnings.Claims.Equal(decimal.NewFromInt(120)))
}

func TestDriverScheme_ExtraDays(t *testing.T) {
	strategy, err := StrategyFor(employee.SchemeDriver)
	require.NoError(t, err)

	var days []attendance.Attendance
	for d := 1; d <= 25; d++ {
		days = append(days, minuteDay(d, 540))
	}

	earnings := strategy.ComputeEarnings(EarningsInput{
		BasicPay:   decimal.NewFromInt(2600),
		Attendance: days,
		Config:     domainPolicy.Defaults(),
	})

	assert.Equal(t, 25, earnings.WorkedDays)
	assert.Equal(t, 3, earnings.ExtraDays)
	assert.True(t, earnings.ExtraDayAmount.Equal(decimal.NewFromInt(300)), "got %s", earnings.ExtraDayAmount)
	assert.True(t, earnings.Overtime.IsZero())
}

func TestOfficeScheme_Earnings(t *testing.T) {
	strategy, err := StrategyFor(employee.SchemeOffice)
	require.NoError(t, err)

	cfg := domainPolicy.Defaults()
	cfg.FixedAllowance = decimal.NewFromInt(200)

	earnings := strategy.ComputeEarnings(EarningsInput{
		BasicPay:   decimal.NewFromInt(2600),
		Attendance: []attendance.Attendance{minuteDay(4, 600)},
		Commission: decimal.NewFromInt(999), // office staff never earn commission
		Config:     cfg,
	})

	assert.True(t, earnings.Overtime.Equal(decimal.RequireFromString("18.75")), "got %s", earnings.Overtime)
	assert.True(t, earnings.Fixed.Equal(decimal.NewFromInt(200)))
	assert.True(t, earnings.Commission.IsZero())
}

func TestShiftScheme_NoFixedAllowance(t *testing.T) {
	strategy, err := StrategyFor(employee.SchemeShift)
	require.NoError(t, err)

	cfg := domainPolicy.Defaults()
	cfg.FixedAllowance = decimal.NewFromInt(200)

	earnings := strategy.ComputeEarnings(EarningsInput{
		BasicPay:   decimal.NewFromInt(2600),
		Attendance: []attendance.Attendance{minuteDay(4, 600)},
		Config:     cfg,
	})

	assert.True(t, earnings.Overtime.Equal(decimal.RequireFromString("18.75")), "got %s", earnings.Overtime)
	assert.True(t, earnings.Fixed.IsZero())
}

func TestSalesScheme_CommissionOnly(t *testing.T) {
	strategy, err := StrategyFor(employee.SchemeSales)
	require.NoError(t, err)

	earnings := strategy.ComputeEarnings(EarningsInput{
		BasicPay:   decimal.NewFromInt(3000),
		Attendance: []attendance.Attendance{minuteDay(4, 700)}, // long day, still no OT
		Commission: decimal.NewFromInt(850),
		Claims:     decimal.NewFromInt(75),
		Config:     domainPolicy.Defaults(),
	})

	assert.True(t, earnings.Overtime.IsZero())
	assert.True(t, earnings.Commission.Equal(decimal.NewFromInt(850)))
	assert.True(t, earnings.Claims.Equal(decimal.NewFromInt(75)))
}

func TestStatutoryBase_PerScheme(t *testing.T) {
	item := payroll.PayrollItem{
		BasicPay:        decimal.NewFromInt(2600),
		OvertimeAmount:  decimal.NewFromInt(150),
		TravelAllowance: decimal.NewFromInt(120),
		FixedAllowance:  decimal.NewFromInt(200),
		Commission:      decimal.NewFromInt(400),
		ClaimsAmount:    decimal.NewFromInt(90),
	}

	tests := []struct {
		scheme employee.PayScheme
		base   string
	}{
		{employee.SchemeDriver, "3000"}, // basic + commission
		{employee.SchemeSales, "3000"},  // basic + commission
		{employee.SchemeOffice, "2750"}, // basic + overtime
		{employee.SchemeShift, "2750"},  // basic + overtime
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			strategy, err := StrategyFor(tt.scheme)
			require.NoError(t, err)
			base := strategy.StatutoryBase(item)
			assert.True(t, base.Equal(decimal.RequireFromString(tt.base)), "got %s", base)
		})
	}
}
