package policy

import (
	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/shopspring/decimal"
)

var (
	two   = decimal.NewFromInt(2)
	sixty = decimal.NewFromInt(60)
)

// HourlyRate derives the hourly rate from basic pay via the policy divisors
// (basic / rateDivisorDays / rateDivisorHours).
func HourlyRate(basic decimal.Decimal, cfg policy.Config) decimal.Decimal {
	return basic.
		Div(decimal.NewFromInt(int64(cfg.RateDivisorDays))).
		Div(decimal.NewFromInt(int64(cfg.RateDivisorHours)))
}

// DailyRate derives the daily rate (basic / rateDivisorDays).
func DailyRate(basic decimal.Decimal, cfg policy.Config) decimal.Decimal {
	return basic.Div(decimal.NewFromInt(int64(cfg.RateDivisorDays)))
}

// DailyExcessOT is the per-day result of the excess-hours mode.
type DailyExcessOT struct {
	Hours  decimal.Decimal
	Amount decimal.Decimal
}

// ComputeDailyExcessOT implements excess-hours-per-day overtime: excess
// minutes beyond the daily threshold, floored to the nearest half hour, paid
// at hourly rate times the applicable multiplier. The holiday multiplier
// applies only on tenant-designated holidays.
func ComputeDailyExcessOT(days []attendance.Attendance, basic decimal.Decimal, cfg policy.Config) DailyExcessOT {
	rate := HourlyRate(basic, cfg)
	total := DailyExcessOT{Hours: decimal.Zero, Amount: decimal.Zero}

	for _, day := range days {
		excess := day.Worked() - cfg.DailyOTThresholdMinutes
		if excess <= 0 {
			continue
		}

		// floor(excessMinutes/60 * 2) / 2
		halfHours := excess * 2 / 60
		hours := decimal.NewFromInt(int64(halfHours)).Div(two)
		if hours.IsZero() {
			continue
		}

		multiplier := decimal.NewFromInt(1)
		if cfg.IsHoliday(day.Date) {
			multiplier = cfg.HolidayOTMultiplier
		}

		total.Hours = total.Hours.Add(hours)
		total.Amount = total.Amount.Add(hours.Mul(rate).Mul(multiplier))
	}

	total.Amount = total.Amount.Round(2)
	return total
}

// MonthlyExcessDays is the result of the excess-days-per-period mode.
type MonthlyExcessDays struct {
	ExtraDays int
	Amount    decimal.Decimal
}

// ComputeMonthlyExcessDays implements the second driver tier: days worked
// beyond the standard month paid at the daily rate.
func ComputeMonthlyExcessDays(workedDays int, basic decimal.Decimal, cfg policy.Config) MonthlyExcessDays {
	extra := workedDays - cfg.StandardDaysPerMonth
	if extra <= 0 {
		return MonthlyExcessDays{Amount: decimal.Zero}
	}
	amount := DailyRate(basic, cfg).Mul(decimal.NewFromInt(int64(extra))).Round(2)
	return MonthlyExcessDays{ExtraDays: extra, Amount: amount}
}

// ThresholdOT is the result of the threshold-with-multiplier mode.
type ThresholdOT struct {
	Minutes int
	Amount  decimal.Decimal
}

// ComputeThresholdOT implements the shift/office mode with three multiplier
// tiers: normal overtime, holiday hours within the normal threshold, and
// holiday hours beyond it. Excess minutes are rounded down to the policy's
// rounding increment before conversion.
func ComputeThresholdOT(days []attendance.Attendance, basic decimal.Decimal, cfg policy.Config) ThresholdOT {
	rate := HourlyRate(basic, cfg)
	total := ThresholdOT{Amount: decimal.Zero}

	for _, day := range days {
		worked := roundDownMinutes(day.Worked(), cfg.OTRoundingMinutes)
		threshold := cfg.DailyOTThresholdMinutes

		if !cfg.IsHoliday(day.Date) {
			excess := worked - threshold
			if excess <= 0 {
				continue
			}
			total.Minutes += excess
			total.Amount = total.Amount.Add(minutesToPay(excess, rate, cfg.OTMultiplier))
			continue
		}

		// Holiday: every worked minute is overtime; minutes beyond the normal
		// threshold earn the higher tier.
		within := worked
		beyond := 0
		if worked > threshold {
			within = threshold
			beyond = worked - threshold
		}
		total.Minutes += worked
		total.Amount = total.Amount.Add(minutesToPay(within, rate, cfg.HolidayOTMultiplier))
		if beyond > 0 {
			total.Amount = total.Amount.Add(minutesToPay(beyond, rate, cfg.HolidayExcessOTMultiplier))
		}
	}

	total.Amount = total.Amount.Round(2)
	return total
}

func minutesToPay(minutes int, hourlyRate, multiplier decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Mul(hourlyRate).Mul(multiplier)
}

func roundDownMinutes(minutes, increment int) int {
	if increment <= 1 {
		return minutes
	}
	return minutes - minutes%increment
}

// CountWorkedDays counts attendance days with any positive worked time.
func CountWorkedDays(days []attendance.Attendance) int {
	count := 0
	for _, day := range days {
		if day.Worked() > 0 {
			count++
		}
	}
	return count
}
