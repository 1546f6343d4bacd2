package policy

import (
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/pkg/geo"
	"github.com/shopspring/decimal"
)

// OTMode selects how overtime is computed for a scheme.
type OTMode string

const (
	// OTModeExcessHoursDaily pays per excess hour beyond a daily threshold,
	// floored to the half hour.
	OTModeExcessHoursDaily OTMode = "excess_hours_daily"
	// OTModeExcessDaysMonthly pays a daily rate for days worked beyond the
	// standard month.
	OTModeExcessDaysMonthly OTMode = "excess_days_monthly"
	// OTModeThresholdMultiplier pays excess minutes at tiered multipliers.
	OTModeThresholdMultiplier OTMode = "threshold_multiplier"
)

// Config is the resolved per-tenant payroll policy. Resolved fresh on every
// computation, passed down by value, never cached across runs. Every field has
// a documented default (see Defaults) so absence can never fault.
type Config struct {
	CompanyID    string
	DepartmentID *string
	Version      int

	// Overtime
	DailyOTThresholdMinutes   int
	RateDivisorDays           int
	RateDivisorHours          int
	StandardDaysPerMonth      int
	OTMultiplier              decimal.Decimal
	HolidayOTMultiplier       decimal.Decimal
	HolidayExcessOTMultiplier decimal.Decimal
	// OTRoundingMinutes rounds excess minutes down to this increment before
	// conversion; zero means per-minute.
	OTRoundingMinutes int
	// Holidays keyed "2006-01-02".
	Holidays map[string]bool

	// Allowances
	FixedAllowance      decimal.Decimal
	OutstationDailyRate decimal.Decimal

	// Outstation eligibility
	OutstationMinDistanceKm        float64
	OutstationOvernightToleranceKm float64
	OutstationMinDeliveries        int
	HomeRegions                    []geo.BoundingBox

	UpdatedAt time.Time
}

// IsHoliday reports whether the date is tenant-designated.
func (c Config) IsHoliday(date time.Time) bool {
	if c.Holidays == nil {
		return false
	}
	return c.Holidays[date.Format("2006-01-02")]
}

// Defaults returns the documented fallback configuration used when a tenant
// has no policy row.
func Defaults() Config {
	return Config{
		DailyOTThresholdMinutes:        540,
		RateDivisorDays:                26,
		RateDivisorHours:               8,
		StandardDaysPerMonth:           22,
		OTMultiplier:                   decimal.RequireFromString("1.5"),
		HolidayOTMultiplier:            decimal.RequireFromString("2.0"),
		HolidayExcessOTMultiplier:      decimal.RequireFromString("3.0"),
		OTRoundingMinutes:              0,
		FixedAllowance:                 decimal.Zero,
		OutstationDailyRate:            decimal.RequireFromString("60"),
		OutstationMinDistanceKm:        180,
		OutstationOvernightToleranceKm: 0.5,
		OutstationMinDeliveries:        3,
	}
}
