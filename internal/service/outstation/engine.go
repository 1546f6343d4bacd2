package outstation

import (
	"context"
	"log/slog"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/geo"
	"github.com/shopspring/decimal"
)

// ActivitySource reports completed-delivery counts from the external delivery
// system. It may fail or be slow; failures make the candidate day ineligible,
// they never abort the surrounding computation.
type ActivitySource interface {
	DeliveryCount(ctx context.Context, employeeID string, date time.Time) (int, error)
}

// Engine decides which consecutive work-day pairs qualify for the travel
// allowance.
type Engine struct {
	activity ActivitySource
	logger   *slog.Logger
}

func NewEngine(activity ActivitySource, logger *slog.Logger) *Engine {
	return &Engine{activity: activity, logger: logger}
}

// ComputeEligibleDays walks consecutive calendar-day pairs in chronological
// order and applies, in sequence: strict consecutiveness, coordinate
// presence, minimum distance from home base, outstation flag plus home-region
// geofence, overnight continuity, and the minimum-activity check. Each
// qualifying pair contributes one day at the policy's daily rate.
//
// records must belong to one employee; homeLat/homeLon is the employee's home
// base. Pure computation apart from the activity lookup.
func (e *Engine) ComputeEligibleDays(
	ctx context.Context,
	employeeID string,
	records []attendance.Attendance,
	homeLat, homeLon float64,
	cfg policy.Config,
) payroll.OutstationResult {
	result := payroll.OutstationResult{TotalAllowance: decimal.Zero}
	home := geo.Point{Latitude: homeLat, Longitude: homeLon}

	for i := 0; i+1 < len(records); i++ {
		day1, day2 := records[i], records[i+1]

		if !isNextDay(day1.Date, day2.Date) {
			continue
		}
		if day1.ClockOutLatitude == nil || day1.ClockOutLongitude == nil ||
			day2.ClockInLatitude == nil || day2.ClockInLongitude == nil {
			continue
		}

		day1Out := geo.Point{Latitude: *day1.ClockOutLatitude, Longitude: *day1.ClockOutLongitude}
		day2In := geo.Point{Latitude: *day2.ClockInLatitude, Longitude: *day2.ClockInLongitude}

		if geo.HaversineDistance(home, day1Out) < cfg.OutstationMinDistanceKm {
			continue
		}

		if !day1.Outstation || !day2.Outstation {
			continue
		}
		if insideAnyRegion(day1Out, cfg.HomeRegions) || insideAnyRegion(day2In, cfg.HomeRegions) {
			continue
		}

		// The employee must not have relocated overnight.
		if geo.HaversineDistance(day1Out, day2In) > cfg.OutstationOvernightToleranceKm {
			continue
		}

		deliveries, err := e.activity.DeliveryCount(ctx, employeeID, day2.Date)
		if err != nil {
			// Fail closed: the pair is excluded, no retry here.
			e.logger.Warn("delivery count lookup failed, excluding day pair",
				slog.String("employee_id", employeeID),
				slog.Time("date", day2.Date),
				slog.Any("error", err))
			continue
		}
		if deliveries <= cfg.OutstationMinDeliveries {
			continue
		}

		result.QualifyingPairs = append(result.QualifyingPairs, payroll.OutstationDayPair{
			Day1: day1.Date,
			Day2: day2.Date,
		})
	}

	result.QualifyingDays = len(result.QualifyingPairs)
	result.TotalAllowance = cfg.OutstationDailyRate.
		Mul(decimal.NewFromInt(int64(result.QualifyingDays))).
		Round(2)
	return result
}

func isNextDay(d1, d2 time.Time) bool {
	y1, m1, day1 := d1.Date()
	y2, m2, day2 := d2.Date()
	next := time.Date(y1, m1, day1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return time.Date(y2, m2, day2, 0, 0, 0, 0, time.UTC).Equal(next)
}

func insideAnyRegion(p geo.Point, regions []geo.BoundingBox) bool {
	for _, r := range regions {
		if r.Contains(p) {
			return true
		}
	}
	return false
}
