package outstation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/geo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Home base in Kuala Lumpur, overnight stop in Penang, roughly 330km apart.
const (
	homeLat = 3.1390
	homeLon = 101.6869
	awayLat = 5.4164
	awayLon = 100.3327
)

type fakeActivitySource struct {
	counts int
	err    error
	calls  int
}

func (f *fakeActivitySource) DeliveryCount(ctx context.Context, employeeID string, date time.Time) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts, nil
}

func newTestEngine(activity ActivitySource) *Engine {
	return NewEngine(activity, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func awayDay(date time.Time, outstation bool) attendance.Attendance {
	inLat, inLon := awayLat, awayLon
	outLat, outLon := awayLat, awayLon
	return attendance.Attendance{
		Date:              date,
		ClockInLatitude:   &inLat,
		ClockInLongitude:  &inLon,
		ClockOutLatitude:  &outLat,
		ClockOutLongitude: &outLon,
		Outstation:        outstation,
	}
}

var day1 = time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

func TestComputeEligibleDays_QualifyingPair(t *testing.T) {
	activity := &fakeActivitySource{counts: 5}
	engine := newTestEngine(activity)

	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 1), true)}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())

	assert.Equal(t, 1, result.QualifyingDays)
	assert.True(t, result.TotalAllowance.Equal(decimal.NewFromInt(60)), "got %s", result.TotalAllowance)
	assert.Equal(t, 1, activity.calls)
}

func TestComputeEligibleDays_ThreeConsecutiveDays(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	records := []attendance.Attendance{
		awayDay(day1, true),
		awayDay(day1.AddDate(0, 0, 1), true),
		awayDay(day1.AddDate(0, 0, 2), true),
	}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())

	assert.Equal(t, 2, result.QualifyingDays)
	assert.True(t, result.TotalAllowance.Equal(decimal.NewFromInt(120)), "got %s", result.TotalAllowance)
}

func TestComputeEligibleDays_NonConsecutiveDays(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 2), true)}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())

	assert.Equal(t, 0, result.QualifyingDays)
	assert.True(t, result.TotalAllowance.IsZero())
}

func TestComputeEligibleDays_MissingCoordinates(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	first := awayDay(day1, true)
	first.ClockOutLatitude = nil
	first.ClockOutLongitude = nil
	records := []attendance.Attendance{first, awayDay(day1.AddDate(0, 0, 1), true)}

	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 0, result.QualifyingDays)
}

func TestComputeEligibleDays_TooCloseToHome(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	// A few kilometres from home base, well under the distance floor.
	nearLat, nearLon := 3.2000, 101.7000
	near := awayDay(day1, true)
	near.ClockOutLatitude = &nearLat
	near.ClockOutLongitude = &nearLon
	second := awayDay(day1.AddDate(0, 0, 1), true)
	second.ClockInLatitude = &nearLat
	second.ClockInLongitude = &nearLon

	result := engine.ComputeEligibleDays(context.Background(), "emp-1", []attendance.Attendance{near, second}, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 0, result.QualifyingDays)
}

func TestComputeEligibleDays_OutstationFlagRequired(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 1), false)}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())

	assert.Equal(t, 0, result.QualifyingDays)
}

func TestComputeEligibleDays_InsideHomeRegion(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	cfg := policy.Defaults()
	cfg.HomeRegions = []geo.BoundingBox{{
		MinLatitude:  5.0,
		MaxLatitude:  6.0,
		MinLongitude: 100.0,
		MaxLongitude: 101.0,
	}}

	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 1), true)}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, cfg)

	assert.Equal(t, 0, result.QualifyingDays)
}

func TestComputeEligibleDays_OvernightRelocation(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	// Morning clock-in about a kilometre from the evening clock-out.
	movedLat := awayLat + 0.01
	second := awayDay(day1.AddDate(0, 0, 1), true)
	second.ClockInLatitude = &movedLat

	result := engine.ComputeEligibleDays(context.Background(), "emp-1", []attendance.Attendance{awayDay(day1, true), second}, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 0, result.QualifyingDays)
}

func TestComputeEligibleDays_DeliveryMinimumIsExclusive(t *testing.T) {
	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 1), true)}

	atMinimum := newTestEngine(&fakeActivitySource{counts: 3})
	result := atMinimum.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 0, result.QualifyingDays)

	aboveMinimum := newTestEngine(&fakeActivitySource{counts: 4})
	result = aboveMinimum.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 1, result.QualifyingDays)
}

func TestComputeEligibleDays_ActivityLookupFailsClosed(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{err: errors.New("timeout")})

	records := []attendance.Attendance{awayDay(day1, true), awayDay(day1.AddDate(0, 0, 1), true)}
	result := engine.ComputeEligibleDays(context.Background(), "emp-1", records, homeLat, homeLon, policy.Defaults())

	assert.Equal(t, 0, result.QualifyingDays)
	assert.True(t, result.TotalAllowance.IsZero())
}

func TestComputeEligibleDays_NoRecords(t *testing.T) {
	engine := newTestEngine(&fakeActivitySource{counts: 5})

	result := engine.ComputeEligibleDays(context.Background(), "emp-1", nil, homeLat, homeLon, policy.Defaults())
	assert.Equal(t, 0, result.QualifyingDays)
	assert.True(t, result.TotalAllowance.IsZero())
}
