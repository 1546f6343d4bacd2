package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/geo"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetByScope(ctx context.Context, companyID string, departmentID *string) (policy.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, department_id, version,
			   daily_ot_threshold_minutes, rate_divisor_days, rate_divisor_hours,
			   standard_days_per_month, ot_multiplier, holiday_ot_multiplier,
			   holiday_excess_ot_multiplier, ot_rounding_minutes, holidays,
			   fixed_allowance, outstation_daily_rate,
			   outstation_min_distance_km, outstation_overnight_tolerance_km,
			   outstation_min_deliveries, home_regions, updated_at
		FROM payroll_policies
		WHERE company_id = $1 AND department_id IS NOT DISTINCT FROM $2
	`

	var cfg policy.Config
	var holidays, homeRegions []byte
	err := q.QueryRow(ctx, query, companyID, departmentID).Scan(
		&cfg.CompanyID, &cfg.DepartmentID, &cfg.Version,
		&cfg.DailyOTThresholdMinutes, &cfg.RateDivisorDays, &cfg.RateDivisorHours,
		&cfg.StandardDaysPerMonth, &cfg.OTMultiplier, &cfg.HolidayOTMultiplier,
		&cfg.HolidayExcessOTMultiplier, &cfg.OTRoundingMinutes, &holidays,
		&cfg.FixedAllowance, &cfg.OutstationDailyRate,
		&cfg.OutstationMinDistanceKm, &cfg.OutstationOvernightToleranceKm,
		&cfg.OutstationMinDeliveries, &homeRegions, &cfg.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return policy.Config{}, policy.ErrPolicyNotFound
		}
		return policy.Config{}, fmt.Errorf("failed to get payroll policy: %w", err)
	}

	if len(holidays) > 0 {
		if err := json.Unmarshal(holidays, &cfg.Holidays); err != nil {
			return policy.Config{}, fmt.Errorf("failed to decode policy holidays: %w", err)
		}
	}
	if len(homeRegions) > 0 {
		var regions []geo.BoundingBox
		if err := json.Unmarshal(homeRegions, &regions); err != nil {
			return policy.Config{}, fmt.Errorf("failed to decode policy home regions: %w", err)
		}
		cfg.HomeRegions = regions
	}

	return cfg, nil
}

func (r *policyRepository) GetRateTables(ctx context.Context, companyID string) ([]byte, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT tables FROM statutory_rate_tables WHERE company_id = $1`

	var raw []byte
	if err := q.QueryRow(ctx, query, companyID).Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, policy.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get statutory rate tables: %w", err)
	}

	return raw, nil
}
