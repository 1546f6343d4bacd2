package policy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kerjapay/payroll-backend-go/internal/config"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

// Resolver resolves per-tenant payroll policy with documented fallbacks. It
// never fails on missing configuration: it logs and falls back instead.
type Resolver struct {
	repo     policy.PolicyRepository
	defaults policy.Config
	logger   *slog.Logger
}

// NewResolver builds a resolver whose last fallback is defaults. Wiring uses
// EngineDefaults so deployment-level overrides reach every computation that
// runs without a tenant policy row.
func NewResolver(repo policy.PolicyRepository, defaults policy.Config, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, defaults: defaults, logger: logger}
}

// EngineDefaults merges the deployment's engine configuration into the
// documented policy defaults. Zero or unparseable values keep the documented
// default so a partial config can never zero out a divisor.
func EngineDefaults(e config.EngineConfig) policy.Config {
	cfg := policy.Defaults()
	if e.OutstationMinDistanceKm > 0 {
		cfg.OutstationMinDistanceKm = e.OutstationMinDistanceKm
	}
	if e.OutstationOvernightTolKm > 0 {
		cfg.OutstationOvernightToleranceKm = e.OutstationOvernightTolKm
	}
	if e.OutstationMinDeliveries > 0 {
		cfg.OutstationMinDeliveries = e.OutstationMinDeliveries
	}
	if rate, err := decimal.NewFromString(e.OutstationDailyRate); err == nil && rate.IsPositive() {
		cfg.OutstationDailyRate = rate
	}
	if e.RateDivisorDays > 0 {
		cfg.RateDivisorDays = e.RateDivisorDays
	}
	if e.RateDivisorHours > 0 {
		cfg.RateDivisorHours = e.RateDivisorHours
	}
	if e.StandardDaysPerMonth > 0 {
		cfg.StandardDaysPerMonth = e.StandardDaysPerMonth
	}
	if e.DailyOTThresholdMinutes > 0 {
		cfg.DailyOTThresholdMinutes = e.DailyOTThresholdMinutes
	}
	return cfg
}

// Resolve looks up department-level policy first, then company-wide, then the
// engine defaults. Policy is resolved fresh on every computation and never
// cached across runs.
func (r *Resolver) Resolve(ctx context.Context, companyID string, departmentID *string) policy.Config {
	if departmentID != nil {
		cfg, err := r.repo.GetByScope(ctx, companyID, departmentID)
		if err == nil {
			return cfg
		}
		if !errors.Is(err, policy.ErrPolicyNotFound) {
			r.logger.Warn("department policy lookup failed, trying company scope",
				slog.String("company_id", companyID),
				slog.String("department_id", *departmentID),
				slog.Any("error", err))
		}
	}

	cfg, err := r.repo.GetByScope(ctx, companyID, nil)
	if err == nil {
		cfg.DepartmentID = departmentID
		return cfg
	}
	if !errors.Is(err, policy.ErrPolicyNotFound) {
		r.logger.Warn("company policy lookup failed, using defaults",
			slog.String("company_id", companyID),
			slog.Any("error", err))
	} else {
		r.logger.Warn("no payroll policy configured, using defaults",
			slog.String("company_id", companyID))
	}

	cfg = r.defaults
	cfg.CompanyID = companyID
	cfg.DepartmentID = departmentID
	return cfg
}

// ResolveRateTables returns the tenant's statutory rate tables, falling back
// to the compiled-in placeholder tables when none are configured.
func (r *Resolver) ResolveRateTables(ctx context.Context, companyID string) statutory.RateTables {
	raw, err := r.repo.GetRateTables(ctx, companyID)
	if err != nil {
		if !errors.Is(err, policy.ErrPolicyNotFound) {
			r.logger.Warn("rate table lookup failed, using defaults",
				slog.String("company_id", companyID),
				slog.Any("error", err))
		} else {
			r.logger.Warn("no statutory rate tables configured, using defaults",
				slog.String("company_id", companyID))
		}
		return statutory.Default()
	}

	tables, err := statutory.Load(raw)
	if err != nil {
		r.logger.Warn("configured rate tables unparseable, using defaults",
			slog.String("company_id", companyID),
			slog.Any("error", err))
		return statutory.Default()
	}
	return tables
}
