package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/kerjapay/payroll-backend-go/internal/config"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePolicyRepo struct {
	byScope    map[string]policy.Config
	rateTables []byte
	scopeErr   error
	tablesErr  error
}

func scopeKey(companyID string, departmentID *string) string {
	if departmentID == nil {
		return companyID
	}
	return companyID + "/" + *departmentID
}

func (f *fakePolicyRepo) GetByScope(ctx context.Context, companyID string, departmentID *string) (policy.Config, error) {
	if f.scopeErr != nil {
		return policy.Config{}, f.scopeErr
	}
	cfg, ok := f.byScope[scopeKey(companyID, departmentID)]
	if !ok {
		return policy.Config{}, policy.ErrPolicyNotFound
	}
	return cfg, nil
}

func (f *fakePolicyRepo) GetRateTables(ctx context.Context, companyID string) ([]byte, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	if f.rateTables == nil {
		return nil, policy.ErrPolicyNotFound
	}
	return f.rateTables, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_DepartmentScopeWins(t *testing.T) {
	dept := "dept-1"
	deptCfg := policy.Defaults()
	deptCfg.StandardDaysPerMonth = 20
	companyCfg := policy.Defaults()
	companyCfg.StandardDaysPerMonth = 24

	repo := &fakePolicyRepo{byScope: map[string]policy.Config{
		"co-1/dept-1": deptCfg,
		"co-1":        companyCfg,
	}}
	r := NewResolver(repo, policy.Defaults(), discardLogger())

	cfg := r.Resolve(context.Background(), "co-1", &dept)
	assert.Equal(t, 20, cfg.StandardDaysPerMonth)
}

func TestResolve_FallsBackToCompanyScope(t *testing.T) {
	dept := "dept-2"
	companyCfg := policy.Defaults()
	companyCfg.StandardDaysPerMonth = 24

	repo := &fakePolicyRepo{byScope: map[string]policy.Config{"co-1": companyCfg}}
	r := NewResolver(repo, policy.Defaults(), discardLogger())

	cfg := r.Resolve(context.Background(), "co-1", &dept)
	assert.Equal(t, 24, cfg.StandardDaysPerMonth)
	assert.Equal(t, &dept, cfg.DepartmentID)
}

func TestResolve_FallsBackToDefaults(t *testing.T) {
	repo := &fakePolicyRepo{byScope: map[string]policy.Config{}}
	r := NewResolver(repo, policy.Defaults(), discardLogger())

	cfg := r.Resolve(context.Background(), "co-1", nil)
	assert.Equal(t, "co-1", cfg.CompanyID)
	assert.Equal(t, 540, cfg.DailyOTThresholdMinutes)
	assert.True(t, cfg.OTMultiplier.Equal(decimal.RequireFromString("1.5")))
}

func TestResolve_DeploymentDefaultsReachFallback(t *testing.T) {
	defaults := EngineDefaults(config.EngineConfig{
		OutstationMinDistanceKm:  250,
		OutstationOvernightTolKm: 1.0,
		OutstationMinDeliveries:  5,
		OutstationDailyRate:      "75",
		RateDivisorDays:          24,
		RateDivisorHours:         8,
		StandardDaysPerMonth:     21,
		DailyOTThresholdMinutes:  480,
	})

	r := NewResolver(&fakePolicyRepo{byScope: map[string]policy.Config{}}, defaults, discardLogger())
	cfg := r.Resolve(context.Background(), "co-1", nil)

	assert.Equal(t, 250.0, cfg.OutstationMinDistanceKm)
	assert.Equal(t, 1.0, cfg.OutstationOvernightToleranceKm)
	assert.Equal(t, 5, cfg.OutstationMinDeliveries)
	assert.True(t, cfg.OutstationDailyRate.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 24, cfg.RateDivisorDays)
	assert.Equal(t, 480, cfg.DailyOTThresholdMinutes)
	// Values the engine config does not carry keep the documented default.
	assert.True(t, cfg.OTMultiplier.Equal(decimal.RequireFromString("1.5")))
}

func TestEngineDefaults_UnparseableRateKeepsDefault(t *testing.T) {
	cfg := EngineDefaults(config.EngineConfig{OutstationDailyRate: "sixty"})
	assert.True(t, cfg.OutstationDailyRate.Equal(decimal.NewFromInt(60)))
}

func TestResolve_RepositoryErrorStillResolves(t *testing.T) {
	repo := &fakePolicyRepo{scopeErr: errors.New("connection refused")}
	r := NewResolver(repo, policy.Defaults(), discardLogger())

	cfg := r.Resolve(context.Background(), "co-1", nil)
	assert.Equal(t, 26, cfg.RateDivisorDays)
}

func TestResolveRateTables_FallsBackToDefaults(t *testing.T) {
	r := NewResolver(&fakePolicyRepo{}, policy.Defaults(), discardLogger())

	tables := r.ResolveRateTables(context.Background(), "co-1")
	assert.NotEmpty(t, tables.Retirement.Rules)
	assert.NotEmpty(t, tables.Tax.Brackets)
}

func TestResolveRateTables_UnparseableFallsBack(t *testing.T) {
	r := NewResolver(&fakePolicyRepo{rateTables: []byte("{")}, policy.Defaults(), discardLogger())

	tables := r.ResolveRateTables(context.Background(), "co-1")
	assert.NotEmpty(t, tables.Tax.Brackets)
}
