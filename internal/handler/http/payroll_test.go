package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPayrollService implements only what a test exercises; calling anything
// else panics through the embedded nil interface.
type stubPayrollService struct {
	payroll.PayrollService

	breakdown statutory.Breakdown
	err       error

	gotBase    decimal.Decimal
	gotProfile statutory.Profile
	gotYTD     statutory.YTD
}

func (s *stubPayrollService) ComputeStatutory(ctx context.Context, base decimal.Decimal, profile statutory.Profile, ytd statutory.YTD) (statutory.Breakdown, error) {
	s.gotBase = base
	s.gotProfile = profile
	s.gotYTD = ytd
	return s.breakdown, s.err
}

func TestComputeStatutoryHandler(t *testing.T) {
	stub := &stubPayrollService{
		breakdown: statutory.Breakdown{
			EmployeeTotal:  decimal.RequireFromString("304.20"),
			EmployerTotal:  decimal.RequireFromString("388.70"),
			WithholdingTax: decimal.NewFromInt(18),
		},
	}
	handler := NewPayrollHandler(stub)

	body := `{
		"statutory_base": "2600",
		"profile": {"residency": "citizen", "marital_status": "single"},
		"ytd": {"gross_wage": "0", "tax_withheld": "0", "months_elapsed": 0}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/statutory-contributions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ComputeStatutory(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.gotBase.Equal(decimal.NewFromInt(2600)))
	require.NotNil(t, stub.gotProfile.Residency)
	assert.Equal(t, statutory.ResidencyCitizen, *stub.gotProfile.Residency)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			EmployeeTotal string `json:"employee_total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "304.2", envelope.Data.EmployeeTotal)
}

func TestComputeStatutoryHandler_InvalidBody(t *testing.T) {
	handler := NewPayrollHandler(&stubPayrollService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/statutory-contributions", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.ComputeStatutory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeStatutoryHandler_NegativeBase(t *testing.T) {
	handler := NewPayrollHandler(&stubPayrollService{err: statutory.ErrNegativeBase})

	body := `{"statutory_base": "-1", "profile": {}, "ytd": {}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/statutory-contributions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ComputeStatutory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
