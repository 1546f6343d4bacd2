package response

import (
	"errors"
	"net/http"

	"github.com/kerjapay/payroll-backend-go/internal/domain/claim"
	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	"github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/validator"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll run lifecycle
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrRunAlreadyExists):
		Conflict(w, "A payroll run already exists for this scope and period")
	case errors.Is(err, payroll.ErrRunNotDraft):
		Conflict(w, "Payroll run is not in draft status")
	case errors.Is(err, payroll.ErrRunAlreadyFinalized):
		Conflict(w, "Payroll run has already been finalized")
	case errors.Is(err, payroll.ErrRunNotFinalized):
		Conflict(w, "Payroll run has not been finalized")
	case errors.Is(err, payroll.ErrItemLocked):
		Conflict(w, "Payroll item is locked")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrArithmeticInvariant):
		InternalServerError(w, "Payroll amounts failed consistency checks")

	// Claims
	case errors.Is(err, claim.ErrClaimAlreadyLinked):
		Conflict(w, "Claim already linked to a payroll item")

	// Employee inputs
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoBasicPay):
		BadRequest(w, "Employee has no resolvable basic pay", nil)

	// Policy
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Payroll policy not found")

	// Statutory inputs
	case errors.Is(err, statutory.ErrNegativeBase):
		BadRequest(w, "Statutory base must not be negative", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
