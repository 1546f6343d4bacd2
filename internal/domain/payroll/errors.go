package payroll

import "errors"

var (
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrItemNotFound     = errors.New("payroll item not found")
	ErrRunAlreadyExists = errors.New("payroll run already exists for this scope and period")

	// State conflicts: surfaced to the caller, never silently ignored.
	ErrRunNotDraft         = errors.New("payroll run is not in draft status")
	ErrRunAlreadyFinalized = errors.New("payroll run already finalized")
	ErrRunNotFinalized     = errors.New("payroll run is not finalized")
	ErrItemLocked          = errors.New("payroll item belongs to a finalized run")
	ErrArithmeticInvariant = errors.New("payroll item violates gross/component invariant")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
)
