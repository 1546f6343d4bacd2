package claim

import "errors"

var (
	ErrClaimAlreadyLinked = errors.New("claim already linked to a payroll item")
)
