package policy

import "errors"

var ErrPolicyNotFound = errors.New("payroll policy not found for scope")
