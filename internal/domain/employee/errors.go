package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoBasicPay       = errors.New("employee has no resolvable basic pay")
)
