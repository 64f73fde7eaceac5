package leave

import "errors"

var (
	ErrLeavePolicyNotFound = errors.New("leave policy not found")
	ErrInvalidAllowance    = errors.New("monthly leave allowance must be positive")
)
