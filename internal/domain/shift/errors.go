package shift

import "errors"

var (
	ErrShiftProfileNotFound = errors.New("shift profile not found")
	ErrInvalidShiftProfile  = errors.New("invalid shift profile")
)
