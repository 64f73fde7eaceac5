package reconciliation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrDaysOutOfOrder = errors.New("days must be classified in ascending date order")
	ErrMixedMonths    = errors.New("day records span more than one month")
	ErrInvalidPeriod  = errors.New("invalid reconciliation period")

	// Identity errors
	ErrCompanyClaimMissing  = errors.New("company_id claim is missing or invalid")
	ErrEmployeeClaimMissing = errors.New("employee_id claim is missing or invalid")
)

// ClassificationError reports input the engine cannot classify.
type ClassificationError struct {
	Date   string
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("classification failed: %s", e.Reason)
	}
	return fmt.Sprintf("classification failed for %s: %s", e.Date, e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
