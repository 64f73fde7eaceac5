package shift

import "context"

type ShiftProfileRepository interface {
	// GetByEmployeeID resolves the profile through the employee's shift_profile_id.
	GetByEmployeeID(ctx context.Context, companyID, employeeID string) (ShiftProfile, error)
}
