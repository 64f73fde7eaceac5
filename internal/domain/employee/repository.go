package employee

import "context"

// EmployeeRepository is the employee directory used by reports.
type EmployeeRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Employee, error)
	ListActive(ctx context.Context, companyID string) ([]Employee, error)
}
