package attendance

import (
	"context"
)

// AttendanceLogRepository is the log source consumed by reconciliation.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceLogRepository interface {
	// GetMonthlyLogs returns every daily log of the employee for the given month,
	// ordered by date. Implementations must drain all pages before returning.
	GetMonthlyLogs(ctx context.Context, companyID, employeeID string, year, month int) ([]DailyLog, error)
}
