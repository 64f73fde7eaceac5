package reconciliation

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

// ReconciliationService reconciles raw attendance into day statuses, monthly
// summaries and leave balances. Company and employee identity come from JWT claims.
type ReconciliationService interface {
	// ReconcileMonth reconciles one employee of the caller's company.
	ReconcileMonth(ctx context.Context, req MonthlyReconciliationRequest) (MonthlyReconciliationResponse, error)

	// GetMyReconciliation reconciles the authenticated employee.
	GetMyReconciliation(ctx context.Context, req PeriodRequest) (MonthlyReconciliationResponse, error)

	// GetLeaveBalance returns only the derived leave balance.
	GetLeaveBalance(ctx context.Context, req MonthlyReconciliationRequest) (leave.LeaveBalance, error)

	// GenerateCompanyReport reconciles every active employee of the company.
	GenerateCompanyReport(ctx context.Context, req CompanyReportRequest) (CompanyReportResponse, error)

	// ExportCompanyReportCSV writes the company report as CSV.
	ExportCompanyReportCSV(ctx context.Context, req CompanyReportRequest, w io.Writer) error
}
