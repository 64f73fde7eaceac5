package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type LeavePolicyRepository interface {
	// GetMonthlyAllowance returns ErrLeavePolicyNotFound when the company has no policy.
	GetMonthlyAllowance(ctx context.Context, companyID string) (decimal.Decimal, error)
}
