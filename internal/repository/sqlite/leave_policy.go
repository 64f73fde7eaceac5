package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

type leavePolicyRepositoryImpl struct {
	store *Store
}

func NewLeavePolicyRepository(store *Store) leave.LeavePolicyRepository {
	return &leavePolicyRepositoryImpl{store: store}
}

// GetMonthlyAllowance implements leave.LeavePolicyRepository.
func (r *leavePolicyRepositoryImpl) GetMonthlyAllowance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	var raw string
	err := r.store.db.QueryRowContext(ctx, `SELECT monthly_allowance FROM leave_policies WHERE company_id = ?`, companyID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, leave.ErrLeavePolicyNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get leave policy: %w", err)
	}

	allowance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid monthly allowance %q: %w", raw, err)
	}
	return allowance, nil
}
