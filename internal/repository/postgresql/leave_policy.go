package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leavePolicyRepositoryImpl struct {
	db *database.DB
}

func NewLeavePolicyRepository(db *database.DB) leave.LeavePolicyRepository {
	return &leavePolicyRepositoryImpl{db: db}
}

// GetMonthlyAllowance implements leave.LeavePolicyRepository.
func (r *leavePolicyRepositoryImpl) GetMonthlyAllowance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var raw string
	err := q.QueryRow(ctx, `SELECT monthly_allowance::text FROM leave_policies WHERE company_id = $1`, companyID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
