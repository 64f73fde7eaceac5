package reconciliation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

func TestUsedLeaveDays(t *testing.T) {
	s := reconciliation.MonthSummary{Leaves: 1, HalfDays: 1, ShortLeaves: 1}
	assert.True(t, decimal.RequireFromString("1.75").Equal(UsedLeaveDays(s)))
}

func TestCalculateLeaveBalance(t *testing.T) {
	cases := []struct {
		name      string
		summary   reconciliation.MonthSummary
		allowance decimal.Decimal
		want      leave.LeaveBalance
	}{
		{
			name:      "within allowance",
			summary:   reconciliation.MonthSummary{HalfDays: 1, ShortLeaves: 2},
			allowance: leave.DefaultMonthlyAllowance,
			want:      leave.LeaveBalance{UsedDays: 1, AllowedDays: 1.75, RemainingDays: 0.75},
		},
		{
			name:      "exactly at allowance is not over",
			summary:   reconciliation.MonthSummary{Leaves: 1, HalfDays: 1, ShortLeaves: 1},
			allowance: leave.DefaultMonthlyAllowance,
			want:      leave.LeaveBalance{UsedDays: 1.75, AllowedDays: 1.75},
		},
		{
			name:      "over allowance",
			summary:   reconciliation.MonthSummary{Leaves: 3},
			allowance: leave.DefaultMonthlyAllowance,
			want:      leave.LeaveBalance{UsedDays: 3, AllowedDays: 1.75, ExtraDays: 1.25, IsOverLimit: true},
		},
		{
			name:      "company allowance",
			summary:   reconciliation.MonthSummary{Leaves: 2},
			allowance: decimal.NewFromInt(2),
			want:      leave.LeaveBalance{UsedDays: 2, AllowedDays: 2},
		},
		{
			name:      "non-positive allowance falls back to default",
			summary:   reconciliation.MonthSummary{},
			allowance: decimal.Zero,
			want:      leave.LeaveBalance{AllowedDays: 1.75, RemainingDays: 1.75},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateLeaveBalance(tc.summary, tc.allowance)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got.RemainingDays, 0.0)
			assert.GreaterOrEqual(t, got.ExtraDays, 0.0)
		})
	}
}
