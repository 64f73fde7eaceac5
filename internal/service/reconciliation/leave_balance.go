package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

// UsedLeaveDays weights the month's leave, half-day and short-leave counts.
func UsedLeaveDays(s reconciliation.MonthSummary) decimal.Decimal {
	return decimal.NewFromInt(int64(s.Leaves)).Mul(leave.FullDayLeaveWeight).
		Add(decimal.NewFromInt(int64(s.HalfDays)).Mul(leave.HalfDayWeight)).
		Add(decimal.NewFromInt(int64(s.ShortLeaves)).Mul(leave.ShortLeaveWeight))
}

// CalculateLeaveBalance measures used leave against the monthly allowance.
// A non-positive allowance falls back to leave.DefaultMonthlyAllowance.
func CalculateLeaveBalance(s reconciliation.MonthSummary, allowance decimal.Decimal) leave.LeaveBalance {
	if !allowance.IsPositive() {
		allowance = leave.DefaultMonthlyAllowance
	}

	used := UsedLeaveDays(s)
	remaining := decimal.Max(decimal.Zero, allowance.Sub(used))
	extra := decimal.Max(decimal.Zero, used.Sub(allowance))

	return leave.LeaveBalance{
		UsedDays:      used.Round(2).InexactFloat64(),
		AllowedDays:   allowance.Round(2).InexactFloat64(),
		RemainingDays: remaining.Round(2).InexactFloat64(),
		ExtraDays:     extra.Round(2).InexactFloat64(),
		IsOverLimit:   used.GreaterThan(allowance),
	}
}
