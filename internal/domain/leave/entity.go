package leave

import "github.com/shopspring/decimal"

// DefaultMonthlyAllowance is the casual-leave allowance per calendar month
// when a company has no policy of its own.
var DefaultMonthlyAllowance = decimal.RequireFromString("1.75")

// Weights applied to each kind of used leave.
var (
	FullDayLeaveWeight = decimal.NewFromInt(1)
	HalfDayWeight      = decimal.RequireFromString("0.5")
	ShortLeaveWeight   = decimal.RequireFromString("0.25")
)

type LeavePolicy struct {
	CompanyID        string
	MonthlyAllowance decimal.Decimal
}

// LeaveBalance is a read-only view derived from a month summary.
type LeaveBalance struct {
	UsedDays      float64 `json:"used_days"`
	AllowedDays   float64 `json:"allowed_days"`
	RemainingDays float64 `json:"remaining_days"`
	ExtraDays     float64 `json:"extra_days"`
	IsOverLimit   bool    `json:"is_over_limit"`
}
