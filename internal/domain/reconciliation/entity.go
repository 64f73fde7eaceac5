package reconciliation

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

type DayStatus string

const (
	StatusFutureOrToday DayStatus = "future_or_today"
	StatusWeekend       DayStatus = "weekend"
	StatusHoliday       DayStatus = "holiday"
	StatusLeave         DayStatus = "leave"
	StatusShortLeave    DayStatus = "short_leave"
	StatusHalfDay       DayStatus = "half_day"
	StatusPresent       DayStatus = "present"

	// StatusUnclassified covers days with 2 to 3 worked hours and no late or
	// early trigger. Pending a product decision.
	StatusUnclassified DayStatus = "unclassified"
)

// Label is the human-readable status used in exports.
func (s DayStatus) Label() string {
	switch s {
	case StatusFutureOrToday:
		return "Upcoming"
	case StatusWeekend:
		return "Weekend"
	case StatusHoliday:
		return "Holiday"
	case StatusLeave:
		return "Leave"
	case StatusShortLeave:
		return "Short Leave"
	case StatusHalfDay:
		return "Half Day"
	case StatusPresent:
		return "Present"
	default:
		return "Unclassified"
	}
}

// CountsAsWorkingDay reports whether the day belongs to the attendance denominator.
func (s DayStatus) CountsAsWorkingDay() bool {
	return s != StatusWeekend && s != StatusHoliday && s != StatusFutureOrToday
}

const (
	LeaveKindFullDay = "Full Day Leave"
	LeaveKindHalfDay = "Half Day Leave"

	ReasonNoCheckIn          = "No Check-in"
	ReasonWorkedUnderMinimum = "Worked less than 2 hours"
)

// DayContext is everything the classifier needs to know about one day.
// A day is never both a weekend and a holiday: the weekend check wins.
type DayContext struct {
	Date            time.Time
	Events          []attendance.AttendanceEvent
	IsWeekend       bool
	Holiday         *calendar.Holiday
	IsFutureOrToday bool
}

// GraceState records which once-per-month forgiveness has been spent.
type GraceState struct {
	FirstLateUsed  bool `json:"first_late_used"`
	FirstEarlyUsed bool `json:"first_early_used"`
}

type DayRecord struct {
	Date            time.Time  `json:"-"`
	Status          DayStatus  `json:"status"`
	CheckIn         *time.Time `json:"-"`
	CheckOut        *time.Time `json:"-"`
	WorkingHours    float64    `json:"working_hours"`
	IsLate          bool       `json:"is_late"`
	IsEarlyCheckout bool       `json:"is_early_checkout"`

	HolidayName string `json:"holiday_name,omitempty"`
	LeaveKind   string `json:"leave_kind,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// MonthSummary is the per-employee fold of one month of day records.
type MonthSummary struct {
	EmployeeID string
	Year       int
	Month      int

	PresentDays       int
	HalfDays          int
	ShortLeaves       int
	Leaves            int
	Weekends          int
	Holidays          int
	FutureDays        int
	UnclassifiedDays  int
	TotalWorkingDays  int
	TotalHours        float64
	AttendancePercent float64

	Grace GraceState
	Days  []DayRecord
}

// MonthReport bundles everything presented for one employee-month.
type MonthReport struct {
	EmployeeID   string
	EmployeeName string
	Department   string
	Summary      MonthSummary
	LeaveBalance leave.LeaveBalance
}
