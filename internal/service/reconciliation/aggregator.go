package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

var (
	shortLeaveCredit = decimal.RequireFromString("0.75")
	halfDayCredit    = decimal.RequireFromString("0.5")
	hundred          = decimal.NewFromInt(100)
)

// Aggregate folds the day records of one employee-month into a summary.
// Year and month are taken from the first record.
func Aggregate(employeeID string, records []reconciliation.DayRecord) reconciliation.MonthSummary {
	summary := reconciliation.MonthSummary{
		EmployeeID: employeeID,
		Days:       records,
	}
	if len(records) > 0 {
		summary.Year = records[0].Date.Year()
		summary.Month = int(records[0].Date.Month())
	}

	totalHours := decimal.Zero
	for _, r := range records {
		switch r.Status {
		case reconciliation.StatusPresent:
			summary.PresentDays++
		case reconciliation.StatusHalfDay:
			summary.HalfDays++
		case reconciliation.StatusShortLeave:
			summary.ShortLeaves++
		case reconciliation.StatusLeave:
			summary.Leaves++
		case reconciliation.StatusWeekend:
			summary.Weekends++
		case reconciliation.StatusHoliday:
			summary.Holidays++
		case reconciliation.StatusFutureOrToday:
			summary.FutureDays++
		default:
			summary.UnclassifiedDays++
		}

		if r.Status.CountsAsWorkingDay() {
			summary.TotalWorkingDays++
			totalHours = totalHours.Add(decimal.NewFromFloat(r.WorkingHours))
		}
	}

	summary.TotalHours = totalHours.Round(2).InexactFloat64()
	summary.AttendancePercent = attendancePercentage(summary)

	return summary
}

// attendancePercentage weights present as 1, short leave as 0.75 and half day
// as 0.5 over the working days, rounded to 2 decimals. Zero working days gives 0.
func attendancePercentage(s reconciliation.MonthSummary) float64 {
	if s.TotalWorkingDays == 0 {
		return 0
	}

	attended := decimal.NewFromInt(int64(s.PresentDays)).
		Add(decimal.NewFromInt(int64(s.ShortLeaves)).Mul(shortLeaveCredit)).
		Add(decimal.NewFromInt(int64(s.HalfDays)).Mul(halfDayCredit))

	return attended.
		Div(decimal.NewFromInt(int64(s.TotalWorkingDays))).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}
