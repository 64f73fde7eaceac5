package reconciliation

import (
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

// timePtrToString safely converts a *time.Time to a clock string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("15:04")
	return &format
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func periodBounds(year, month int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start.Format(calendar.DateLayout), end.Format(calendar.DateLayout)
}

func mapDayRecordToResponse(r reconciliation.DayRecord) reconciliation.DayRecordResponse {
	return reconciliation.DayRecordResponse{
		Date:            r.Date.Format(calendar.DateLayout),
		DayOfWeek:       r.Date.Weekday().String(),
		Status:          string(r.Status),
		StatusLabel:     r.Status.Label(),
		CheckIn:         timePtrToString(r.CheckIn),
		CheckOut:        timePtrToString(r.CheckOut),
		WorkingHours:    round2(r.WorkingHours),
		IsLate:          r.IsLate,
		IsEarlyCheckout: r.IsEarlyCheckout,
		HolidayName:     r.HolidayName,
		LeaveKind:       r.LeaveKind,
		Reason:          r.Reason,
	}
}

func mapReportToResponse(report reconciliation.MonthReport, year, month int, generatedAt time.Time) reconciliation.MonthlyReconciliationResponse {
	s := report.Summary

	days := make([]reconciliation.DayRecordResponse, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, mapDayRecordToResponse(d))
	}

	start, end := periodBounds(year, month)

	return reconciliation.MonthlyReconciliationResponse{
		EmployeeID:   report.EmployeeID,
		EmployeeName: report.EmployeeName,
		Department:   report.Department,
		PeriodMonth:  month,
		PeriodYear:   year,
		PeriodStart:  start,
		PeriodEnd:    end,
		GeneratedAt:  generatedAt.Format(time.RFC3339),
		Summary: reconciliation.MonthSummaryResponse{
			PresentDays:          s.PresentDays,
			HalfDays:             s.HalfDays,
			ShortLeaves:          s.ShortLeaves,
			Leaves:               s.Leaves,
			Weekends:             s.Weekends,
			Holidays:             s.Holidays,
			FutureDays:           s.FutureDays,
			UnclassifiedDays:     s.UnclassifiedDays,
			TotalWorkingDays:     s.TotalWorkingDays,
			TotalHours:           s.TotalHours,
			AttendancePercentage: s.AttendancePercent,
			Grace:                s.Grace,
			Days:                 days,
		},
		LeaveBalance: report.LeaveBalance,
	}
}
