package reconciliation

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

const (
	minimumWorkedHours = 2.0
	halfDayHours       = 3.0
	fullDayHours       = 8.0
)

// Classify assigns a status to one day. It is a pure function of its inputs;
// the returned grace state must be passed to the next day of the same month.
// Rules are evaluated in order and the first match wins.
func Classify(day reconciliation.DayContext, profile shift.ShiftProfile, grace reconciliation.GraceState) (reconciliation.DayRecord, reconciliation.GraceState) {
	record := reconciliation.DayRecord{Date: day.Date}

	switch {
	case day.IsFutureOrToday:
		record.Status = reconciliation.StatusFutureOrToday
		return record, grace
	case day.IsWeekend:
		record.Status = reconciliation.StatusWeekend
		return record, grace
	case day.Holiday != nil:
		record.Status = reconciliation.StatusHoliday
		record.HolidayName = day.Holiday.Name
		return record, grace
	}

	if len(day.Events) == 0 || day.Events[0].Kind != attendance.EventCheckIn {
		record.Status = reconciliation.StatusLeave
		record.LeaveKind = reconciliation.LeaveKindFullDay
		record.Reason = reconciliation.ReasonNoCheckIn
		return record, grace
	}

	// First in, last out: intermediate pairs are ignored.
	checkIn := day.Events[0].Timestamp
	record.CheckIn = &checkIn

	var checkOut *time.Time
	for i := len(day.Events) - 1; i > 0; i-- {
		if day.Events[i].Kind == attendance.EventCheckOut {
			ts := day.Events[i].Timestamp
			checkOut = &ts
			break
		}
	}
	record.CheckOut = checkOut
	record.WorkingHours = workingHours(checkIn, checkOut)

	record.IsLate = checkIn.After(profile.LateThreshold(checkIn))
	record.IsEarlyCheckout = checkOut != nil && checkOut.Before(profile.OfficialEnd(*checkOut))

	switch {
	case record.WorkingHours < minimumWorkedHours:
		record.Status = reconciliation.StatusLeave
		record.LeaveKind = reconciliation.LeaveKindHalfDay
		record.Reason = reconciliation.ReasonWorkedUnderMinimum

	case record.IsEarlyCheckout:
		if profile.EarlyGrace.Contains(*checkOut) && !grace.FirstEarlyUsed {
			record.Status = reconciliation.StatusShortLeave
			grace.FirstEarlyUsed = true
		} else {
			record.Status = reconciliation.StatusHalfDay
		}

	case record.IsLate:
		if profile.LateGrace.Contains(checkIn) && !grace.FirstLateUsed {
			record.Status = reconciliation.StatusShortLeave
			grace.FirstLateUsed = true
		} else {
			record.Status = reconciliation.StatusHalfDay
		}

	case record.WorkingHours >= fullDayHours:
		record.Status = reconciliation.StatusPresent

	case record.WorkingHours >= halfDayHours:
		record.Status = reconciliation.StatusHalfDay

	default:
		record.Status = reconciliation.StatusUnclassified
	}

	return record, grace
}

// workingHours is zero without a check-out and never negative.
func workingHours(checkIn time.Time, checkOut *time.Time) float64 {
	if checkOut == nil {
		return 0
	}
	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// ClassifyMonth folds Classify over the days of one month, threading grace
// state from each day to the next. Days must be strictly ascending.
func ClassifyMonth(days []reconciliation.DayContext, profile shift.ShiftProfile, initial reconciliation.GraceState) ([]reconciliation.DayRecord, reconciliation.GraceState, error) {
	records := make([]reconciliation.DayRecord, 0, len(days))
	grace := initial

	for i, day := range days {
		if i > 0 {
			prev := days[i-1].Date
			if !day.Date.After(prev) {
				return nil, initial, &reconciliation.ClassificationError{
					Date:   day.Date.Format(calendar.DateLayout),
					Reason: "follows " + prev.Format(calendar.DateLayout),
					Err:    reconciliation.ErrDaysOutOfOrder,
				}
			}
			if day.Date.Year() != prev.Year() || day.Date.Month() != prev.Month() {
				return nil, initial, &reconciliation.ClassificationError{
					Date:   day.Date.Format(calendar.DateLayout),
					Reason: "outside the month of " + days[0].Date.Format("2006-01"),
					Err:    reconciliation.ErrMixedMonths,
				}
			}
		}

		var record reconciliation.DayRecord
		record, grace = Classify(day, profile, grace)
		records = append(records, record)
	}

	return records, grace, nil
}
