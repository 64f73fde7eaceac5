package reconciliation

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

// BuildDayContexts produces one DayContext per calendar day of the month in
// ascending order. Event timestamps are moved into the calendar's location so
// that time-of-day rules use company local time. today marks the first day
// that is not yet classifiable.
func BuildDayContexts(year, month int, logs []attendance.DailyLog, cal calendar.Calendar, today time.Time) ([]reconciliation.DayContext, error) {
	if month < 1 || month > 12 {
		return nil, &reconciliation.ClassificationError{
			Reason: "month out of range",
			Err:    reconciliation.ErrInvalidPeriod,
		}
	}

	loc := cal.Location
	if loc == nil {
		loc = time.UTC
	}

	merged := make(map[string]attendance.DailyLog, len(logs))
	for _, log := range logs {
		date, err := time.ParseInLocation(calendar.DateLayout, log.Date, loc)
		if err != nil {
			return nil, &reconciliation.ClassificationError{
				Date:   log.Date,
				Reason: "malformed log date",
				Err:    reconciliation.ErrInvalidDate,
			}
		}
		if date.Year() != year || int(date.Month()) != month {
			return nil, &reconciliation.ClassificationError{
				Date:   log.Date,
				Reason: "log outside the requested month",
				Err:    reconciliation.ErrMixedMonths,
			}
		}

		entry := merged[log.Date]
		entry.Date = log.Date
		entry.RawEvents = append(entry.RawEvents, log.RawEvents...)
		merged[log.Date] = entry
	}

	byDate := make(map[string][]attendance.AttendanceEvent, len(merged))
	for key, log := range merged {
		events := log.Events()
		for i := range events {
			events[i].Timestamp = events[i].Timestamp.In(loc)
		}
		byDate[key] = events
	}

	localToday := today.In(loc)
	cutoff := time.Date(localToday.Year(), localToday.Month(), localToday.Day(), 0, 0, 0, 0, loc)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	days := make([]reconciliation.DayContext, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(calendar.DateLayout)

		day := reconciliation.DayContext{
			Date:            d,
			Events:          byDate[key],
			IsFutureOrToday: !d.Before(cutoff),
		}
		if cal.IsWeekend(d) {
			day.IsWeekend = true
		} else {
			day.Holiday = cal.HolidayFor(d)
		}

		days = append(days, day)
	}

	return days, nil
}
