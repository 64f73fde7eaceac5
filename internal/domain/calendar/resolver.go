package calendar

import "time"

// ISOWeekday converts Go's Sunday-based weekday to 1=Monday, ..., 7=Sunday.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend reports whether date falls on one of the weekend day numbers.
func IsWeekend(date time.Time, weekends []int) bool {
	day := ISOWeekday(date)
	for _, w := range weekends {
		if w == day {
			return true
		}
	}
	return false
}

// HolidayFor returns the holiday whose date string matches date exactly, or nil.
func HolidayFor(date time.Time, holidays []Holiday) *Holiday {
	key := date.Format(DateLayout)
	for i := range holidays {
		if holidays[i].Date == key {
			h := holidays[i]
			return &h
		}
	}
	return nil
}

// IsWeekend reports whether date is a weekend for this calendar.
func (c Calendar) IsWeekend(date time.Time) bool {
	return IsWeekend(date, c.Weekends)
}

// HolidayFor returns the calendar holiday on date, or nil.
func (c Calendar) HolidayFor(date time.Time) *Holiday {
	return HolidayFor(date, c.Holidays)
}
