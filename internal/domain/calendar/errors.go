package calendar

import "errors"

var (
	ErrCalendarNotFound = errors.New("company calendar not found")
	ErrInvalidWeekday   = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")
)
