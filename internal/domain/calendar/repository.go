package calendar

import "context"

// CalendarRepository is the calendar source for a company.
// Implementations return ErrCalendarNotFound when the company has no data;
// callers fall back to empty defaults.
type CalendarRepository interface {
	GetWeekends(ctx context.Context, companyID string) ([]int, error)
	GetHolidays(ctx context.Context, companyID string, year int) ([]Holiday, error)
	GetTimezone(ctx context.Context, companyID string) (string, error)
}
