package calendar

import "time"

// DateLayout is the date-string format shared by holidays and daily logs.
const DateLayout = "2006-01-02"

type Holiday struct {
	Date string // YYYY-MM-DD
	Name string
	Type string
}

// Calendar groups the company calendar facts needed to reconcile one month.
type Calendar struct {
	CompanyID string
	Weekends  []int // 1=Monday, ..., 7=Sunday
	Holidays  []Holiday
	Location  *time.Location
}
