package reconciliation

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
)

// csvHeader is part of the export contract; do not reorder.
var csvHeader = []string{
	"Employee Name",
	"Department",
	"Present Days",
	"Absent Days",
	"Half Days",
	"Week Off",
	"Holidays",
	"Leaves",
	"Working Hours",
	"Total Days",
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyCSVHeader returns the fixed columns followed by one "<date> STATUS"
// column per day of the month.
func MonthlyCSVHeader(year, month int) []string {
	n := daysIn(year, month)
	header := make([]string, 0, len(csvHeader)+n)
	header = append(header, csvHeader...)
	for d := 1; d <= n; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
		header = append(header, date.Format(calendar.DateLayout)+" STATUS")
	}
	return header
}

// MonthlyCSVRow flattens one employee-month into a CSV row matching MonthlyCSVHeader.
func MonthlyCSVRow(report reconciliation.MonthReport, year, month int) []string {
	s := report.Summary
	n := daysIn(year, month)

	row := make([]string, 0, len(csvHeader)+n)
	row = append(row,
		report.EmployeeName,
		report.Department,
		fmt.Sprint(s.PresentDays),
		fmt.Sprint(s.Leaves),
		fmt.Sprint(s.HalfDays),
		fmt.Sprint(s.Weekends),
		fmt.Sprint(s.Holidays),
		fmt.Sprintf("%.2f", report.LeaveBalance.UsedDays),
		fmt.Sprintf("%.2f", s.TotalHours),
		fmt.Sprint(n),
	)

	statuses := make(map[int]string, len(s.Days))
	for _, day := range s.Days {
		statuses[day.Date.Day()] = day.Status.Label()
	}
	for d := 1; d <= n; d++ {
		row = append(row, statuses[d])
	}

	return row
}

// WriteMonthlyCSV writes the header and one row per report.
func WriteMonthlyCSV(w io.Writer, year, month int, reports []reconciliation.MonthReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(MonthlyCSVHeader(year, month)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range reports {
		if err := cw.Write(MonthlyCSVRow(r, year, month)); err != nil {
			return fmt.Errorf("failed to write csv row for employee %s: %w", r.EmployeeID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
