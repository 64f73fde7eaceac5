package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
)

// logPageSize bounds each read from the attendances table.
const logPageSize = 500

type attendanceRepository struct {
	db       *database.DB
	pageSize int
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceLogRepository {
	return &attendanceRepository{db: db, pageSize: logPageSize}
}

type attendanceRow struct {
	date string
	raw  attendance.RawEvent
}

// GetMonthlyLogs implements attendance.AttendanceLogRepository.
// Pages are read until a short page comes back, so callers always get the
// whole month.
func (a *attendanceRepository) GetMonthlyLogs(ctx context.Context, companyID, employeeID string, year, month int) ([]attendance.DailyLog, error) {
	if companyID == "" {
		return nil, attendance.ErrCompanyIDRequired
	}
	if employeeID == "" {
		return nil, attendance.ErrEmployeeIDRequired
	}
	if month < 1 || month > 12 {
		return nil, attendance.ErrInvalidPeriod
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var logs []attendance.DailyLog
	for offset := 0; ; offset += a.pageSize {
		page, err := a.fetchPage(ctx, companyID, employeeID, start, end, offset)
		if err != nil {
			return nil, err
		}

		for _, row := range page {
			if n := len(logs); n > 0 && logs[n-1].Date == row.date {
				logs[n-1].RawEvents = append(logs[n-1].RawEvents, row.raw)
				continue
			}
			logs = append(logs, attendance.DailyLog{Date: row.date, RawEvents: []attendance.RawEvent{row.raw}})
		}

		if len(page) < a.pageSize {
			break
		}
	}

	return logs, nil
}

func (a *attendanceRepository) fetchPage(ctx context.Context, companyID, employeeID string, start, end time.Time, offset int) ([]attendanceRow, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT date, clock_in, clock_out, distance_meters, address
		FROM attendances
		WHERE company_id = $1
		  AND employee_id = $2
		  AND date >= $3
		  AND date < $4
		ORDER BY date ASC, clock_in ASC NULLS LAST, id ASC
		LIMIT $5 OFFSET $6
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, start, end, a.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	page := make([]attendanceRow, 0, a.pageSize)
	for rows.Next() {
		var (
			date time.Time
			raw  attendance.RawEvent
		)
		if err := rows.Scan(&date, &raw.CheckIn, &raw.CheckOut, &raw.DistanceMeters, &raw.Address); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		page = append(page, attendanceRow{date: date.Format(calendar.DateLayout), raw: raw})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return page, nil
}
