package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceLogRepository {
	return &attendanceRepositoryImpl{store: store}
}

// GetMonthlyLogs implements attendance.AttendanceLogRepository.
func (r *attendanceRepositoryImpl) GetMonthlyLogs(ctx context.Context, companyID, employeeID string, year, month int) ([]attendance.DailyLog, error) {
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

	query := `
		SELECT date, clock_in, clock_out, distance_meters, address
		FROM attendances
		WHERE company_id = ? AND employee_id = ?
		  AND date >= ? AND date < ?
		ORDER BY date, clock_in
	`

	rows, err := r.store.db.QueryContext(ctx, query, companyID, employeeID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var logs []attendance.DailyLog
	for rows.Next() {
		var (
			date              string
			clockIn, clockOut sql.NullString
			distance          sql.NullFloat64
			address           sql.NullString
		)
		if err := rows.Scan(&date, &clockIn, &clockOut, &distance, &address); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}

		raw := attendance.RawEvent{}
		if raw.CheckIn, err = parseNullTime(clockIn); err != nil {
			return nil, fmt.Errorf("attendance on %s: %w", date, err)
		}
		if raw.CheckOut, err = parseNullTime(clockOut); err != nil {
			return nil, fmt.Errorf("attendance on %s: %w", date, err)
		}
		if distance.Valid {
			raw.DistanceMeters = &distance.Float64
		}
		if address.Valid {
			raw.Address = &address.String
		}

		if n := len(logs); n > 0 && logs[n-1].Date == date {
			logs[n-1].RawEvents = append(logs[n-1].RawEvents, raw)
			continue
		}
		logs = append(logs, attendance.DailyLog{Date: date, RawEvents: []attendance.RawEvent{raw}})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return logs, nil
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", v.String, err)
	}
	return &t, nil
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
