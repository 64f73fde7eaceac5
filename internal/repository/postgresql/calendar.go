package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.CalendarRepository {
	return &calendarRepositoryImpl{db: db}
}

// GetWeekends implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetWeekends(ctx context.Context, companyID string) ([]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(array_agg(w.weekday ORDER BY w.weekday) FILTER (WHERE w.weekday IS NOT NULL), '{}')
		FROM company_calendars c
		LEFT JOIN company_weekends w ON w.company_id = c.company_id
		WHERE c.company_id = $1
		GROUP BY c.company_id
	`

	var weekends []int32
	if err := q.QueryRow(ctx, query, companyID).Scan(&weekends); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, calendar.ErrCalendarNotFound
		}
		return nil, fmt.Errorf("failed to get weekends: %w", err)
	}

	days := make([]int, 0, len(weekends))
	for _, d := range weekends {
		days = append(days, int(d))
	}
	return days, nil
}

// GetHolidays implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetHolidays(ctx context.Context, companyID string, year int) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM company_calendars WHERE company_id = $1)`, companyID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check company calendar: %w", err)
	}
	if !exists {
		return nil, calendar.ErrCalendarNotFound
	}

	query := `
		SELECT date, name, type
		FROM company_holidays
		WHERE company_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := q.Query(ctx, query, companyID, start, start.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := []calendar.Holiday{}
	for rows.Next() {
		var (
			date time.Time
			h    calendar.Holiday
		)
		if err := rows.Scan(&date, &h.Name, &h.Type); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date = date.Format(calendar.DateLayout)
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}

// GetTimezone implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetTimezone(ctx context.Context, companyID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var timezone string
	err := q.QueryRow(ctx, `SELECT timezone FROM company_calendars WHERE company_id = $1`, companyID).Scan(&timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", calendar.ErrCalendarNotFound
		}
		return "", fmt.Errorf("failed to get timezone: %w", err)
	}
	return timezone, nil
}
