package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
)

type calendarRepositoryImpl struct {
	store *Store
}

func NewCalendarRepository(store *Store) calendar.CalendarRepository {
	return &calendarRepositoryImpl{store: store}
}

func (r *calendarRepositoryImpl) exists(ctx context.Context, companyID string) error {
	var id string
	err := r.store.db.QueryRowContext(ctx, `SELECT company_id FROM company_calendars WHERE company_id = ?`, companyID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calendar.ErrCalendarNotFound
		}
		return fmt.Errorf("failed to get company calendar: %w", err)
	}
	return nil
}

// GetWeekends implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetWeekends(ctx context.Context, companyID string) ([]int, error) {
	if err := r.exists(ctx, companyID); err != nil {
		return nil, err
	}

	rows, err := r.store.db.QueryContext(ctx, `SELECT weekday FROM company_weekends WHERE company_id = ? ORDER BY weekday`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekends: %w", err)
	}
	defer rows.Close()

	weekends := []int{}
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan weekend: %w", err)
		}
		weekends = append(weekends, day)
	}
	return weekends, rows.Err()
}

// GetHolidays implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetHolidays(ctx context.Context, companyID string, year int) ([]calendar.Holiday, error) {
	if err := r.exists(ctx, companyID); err != nil {
		return nil, err
	}

	query := `
		SELECT date, name, type
		FROM company_holidays
		WHERE company_id = ? AND date >= ? AND date <= ?
		ORDER BY date
	`

	rows, err := r.store.db.QueryContext(ctx, query, companyID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := []calendar.Holiday{}
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.Date, &h.Name, &h.Type); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// GetTimezone implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetTimezone(ctx context.Context, companyID string) (string, error) {
	var timezone string
	err := r.store.db.QueryRowContext(ctx, `SELECT timezone FROM company_calendars WHERE company_id = ?`, companyID).Scan(&timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", calendar.ErrCalendarNotFound
		}
		return "", fmt.Errorf("failed to get timezone: %w", err)
	}
	return timezone, nil
}
