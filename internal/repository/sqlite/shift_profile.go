package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

type shiftProfileRepositoryImpl struct {
	store *Store
}

func NewShiftProfileRepository(store *Store) shift.ShiftProfileRepository {
	return &shiftProfileRepositoryImpl{store: store}
}

// GetByEmployeeID implements shift.ShiftProfileRepository.
func (r *shiftProfileRepositoryImpl) GetByEmployeeID(ctx context.Context, companyID, employeeID string) (shift.ShiftProfile, error) {
	query := `
		SELECT sp.id, sp.name, sp.start_hour, sp.start_minute, sp.late_threshold_hour, sp.late_threshold_minute,
			   sp.end_hour, sp.late_grace_from, sp.late_grace_to, sp.early_grace_from, sp.early_grace_to
		FROM employees e
		JOIN shift_profiles sp ON sp.id = e.shift_profile_id
		WHERE e.id = ? AND e.company_id = ?
	`

	var p shift.ShiftProfile
	err := r.store.db.QueryRowContext(ctx, query, employeeID, companyID).Scan(
		&p.ID, &p.Name, &p.StartHour, &p.StartMinute, &p.LateThresholdHour, &p.LateThresholdMinute,
		&p.EndHour, &p.LateGrace.FromHour, &p.LateGrace.ToHour, &p.EarlyGrace.FromHour, &p.EarlyGrace.ToHour,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.ShiftProfile{}, shift.ErrShiftProfileNotFound
		}
		return shift.ShiftProfile{}, fmt.Errorf("failed to get shift profile: %w", err)
	}

	return p, nil
}
