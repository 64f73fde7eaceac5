package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftProfileRepositoryImpl struct {
	db *database.DB
}

func NewShiftProfileRepository(db *database.DB) shift.ShiftProfileRepository {
	return &shiftProfileRepositoryImpl{db: db}
}

// GetByEmployeeID implements shift.ShiftProfileRepository.
func (r *shiftProfileRepositoryImpl) GetByEmployeeID(ctx context.Context, companyID, employeeID string) (shift.ShiftProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sp.id, sp.name, sp.start_hour, sp.start_minute, sp.late_threshold_hour, sp.late_threshold_minute,
			   sp.end_hour, sp.late_grace_from, sp.late_grace_to, sp.early_grace_from, sp.early_grace_to
		FROM employees e
		JOIN shift_profiles sp ON sp.id = e.shift_profile_id
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`

	var p shift.ShiftProfile
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&p.ID, &p.Name, &p.StartHour, &p.StartMinute, &p.LateThresholdHour, &p.LateThresholdMinute,
		&p.EndHour, &p.LateGrace.FromHour, &p.LateGrace.ToHour, &p.EarlyGrace.FromHour, &p.EarlyGrace.ToHour,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftProfile{}, shift.ErrShiftProfileNotFound
		}
		return shift.ShiftProfile{}, fmt.Errorf("failed to get shift profile for employee %s: %w", employeeID, err)
	}

	return p, nil
}
