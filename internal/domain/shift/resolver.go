package shift

import (
	"context"
	"errors"
	"fmt"
)

// Resolver answers which shift profile applies to an employee.
type Resolver struct {
	repo ShiftProfileRepository
}

func NewResolver(repo ShiftProfileRepository) *Resolver {
	return &Resolver{repo: repo}
}

// ProfileFor returns the employee's profile, or Standard when none is assigned.
func (r *Resolver) ProfileFor(ctx context.Context, companyID, employeeID string) (ShiftProfile, error) {
	if r.repo == nil {
		return Standard, nil
	}

	profile, err := r.repo.GetByEmployeeID(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, ErrShiftProfileNotFound) {
			return Standard, nil
		}
		return ShiftProfile{}, fmt.Errorf("failed to get shift profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return ShiftProfile{}, err
	}

	return profile, nil
}

// Validate checks hour ranges of a stored profile.
func (p ShiftProfile) Validate() error {
	inDay := func(h int) bool { return h >= 0 && h <= 24 }

	if !inDay(p.StartHour) || !inDay(p.EndHour) || !inDay(p.LateThresholdHour) {
		return fmt.Errorf("%w: %s", ErrInvalidShiftProfile, p.ID)
	}
	if p.StartMinute < 0 || p.StartMinute > 59 || p.LateThresholdMinute < 0 || p.LateThresholdMinute > 59 {
		return fmt.Errorf("%w: %s", ErrInvalidShiftProfile, p.ID)
	}
	if p.LateGrace.FromHour > p.LateGrace.ToHour || p.EarlyGrace.FromHour > p.EarlyGrace.ToHour {
		return fmt.Errorf("%w: grace window of %s", ErrInvalidShiftProfile, p.ID)
	}
	return nil
}
