package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate applies the reconciliation schema and seeds the built-in shift
// profiles. It is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)

		if _, err := q.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}

		query := `
			INSERT INTO shift_profiles (
				id, name, start_hour, start_minute, late_threshold_hour, late_threshold_minute,
				end_hour, late_grace_from, late_grace_to, early_grace_from, early_grace_to
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`
		for _, p := range shift.SeedProfiles() {
			_, err := q.Exec(ctx, query,
				p.ID, p.Name, p.StartHour, p.StartMinute, p.LateThresholdHour, p.LateThresholdMinute,
				p.EndHour, p.LateGrace.FromHour, p.LateGrace.ToHour, p.EarlyGrace.FromHour, p.EarlyGrace.ToHour,
			)
			if err != nil {
				return fmt.Errorf("failed to seed shift profile %s: %w", p.ID, err)
			}
		}
		return nil
	})
}
