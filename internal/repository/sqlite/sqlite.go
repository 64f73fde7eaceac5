// Package sqlite provides a SQLite-backed implementation of the reconciliation
// sources. It is used for local development and tests; production runs on
// PostgreSQL with the same table shapes.
//
// Timestamps are stored as RFC 3339 text and dates as YYYY-MM-DD text, so
// lexical order matches chronological order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

// Store owns the SQLite connection shared by every repository in this package.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS shift_profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_hour INTEGER NOT NULL,
		start_minute INTEGER NOT NULL DEFAULT 0,
		late_threshold_hour INTEGER NOT NULL,
		late_threshold_minute INTEGER NOT NULL DEFAULT 0,
		end_hour INTEGER NOT NULL,
		late_grace_from INTEGER NOT NULL,
		late_grace_to INTEGER NOT NULL,
		early_grace_from INTEGER NOT NULL,
		early_grace_to INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS company_calendars (
		company_id TEXT PRIMARY KEY,
		timezone TEXT NOT NULL DEFAULT 'UTC'
	);

	CREATE TABLE IF NOT EXISTS company_weekends (
		company_id TEXT NOT NULL REFERENCES company_calendars(company_id) ON DELETE CASCADE,
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 1 AND 7),
		PRIMARY KEY (company_id, weekday)
	);

	CREATE TABLE IF NOT EXISTS company_holidays (
		company_id TEXT NOT NULL REFERENCES company_calendars(company_id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'public',
		PRIMARY KEY (company_id, date)
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_code TEXT NOT NULL,
		full_name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		shift_profile_id TEXT REFERENCES shift_profiles(id),
		hire_date TEXT NOT NULL,
		employment_status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_employees_company_status
		ON employees(company_id, employment_status);

	CREATE TABLE IF NOT EXISTS attendances (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		clock_in TEXT,
		clock_out TEXT,
		distance_meters REAL,
		address TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendances_employee_date
		ON attendances(company_id, employee_id, date);

	CREATE TABLE IF NOT EXISTS leave_policies (
		company_id TEXT PRIMARY KEY,
		monthly_allowance TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	return s.seedShiftProfiles(ctx)
}

// seedShiftProfiles inserts the built-in profiles, leaving edited rows alone.
func (s *Store) seedShiftProfiles(ctx context.Context) error {
	query := `
		INSERT OR IGNORE INTO shift_profiles (
			id, name, start_hour, start_minute, late_threshold_hour, late_threshold_minute,
			end_hour, late_grace_from, late_grace_to, early_grace_from, early_grace_to
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, p := range shift.SeedProfiles() {
		_, err := s.db.ExecContext(ctx, query,
			p.ID, p.Name, p.StartHour, p.StartMinute, p.LateThresholdHour, p.LateThresholdMinute,
			p.EndHour, p.LateGrace.FromHour, p.LateGrace.ToHour, p.EarlyGrace.FromHour, p.EarlyGrace.ToHour,
		)
		if err != nil {
			return fmt.Errorf("failed to seed shift profile %s: %w", p.ID, err)
		}
	}
	return nil
}
