package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaveCalendar replaces the company's timezone and weekend days.
func (s *Store) SaveCalendar(ctx context.Context, companyID, timezone string, weekends []int) error {
	for _, d := range weekends {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: %d", calendar.ErrInvalidWeekday, d)
		}
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO company_calendars (company_id, timezone) VALUES (?, ?)
			ON CONFLICT (company_id) DO UPDATE SET timezone = excluded.timezone
		`, companyID, timezone)
		if err != nil {
			return fmt.Errorf("failed to save company calendar: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM company_weekends WHERE company_id = ?`, companyID); err != nil {
			return fmt.Errorf("failed to clear weekends: %w", err)
		}
		for _, d := range weekends {
			if _, err := tx.ExecContext(ctx, `INSERT INTO company_weekends (company_id, weekday) VALUES (?, ?)`, companyID, d); err != nil {
				return fmt.Errorf("failed to save weekend %d: %w", d, err)
			}
		}
		return nil
	})
}

// AddHoliday records a holiday. The company calendar must exist.
func (s *Store) AddHoliday(ctx context.Context, companyID string, h calendar.Holiday) error {
	if _, err := time.Parse(calendar.DateLayout, h.Date); err != nil {
		return fmt.Errorf("invalid holiday date %q: %w", h.Date, err)
	}
	if h.Type == "" {
		h.Type = "public"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_holidays (company_id, date, name, type) VALUES (?, ?, ?, ?)
		ON CONFLICT (company_id, date) DO UPDATE SET name = excluded.name, type = excluded.type
	`, companyID, h.Date, h.Name, h.Type)
	if err != nil {
		return fmt.Errorf("failed to add holiday: %w", err)
	}
	return nil
}

// CreateEmployee inserts emp, generating an ID when it has none.
func (s *Store) CreateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	now := time.Now().UTC()
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	if emp.HireDate.IsZero() {
		emp.HireDate = now
	}
	emp.CreatedAt, emp.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, company_id, employee_code, full_name, department, shift_profile_id,
			hire_date, employment_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		emp.ID, emp.CompanyID, emp.EmployeeCode, emp.FullName, emp.Department, emp.ShiftProfileID,
		emp.HireDate.Format(time.DateOnly), emp.EmploymentStatus,
		emp.CreatedAt.Format(time.RFC3339Nano), emp.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

// RecordAttendance stores one check-in/check-out pair for the given date.
func (s *Store) RecordAttendance(ctx context.Context, companyID, employeeID, date string, ev attendance.RawEvent) error {
	if _, err := time.Parse(calendar.DateLayout, date); err != nil {
		return fmt.Errorf("invalid attendance date %q: %w", date, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendances (id, company_id, employee_id, date, clock_in, clock_out, distance_meters, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(), companyID, employeeID, date,
		formatNullTime(ev.CheckIn), formatNullTime(ev.CheckOut), ev.DistanceMeters, ev.Address,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}
	return nil
}

// SetLeavePolicy stores the company's monthly casual-leave allowance.
func (s *Store) SetLeavePolicy(ctx context.Context, companyID string, allowance decimal.Decimal) error {
	if !allowance.IsPositive() {
		return leave.ErrInvalidAllowance
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_policies (company_id, monthly_allowance) VALUES (?, ?)
		ON CONFLICT (company_id) DO UPDATE SET monthly_allowance = excluded.monthly_allowance
	`, companyID, allowance.String())
	if err != nil {
		return fmt.Errorf("failed to set leave policy: %w", err)
	}
	return nil
}
