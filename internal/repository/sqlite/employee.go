package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, department, shift_profile_id,
	hire_date, employment_status, created_at, updated_at, deleted_at
`

func scanEmployee(row interface{ Scan(...any) error }) (employee.Employee, error) {
	var (
		emp                  employee.Employee
		shiftProfileID       sql.NullString
		hireDate             string
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)

	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Department, &shiftProfileID,
		&hireDate, &emp.EmploymentStatus, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if shiftProfileID.Valid {
		emp.ShiftProfileID = &shiftProfileID.String
	}
	if emp.HireDate, err = time.Parse(time.DateOnly, hireDate); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid hire date %q: %w", hireDate, err)
	}
	if emp.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if emp.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	if emp.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return employee.Employee{}, err
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ? AND company_id = ? AND deleted_at IS NULL`

	emp, err := scanEmployee(r.store.db.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context, companyID string) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = ? AND employment_status = ? AND deleted_at IS NULL
		ORDER BY full_name, id`

	rows, err := r.store.db.QueryContext(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
