package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

const companyID = "company-1"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func ptr[T any](v T) *T {
	return &v
}

func TestShiftProfiles_SeededAndResolvedByEmployee(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewShiftProfileRepository(store)

	special, err := store.CreateEmployee(ctx, employee.Employee{
		CompanyID: companyID, EmployeeCode: "E-1", FullName: "Budi", ShiftProfileID: ptr(shift.SpecialBID),
	})
	require.NoError(t, err)

	profile, err := repo.GetByEmployeeID(ctx, companyID, special.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.SpecialB, profile)

	plain, err := store.CreateEmployee(ctx, employee.Employee{CompanyID: companyID, EmployeeCode: "E-2", FullName: "Sari"})
	require.NoError(t, err)

	_, err = repo.GetByEmployeeID(ctx, companyID, plain.ID)
	assert.ErrorIs(t, err, shift.ErrShiftProfileNotFound)

	_, err = repo.GetByEmployeeID(ctx, "other-company", special.ID)
	assert.ErrorIs(t, err, shift.ErrShiftProfileNotFound)
}

func TestCalendarRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewCalendarRepository(store)

	_, err := repo.GetWeekends(ctx, companyID)
	assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)
	_, err = repo.GetTimezone(ctx, companyID)
	assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)

	require.NoError(t, store.SaveCalendar(ctx, companyID, "Asia/Jakarta", []int{7, 6}))
	require.NoError(t, store.AddHoliday(ctx, companyID, calendar.Holiday{Date: "2024-01-26", Name: "Republic Day"}))
	require.NoError(t, store.AddHoliday(ctx, companyID, calendar.Holiday{Date: "2025-01-01", Name: "New Year"}))

	weekends, err := repo.GetWeekends(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, weekends)

	holidays, err := repo.GetHolidays(ctx, companyID, 2024)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, calendar.Holiday{Date: "2024-01-26", Name: "Republic Day", Type: "public"}, holidays[0])

	tz, err := repo.GetTimezone(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", tz)

	assert.ErrorIs(t, store.SaveCalendar(ctx, companyID, "UTC", []int{0}), calendar.ErrInvalidWeekday)
}

func TestAttendanceRepository_GetMonthlyLogs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAttendanceRepository(store)

	emp, err := store.CreateEmployee(ctx, employee.Employee{CompanyID: companyID, EmployeeCode: "E-1", FullName: "Budi"})
	require.NoError(t, err)

	jan2 := func(h, m int) *time.Time { return ptr(time.Date(2024, 1, 2, h, m, 0, 0, time.UTC)) }
	require.NoError(t, store.RecordAttendance(ctx, companyID, emp.ID, "2024-01-02", attendance.RawEvent{CheckIn: jan2(13, 0), CheckOut: jan2(17, 0)}))
	require.NoError(t, store.RecordAttendance(ctx, companyID, emp.ID, "2024-01-02", attendance.RawEvent{CheckIn: jan2(8, 0), CheckOut: jan2(12, 0), Address: ptr("Head office")}))
	require.NoError(t, store.RecordAttendance(ctx, companyID, emp.ID, "2024-01-03", attendance.RawEvent{CheckIn: ptr(time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC))}))
	require.NoError(t, store.RecordAttendance(ctx, companyID, emp.ID, "2024-02-01", attendance.RawEvent{CheckIn: ptr(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC))}))

	logs, err := repo.GetMonthlyLogs(ctx, companyID, emp.ID, 2024, 1)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "2024-01-02", logs[0].Date)
	require.Len(t, logs[0].RawEvents, 2)
	assert.True(t, jan2(8, 0).Equal(*logs[0].RawEvents[0].CheckIn))
	assert.Equal(t, "Head office", *logs[0].RawEvents[0].Address)

	assert.Equal(t, "2024-01-03", logs[1].Date)
	assert.Nil(t, logs[1].RawEvents[0].CheckOut)

	_, err = repo.GetMonthlyLogs(ctx, companyID, "", 2024, 1)
	assert.ErrorIs(t, err, attendance.ErrEmployeeIDRequired)
	_, err = repo.GetMonthlyLogs(ctx, companyID, emp.ID, 2024, 0)
	assert.ErrorIs(t, err, attendance.ErrInvalidPeriod)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewEmployeeRepository(store)

	active, err := store.CreateEmployee(ctx, employee.Employee{CompanyID: companyID, EmployeeCode: "E-1", FullName: "Budi", Department: "Finance"})
	require.NoError(t, err)
	_, err = store.CreateEmployee(ctx, employee.Employee{CompanyID: companyID, EmployeeCode: "E-2", FullName: "Agus", EmploymentStatus: employee.EmploymentStatusResigned})
	require.NoError(t, err)
	_, err = store.CreateEmployee(ctx, employee.Employee{CompanyID: "other-company", EmployeeCode: "E-3", FullName: "Citra"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, companyID, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", got.FullName)
	assert.Equal(t, "Finance", got.Department)
	assert.Nil(t, got.ShiftProfileID)

	_, err = repo.GetByID(ctx, "other-company", active.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	list, err := repo.ListActive(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)
}

func TestLeavePolicyRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewLeavePolicyRepository(store)

	_, err := repo.GetMonthlyAllowance(ctx, companyID)
	assert.ErrorIs(t, err, leave.ErrLeavePolicyNotFound)

	require.NoError(t, store.SetLeavePolicy(ctx, companyID, decimal.RequireFromString("2.5")))
	allowance, err := repo.GetMonthlyAllowance(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(allowance))

	assert.ErrorIs(t, store.SetLeavePolicy(ctx, companyID, decimal.Zero), leave.ErrInvalidAllowance)
}
