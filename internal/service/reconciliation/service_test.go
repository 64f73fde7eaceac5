package reconciliation

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/sqlite"
)

const testCompanyID = "9b2f0a57-1f3e-4c55-8a4c-3f1e2d7c6b01"

type fixture struct {
	store   *sqlite.Store
	service *ReconciliationServiceImpl
	budi    employee.Employee
	sari    employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveCalendar(ctx, testCompanyID, "UTC", []int{6, 7}))
	require.NoError(t, store.AddHoliday(ctx, testCompanyID, calendar.Holiday{Date: "2024-01-26", Name: "Republic Day"}))

	budi, err := store.CreateEmployee(ctx, employee.Employee{
		CompanyID: testCompanyID, EmployeeCode: "E-001", FullName: "Budi Santoso", Department: "Finance",
	})
	require.NoError(t, err)

	specialA := shift.SpecialAID
	sari, err := store.CreateEmployee(ctx, employee.Employee{
		CompanyID: testCompanyID, EmployeeCode: "E-002", FullName: "Sari Dewi", Department: "Operations", ShiftProfileID: &specialA,
	})
	require.NoError(t, err)

	svc := NewReconciliationService(
		sqlite.NewAttendanceRepository(store),
		sqlite.NewCalendarRepository(store),
		sqlite.NewShiftProfileRepository(store),
		sqlite.NewEmployeeRepository(store),
		sqlite.NewLeavePolicyRepository(store),
		Options{
			DefaultTimezone:   "UTC",
			ReportConcurrency: 2,
			Now:               func() time.Time { return time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC) },
		},
	)

	return &fixture{store: store, service: svc, budi: budi, sari: sari}
}

func (f *fixture) punch(t *testing.T, emp employee.Employee, day int, in, out string) {
	t.Helper()
	date := time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC).Format(calendar.DateLayout)

	parse := func(clock string) *time.Time {
		if clock == "" {
			return nil
		}
		ts, err := time.Parse("2006-01-02 15:04", date+" "+clock)
		require.NoError(t, err)
		return &ts
	}

	require.NoError(t, f.store.RecordAttendance(context.Background(), testCompanyID, emp.ID, date,
		attendance.RawEvent{CheckIn: parse(in), CheckOut: parse(out)}))
}

// fullMonth punches a normal day on every weekday of January 2024 except the
// listed days.
func (f *fixture) fullMonth(t *testing.T, emp employee.Employee, in, out string, skip ...int) {
	t.Helper()
	skipped := make(map[int]bool, len(skip))
	for _, d := range skip {
		skipped[d] = true
	}

	for d := 1; d <= 31; d++ {
		wd := time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC).Weekday()
		if wd == time.Saturday || wd == time.Sunday || skipped[d] {
			continue
		}
		f.punch(t, emp, d, in, out)
	}
}

func claimsContext(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestReconcileEmployeeMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Jan 2: late inside grace window, Jan 3: late again, Jan 4: absent,
	// Jan 5: under two hours, Jan 26: holiday but punched anyway.
	f.fullMonth(t, f.budi, "07:55", "17:05", 2, 3, 4, 5)
	f.punch(t, f.budi, 2, "08:20", "17:30")
	f.punch(t, f.budi, 3, "08:20", "17:30")
	f.punch(t, f.budi, 5, "10:00", "11:30")

	report, err := f.service.ReconcileEmployeeMonth(ctx, testCompanyID, f.budi.ID, 2024, 1)
	require.NoError(t, err)

	days := report.Summary.Days
	require.Len(t, days, 31)
	assert.Equal(t, reconciliation.StatusPresent, days[0].Status)
	assert.InDelta(t, 9.17, days[0].WorkingHours, 0.01)
	assert.Equal(t, reconciliation.StatusShortLeave, days[1].Status)
	assert.Equal(t, reconciliation.StatusHalfDay, days[2].Status)
	assert.Equal(t, reconciliation.StatusLeave, days[3].Status)
	assert.Equal(t, reconciliation.ReasonNoCheckIn, days[3].Reason)
	assert.Equal(t, reconciliation.StatusLeave, days[4].Status)
	assert.Equal(t, reconciliation.ReasonWorkedUnderMinimum, days[4].Reason)
	assert.Equal(t, reconciliation.StatusWeekend, days[5].Status)
	assert.Equal(t, reconciliation.StatusHoliday, days[25].Status)
	assert.Equal(t, "Republic Day", days[25].HolidayName)

	s := report.Summary
	assert.Equal(t, 8, s.Weekends)
	assert.Equal(t, 1, s.Holidays)
	assert.Equal(t, 22, s.TotalWorkingDays)
	assert.Equal(t, 18, s.PresentDays)
	assert.Equal(t, 1, s.ShortLeaves)
	assert.Equal(t, 1, s.HalfDays)
	assert.Equal(t, 2, s.Leaves)
	assert.True(t, s.Grace.FirstLateUsed)
	assert.False(t, s.Grace.FirstEarlyUsed)

	// 2 + 0.5 + 0.25 = 2.75 used against the default 1.75.
	assert.Equal(t, 2.75, report.LeaveBalance.UsedDays)
	assert.Equal(t, 1.75, report.LeaveBalance.AllowedDays)
	assert.Equal(t, 1.0, report.LeaveBalance.ExtraDays)
	assert.True(t, report.LeaveBalance.IsOverLimit)

	assert.Equal(t, "Budi Santoso", report.EmployeeName)
	assert.Equal(t, "Finance", report.Department)
}

func TestReconcileEmployeeMonth_UsesAssignedShift(t *testing.T) {
	f := newFixture(t)

	// Within the Special A shift, 09:55 is on time.
	f.fullMonth(t, f.sari, "09:55", "18:00")

	report, err := f.service.ReconcileEmployeeMonth(context.Background(), testCompanyID, f.sari.ID, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 22, report.Summary.PresentDays)
	assert.Equal(t, 100.0, report.Summary.AttendancePercent)
}

func TestReconcileEmployeeMonth_CompanyAllowance(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetLeavePolicy(context.Background(), testCompanyID, decimal.NewFromInt(3)))

	f.fullMonth(t, f.budi, "07:55", "17:05", 4)

	report, err := f.service.ReconcileEmployeeMonth(context.Background(), testCompanyID, f.budi.ID, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, report.LeaveBalance.AllowedDays)
	assert.Equal(t, 2.0, report.LeaveBalance.RemainingDays)
	assert.False(t, report.LeaveBalance.IsOverLimit)
}

func TestReconcileEmployeeMonth_FutureMonth(t *testing.T) {
	f := newFixture(t)

	report, err := f.service.ReconcileEmployeeMonth(context.Background(), testCompanyID, f.budi.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.TotalWorkingDays)
	assert.Equal(t, 0.0, report.Summary.AttendancePercent)
	assert.Equal(t, 31, report.Summary.FutureDays)
}

func TestReconcileEmployeeMonth_MissingCalendarFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := "0c7e1d34-8a61-4e2b-9a4f-5d3c2b1a0f99"
	emp, err := f.store.CreateEmployee(ctx, employee.Employee{CompanyID: other, EmployeeCode: "X-1", FullName: "Andi"})
	require.NoError(t, err)

	report, err := f.service.ReconcileEmployeeMonth(ctx, other, emp.ID, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Weekends)
	assert.Equal(t, 0, report.Summary.Holidays)
	assert.Equal(t, 31, report.Summary.Leaves)
}

func TestReconcileEmployeeMonth_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReconcileEmployeeMonth(context.Background(), testCompanyID, "missing", 2024, 1)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReconcileMonth_ClaimsAndValidation(t *testing.T) {
	f := newFixture(t)
	f.fullMonth(t, f.budi, "07:55", "17:05")

	ctx := claimsContext(t, map[string]interface{}{"company_id": testCompanyID, "employee_id": f.budi.ID})

	resp, err := f.service.ReconcileMonth(ctx, reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    f.budi.ID,
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", resp.PeriodStart)
	assert.Equal(t, "2024-01-31", resp.PeriodEnd)
	assert.Equal(t, 22, resp.Summary.PresentDays)
	require.Len(t, resp.Summary.Days, 31)
	assert.Equal(t, "Monday", resp.Summary.Days[0].DayOfWeek)
	require.NotNil(t, resp.Summary.Days[0].CheckIn)
	assert.Equal(t, "07:55", *resp.Summary.Days[0].CheckIn)

	_, err = f.service.ReconcileMonth(ctx, reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    f.budi.ID,
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 13},
	})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	noCompany := claimsContext(t, map[string]interface{}{"employee_id": f.budi.ID})
	_, err = f.service.ReconcileMonth(noCompany, reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    f.budi.ID,
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 1},
	})
	assert.ErrorIs(t, err, reconciliation.ErrCompanyClaimMissing)
}

func TestGetMyReconciliation(t *testing.T) {
	f := newFixture(t)
	f.fullMonth(t, f.sari, "09:55", "18:00")

	ctx := claimsContext(t, map[string]interface{}{"company_id": testCompanyID, "employee_id": f.sari.ID})
	resp, err := f.service.GetMyReconciliation(ctx, reconciliation.PeriodRequest{Year: 2024, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, f.sari.ID, resp.EmployeeID)
	assert.Equal(t, 100.0, resp.Summary.AttendancePercentage)

	noEmployee := claimsContext(t, map[string]interface{}{"company_id": testCompanyID})
	_, err = f.service.GetMyReconciliation(noEmployee, reconciliation.PeriodRequest{Year: 2024, Month: 1})
	assert.ErrorIs(t, err, reconciliation.ErrEmployeeClaimMissing)
}

func TestGetLeaveBalance(t *testing.T) {
	f := newFixture(t)
	f.fullMonth(t, f.budi, "07:55", "17:05", 8)

	ctx := claimsContext(t, map[string]interface{}{"company_id": testCompanyID})
	balance, err := f.service.GetLeaveBalance(ctx, reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    f.budi.ID,
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, balance.UsedDays)
	assert.Equal(t, 0.75, balance.RemainingDays)
}

func TestGenerateCompanyReport(t *testing.T) {
	f := newFixture(t)
	f.fullMonth(t, f.budi, "07:55", "17:05")
	f.fullMonth(t, f.sari, "09:55", "18:00", 10)

	ctx := claimsContext(t, map[string]interface{}{"company_id": testCompanyID})
	resp, err := f.service.GenerateCompanyReport(ctx, reconciliation.CompanyReportRequest{
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 1},
	})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 2)

	// Ordered by name.
	assert.Equal(t, "Budi Santoso", resp.Employees[0].EmployeeName)
	assert.Equal(t, 22, resp.Employees[0].Summary.PresentDays)
	assert.Equal(t, "Sari Dewi", resp.Employees[1].EmployeeName)
	assert.Equal(t, 1, resp.Employees[1].Summary.Leaves)
}

func TestExportCompanyReportCSV(t *testing.T) {
	f := newFixture(t)
	f.fullMonth(t, f.budi, "07:55", "17:05")

	ctx := claimsContext(t, map[string]interface{}{"company_id": testCompanyID})

	var buf bytes.Buffer
	err := f.service.ExportCompanyReportCSV(ctx, reconciliation.CompanyReportRequest{
		PeriodRequest: reconciliation.PeriodRequest{Year: 2024, Month: 1},
	}, &buf)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee Name", rows[0][0])
	assert.Equal(t, "Budi Santoso", rows[1][0])
	assert.Equal(t, "22", rows[1][2])
	assert.Equal(t, "Holiday", rows[1][10+25])
}
