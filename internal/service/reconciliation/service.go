package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

// Options tunes the reconciliation service.
type Options struct {
	DefaultTimezone   string
	DefaultAllowance  decimal.Decimal
	ReportConcurrency int

	// Now supplies "today". Defaults to time.Now.
	Now func() time.Time
}

type ReconciliationServiceImpl struct {
	attendanceRepo  attendance.AttendanceLogRepository
	calendarRepo    calendar.CalendarRepository
	shiftResolver   *shift.Resolver
	employeeRepo    employee.EmployeeRepository
	leavePolicyRepo leave.LeavePolicyRepository

	defaultLocation  *time.Location
	defaultAllowance decimal.Decimal
	concurrency      int
	now              func() time.Time
}

var _ reconciliation.ReconciliationService = (*ReconciliationServiceImpl)(nil)

func NewReconciliationService(
	attendanceRepo attendance.AttendanceLogRepository,
	calendarRepo calendar.CalendarRepository,
	shiftRepo shift.ShiftProfileRepository,
	employeeRepo employee.EmployeeRepository,
	leavePolicyRepo leave.LeavePolicyRepository,
	opts Options,
) *ReconciliationServiceImpl {
	loc, err := time.LoadLocation(opts.DefaultTimezone)
	if err != nil || opts.DefaultTimezone == "" {
		loc = time.UTC
	}

	allowance := opts.DefaultAllowance
	if !allowance.IsPositive() {
		allowance = leave.DefaultMonthlyAllowance
	}

	concurrency := opts.ReportConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &ReconciliationServiceImpl{
		attendanceRepo:   attendanceRepo,
		calendarRepo:     calendarRepo,
		shiftResolver:    shift.NewResolver(shiftRepo),
		employeeRepo:     employeeRepo,
		leavePolicyRepo:  leavePolicyRepo,
		defaultLocation:  loc,
		defaultAllowance: allowance,
		concurrency:      concurrency,
		now:              now,
	}
}

// getClaim extracts a string claim from the JWT in ctx.
func getClaim(ctx context.Context, key string, missing error) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	value, ok := claims[key].(string)
	if !ok || value == "" {
		return "", missing
	}
	return value, nil
}

// ReconcileMonth implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ReconcileMonth(ctx context.Context, req reconciliation.MonthlyReconciliationRequest) (reconciliation.MonthlyReconciliationResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	companyID, err := getClaim(ctx, "company_id", reconciliation.ErrCompanyClaimMissing)
	if err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	report, err := s.ReconcileEmployeeMonth(ctx, companyID, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	return mapReportToResponse(report, req.Year, req.Month, s.now()), nil
}

// GetMyReconciliation implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) GetMyReconciliation(ctx context.Context, req reconciliation.PeriodRequest) (reconciliation.MonthlyReconciliationResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	companyID, err := getClaim(ctx, "company_id", reconciliation.ErrCompanyClaimMissing)
	if err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	employeeID, err := getClaim(ctx, "employee_id", reconciliation.ErrEmployeeClaimMissing)
	if err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	report, err := s.ReconcileEmployeeMonth(ctx, companyID, employeeID, req.Year, req.Month)
	if err != nil {
		return reconciliation.MonthlyReconciliationResponse{}, err
	}

	return mapReportToResponse(report, req.Year, req.Month, s.now()), nil
}

// GetLeaveBalance implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) GetLeaveBalance(ctx context.Context, req reconciliation.MonthlyReconciliationRequest) (leave.LeaveBalance, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveBalance{}, err
	}

	companyID, err := getClaim(ctx, "company_id", reconciliation.ErrCompanyClaimMissing)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	report, err := s.ReconcileEmployeeMonth(ctx, companyID, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	return report.LeaveBalance, nil
}

// GenerateCompanyReport implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) GenerateCompanyReport(ctx context.Context, req reconciliation.CompanyReportRequest) (reconciliation.CompanyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.CompanyReportResponse{}, err
	}

	companyID, err := getClaim(ctx, "company_id", reconciliation.ErrCompanyClaimMissing)
	if err != nil {
		return reconciliation.CompanyReportResponse{}, err
	}

	reports, err := s.ReconcileCompany(ctx, companyID, req.Year, req.Month)
	if err != nil {
		return reconciliation.CompanyReportResponse{}, err
	}

	generatedAt := s.now()
	employees := make([]reconciliation.MonthlyReconciliationResponse, 0, len(reports))
	for _, r := range reports {
		employees = append(employees, mapReportToResponse(r, req.Year, req.Month, generatedAt))
	}

	start, end := periodBounds(req.Year, req.Month)
	return reconciliation.CompanyReportResponse{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Employees:   employees,
	}, nil
}

// ExportCompanyReportCSV implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ExportCompanyReportCSV(ctx context.Context, req reconciliation.CompanyReportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, err := getClaim(ctx, "company_id", reconciliation.ErrCompanyClaimMissing)
	if err != nil {
		return err
	}

	return s.ExportCompanyCSV(ctx, companyID, req.Year, req.Month, w)
}

// ReconcileEmployeeMonth runs the whole pipeline for one employee-month.
func (s *ReconciliationServiceImpl) ReconcileEmployeeMonth(ctx context.Context, companyID, employeeID string, year, month int) (reconciliation.MonthReport, error) {
	emp, err := s.employeeRepo.GetByID(ctx, companyID, employeeID)
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	cal, err := s.loadCalendar(ctx, companyID, year)
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	allowance, err := s.allowanceFor(ctx, companyID)
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	return s.reconcile(ctx, companyID, emp, cal, allowance, year, month)
}

// ReconcileCompany reconciles every active employee. Each employee-month has
// its own grace state, so employees are processed concurrently.
func (s *ReconciliationServiceImpl) ReconcileCompany(ctx context.Context, companyID string, year, month int) ([]reconciliation.MonthReport, error) {
	employees, err := s.employeeRepo.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	cal, err := s.loadCalendar(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	allowance, err := s.allowanceFor(ctx, companyID)
	if err != nil {
		return nil, err
	}

	reports := make([]reconciliation.MonthReport, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			report, err := s.reconcile(gctx, companyID, emp, cal, allowance, year, month)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// ExportCompanyCSV writes the monthly CSV for every active employee.
func (s *ReconciliationServiceImpl) ExportCompanyCSV(ctx context.Context, companyID string, year, month int, w io.Writer) error {
	reports, err := s.ReconcileCompany(ctx, companyID, year, month)
	if err != nil {
		return err
	}
	return WriteMonthlyCSV(w, year, month, reports)
}

func (s *ReconciliationServiceImpl) reconcile(ctx context.Context, companyID string, emp employee.Employee, cal calendar.Calendar, allowance decimal.Decimal, year, month int) (reconciliation.MonthReport, error) {
	profile, err := s.shiftResolver.ProfileFor(ctx, companyID, emp.ID)
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	// Every page must be in hand before classification starts.
	logs, err := s.attendanceRepo.GetMonthlyLogs(ctx, companyID, emp.ID, year, month)
	if err != nil {
		return reconciliation.MonthReport{}, fmt.Errorf("%w: %w", attendance.ErrLogSourceFailed, err)
	}

	days, err := BuildDayContexts(year, month, logs, cal, s.now())
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	records, grace, err := ClassifyMonth(days, profile, reconciliation.GraceState{})
	if err != nil {
		return reconciliation.MonthReport{}, err
	}

	summary := Aggregate(emp.ID, records)
	summary.Year = year
	summary.Month = month
	summary.Grace = grace

	balance := CalculateLeaveBalance(summary, allowance)

	slog.Debug("Attendance reconciled",
		"company_id", companyID,
		"employee_id", emp.ID,
		"period", fmt.Sprintf("%04d-%02d", year, month),
		"shift_profile", profile.ID,
		"working_days", summary.TotalWorkingDays,
		"attendance_percentage", summary.AttendancePercent,
	)

	return reconciliation.MonthReport{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Department:   emp.Department,
		Summary:      summary,
		LeaveBalance: balance,
	}, nil
}

// loadCalendar falls back to no weekends, no holidays and the default
// timezone when the company has no calendar data.
func (s *ReconciliationServiceImpl) loadCalendar(ctx context.Context, companyID string, year int) (calendar.Calendar, error) {
	cal := calendar.Calendar{CompanyID: companyID, Location: s.defaultLocation}

	weekends, err := s.calendarRepo.GetWeekends(ctx, companyID)
	switch {
	case errors.Is(err, calendar.ErrCalendarNotFound):
		slog.Warn("No weekend configuration, assuming none", "company_id", companyID)
	case err != nil:
		return calendar.Calendar{}, fmt.Errorf("failed to get weekends: %w", err)
	default:
		cal.Weekends = weekends
	}

	holidays, err := s.calendarRepo.GetHolidays(ctx, companyID, year)
	switch {
	case errors.Is(err, calendar.ErrCalendarNotFound):
		slog.Warn("No holidays configured", "company_id", companyID, "year", year)
	case err != nil:
		return calendar.Calendar{}, fmt.Errorf("failed to get holidays: %w", err)
	default:
		cal.Holidays = holidays
	}

	timezone, err := s.calendarRepo.GetTimezone(ctx, companyID)
	switch {
	case errors.Is(err, calendar.ErrCalendarNotFound):
	case err != nil:
		return calendar.Calendar{}, fmt.Errorf("failed to get timezone: %w", err)
	default:
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			slog.Warn("Invalid company timezone, using default", "company_id", companyID, "timezone", timezone)
			loc = s.defaultLocation
		}
		cal.Location = loc
	}

	return cal, nil
}

func (s *ReconciliationServiceImpl) allowanceFor(ctx context.Context, companyID string) (decimal.Decimal, error) {
	if s.leavePolicyRepo == nil {
		return s.defaultAllowance, nil
	}

	allowance, err := s.leavePolicyRepo.GetMonthlyAllowance(ctx, companyID)
	if err != nil {
		if errors.Is(err, leave.ErrLeavePolicyNotFound) {
			return s.defaultAllowance, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get leave policy: %w", err)
	}

	if !allowance.IsPositive() {
		return s.defaultAllowance, nil
	}
	return allowance, nil
}
