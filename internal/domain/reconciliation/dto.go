package reconciliation

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

type PeriodRequest struct {
	Year  int `json:"year" validate:"required"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (r *PeriodRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		return validator.ValidationErrors{{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		}}
	}
	return nil
}

type MonthlyReconciliationRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	PeriodRequest
}

func (r *MonthlyReconciliationRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	return r.PeriodRequest.Validate()
}

type CompanyReportRequest struct {
	PeriodRequest
}

// ========================================
// RESPONSES
// ========================================

type DayRecordResponse struct {
	Date            string  `json:"date"`
	DayOfWeek       string  `json:"day_of_week"`
	Status          string  `json:"status"`
	StatusLabel     string  `json:"status_label"`
	CheckIn         *string `json:"check_in,omitempty"`
	CheckOut        *string `json:"check_out,omitempty"`
	WorkingHours    float64 `json:"working_hours"`
	IsLate          bool    `json:"is_late"`
	IsEarlyCheckout bool    `json:"is_early_checkout"`
	HolidayName     string  `json:"holiday_name,omitempty"`
	LeaveKind       string  `json:"leave_kind,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

type MonthSummaryResponse struct {
	PresentDays          int                 `json:"present_days"`
	HalfDays             int                 `json:"half_days"`
	ShortLeaves          int                 `json:"short_leaves"`
	Leaves               int                 `json:"leaves"`
	Weekends             int                 `json:"weekends"`
	Holidays             int                 `json:"holidays"`
	FutureDays           int                 `json:"future_days"`
	UnclassifiedDays     int                 `json:"unclassified_days"`
	TotalWorkingDays     int                 `json:"total_working_days"`
	TotalHours           float64             `json:"total_hours"`
	AttendancePercentage float64             `json:"attendance_percentage"`
	Grace                GraceState          `json:"grace"`
	Days                 []DayRecordResponse `json:"days"`
}

type MonthlyReconciliationResponse struct {
	EmployeeID   string               `json:"employee_id"`
	EmployeeName string               `json:"employee_name"`
	Department   string               `json:"department"`
	PeriodMonth  int                  `json:"period_month"`
	PeriodYear   int                  `json:"period_year"`
	PeriodStart  string               `json:"period_start"`
	PeriodEnd    string               `json:"period_end"`
	GeneratedAt  string               `json:"generated_at"`
	Summary      MonthSummaryResponse `json:"summary"`
	LeaveBalance leave.LeaveBalance   `json:"leave_balance"`
}

type CompanyReportResponse struct {
	PeriodMonth int                             `json:"period_month"`
	PeriodYear  int                             `json:"period_year"`
	PeriodStart string                          `json:"period_start"`
	PeriodEnd   string                          `json:"period_end"`
	GeneratedAt string                          `json:"generated_at"`
	Employees   []MonthlyReconciliationResponse `json:"employees"`
}
