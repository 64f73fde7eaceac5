package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReconciliationHandler interface {
	// GetMyReconciliation handles GET /attendance/reconciliation/my
	GetMyReconciliation(w http.ResponseWriter, r *http.Request)

	// GetEmployeeReconciliation handles GET /attendance/reconciliation/employees/{employeeID}
	GetEmployeeReconciliation(w http.ResponseWriter, r *http.Request)

	// GetLeaveBalance handles GET /attendance/reconciliation/employees/{employeeID}/leave-balance
	GetLeaveBalance(w http.ResponseWriter, r *http.Request)

	// GetMonthlyReport handles GET /reports/attendance/monthly
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// ExportMonthlyReport handles GET /reports/attendance/monthly/export
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	reconciliationService reconciliation.ReconciliationService
}

func NewReconciliationHandler(reconciliationService reconciliation.ReconciliationService) ReconciliationHandler {
	return &reconciliationHandlerImpl{
		reconciliationService: reconciliationService,
	}
}

// parsePeriod reads the year and month query parameters.
func parsePeriod(r *http.Request) (reconciliation.PeriodRequest, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return reconciliation.PeriodRequest{}, fmt.Errorf("invalid year parameter")
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return reconciliation.PeriodRequest{}, fmt.Errorf("invalid month parameter")
	}

	return reconciliation.PeriodRequest{Year: year, Month: month}, nil
}

func (h *reconciliationHandlerImpl) GetMyReconciliation(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reconciliationService.GetMyReconciliation(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) GetEmployeeReconciliation(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    chi.URLParam(r, "employeeID"),
		PeriodRequest: period,
	}

	result, err := h.reconciliationService.ReconcileMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := reconciliation.MonthlyReconciliationRequest{
		EmployeeID:    chi.URLParam(r, "employeeID"),
		PeriodRequest: period,
	}

	result, err := h.reconciliationService.GetLeaveBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reconciliationService.GenerateCompanyReport(r.Context(), reconciliation.CompanyReportRequest{PeriodRequest: period})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := reconciliation.CompanyReportRequest{PeriodRequest: period}

	// Headers are only written once the first CSV byte goes out, so errors
	// before that still produce a JSON envelope.
	cw := &csvResponseWriter{
		ResponseWriter: w,
		filename:       fmt.Sprintf("attendance-%04d-%02d.csv", period.Year, period.Month),
	}
	if err := h.reconciliationService.ExportCompanyReportCSV(r.Context(), req, cw); err != nil {
		if cw.started {
			return
		}
		response.HandleError(w, err)
		return
	}
}

type csvResponseWriter struct {
	http.ResponseWriter
	filename string
	started  bool
}

func (c *csvResponseWriter) Write(p []byte) (int, error) {
	if !c.started {
		c.started = true
		c.Header().Set("Content-Type", "text/csv; charset=utf-8")
		c.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.filename))
		c.WriteHeader(http.StatusOK)
	}
	return c.ResponseWriter.Write(p)
}
