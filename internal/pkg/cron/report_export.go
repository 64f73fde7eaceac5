package cron

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/storage"
	"github.com/google/uuid"
)

// ReportExporter writes one company's monthly attendance CSV.
type ReportExporter interface {
	ExportCompanyCSV(ctx context.Context, companyID string, year, month int, w io.Writer) error
}

// ReportExportJob stores the previous month's attendance report for each
// configured company on the first day of every month.
type ReportExportJob struct {
	exporter   ReportExporter
	storage    storage.FileStorage
	companyIDs []string
	now        func() time.Time

	mu       sync.Mutex
	exported map[string]struct{}
}

func NewReportExportJob(exporter ReportExporter, fileStorage storage.FileStorage, companyIDs []string, now func() time.Time) *ReportExportJob {
	if now == nil {
		now = time.Now
	}
	return &ReportExportJob{
		exporter:   exporter,
		storage:    fileStorage,
		companyIDs: companyIDs,
		now:        now,
		exported:   make(map[string]struct{}),
	}
}

// RegisterJobs registers the export job with the scheduler.
func (j *ReportExportJob) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("attendance_report_export", interval, j.ExportPreviousMonth)
}

// ExportPreviousMonth is a no-op except on the first day of a month.
func (j *ReportExportJob) ExportPreviousMonth(ctx context.Context) error {
	now := j.now()
	if now.Day() != 1 {
		return nil
	}
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	var errs []error
	for _, companyID := range j.companyIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.exportCompany(ctx, companyID, prev.Year(), int(prev.Month())); err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
		}
	}
	return errors.Join(errs...)
}

func (j *ReportExportJob) exportCompany(ctx context.Context, companyID string, year, month int) error {
	period := fmt.Sprintf("%04d-%02d", year, month)
	key := companyID + "/" + period
	dir := fmt.Sprintf("reports/attendance/%s", companyID)

	j.mu.Lock()
	_, done := j.exported[key]
	j.mu.Unlock()
	if done {
		return nil
	}

	// A file from an earlier process run also counts as exported.
	existing, err := j.storage.List(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to list exported reports: %w", err)
	}
	for _, name := range existing {
		if strings.HasPrefix(name, period+"-") {
			j.markExported(key)
			return nil
		}
	}

	var buf bytes.Buffer
	if err := j.exporter.ExportCompanyCSV(ctx, companyID, year, month, &buf); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	path := fmt.Sprintf("%s/%s-%s.csv", dir, period, uuid.NewString())
	stored, err := j.storage.Upload(ctx, &buf, path, "text/csv")
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	j.markExported(key)

	url, _ := j.storage.GetURL(ctx, stored)
	slog.Info("Attendance report exported", "company_id", companyID, "period", period, "path", stored, "url", url)
	return nil
}

func (j *ReportExportJob) markExported(key string) {
	j.mu.Lock()
	j.exported[key] = struct{}{}
	j.mu.Unlock()
}
