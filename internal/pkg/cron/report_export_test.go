package cron

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeExporter) ExportCompanyCSV(ctx context.Context, companyID string, year, month int, w io.Writer) error {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s %04d-%02d", companyID, year, month))
	f.mu.Unlock()
	if err := f.fail[companyID]; err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Employee Name\n%s\n", companyID)
	return err
}

func newTestJob(t *testing.T, now time.Time, companies ...string) (*ReportExportJob, *fakeExporter, string) {
	t.Helper()
	base := t.TempDir()
	fs, err := storage.NewLocalStorage(base, "http://localhost/files")
	require.NoError(t, err)

	exporter := &fakeExporter{fail: map[string]error{}}
	job := NewReportExportJob(exporter, fs, companies, func() time.Time { return now })
	return job, exporter, base
}

func TestReportExportJob_ExportsPreviousMonthOnFirstDay(t *testing.T) {
	job, exporter, base := newTestJob(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), "c1", "c2")

	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	assert.Equal(t, []string{"c1 2024-02", "c2 2024-02"}, exporter.calls)

	entries, err := os.ReadDir(filepath.Join(base, "reports", "attendance", "c1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "2024-02-"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))

	content, err := os.ReadFile(filepath.Join(base, "reports", "attendance", "c1", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "Employee Name\nc1\n", string(content))
}

func TestReportExportJob_JanuaryExportsDecember(t *testing.T) {
	job, exporter, _ := newTestJob(t, time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC), "c1")

	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	assert.Equal(t, []string{"c1 2024-12"}, exporter.calls)
}

func TestReportExportJob_SkipsOtherDays(t *testing.T) {
	job, exporter, _ := newTestJob(t, time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC), "c1")

	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	assert.Empty(t, exporter.calls)
}

func TestReportExportJob_SkipsAlreadyExported(t *testing.T) {
	job, exporter, base := newTestJob(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), "c1")

	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	assert.Len(t, exporter.calls, 1)

	// A fresh job over the same storage sees the stored file.
	fs, err := storage.NewLocalStorage(base, "http://localhost/files")
	require.NoError(t, err)
	again := &fakeExporter{}
	restarted := NewReportExportJob(again, fs, []string{"c1"}, job.now)
	require.NoError(t, restarted.ExportPreviousMonth(context.Background()))
	assert.Empty(t, again.calls)
}

func TestReportExportJob_ContinuesAfterCompanyFailure(t *testing.T) {
	job, exporter, base := newTestJob(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), "bad", "good")
	exporter.fail["bad"] = errors.New("boom")

	err := job.ExportPreviousMonth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company bad")

	entries, err := os.ReadDir(filepath.Join(base, "reports", "attendance", "good"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The failed company is retried on the next run.
	exporter.fail = map[string]error{}
	require.NoError(t, job.ExportPreviousMonth(context.Background()))
	assert.Equal(t, []string{"bad 2024-02", "good 2024-02", "bad 2024-02"}, exporter.calls)
}

func TestScheduler_RunOnceAndStart(t *testing.T) {
	s := NewScheduler()
	job, exporter, _ := newTestJob(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), "c1")
	job.RegisterJobs(s, time.Hour)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Len(t, exporter.calls, 1)

	ran := make(chan struct{}, 1)
	s.AddJob("probe", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
