package reconciliation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

func record(day int, status reconciliation.DayStatus, hours float64) reconciliation.DayRecord {
	return reconciliation.DayRecord{
		Date:         time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Status:       status,
		WorkingHours: hours,
	}
}

func TestAggregate_Counts(t *testing.T) {
	records := []reconciliation.DayRecord{
		record(1, reconciliation.StatusPresent, 9),
		record(2, reconciliation.StatusPresent, 8.5),
		record(3, reconciliation.StatusShortLeave, 8.25),
		record(4, reconciliation.StatusHalfDay, 5),
		record(5, reconciliation.StatusLeave, 0),
		record(6, reconciliation.StatusWeekend, 0),
		record(7, reconciliation.StatusWeekend, 0),
		record(8, reconciliation.StatusHoliday, 0),
		record(9, reconciliation.StatusFutureOrToday, 0),
	}

	s := Aggregate("emp-1", records)

	assert.Equal(t, "emp-1", s.EmployeeID)
	assert.Equal(t, 2024, s.Year)
	assert.Equal(t, 1, s.Month)
	assert.Equal(t, 2, s.PresentDays)
	assert.Equal(t, 1, s.ShortLeaves)
	assert.Equal(t, 1, s.HalfDays)
	assert.Equal(t, 1, s.Leaves)
	assert.Equal(t, 2, s.Weekends)
	assert.Equal(t, 1, s.Holidays)
	assert.Equal(t, 1, s.FutureDays)
	assert.Equal(t, 5, s.TotalWorkingDays)
	assert.Equal(t, 30.75, s.TotalHours)

	// (2 + 0.75 + 0.5) / 5 = 65%
	assert.Equal(t, 65.0, s.AttendancePercent)
	assert.Len(t, s.Days, len(records))
}

func TestAggregate_UnclassifiedCountsAsWorkingDay(t *testing.T) {
	s := Aggregate("emp-1", []reconciliation.DayRecord{
		record(2, reconciliation.StatusUnclassified, 2.5),
		record(3, reconciliation.StatusPresent, 9),
	})

	assert.Equal(t, 1, s.UnclassifiedDays)
	assert.Equal(t, 2, s.TotalWorkingDays)
	assert.Equal(t, 50.0, s.AttendancePercent)
}

func TestAggregate_NoWorkingDays(t *testing.T) {
	s := Aggregate("emp-1", []reconciliation.DayRecord{
		record(6, reconciliation.StatusWeekend, 0),
		record(26, reconciliation.StatusHoliday, 0),
	})
	assert.Equal(t, 0, s.TotalWorkingDays)
	assert.Equal(t, 0.0, s.AttendancePercent)

	empty := Aggregate("emp-1", nil)
	assert.Equal(t, 0.0, empty.AttendancePercent)
	assert.Equal(t, 0.0, empty.TotalHours)
}

func TestAggregate_PercentageBounds(t *testing.T) {
	all := make([]reconciliation.DayRecord, 0, 5)
	for d := 1; d <= 5; d++ {
		all = append(all, record(d, reconciliation.StatusPresent, 9))
	}
	assert.Equal(t, 100.0, Aggregate("emp-1", all).AttendancePercent)

	none := make([]reconciliation.DayRecord, 0, 5)
	for d := 1; d <= 5; d++ {
		none = append(none, record(d, reconciliation.StatusLeave, 0))
	}
	assert.Equal(t, 0.0, Aggregate("emp-1", none).AttendancePercent)

	thirds := []reconciliation.DayRecord{
		record(1, reconciliation.StatusPresent, 9),
		record(2, reconciliation.StatusLeave, 0),
		record(3, reconciliation.StatusLeave, 0),
	}
	assert.Equal(t, 33.33, Aggregate("emp-1", thirds).AttendancePercent)
}

func TestMonthPipeline_EmptyMonthHasNoWorkingDays(t *testing.T) {
	// Every day of the month is still in the future.
	days, err := BuildDayContexts(2024, 1, nil, calendar.Calendar{Weekends: []int{6, 7}}, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	records, _, err := ClassifyMonth(days, shift.Standard, reconciliation.GraceState{})
	require.NoError(t, err)

	s := Aggregate("emp-1", records)
	assert.Equal(t, 0, s.TotalWorkingDays)
	assert.Equal(t, 0.0, s.AttendancePercent)
	assert.Equal(t, 31, s.FutureDays)
}
