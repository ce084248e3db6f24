package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiscalYearOfCalendarClient(t *testing.T) {
	// MTC runs on the calendar year
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, FiscalYearOf(march, 1))
}

func TestFiscalYearOfJulyStart(t *testing.T) {
	// AVII fiscal year starts in July
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, FiscalYearOf(july, 7))
	assert.Equal(t, 2026, FiscalYearOf(june, 7))
	assert.Equal(t, 2025, FiscalYearOf(june.AddDate(-1, 0, 0), 7))
}

func TestPeriodsForFiscalYear(t *testing.T) {
	periods := PeriodsForFiscalYear(2026, 7)
	require.Len(t, periods, 12)
	assert.Equal(t, "2025-07", periods[0])
	assert.Equal(t, "2026-06", periods[11])

	calendar := PeriodsForFiscalYear(2026, 1)
	require.Len(t, calendar, 12)
	assert.Equal(t, "2026-01", calendar[0])
	assert.Equal(t, "2026-12", calendar[11])
}

func TestWholeMonthsSince(t *testing.T) {
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeMonthsSince(due, due))
	assert.Equal(t, 0, WholeMonthsSince(due, due.AddDate(0, 0, 20)))
	assert.Equal(t, 1, WholeMonthsSince(due, due.AddDate(0, 1, 0)))
	assert.Equal(t, 2, WholeMonthsSince(due, due.AddDate(0, 2, 15)))
	assert.Equal(t, 0, WholeMonthsSince(due, due.AddDate(0, -1, 0)))
}

func TestDueDateFor(t *testing.T) {
	d, err := DueDateFor("2026-02", 31)
	require.NoError(t, err)
	// February clamps to its last day
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	d, err = DueDateFor("2026-03", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = DueDateFor("march-2026", 10)
	assert.Error(t, err)
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	_, err := ParsePeriod("2026/03")
	assert.Error(t, err)
}
