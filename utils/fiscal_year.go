package utils

import (
	"fmt"
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

// ParsePeriod parses a "YYYY-MM" billing period key.
func ParsePeriod(period string) (time.Time, error) {
	t, err := time.Parse(consts.PeriodLayout, period)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid billing period %q: %w", period, err)
	}
	return t, nil
}

// FormatPeriod renders the billing period key for a point in time.
func FormatPeriod(t time.Time) string {
	return t.Format(consts.PeriodLayout)
}

// FiscalYearOf returns the fiscal year a calendar month belongs to. Fiscal
// years are labeled by the calendar year in which they end: with a July start,
// 2025-07 through 2026-06 is fiscal year 2026. A January start degenerates to
// the calendar year.
func FiscalYearOf(t time.Time, startMonth int) int {
	if startMonth <= 1 {
		return t.Year()
	}
	if int(t.Month()) >= startMonth {
		return t.Year() + 1
	}
	return t.Year()
}

// PeriodsForFiscalYear returns the twelve period keys of a fiscal year in
// chronological order.
func PeriodsForFiscalYear(fiscalYear, startMonth int) []string {
	if startMonth <= 1 {
		startMonth = 1
	}
	startYear := fiscalYear
	if startMonth > 1 {
		startYear = fiscalYear - 1
	}
	periods := make([]string, 0, consts.MonthsPerFiscalYear)
	cursor := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < consts.MonthsPerFiscalYear; i++ {
		periods = append(periods, FormatPeriod(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return periods
}

// WholeMonthsSince counts the number of complete months elapsed from `from`
// to `asOf`. Returns zero when asOf is not after from.
func WholeMonthsSince(from, asOf time.Time) int {
	if !asOf.After(from) {
		return 0
	}
	months := 0
	cursor := from.AddDate(0, 1, 0)
	for !cursor.After(asOf) {
		months++
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

// DueDateFor computes the due date of a bill for a period given the client's
// due day-of-month. Days past the month's end clamp to the last day.
func DueDateFor(period string, dueDay int) (time.Time, error) {
	start, err := ParsePeriod(period)
	if err != nil {
		return time.Time{}, err
	}
	if dueDay < 1 {
		dueDay = 1
	}
	lastDay := start.AddDate(0, 1, -1).Day()
	if dueDay > lastDay {
		dueDay = lastDay
	}
	return time.Date(start.Year(), start.Month(), dueDay, 0, 0, 0, 0, time.UTC), nil
}
