package calendar

import "time"

// =============================================================================
// PERIOD - An inclusive window of days
// =============================================================================

// Period is the window [Start, End], both days included.
//
// Examples:
//   - Fiscal year 2023: 6-Apr-2023 - 5-Apr-2024
//   - Bonus period:     6-May-2023 - 5-Jun-2023
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days counts the days in the period, both ends included.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// WINDOWS - The fiscal year and the bonus period
// =============================================================================

const (
	// FiscalYearStartMonth and FiscalYearStartDay anchor every fiscal year.
	FiscalYearStartMonth = time.April
	FiscalYearStartDay   = 6

	// BonusPeriodStartDay anchors every bonus period within its month.
	BonusPeriodStartDay = 6
)

// FiscalYearOf returns the 6-April to 5-April window containing d.
func FiscalYearOf(d Date) Period {
	start := NewDate(d.Year(), FiscalYearStartMonth, FiscalYearStartDay)

	// Before 6-April we are still in the year that started last April
	if d.Before(start) {
		start = NewDate(d.Year()-1, FiscalYearStartMonth, FiscalYearStartDay)
	}

	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// BonusPeriodOf returns the 6th-of-month to 5th-of-next-month window
// containing d. January dates before the 6th roll back to December.
func BonusPeriodOf(d Date) Period {
	start := NewDate(d.Year(), d.Month(), BonusPeriodStartDay)

	if d.Before(start) {
		start = start.AddMonths(-1)
	}

	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// NextFiscalYear returns the fiscal year after p.
func NextFiscalYear(p Period) Period {
	return FiscalYearOf(p.End.AddDays(1))
}

// NextBonusPeriod returns the bonus period after p.
func NextBonusPeriod(p Period) Period {
	return BonusPeriodOf(p.End.AddDays(1))
}
