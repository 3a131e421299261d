/*
Package calendar provides the date arithmetic used by the savings engine.

PURPOSE:
  Every rule in the engine is keyed to a calendar day: interest is paid on
  a day, a bonus period ends on a day, a fiscal year starts on a day. This
  package wraps time.Time at day granularity so the rest of the engine can
  compare and step through dates without worrying about clocks or zones.

KEY CONCEPTS:
  - Date:   A calendar day (UTC midnight), comparable with ==
  - Period: An inclusive [Start, End] window of days
  - FiscalYearOf / BonusPeriodOf: The two windows the engine cares about

MONTH ARITHMETIC:
  AddMonths and AddYears clamp to the end of the target month instead of
  overflowing into the next one:

    31-Jan + 1 month = 28-Feb   (time.AddDate would give 3-Mar)
    29-Feb + 1 year  = 28-Feb

  Interest cadences rely on this. A monthly payment on the 31st lands on the
  last day of February and then drifts to the 28th of every later month.

SEE ALSO:
  - period.go: Period, FiscalYearOf, BonusPeriodOf
  - interest/policy.go: Uses AddMonths/AddYears for due checks
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - A calendar day
// =============================================================================

// Date is a calendar day. The zero value is the zero time and reports
// IsZero. Dates built with NewDate or FromTime are always UTC midnight, so
// two Dates for the same day compare equal with ==.
type Date struct {
	t time.Time
}

const layout = "2006-01-02"

// NewDate builds a Date. Out-of-range days normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals in tests and presets.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }
func (d Date) String() string    { return d.t.Format(layout) }

// =============================================================================
// ARITHMETIC
// =============================================================================

// AddDays moves n days forward (or back for negative n).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths moves n months, clamping the day to the target month's length.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Clamped(first.Year(), first.Month(), d.Day())
}

// AddYears moves n years, clamping 29-Feb to 28-Feb in non-leap years.
func (d Date) AddYears(n int) Date {
	return Clamped(d.Year()+n, d.Month(), d.Day())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Clamped builds the date for day in (year, month), pulling days past the end
// of the month back to its last day.
func Clamped(year int, month time.Month, day int) Date {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// DaysBetween counts whole days from -> to (negative when to is earlier).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// JSON
// =============================================================================

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
