/*
Package interest decides how much interest an account pays and when.

PURPOSE:
  An account advertises a nominal annual rate and two cadences: how often
  interest is PAID (credited as a transaction) and how often paid interest
  is COMPOUNDED (folded into the balance that earns interest). The Policy
  turns that configuration into a per-payment rate and two due checks the
  accrual simulator calls once per simulated day.

RATES:
  The per-payment rate is a plain split of the nominal rate:

    Daily:    r / 100 / 365
    Monthly:  r / 100 / 12
    Annually: r / 100

  This is intentionally not a true effective-rate derivation.

DUE CHECKS ARE EXACT:
  A monthly payment is due only on the day that equals last payment + 1
  month; it is not "on or after". A simulation that never lands on that day
  never pays that interest. The simulator steps every day, so in practice
  the only skipped events are the ones month clamping moves (see
  calendar.AddMonths).

PAYMENT DAY:
  Some products pay interest on a fixed day of the month (the 28th, say)
  regardless of when the account was opened. Setting PaymentDay moves the
  initial "last paid" date back to the most recent such day, so the first
  payment lands on the next one.

SEE ALSO:
  - accrual/simulator.go: Calls IsPaymentDue / IsCompoundDue per day
  - calendar/date.go: Clamped month arithmetic
*/
package interest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
)

// =============================================================================
// CADENCE
// =============================================================================

type Cadence string

const (
	Daily    Cadence = "daily"
	Monthly  Cadence = "monthly"
	Annually Cadence = "annually"
)

// ParseCadence accepts the cadence names case-insensitively.
// An empty string yields def.
func ParseCadence(s string, def Cadence) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "daily":
		return Daily, nil
	case "monthly":
		return Monthly, nil
	case "annually", "annual", "yearly":
		return Annually, nil
	default:
		return "", fmt.Errorf("unknown cadence %q", s)
	}
}

// periodsPerYear is the divisor for the nominal rate split.
func (c Cadence) periodsPerYear() int64 {
	switch c {
	case Daily:
		return 365
	case Monthly:
		return 12
	case Annually:
		return 1
	default:
		return 0
	}
}

// due reports whether today is exactly one cadence step after last.
// Daily is always due.
func (c Cadence) due(last, today calendar.Date) bool {
	switch c {
	case Daily:
		return true
	case Monthly:
		return last.AddMonths(1).Equal(today)
	case Annually:
		return last.AddYears(1).Equal(today)
	default:
		return false
	}
}

// =============================================================================
// POLICY
// =============================================================================

var hundred = decimal.NewFromInt(100)

// Policy is the interest configuration of one account.
type Policy struct {
	// AnnualRate is the nominal annual rate as a percentage (5 = 5%).
	AnnualRate decimal.Decimal
	Payment    Cadence
	Compound   Cadence

	// PaymentDay pins monthly payments to a day of the month (1..31).
	// Zero anchors payments to the first transaction date.
	PaymentDay int
}

// Validate checks cadences and the payment day.
func (p Policy) Validate() error {
	if p.Payment.periodsPerYear() == 0 {
		return fmt.Errorf("invalid payment cadence %q", p.Payment)
	}
	if p.Compound.periodsPerYear() == 0 {
		return fmt.Errorf("invalid compound cadence %q", p.Compound)
	}
	if p.PaymentDay < 0 || p.PaymentDay > 31 {
		return fmt.Errorf("invalid payment day %d", p.PaymentDay)
	}
	if p.AnnualRate.IsNegative() {
		return fmt.Errorf("negative annual rate %s", p.AnnualRate)
	}
	return nil
}

// PerPaymentRate is the fraction of the balance paid on each payment.
func (p Policy) PerPaymentRate() decimal.Decimal {
	n := p.Payment.periodsPerYear()
	if n == 0 {
		return decimal.Zero
	}
	return p.AnnualRate.Div(hundred).Div(decimal.NewFromInt(n))
}

// IsPaymentDue reports whether interest is paid today.
func (p Policy) IsPaymentDue(lastPaid, today calendar.Date) bool {
	return p.Payment.due(lastPaid, today)
}

// IsCompoundDue reports whether pending interest compounds today.
func (p Policy) IsCompoundDue(lastCompounded, today calendar.Date) bool {
	return p.Compound.due(lastCompounded, today)
}

// InitialLastPaid is the "last paid" date the simulator starts from.
//
// Without a PaymentDay (or for non-monthly payment) it is the first
// transaction date. With one, it is the latest date on or before first
// whose day is PaymentDay, clamped to short months.
func (p Policy) InitialLastPaid(first calendar.Date) calendar.Date {
	if p.PaymentDay == 0 || p.Payment != Monthly {
		return first
	}

	anchor := calendar.Clamped(first.Year(), first.Month(), p.PaymentDay)
	if anchor.After(first) {
		prev := first.AddMonths(-1)
		anchor = calendar.Clamped(prev.Year(), prev.Month(), p.PaymentDay)
	}
	return anchor
}

// Zero returns a copy of p that never pays anything.
func (p Policy) Zero() Policy {
	p.AnnualRate = decimal.Zero
	return p
}
