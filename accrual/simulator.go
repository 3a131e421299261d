/*
Package accrual walks an account's principal transactions forward through
calendar time and produces the interest and government benefit entries
they earn.

PURPOSE:
  Interest and bonuses are never stored as facts. Every summary asks the
  Simulator to regenerate them from the principal log, and the ledger's
  derived cache is replaced with the result. Running twice over the same
  input yields the same output.

WHY DAY STEPPING:
  Bonus periods end on the 5th of every month and fiscal years on 5-Apr.
  Neither boundary lines up with transaction dates or interest dates, so a
  month-granularity walk cannot land on them. The simulator visits every
  calendar day between the first transaction and the target date.

ONE DAY, IN ORDER:
  a. Same-day principal entries move the interest-bearing balance
     (deposits add, withdrawals and penalties subtract)
  b. Payment due?  interest = balance * per-payment rate, held as pending
  c. Compound due? pending interest is folded into the balance
  d. Bonus rule set and today ends the bonus period?
     benefit = min(deposits in period * rate, period cap), folded into the
     balance; the next bonus period starts

  Because (a) runs first, a deposit made on a payment day earns that day's
  interest.

STATE:
  accruing        principal + compounded interest (+ folded bonuses)
  pending         interest paid but not yet compounded
  lastPaid        last payment date (see interest.Policy.InitialLastPaid)
  lastCompounded  last compounding date
  bonusDeposits   deposits seen in the current bonus period
  bonusPeriod     the current bonus period

NOTHING NEGATIVE:
  A payment or benefit that is not positive is not emitted. A zero-rate
  account produces no derived entries, and an overdrawn balance earns
  nothing rather than paying negative interest.

SEE ALSO:
  - interest/policy.go: Rates and due checks
  - calendar/period.go: BonusPeriodOf
  - account/base.go: Replaces the ledger cache with Result.Derived
*/
package accrual

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/interest"
	"github.com/warp/savings-engine/ledger"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// BonusRule is a periodic government top-up on deposits.
type BonusRule struct {
	// Rate is the fraction of deposits paid as bonus (0.25 = 25%).
	Rate decimal.Decimal
	// PeriodCap bounds the bonus paid for a single bonus period.
	PeriodCap decimal.Decimal
}

// Simulator regenerates derived transactions for one account configuration.
// The zero Bonus means no government benefit is paid.
type Simulator struct {
	Policy interest.Policy
	Bonus  *BonusRule
}

// Result is the output of one simulation.
type Result struct {
	// Derived holds Interest and GovernmentBenefit entries in date order.
	Derived []ledger.Transaction

	// DaysSimulated counts the calendar days visited, both ends included.
	DaysSimulated int

	// Accruing and Pending are the closing state after the last day.
	Accruing decimal.Decimal
	Pending  decimal.Decimal
}

// =============================================================================
// RUN
// =============================================================================

type state struct {
	accruing       decimal.Decimal
	pending        decimal.Decimal
	lastPaid       calendar.Date
	lastCompounded calendar.Date
	bonusDeposits  decimal.Decimal
	bonusPeriod    calendar.Period
}

// Run simulates from the first principal transaction through the given date
// inclusive. Derived kinds in the input are ignored. A target before the
// first transaction, or an empty input, yields an empty Result.
func (s Simulator) Run(transactions []ledger.Transaction, through calendar.Date) Result {
	principal := principalOnly(transactions)
	if len(principal) == 0 || through.Before(principal[0].Date) {
		return Result{Accruing: decimal.Zero, Pending: decimal.Zero}
	}

	first := principal[0].Date
	st := state{
		accruing:       decimal.Zero,
		pending:        decimal.Zero,
		lastPaid:       s.Policy.InitialLastPaid(first),
		lastCompounded: first,
		bonusDeposits:  decimal.Zero,
		bonusPeriod:    calendar.BonusPeriodOf(first),
	}

	rate := s.Policy.PerPaymentRate()
	var derived []ledger.Transaction
	next := 0
	days := 0

	for today := first; !today.After(through); today = today.AddDays(1) {
		days++

		// a. principal movements
		deposited := decimal.Zero
		for next < len(principal) && principal[next].Date.Equal(today) {
			tx := principal[next]
			st.accruing = st.accruing.Add(tx.Signed())
			if tx.Kind == ledger.Deposit {
				deposited = deposited.Add(tx.Amount)
			}
			next++
		}

		// b. interest payment
		if s.Policy.IsPaymentDue(st.lastPaid, today) {
			paid := st.accruing.Mul(rate)
			if paid.IsPositive() {
				derived = append(derived, ledger.Transaction{Date: today, Kind: ledger.Interest, Amount: paid})
				st.pending = st.pending.Add(paid)
			}
			st.lastPaid = today
		}

		// c. compounding
		if s.Policy.IsCompoundDue(st.lastCompounded, today) {
			st.accruing = st.accruing.Add(st.pending)
			st.pending = decimal.Zero
			st.lastCompounded = today
		}

		// d. government benefit
		if s.Bonus != nil {
			st.bonusDeposits = st.bonusDeposits.Add(deposited)
			if today.Equal(st.bonusPeriod.End) {
				benefit := s.Bonus.benefit(st.bonusDeposits)
				if benefit.IsPositive() {
					derived = append(derived, ledger.Transaction{Date: today, Kind: ledger.GovernmentBenefit, Amount: benefit})
					st.accruing = st.accruing.Add(benefit)
				}
				st.bonusDeposits = decimal.Zero
				st.bonusPeriod = calendar.NextBonusPeriod(st.bonusPeriod)
			}
		}
	}

	return Result{
		Derived:       derived,
		DaysSimulated: days,
		Accruing:      st.accruing,
		Pending:       st.pending,
	}
}

func (b BonusRule) benefit(deposits decimal.Decimal) decimal.Decimal {
	if !deposits.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(deposits.Mul(b.Rate), b.PeriodCap)
}

// principalOnly drops derived kinds and sorts a copy by date, keeping the
// original order of same-day entries.
func principalOnly(txs []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Kind.IsPrincipal() {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
