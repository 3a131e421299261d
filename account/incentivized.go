/*
incentivized.go - Capped account with a withdrawal penalty and a government bonus

RULES:
  1. DEPOSIT CAP: Deposits dated within one fiscal year (6-Apr to 5-Apr)
     may not exceed Incentive.AnnualDepositCap. The opening deposit counts.
     Withdrawals do not give room back.
  2. PENALTY: Every withdrawal is charged Incentive.WithdrawalPenalty of its
     amount, recorded as a separate Penalty transaction on the same day.
  3. OVERDRAW CHECK: The balance is recomputed as of the withdrawal date;
     balance - amount - penalty must stay at or above zero.
  4. BONUS: Deposits earn Incentive.BonusRate, paid at the end of each bonus
     period and capped per period (see accrual.BonusRule).

SCHEDULES ARE ATOMIC:
  Each installment of a recurring deposit is checked against its own fiscal
  year, counting the installments before it. One failure rejects the whole
  schedule and nothing is written.

EXAMPLE:
  Opened 6-Apr-2023 with 4000, cap 4000:
    Deposit(1-Mar-2024, 1)     -> CapExceeded (fiscal year 2023 is full)
    Deposit(6-Apr-2024, 4000)  -> ok (new fiscal year)
    Withdraw(8-Apr-2024, 200)  -> ok, penalty 50; allowance stays 0
*/
package account

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/accrual"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/ledger"
)

// DepositAllowance is implemented by accounts with a fiscal-year deposit cap.
type DepositAllowance interface {
	AnnualDepositCap() decimal.Decimal
	RemainingAllowance(date calendar.Date) decimal.Decimal
	CanDeposit(date calendar.Date, amount decimal.Decimal) bool
}

// =============================================================================
// INCENTIVIZED CAPPED
// =============================================================================

type incentivized struct {
	*base
	rules Incentive
}

var (
	_ Account          = (*incentivized)(nil)
	_ DepositAllowance = (*incentivized)(nil)
)

func newIncentivized(cfg Config) (Account, error) {
	rules := DefaultIncentive()
	if cfg.Incentive != nil {
		rules = *cfg.Incentive
	}

	if cfg.OpeningBalance.GreaterThan(rules.AnnualDepositCap) {
		return nil, &CapExceededError{
			FiscalYear:       calendar.FiscalYearOf(cfg.OpeningDate),
			AlreadyDeposited: decimal.Zero,
			Proposed:         cfg.OpeningBalance,
			Cap:              rules.AnnualDepositCap,
		}
	}

	sim := accrual.Simulator{
		Policy: cfg.Policy,
		Bonus:  &accrual.BonusRule{Rate: rules.BonusRate, PeriodCap: rules.BonusPeriodCap},
	}
	b, err := newBase(cfg, sim)
	if err != nil {
		return nil, err
	}
	return &incentivized{base: b, rules: rules}, nil
}

// Incentive returns the account's cap, penalty and bonus rules.
func (a *incentivized) Incentive() Incentive { return a.rules }

func (a *incentivized) AnnualDepositCap() decimal.Decimal { return a.rules.AnnualDepositCap }

// =============================================================================
// DEPOSITS
// =============================================================================

func (a *incentivized) Deposit(date calendar.Date, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := a.checkCap(date, amount, decimal.Zero); err != nil {
		return err
	}
	return a.base.Deposit(date, amount)
}

func (a *incentivized) ScheduleRecurringDeposit(from, to calendar.Date, dayOfMonth int, amount decimal.Decimal) error {
	dates, err := scheduleDates(from, to, dayOfMonth, amount)
	if err != nil {
		return err
	}

	// Installments already accepted in this schedule, per fiscal year start
	scheduled := make(map[calendar.Date]decimal.Decimal)
	for _, d := range dates {
		fy := calendar.FiscalYearOf(d)
		if err := a.checkCap(d, amount, scheduled[fy.Start]); err != nil {
			return fmt.Errorf("installment on %s: %w", d, err)
		}
		scheduled[fy.Start] = scheduled[fy.Start].Add(amount)
	}

	return a.ledger.AppendBatch(deposits(dates, amount))
}

// RemainingAllowance is what may still be deposited in the fiscal year
// containing date. Never negative.
func (a *incentivized) RemainingAllowance(date calendar.Date) decimal.Decimal {
	used := a.depositedIn(calendar.FiscalYearOf(date))
	return decimal.Max(a.rules.AnnualDepositCap.Sub(used), decimal.Zero)
}

// CanDeposit reports whether Deposit(date, amount) would be accepted.
func (a *incentivized) CanDeposit(date calendar.Date, amount decimal.Decimal) bool {
	return !amount.IsNegative() && a.checkCap(date, amount, decimal.Zero) == nil
}

// checkCap fails when the fiscal year's recorded deposits plus extra plus
// amount exceed the cap.
func (a *incentivized) checkCap(date calendar.Date, amount, extra decimal.Decimal) error {
	fy := calendar.FiscalYearOf(date)
	already := a.depositedIn(fy).Add(extra)

	if already.Add(amount).GreaterThan(a.rules.AnnualDepositCap) {
		return &CapExceededError{
			FiscalYear:       fy,
			AlreadyDeposited: already,
			Proposed:         amount,
			Cap:              a.rules.AnnualDepositCap,
		}
	}
	return nil
}

func (a *incentivized) depositedIn(fy calendar.Period) decimal.Decimal {
	return a.ledger.Sum(fy, ledger.Deposit)
}

// =============================================================================
// WITHDRAWALS
// =============================================================================

// Withdraw records the withdrawal and its penalty together, after checking
// the recomputed balance on date can cover both.
func (a *incentivized) Withdraw(date calendar.Date, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	penalty := amount.Mul(a.rules.WithdrawalPenalty)
	balance := a.Summarize(&date).FinalBalance

	if balance.Sub(amount).Sub(penalty).IsNegative() {
		return &OverdrawError{Date: date, Balance: balance, Amount: amount, Penalty: penalty}
	}

	txs := []ledger.Transaction{{Date: date, Kind: ledger.Withdraw, Amount: amount}}
	if penalty.IsPositive() {
		txs = append(txs, ledger.Transaction{Date: date, Kind: ledger.Penalty, Amount: penalty})
	}
	return a.ledger.AppendBatch(txs)
}
