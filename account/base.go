package account

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/accrual"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/interest"
	"github.com/warp/savings-engine/ledger"
)

// =============================================================================
// BASE - Ledger handling shared by every variant
// =============================================================================

// base is embedded by every variant. On its own it behaves as the
// unrestricted variant.
type base struct {
	name    string
	variant Variant
	opened  calendar.Date
	opening decimal.Decimal
	policy  interest.Policy
	sim     accrual.Simulator
	ledger  *ledger.Ledger
}

func newBase(cfg Config, sim accrual.Simulator) (*base, error) {
	l := ledger.New()
	opening := ledger.Transaction{Date: cfg.OpeningDate, Kind: ledger.Deposit, Amount: cfg.OpeningBalance}
	if err := l.Append(opening); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &base{
		name:    cfg.Name,
		variant: cfg.Variant,
		opened:  cfg.OpeningDate,
		opening: cfg.OpeningBalance,
		policy:  sim.Policy,
		sim:     sim,
		ledger:  l,
	}, nil
}

func (b *base) Name() string                    { return b.name }
func (b *base) Variant() Variant                { return b.variant }
func (b *base) OpeningDate() calendar.Date      { return b.opened }
func (b *base) OpeningBalance() decimal.Decimal { return b.opening }
func (b *base) Policy() interest.Policy         { return b.policy }

func (b *base) Deposit(date calendar.Date, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return b.ledger.Append(ledger.Transaction{Date: date, Kind: ledger.Deposit, Amount: amount})
}

func (b *base) Withdraw(date calendar.Date, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return b.ledger.Append(ledger.Transaction{Date: date, Kind: ledger.Withdraw, Amount: amount})
}

func (b *base) ScheduleRecurringDeposit(from, to calendar.Date, dayOfMonth int, amount decimal.Decimal) error {
	dates, err := scheduleDates(from, to, dayOfMonth, amount)
	if err != nil {
		return err
	}
	return b.ledger.AppendBatch(deposits(dates, amount))
}

// Summarize runs the simulator through asOf, replaces the ledger's derived
// cache with its output, and totals everything dated on or before asOf.
func (b *base) Summarize(asOf *calendar.Date) Summary {
	through, _ := b.ledger.LastDate()
	if asOf != nil {
		through = *asOf
	}

	result := b.sim.Run(b.ledger.Principal(), through)
	if err := b.ledger.ReplaceDerived(result.Derived); err != nil {
		// Run only ever emits derived kinds with valid amounts.
		panic(err)
	}

	return newSummary(b, through, result.DaysSimulated)
}

// =============================================================================
// HELPERS
// =============================================================================

func checkAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s: %w", amount, ErrNegativeAmount)
	}
	return nil
}

// scheduleDates returns one date per month, stepping from from in whole
// months while before to, each on dayOfMonth clamped to that month.
func scheduleDates(from, to calendar.Date, dayOfMonth int, amount decimal.Decimal) ([]calendar.Date, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return nil, fmt.Errorf("%d: %w", dayOfMonth, ErrInvalidDayOfMonth)
	}

	var dates []calendar.Date
	for cursor := from; cursor.Before(to); cursor = cursor.AddMonths(1) {
		dates = append(dates, calendar.Clamped(cursor.Year(), cursor.Month(), dayOfMonth))
	}
	return dates, nil
}

func deposits(dates []calendar.Date, amount decimal.Decimal) []ledger.Transaction {
	txs := make([]ledger.Transaction, len(dates))
	for i, d := range dates {
		txs[i] = ledger.Transaction{Date: d, Kind: ledger.Deposit, Amount: amount}
	}
	return txs
}
