package account

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/accrual"
	"github.com/warp/savings-engine/calendar"
)

// =============================================================================
// DEPOSIT REJECTING - Holds its opening balance, refuses new money
// =============================================================================

// depositRejecting models an instrument whose returns come from outside
// this system (prize draws, say). It pays no interest whatever rate it was
// configured with, and every deposit fails.
type depositRejecting struct {
	*base
}

var _ Account = (*depositRejecting)(nil)

func newDepositRejecting(cfg Config) (Account, error) {
	b, err := newBase(cfg, accrual.Simulator{Policy: cfg.Policy.Zero()})
	if err != nil {
		return nil, err
	}
	return &depositRejecting{base: b}, nil
}

func (a *depositRejecting) Deposit(calendar.Date, decimal.Decimal) error {
	return fmt.Errorf("%s account: deposit: %w", a.variant, ErrUnsupportedOperation)
}

func (a *depositRejecting) ScheduleRecurringDeposit(calendar.Date, calendar.Date, int, decimal.Decimal) error {
	return fmt.Errorf("%s account: recurring deposit: %w", a.variant, ErrUnsupportedOperation)
}
