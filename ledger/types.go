/*
Package ledger records the money movements of one savings account.

PURPOSE:
  The ledger is the only place account history lives. Balances are never
  stored; they are always summed from transactions.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind:        What a transaction is (deposit, interest, penalty, ...)
  - Transaction: A dated, non-negative amount of one kind
  - Money:       Constructors for decimal amounts

TWO KINDS OF TRANSACTIONS:
  Principal transactions come from the account holder and are permanent:
    Deposit, Withdraw, Penalty

  Derived transactions are produced by the accrual simulator and are
  thrown away and rebuilt every time a summary is requested:
    Interest, GovernmentBenefit

DIRECTION LIVES IN THE KIND:
  Amounts are never negative. A withdrawal of 100 is {Withdraw, 100}, not
  {Deposit, -100}. Kind.IsCredit / IsDebit give the sign when summing.

SEE ALSO:
  - ledger.go: The Ledger (principal log + derived cache)
  - accrual/simulator.go: Produces derived transactions
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
)

// =============================================================================
// KIND
// =============================================================================

type Kind string

const (
	Deposit           Kind = "deposit"
	Withdraw          Kind = "withdraw"
	Interest          Kind = "interest"
	GovernmentBenefit Kind = "government_benefit"
	Penalty           Kind = "penalty"
)

// IsPrincipal is true for caller-supplied kinds.
func (k Kind) IsPrincipal() bool {
	return k == Deposit || k == Withdraw || k == Penalty
}

// IsDerived is true for kinds the simulator regenerates.
func (k Kind) IsDerived() bool {
	return k == Interest || k == GovernmentBenefit
}

// IsCredit is true for kinds that add to the balance.
func (k Kind) IsCredit() bool {
	return k == Deposit || k == Interest || k == GovernmentBenefit
}

// IsDebit is true for kinds that take from the balance.
func (k Kind) IsDebit() bool {
	return k == Withdraw || k == Penalty
}

// Valid is true for the five known kinds.
func (k Kind) Valid() bool {
	return k.IsPrincipal() || k.IsDerived()
}

// =============================================================================
// TRANSACTION
// =============================================================================

// Transaction is one ledger entry. Amount is never negative.
type Transaction struct {
	Date   calendar.Date   `json:"date"`
	Kind   Kind            `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Signed returns Amount with the sign of the kind's direction.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s", t.Date, t.Kind, t.Amount.StringFixed(2))
}

// =============================================================================
// MONEY
// =============================================================================

// Money builds an amount from a float literal. Prefer MoneyFromString for
// values that must be exact.
func Money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// MoneyFromInt builds a whole amount.
func MoneyFromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// MoneyFromString parses an exact decimal amount.
func MoneyFromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
