/*
ledger.go - Principal log plus derived cache

PURPOSE:
  Holds every transaction of one account, split in two sequences that never
  mix:

    principal: Deposits, withdrawals, penalties. Append-only. Owned by the
               caller through the account API.
    derived:   Interest and government benefits. Replaced wholesale by the
               accrual simulator on every summary. A cache, not a log.

CRITICAL INVARIANTS:
  1. APPEND-ONLY principal log: no update, no delete
  2. Derived kinds can never enter the principal log (ErrDerivedKind)
  3. Both sequences are ordered by date; same-day entries keep insertion order
  4. Amounts are never negative

ORDERING:
  Transactions() merges both sequences by date. On the same day principal
  entries come before derived ones, matching the order the simulator
  evaluates them in.

CONCURRENCY:
  None. A Ledger belongs to one account and one caller. Callers that share
  an account must serialize access themselves (see api/registry.go).

SEE ALSO:
  - types.go: Transaction and Kind
  - accrual/simulator.go: Writes the derived cache
*/
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDerivedKind is returned when interest or a benefit is appended to
	// the principal log.
	ErrDerivedKind = errors.New("derived transaction kind cannot be appended")

	// ErrPrincipalKind is returned when a principal kind is offered as derived.
	ErrPrincipalKind = errors.New("principal transaction kind cannot be derived")

	// ErrInvalidTransaction covers negative amounts, unknown kinds, zero dates.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	principal []Transaction
	derived   []Transaction
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds a principal transaction in date order.
func (l *Ledger) Append(tx Transaction) error {
	if err := validatePrincipal(tx); err != nil {
		return err
	}
	l.principal = insertSorted(l.principal, tx)
	return nil
}

// AppendBatch adds several principal transactions. All are validated before
// any is written, so a failure leaves the ledger unchanged.
func (l *Ledger) AppendBatch(txs []Transaction) error {
	for _, tx := range txs {
		if err := validatePrincipal(tx); err != nil {
			return err
		}
	}
	for _, tx := range txs {
		l.principal = insertSorted(l.principal, tx)
	}
	return nil
}

// ReplaceDerived discards the derived cache and installs txs in its place.
func (l *Ledger) ReplaceDerived(txs []Transaction) error {
	for _, tx := range txs {
		if !tx.Kind.IsDerived() {
			return fmt.Errorf("%w: %s", ErrPrincipalKind, tx.Kind)
		}
		if err := validateShape(tx); err != nil {
			return err
		}
	}

	derived := make([]Transaction, len(txs))
	copy(derived, txs)
	sort.SliceStable(derived, func(i, j int) bool {
		return derived[i].Date.Before(derived[j].Date)
	})
	l.derived = derived
	return nil
}

// ClearDerived empties the derived cache.
func (l *Ledger) ClearDerived() {
	l.derived = nil
}

func validatePrincipal(tx Transaction) error {
	if tx.Kind.IsDerived() {
		return fmt.Errorf("%w: %s", ErrDerivedKind, tx.Kind)
	}
	return validateShape(tx)
}

func validateShape(tx Transaction) error {
	switch {
	case !tx.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, tx.Kind)
	case tx.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount %s", ErrInvalidTransaction, tx.Amount)
	case tx.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// insertSorted places tx after every entry dated on or before it.
func insertSorted(txs []Transaction, tx Transaction) []Transaction {
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].Date.After(tx.Date)
	})

	txs = append(txs, Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	return txs
}

// =============================================================================
// READS
// =============================================================================

// Principal returns a copy of the principal log.
func (l *Ledger) Principal() []Transaction {
	out := make([]Transaction, len(l.principal))
	copy(out, l.principal)
	return out
}

// Derived returns a copy of the derived cache.
func (l *Ledger) Derived() []Transaction {
	out := make([]Transaction, len(l.derived))
	copy(out, l.derived)
	return out
}

// Transactions returns principal and derived entries merged by date.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, 0, len(l.principal)+len(l.derived))
	i, j := 0, 0
	for i < len(l.principal) && j < len(l.derived) {
		if l.derived[j].Date.Before(l.principal[i].Date) {
			out = append(out, l.derived[j])
			j++
		} else {
			out = append(out, l.principal[i])
			i++
		}
	}
	out = append(out, l.principal[i:]...)
	return append(out, l.derived[j:]...)
}

// Len counts principal and derived entries.
func (l *Ledger) Len() int { return len(l.principal) + len(l.derived) }

// FirstDate is the date of the earliest principal transaction.
func (l *Ledger) FirstDate() (calendar.Date, bool) {
	if len(l.principal) == 0 {
		return calendar.Date{}, false
	}
	return l.principal[0].Date, true
}

// LastDate is the date of the latest principal transaction.
func (l *Ledger) LastDate() (calendar.Date, bool) {
	if len(l.principal) == 0 {
		return calendar.Date{}, false
	}
	return l.principal[len(l.principal)-1].Date, true
}

// InRange returns all entries dated within p, in order.
func (l *Ledger) InRange(p calendar.Period) []Transaction {
	var out []Transaction
	for _, tx := range l.Transactions() {
		if p.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// Sum adds the amounts of entries of the given kinds dated within p.
// With no kinds every entry counts. Amounts are summed unsigned.
func (l *Ledger) Sum(p calendar.Period, kinds ...Kind) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.InRange(p) {
		if matches(tx.Kind, kinds) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// SumThrough adds the amounts of entries of the given kinds dated on or
// before at.
func (l *Ledger) SumThrough(at calendar.Date, kinds ...Kind) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.Transactions() {
		if tx.Date.After(at) {
			break
		}
		if matches(tx.Kind, kinds) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// BalanceAt is credits minus debits over every entry dated on or before at.
func (l *Ledger) BalanceAt(at calendar.Date) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range l.Transactions() {
		if tx.Date.After(at) {
			break
		}
		balance = balance.Add(tx.Signed())
	}
	return balance
}

func matches(k Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
