/*
errors.go - Error taxonomy for account operations

PURPOSE:
  Every failure an account can report, in one place. All of them come from
  caller input or a business rule; none are transient, so nothing here is
  retryable. A failed mutation never leaves a partial write behind.

ERROR CATEGORIES:
  1. Input errors:   ErrNegativeAmount, ErrInvalidDayOfMonth, ErrInvalidConfig,
                     ErrUnknownVariant
  2. Rule violations: ErrCapExceeded, ErrWithdrawalWouldOverdraw,
                     ErrUnsupportedOperation

USAGE:
  Match with errors.Is on the sentinel, or errors.As on the structured type
  when the numbers matter:

    var capErr *account.CapExceededError
    if errors.As(err, &capErr) {
        fmt.Println("room left:", capErr.Remaining())
    }

SEE ALSO:
  - api/handlers.go: Maps categories to HTTP status codes
*/
package account

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/ledger"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNegativeAmount is returned when a deposit, withdrawal or scheduled
	// amount is below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidDayOfMonth is returned when a schedule day is outside 1..31.
	ErrInvalidDayOfMonth = errors.New("invalid day of month")

	// ErrCapExceeded is returned when a deposit would take the fiscal year's
	// deposits past the account cap.
	ErrCapExceeded = errors.New("fiscal year deposit cap exceeded")

	// ErrWithdrawalWouldOverdraw is returned when the balance after the
	// withdrawal and its penalty would be negative.
	ErrWithdrawalWouldOverdraw = errors.New("withdrawal would overdraw account")

	// ErrUnsupportedOperation is returned by variants that refuse an operation.
	ErrUnsupportedOperation = errors.New("operation not supported by this account")

	// ErrUnknownVariant is returned when creating an account of no known variant.
	ErrUnknownVariant = errors.New("unknown account variant")

	// ErrInvalidConfig is returned when account configuration is malformed.
	ErrInvalidConfig = errors.New("invalid account configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CapExceededError reports the fiscal year totals behind a rejected deposit.
type CapExceededError struct {
	FiscalYear       calendar.Period
	AlreadyDeposited decimal.Decimal
	Proposed         decimal.Decimal
	Cap              decimal.Decimal
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("fiscal year deposit cap exceeded: %s already deposited in %s, %s proposed, cap %s",
		e.AlreadyDeposited, e.FiscalYear, e.Proposed, e.Cap)
}

func (e *CapExceededError) Unwrap() error {
	return ErrCapExceeded
}

// Remaining is what could still be deposited in the fiscal year.
func (e *CapExceededError) Remaining() decimal.Decimal {
	return decimal.Max(e.Cap.Sub(e.AlreadyDeposited), decimal.Zero)
}

// OverdrawError reports the balance a withdrawal was checked against.
type OverdrawError struct {
	Date    calendar.Date
	Balance decimal.Decimal
	Amount  decimal.Decimal
	Penalty decimal.Decimal
}

func (e *OverdrawError) Error() string {
	return fmt.Sprintf("withdrawal would overdraw account: balance %s on %s, withdrawal %s, penalty %s",
		e.Balance, e.Date, e.Amount, e.Penalty)
}

func (e *OverdrawError) Unwrap() error {
	return ErrWithdrawalWouldOverdraw
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to malformed input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidDayOfMonth) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownVariant) ||
		errors.Is(err, ledger.ErrInvalidTransaction)
}

// IsRuleViolation returns true if well-formed input broke an account rule.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrCapExceeded) ||
		errors.Is(err, ErrWithdrawalWouldOverdraw) ||
		errors.Is(err, ErrUnsupportedOperation)
}
