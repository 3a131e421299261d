/*
Package account models savings accounts on top of the ledger and the
accrual simulator.

PURPOSE:
  An Account owns one ledger, seeded with its opening deposit. Callers
  mutate it (Deposit, Withdraw, ScheduleRecurringDeposit) and read it back
  with Summarize, which regenerates interest and benefits up to the
  requested date before totalling.

VARIANTS:
  One interface, three behaviours. No inheritance chain: each variant
  embeds the shared base and overrides the operations it changes.

    Unrestricted         No caps. Withdrawals are plain appends.
    IncentivizedCapped   Fiscal-year deposit cap, withdrawal penalty,
                         periodic government bonus on deposits.
    DepositRejecting     Every deposit fails with ErrUnsupportedOperation.
                         Non-interest-bearing.

FAILURE GUARANTEE:
  Every mutation validates first and writes second. A rejected call leaves
  the principal log exactly as it was.

CONCURRENCY:
  None. An Account belongs to a single caller. The HTTP layer wraps each
  account in its own mutex (api/registry.go).

EXAMPLE:
  acc, _ := account.New(account.Config{
      Variant:        account.Unrestricted,
      Name:           "Easy Saver",
      OpeningDate:    calendar.MustParse("2023-01-01"),
      OpeningBalance: ledger.MoneyFromInt(100),
      Policy: interest.Policy{
          AnnualRate: decimal.NewFromInt(5),
          Payment:    interest.Monthly,
          Compound:   interest.Monthly,
      },
  })
  asOf := calendar.MustParse("2024-01-01")
  fmt.Println(acc.Summarize(&asOf).FinalBalance) // ~105.12

SEE ALSO:
  - base.go: Shared ledger handling and Summarize
  - incentivized.go: Cap, penalty and bonus rules
  - accrual/simulator.go: Interest and bonus generation
*/
package account

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/interest"
)

// =============================================================================
// VARIANT
// =============================================================================

type Variant string

const (
	Unrestricted       Variant = "unrestricted"
	IncentivizedCapped Variant = "incentivized_capped"
	DepositRejecting   Variant = "deposit_rejecting"
)

// Variants lists every supported variant.
var Variants = []Variant{Unrestricted, IncentivizedCapped, DepositRejecting}

// ParseVariant accepts a variant name, case-insensitively, with dashes or
// underscores.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Variants {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// =============================================================================
// ACCOUNT INTERFACE
// =============================================================================

// Account is the capability set shared by all variants.
type Account interface {
	Name() string
	Variant() Variant
	OpeningDate() calendar.Date
	OpeningBalance() decimal.Decimal
	Policy() interest.Policy

	// Deposit records money paid in on date.
	Deposit(date calendar.Date, amount decimal.Decimal) error

	// Withdraw records money taken out on date.
	Withdraw(date calendar.Date, amount decimal.Decimal) error

	// ScheduleRecurringDeposit records one deposit per month from from
	// (inclusive) to to (exclusive), on dayOfMonth clamped to the month's
	// length. The whole schedule is applied or none of it.
	ScheduleRecurringDeposit(from, to calendar.Date, dayOfMonth int, amount decimal.Decimal) error

	// Summarize regenerates interest and benefits through asOf and totals
	// the ledger. A nil asOf means the latest principal transaction date.
	Summarize(asOf *calendar.Date) Summary
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Incentive holds the rules of the incentivized-capped variant.
type Incentive struct {
	// AnnualDepositCap bounds deposits within one fiscal year.
	AnnualDepositCap decimal.Decimal `json:"annual_deposit_cap"`
	// WithdrawalPenalty is charged as a fraction of each withdrawal (0.25 = 25%).
	WithdrawalPenalty decimal.Decimal `json:"withdrawal_penalty"`
	// BonusRate is the government top-up as a fraction of deposits.
	BonusRate decimal.Decimal `json:"bonus_rate"`
	// BonusPeriodCap bounds the top-up paid for one bonus period.
	BonusPeriodCap decimal.Decimal `json:"bonus_period_cap"`
}

// DefaultIncentive is a 4000 fiscal-year cap with a 25% withdrawal penalty
// and a 25% bonus of at most 1000 per bonus period.
func DefaultIncentive() Incentive {
	return Incentive{
		AnnualDepositCap:  decimal.NewFromInt(4000),
		WithdrawalPenalty: decimal.NewFromFloat(0.25),
		BonusRate:         decimal.NewFromFloat(0.25),
		BonusPeriodCap:    decimal.NewFromInt(1000),
	}
}

func (i Incentive) validate() error {
	for name, v := range map[string]decimal.Decimal{
		"annual deposit cap": i.AnnualDepositCap,
		"withdrawal penalty": i.WithdrawalPenalty,
		"bonus rate":         i.BonusRate,
		"bonus period cap":   i.BonusPeriodCap,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: negative %s", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Config describes an account to create.
type Config struct {
	Variant        Variant
	Name           string
	OpeningDate    calendar.Date
	OpeningBalance decimal.Decimal
	Policy         interest.Policy

	// Incentive applies to IncentivizedCapped only. Nil means DefaultIncentive.
	Incentive *Incentive
}

// New creates an account of the configured variant, seeded with its
// opening deposit.
func New(cfg Config) (Account, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case Unrestricted:
		return newUnrestricted(cfg)
	case IncentivizedCapped:
		return newIncentivized(cfg)
	case DepositRejecting:
		return newDepositRejecting(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}
}

// CreateAccount is New with the configuration spelled out positionally.
func CreateAccount(
	variant Variant,
	name string,
	openingDate calendar.Date,
	openingBalance decimal.Decimal,
	rate decimal.Decimal,
	payment, compound interest.Cadence,
) (Account, error) {
	return New(Config{
		Variant:        variant,
		Name:           name,
		OpeningDate:    openingDate,
		OpeningBalance: openingBalance,
		Policy: interest.Policy{
			AnnualRate: rate,
			Payment:    payment,
			Compound:   compound,
		},
	})
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.OpeningDate.IsZero() {
		return fmt.Errorf("%w: opening date is required", ErrInvalidConfig)
	}
	if c.OpeningBalance.IsNegative() {
		return fmt.Errorf("opening balance %s: %w", c.OpeningBalance, ErrNegativeAmount)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Incentive != nil {
		if err := c.Incentive.validate(); err != nil {
			return err
		}
	}
	return nil
}
