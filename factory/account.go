/*
Package factory provides JSON to Go account conversion.

PURPOSE:
  Converts JSON account definitions into account.Account values. Products
  can be described in configuration (or posted to the API) and the factory
  builds the matching variant with its interest policy and incentive rules.

JSON SCHEMA:
  {
    "id": "lisa-2023",
    "name": "Lifetime ISA",
    "variant": "incentivized_capped",
    "opening_date": "2023-04-06",
    "opening_balance": 4000,
    "interest": {
      "annual_rate": 5,
      "payment": "monthly",
      "compound": "annually",
      "payment_day": 28
    },
    "incentive": {
      "annual_deposit_cap": 4000,
      "withdrawal_penalty": 0.25,
      "bonus_rate": 0.25,
      "bonus_period_cap": 1000
    }
  }

DEFAULTS:
  - variant:   unrestricted
  - payment:   monthly
  - compound:  annually
  - incentive: account.DefaultIncentive (incentivized_capped only)

  Amounts and rates may be JSON numbers or strings ("4000.00").

USAGE:
  f := factory.NewAccountFactory()
  acc, err := f.ParseAccount(factory.LifetimeISAJSON("Lifetime ISA", "2023-04-06", 4000, 5))

SEE ALSO:
  - presets.go: Ready-made product definitions
  - account/account.go: Config and variants
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/interest"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AccountJSON is the JSON representation of an account definition.
type AccountJSON struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Variant        string          `json:"variant,omitempty"`
	OpeningDate    calendar.Date   `json:"opening_date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Interest       *InterestJSON   `json:"interest,omitempty"`
	Incentive      *IncentiveJSON  `json:"incentive,omitempty"`
}

// InterestJSON represents the interest policy.
type InterestJSON struct {
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Payment    string          `json:"payment,omitempty"`  // daily, monthly, annually
	Compound   string          `json:"compound,omitempty"` // daily, monthly, annually
	PaymentDay int             `json:"payment_day,omitempty"`
}

// IncentiveJSON represents the incentivized-capped rules. Omitted fields
// take the default value.
type IncentiveJSON struct {
	AnnualDepositCap  *decimal.Decimal `json:"annual_deposit_cap,omitempty"`
	WithdrawalPenalty *decimal.Decimal `json:"withdrawal_penalty,omitempty"`
	BonusRate         *decimal.Decimal `json:"bonus_rate,omitempty"`
	BonusPeriodCap    *decimal.Decimal `json:"bonus_period_cap,omitempty"`
}

// =============================================================================
// ACCOUNT FACTORY
// =============================================================================

// AccountFactory converts JSON definitions to accounts.
type AccountFactory struct{}

// NewAccountFactory creates a new account factory.
func NewAccountFactory() *AccountFactory {
	return &AccountFactory{}
}

// ParseAccount parses a JSON string into an account.
func (f *AccountFactory) ParseAccount(jsonStr string) (account.Account, error) {
	var aj AccountJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return nil, fmt.Errorf("failed to parse account JSON: %w", err)
	}

	return f.FromJSON(aj)
}

// FromJSON converts an AccountJSON to an account.
func (f *AccountFactory) FromJSON(aj AccountJSON) (account.Account, error) {
	cfg, err := f.Config(aj)
	if err != nil {
		return nil, err
	}
	return account.New(cfg)
}

// Config converts an AccountJSON to an account.Config without creating
// the account.
func (f *AccountFactory) Config(aj AccountJSON) (account.Config, error) {
	variant := account.Unrestricted
	if aj.Variant != "" {
		v, err := account.ParseVariant(aj.Variant)
		if err != nil {
			return account.Config{}, err
		}
		variant = v
	}

	policy, err := parseInterest(aj.Interest)
	if err != nil {
		return account.Config{}, fmt.Errorf("%w: %v", account.ErrInvalidConfig, err)
	}

	cfg := account.Config{
		Variant:        variant,
		Name:           aj.Name,
		OpeningDate:    aj.OpeningDate,
		OpeningBalance: aj.OpeningBalance,
		Policy:         policy,
	}

	if variant == account.IncentivizedCapped {
		inc := parseIncentive(aj.Incentive)
		cfg.Incentive = &inc
	}

	return cfg, nil
}

// ToJSON converts an account back to its definition. The id is left empty.
func (f *AccountFactory) ToJSON(acc account.Account) AccountJSON {
	p := acc.Policy()
	aj := AccountJSON{
		Name:           acc.Name(),
		Variant:        string(acc.Variant()),
		OpeningDate:    acc.OpeningDate(),
		OpeningBalance: acc.OpeningBalance(),
		Interest: &InterestJSON{
			AnnualRate: p.AnnualRate,
			Payment:    string(p.Payment),
			Compound:   string(p.Compound),
			PaymentDay: p.PaymentDay,
		},
	}

	if withRules, ok := acc.(interface{ Incentive() account.Incentive }); ok {
		inc := withRules.Incentive()
		aj.Incentive = &IncentiveJSON{
			AnnualDepositCap:  &inc.AnnualDepositCap,
			WithdrawalPenalty: &inc.WithdrawalPenalty,
			BonusRate:         &inc.BonusRate,
			BonusPeriodCap:    &inc.BonusPeriodCap,
		}
	}

	return aj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseInterest(ij *InterestJSON) (interest.Policy, error) {
	if ij == nil {
		return interest.Policy{AnnualRate: decimal.Zero, Payment: interest.Monthly, Compound: interest.Annually}, nil
	}

	payment, err := interest.ParseCadence(ij.Payment, interest.Monthly)
	if err != nil {
		return interest.Policy{}, fmt.Errorf("payment: %w", err)
	}
	compound, err := interest.ParseCadence(ij.Compound, interest.Annually)
	if err != nil {
		return interest.Policy{}, fmt.Errorf("compound: %w", err)
	}

	return interest.Policy{
		AnnualRate: ij.AnnualRate,
		Payment:    payment,
		Compound:   compound,
		PaymentDay: ij.PaymentDay,
	}, nil
}

func parseIncentive(ij *IncentiveJSON) account.Incentive {
	inc := account.DefaultIncentive()
	if ij == nil {
		return inc
	}
	if ij.AnnualDepositCap != nil {
		inc.AnnualDepositCap = *ij.AnnualDepositCap
	}
	if ij.WithdrawalPenalty != nil {
		inc.WithdrawalPenalty = *ij.WithdrawalPenalty
	}
	if ij.BonusRate != nil {
		inc.BonusRate = *ij.BonusRate
	}
	if ij.BonusPeriodCap != nil {
		inc.BonusPeriodCap = *ij.BonusPeriodCap
	}
	return inc
}
