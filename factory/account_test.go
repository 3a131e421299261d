package factory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/factory"
	"github.com/warp/savings-engine/interest"
)

func ptr(d calendar.Date) *calendar.Date { return &d }

func TestParseAccount_LifetimeISAPreset(t *testing.T) {
	f := factory.NewAccountFactory()

	acc, err := f.ParseAccount(factory.LifetimeISAJSON("Lifetime ISA", "2023-04-06", 4000, 5))
	require.NoError(t, err)

	assert.Equal(t, account.IncentivizedCapped, acc.Variant())
	assert.Equal(t, 28, acc.Policy().PaymentDay)
	assert.Equal(t, interest.Annually, acc.Policy().Compound)

	s := acc.Summarize(ptr(calendar.NewDate(2023, time.April, 28)))
	assert.InDelta(t, 4016.6667, s.FinalBalance.InexactFloat64(), 1e-4)

	allowance, ok := acc.(account.DepositAllowance)
	require.True(t, ok)
	assert.True(t, allowance.AnnualDepositCap().Equal(decimal.NewFromInt(4000)))
}

func TestParseAccount_InstantAccessPreset(t *testing.T) {
	acc, err := factory.NewAccountFactory().ParseAccount(factory.InstantAccessJSON("Easy Saver", "2023-01-01", 100, 5))
	require.NoError(t, err)

	s := acc.Summarize(ptr(calendar.NewDate(2025, time.January, 1)))

	assert.Equal(t, account.Unrestricted, acc.Variant())
	assert.InDelta(t, 110.25, s.FinalBalance.InexactFloat64(), 1e-4)
}

func TestParseAccount_PremiumBondsPreset(t *testing.T) {
	acc, err := factory.NewAccountFactory().ParseAccount(factory.PremiumBondsJSON("Premium Bonds", "2023-07-28", 0))
	require.NoError(t, err)

	err = acc.Deposit(calendar.NewDate(2023, time.July, 28), decimal.NewFromInt(25))
	assert.ErrorIs(t, err, account.ErrUnsupportedOperation)
}

func TestParseAccount_Defaults(t *testing.T) {
	acc, err := factory.NewAccountFactory().ParseAccount(`{
		"name": "Plain",
		"opening_date": "2023-01-01",
		"opening_balance": "250.50"
	}`)
	require.NoError(t, err)

	assert.Equal(t, account.Unrestricted, acc.Variant())
	assert.Equal(t, interest.Monthly, acc.Policy().Payment)
	assert.Equal(t, interest.Annually, acc.Policy().Compound)
	assert.True(t, acc.OpeningBalance().Equal(decimal.RequireFromString("250.50")))
}

func TestParseAccount_PartialIncentiveKeepsDefaults(t *testing.T) {
	f := factory.NewAccountFactory()
	cfg, err := f.Config(factory.AccountJSON{
		Name:           "Small ISA",
		Variant:        "incentivized-capped",
		OpeningDate:    calendar.NewDate(2023, time.April, 6),
		OpeningBalance: decimal.NewFromInt(100),
		Incentive:      &factory.IncentiveJSON{AnnualDepositCap: ptrDecimal(decimal.NewFromInt(1000))},
	})
	require.NoError(t, err)

	require.NotNil(t, cfg.Incentive)
	assert.True(t, cfg.Incentive.AnnualDepositCap.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.Incentive.WithdrawalPenalty.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, cfg.Incentive.BonusPeriodCap.Equal(decimal.NewFromInt(1000)))
}

func TestParseAccount_Errors(t *testing.T) {
	f := factory.NewAccountFactory()

	cases := []struct {
		name string
		json string
		want error
	}{
		{"unknown variant", `{"name":"x","variant":"crypto","opening_date":"2023-01-01","opening_balance":1}`, account.ErrUnknownVariant},
		{"unknown cadence", `{"name":"x","opening_date":"2023-01-01","opening_balance":1,"interest":{"annual_rate":1,"payment":"weekly"}}`, account.ErrInvalidConfig},
		{"negative balance", `{"name":"x","opening_date":"2023-01-01","opening_balance":-1}`, account.ErrNegativeAmount},
		{"missing date", `{"name":"x","opening_balance":1}`, account.ErrInvalidConfig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ParseAccount(tc.json)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.ParseAccount(`{"name": `)
	assert.Error(t, err)

	_, err = f.ParseAccount(`{"name":"x","opening_date":"06/04/2023","opening_balance":1}`)
	assert.Error(t, err, "dates are YYYY-MM-DD")
}

func TestToJSON_RoundTripsThroughParse(t *testing.T) {
	f := factory.NewAccountFactory()
	original, err := f.ParseAccount(factory.LifetimeISAJSON("Lifetime ISA", "2023-04-06", 3000, 4.5))
	require.NoError(t, err)

	b, err := json.Marshal(f.ToJSON(original))
	require.NoError(t, err)
	rebuilt, err := f.ParseAccount(string(b))
	require.NoError(t, err)

	asOf := ptr(calendar.NewDate(2024, time.April, 5))
	assert.Equal(t, original.Summarize(asOf), rebuilt.Summarize(asOf))
}

func ptrDecimal(d decimal.Decimal) *decimal.Decimal { return &d }
