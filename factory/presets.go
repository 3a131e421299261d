/*
presets.go - Ready-made savings product definitions

These functions build JSON account definitions for common UK-style savings
products. They construct JSON strings directly so the output can be stored,
edited and posted to the API as-is.

USAGE:
  jsonStr := factory.LifetimeISAJSON("My LISA", "2023-04-06", 4000, 5)
  acc, err := factory.NewAccountFactory().ParseAccount(jsonStr)
*/
package factory

import "encoding/json"

// InstantAccessJSON returns JSON for an easy-access account with interest
// paid monthly and compounded annually, and no caps.
func InstantAccessJSON(name, openingDate string, openingBalance, annualRate float64) string {
	aj := map[string]interface{}{
		"name":            name,
		"variant":         "unrestricted",
		"opening_date":    openingDate,
		"opening_balance": openingBalance,
		"interest": map[string]interface{}{
			"annual_rate": annualRate,
			"payment":     "monthly",
			"compound":    "annually",
		},
	}
	return marshal(aj)
}

// LifetimeISAJSON returns JSON for a Lifetime ISA: 4000 per fiscal year,
// 25% withdrawal penalty, 25% government bonus capped at 1000 per bonus
// period, interest paid on the 28th and compounded annually.
func LifetimeISAJSON(name, openingDate string, openingBalance, annualRate float64) string {
	aj := map[string]interface{}{
		"name":            name,
		"variant":         "incentivized_capped",
		"opening_date":    openingDate,
		"opening_balance": openingBalance,
		"interest": map[string]interface{}{
			"annual_rate": annualRate,
			"payment":     "monthly",
			"compound":    "annually",
			"payment_day": 28,
		},
		"incentive": map[string]interface{}{
			"annual_deposit_cap": 4000,
			"withdrawal_penalty": 0.25,
			"bonus_rate":         0.25,
			"bonus_period_cap":   1000,
		},
	}
	return marshal(aj)
}

// PremiumBondsJSON returns JSON for a prize-draw holding. It accepts no
// deposits after opening and pays no interest.
func PremiumBondsJSON(name, openingDate string, openingBalance float64) string {
	aj := map[string]interface{}{
		"name":            name,
		"variant":         "deposit_rejecting",
		"opening_date":    openingDate,
		"opening_balance": openingBalance,
	}
	return marshal(aj)
}

func marshal(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
