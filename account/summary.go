package account

import (
	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/ledger"
)

// =============================================================================
// SUMMARY - Point-in-time view of an account
// =============================================================================

// Summary totals every transaction dated on or before AsOf.
//
// FinalBalance is credits (deposits, interest, benefits) minus debits
// (withdrawals, penalties). CumulativeInterestAndBenefits is interest plus
// benefits. DateFrom and DateTo are the first and last dates among the
// counted transactions; both are zero when nothing is counted.
type Summary struct {
	Account string        `json:"account"`
	Variant Variant       `json:"variant"`
	AsOf    calendar.Date `json:"as_of"`

	DateFrom calendar.Date `json:"date_from"`
	DateTo   calendar.Date `json:"date_to"`

	FinalBalance                  decimal.Decimal `json:"final_balance"`
	CumulativeInterestAndBenefits decimal.Decimal `json:"cumulative_interest_and_benefits"`

	TotalDeposited decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	TotalPenalties decimal.Decimal `json:"total_penalties"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalBenefits  decimal.Decimal `json:"total_benefits"`

	DaysSimulated int                  `json:"days_simulated"`
	Transactions  []ledger.Transaction `json:"transactions"`
}

func newSummary(b *base, asOf calendar.Date, days int) Summary {
	s := Summary{
		Account:        b.name,
		Variant:        b.variant,
		AsOf:           asOf,
		FinalBalance:   decimal.Zero,
		TotalDeposited: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		TotalPenalties: decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalBenefits:  decimal.Zero,
		DaysSimulated:  days,
		Transactions:   []ledger.Transaction{},
	}

	for _, tx := range b.ledger.Transactions() {
		if tx.Date.After(asOf) {
			break
		}
		s.Transactions = append(s.Transactions, tx)
		s.FinalBalance = s.FinalBalance.Add(tx.Signed())

		switch tx.Kind {
		case ledger.Deposit:
			s.TotalDeposited = s.TotalDeposited.Add(tx.Amount)
		case ledger.Withdraw:
			s.TotalWithdrawn = s.TotalWithdrawn.Add(tx.Amount)
		case ledger.Penalty:
			s.TotalPenalties = s.TotalPenalties.Add(tx.Amount)
		case ledger.Interest:
			s.TotalInterest = s.TotalInterest.Add(tx.Amount)
		case ledger.GovernmentBenefit:
			s.TotalBenefits = s.TotalBenefits.Add(tx.Amount)
		}
	}

	s.CumulativeInterestAndBenefits = s.TotalInterest.Add(s.TotalBenefits)
	if n := len(s.Transactions); n > 0 {
		s.DateFrom = s.Transactions[0].Date
		s.DateTo = s.Transactions[n-1].Date
	}
	return s
}
