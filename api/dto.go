/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Account definitions
  reuse factory.AccountJSON so what a client posts is exactly what a preset
  produces.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Account:
    AccountDTO, CreateAccountRequest

  Mutations:
    MovementRequest (deposits and withdrawals), ScheduleRequest

  Allowance:
    AllowanceDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

  Summaries are returned as account.Summary, which carries its own tags.

AMOUNTS AND DATES:
  Amounts are decimals and may be sent as JSON numbers or strings. Dates
  are YYYY-MM-DD.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/account.go: AccountJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/factory"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	factory.AccountJSON
	Balance   decimal.Decimal `json:"balance"`
	AsOf      calendar.Date   `json:"as_of"`
	CreatedAt string          `json:"created_at"`
}

// CreateAccountRequest is the request to create an account. The id is
// optional; the server assigns one when it is empty.
type CreateAccountRequest = factory.AccountJSON

// MovementRequest is a deposit or withdrawal.
type MovementRequest struct {
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ScheduleRequest sets up one deposit per month from From (inclusive) to
// To (exclusive).
type ScheduleRequest struct {
	From       calendar.Date   `json:"from"`
	To         calendar.Date   `json:"to"`
	DayOfMonth int             `json:"day_of_month"`
	Amount     decimal.Decimal `json:"amount"`
}

// AllowanceDTO is the fiscal-year deposit room of a capped account.
type AllowanceDTO struct {
	AccountID        string          `json:"account_id"`
	Date             calendar.Date   `json:"date"`
	FiscalYearStart  calendar.Date   `json:"fiscal_year_start"`
	FiscalYearEnd    calendar.Date   `json:"fiscal_year_end"`
	AnnualDepositCap decimal.Decimal `json:"annual_deposit_cap"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// MutationDTO acknowledges a successful mutation.
type MutationDTO struct {
	AccountID string `json:"account_id"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toAccountDTO(f *factory.AccountFactory, e *Entry, acc account.Account) AccountDTO {
	aj := f.ToJSON(acc)
	aj.ID = e.ID
	s := acc.Summarize(nil)
	return AccountDTO{
		AccountJSON: aj,
		Balance:     s.FinalBalance,
		AsOf:        s.AsOf,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
