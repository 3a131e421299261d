/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that fill the registry with accounts and
	transactions that show one feature each.

AVAILABLE SCENARIOS:

	monthly-saver:      Instant access, 100 on the 28th of each month in 2023
	lifetime-isa:       4000 opening deposit, 250 a month in the next fiscal year
	premium-bonds:      Deposit-rejecting holding, no interest
	penalty-withdrawal: Lifetime ISA with an early withdrawal and its penalty

HOW SCENARIOS WORK:
 1. Reset the registry (drop all accounts)
 2. Create accounts from factory presets under fixed ids
 3. Apply deposits, schedules and withdrawals

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "lifetime-isa"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario()
 3. Add it to the 'loaders' map

NOTE:

	Loading a scenario drops every account. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Account handlers
  - factory/presets.go: Account JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/factory"
	"github.com/warp/savings-engine/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "monthly-saver",
		Name:        "Monthly Saver",
		Description: "Instant access at 5%, 100 paid in on the 28th of every month of 2023",
		Variant:     string(account.Unrestricted),
	},
	{
		ID:          "lifetime-isa",
		Name:        "Lifetime ISA",
		Description: "Full 4000 allowance on 6-Apr-2023, then 250 a month through 2024/25, 25% bonus",
		Variant:     string(account.IncentivizedCapped),
	},
	{
		ID:          "premium-bonds",
		Name:        "Premium Bonds",
		Description: "1000 held from 28-Jul-2023; further deposits are refused and no interest is paid",
		Variant:     string(account.DepositRejecting),
	},
	{
		ID:          "penalty-withdrawal",
		Name:        "Early Withdrawal",
		Description: "Lifetime ISA with 2000 paid in and 400 taken out before the first bonus year ends",
		Variant:     string(account.IncentivizedCapped),
	},
}

func (h *Handler) loaders() map[string]func() error {
	return map[string]func() error{
		"monthly-saver":      h.loadMonthlySaverScenario,
		"lifetime-isa":       h.loadLifetimeISAScenario,
		"premium-bonds":      h.loadPremiumBondsScenario,
		"penalty-withdrawal": h.loadPenaltyWithdrawalScenario,
	}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Load(r.Context(), req.ScenarioID); err != nil {
		if _, known := h.loaders()[req.ScenarioID]; !known {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"accounts": h.Registry.Len(),
	})
}

// Load resets the registry and loads the named scenario.
func (h *Handler) Load(ctx context.Context, scenarioID string) error {
	load, ok := h.loaders()[scenarioID]
	if !ok {
		return fmt.Errorf("unknown scenario %q", scenarioID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Registry.Reset()
	h.currentScenario = ""

	if err := load(); err != nil {
		h.Registry.Reset()
		return err
	}
	h.currentScenario = scenarioID

	h.Log.WithComponent("scenarios").InfoContext(ctx, "scenario loaded",
		"scenario", scenarioID,
		"accounts", h.Registry.Len(),
	)
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// Reproduces the classic console run: opened empty on 1-Jan-2023, 100 on
// the 28th from January to November.
func (h *Handler) loadMonthlySaverScenario() error {
	acc, err := h.parseScenarioAccount("monthly-saver", factory.InstantAccessJSON("Monthly Saver", "2023-01-01", 0, 5))
	if err != nil {
		return err
	}
	err = acc.ScheduleRecurringDeposit(
		calendar.MustParse("2023-01-01"),
		calendar.MustParse("2023-12-01"),
		28,
		ledger.MoneyFromInt(100),
	)
	return h.register("monthly-saver", acc, err)
}

func (h *Handler) loadLifetimeISAScenario() error {
	acc, err := h.parseScenarioAccount("lifetime-isa", factory.LifetimeISAJSON("Lifetime ISA", "2023-04-06", 4000, 5))
	if err != nil {
		return err
	}
	err = acc.ScheduleRecurringDeposit(
		calendar.MustParse("2024-04-06"),
		calendar.MustParse("2025-04-06"),
		6,
		ledger.MoneyFromInt(250),
	)
	return h.register("lifetime-isa", acc, err)
}

func (h *Handler) loadPremiumBondsScenario() error {
	acc, err := h.parseScenarioAccount("premium-bonds", factory.PremiumBondsJSON("Premium Bonds", "2023-07-28", 1000))
	if err != nil {
		return err
	}
	return h.register("premium-bonds", acc, nil)
}

func (h *Handler) loadPenaltyWithdrawalScenario() error {
	acc, err := h.parseScenarioAccount("penalty-withdrawal", factory.LifetimeISAJSON("Lifetime ISA (early withdrawal)", "2023-04-06", 2000, 5))
	if err != nil {
		return err
	}
	err = acc.Withdraw(calendar.MustParse("2023-09-01"), ledger.MoneyFromInt(400))
	return h.register("penalty-withdrawal", acc, err)
}

func (h *Handler) parseScenarioAccount(id, jsonStr string) (account.Account, error) {
	acc, err := h.Factory.ParseAccount(jsonStr)
	if err != nil {
		return nil, fmt.Errorf("scenario account %s: %w", id, err)
	}
	return acc, nil
}

// register adds a fully built account to the registry. Accounts are only
// published once every scenario step has succeeded.
func (h *Handler) register(id string, acc account.Account, stepErr error) error {
	if stepErr != nil {
		return fmt.Errorf("scenario account %s: %w", id, stepErr)
	}
	if _, err := h.Registry.Add(id, acc); err != nil {
		return fmt.Errorf("scenario account %s: %w", id, err)
	}
	return nil
}
