/*
handlers_test.go - HTTP tests for the account endpoints

Tests for:
- Account creation, listing and lookup
- Deposits, withdrawals and schedules, with their error statuses
- Summaries and allowances
- Metrics endpoint
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/factory"
)

func setupTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	h := NewHandler(nil)
	return h, NewRouter(h, RouterOptions{})
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createAccount(t *testing.T, srv http.Handler, jsonStr string) AccountDTO {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/accounts", jsonStr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[AccountDTO](t, rec)
}

func withID(t *testing.T, jsonStr, id string) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &m))
	m["id"] = id
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return string(raw)
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestCreateAccount_AssignsID(t *testing.T) {
	// GIVEN: An account definition without an id
	// WHEN: Posting it
	// THEN: The server assigns a UUID and echoes the definition

	_, srv := setupTestServer(t)

	dto := createAccount(t, srv, factory.InstantAccessJSON("Easy Saver", "2023-01-01", 100, 5))

	assert.Len(t, dto.ID, 36)
	assert.Equal(t, "Easy Saver", dto.Name)
	assert.Equal(t, string(account.Unrestricted), dto.Variant)
	assert.True(t, dto.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2023-01-01", dto.AsOf.String())

	rec := do(t, srv, http.MethodGet, "/api/accounts/"+dto.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ID, decode[AccountDTO](t, rec).ID)
}

func TestCreateAccount_Errors(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.InstantAccessJSON("A", "2023-01-01", 1, 1), "fixed"))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"name": `, http.StatusBadRequest},
		{"unknown variant", `{"name":"x","variant":"crypto","opening_date":"2023-01-01","opening_balance":1}`, http.StatusBadRequest},
		{"negative opening balance", `{"name":"x","opening_date":"2023-01-01","opening_balance":-5}`, http.StatusBadRequest},
		{"over the cap", factory.LifetimeISAJSON("x", "2023-04-06", 4001, 5), http.StatusUnprocessableEntity},
		{"duplicate id", withID(t, factory.InstantAccessJSON("B", "2023-01-01", 1, 1), "fixed"), http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/accounts", tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestListAccounts(t *testing.T) {
	_, srv := setupTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]AccountDTO](t, rec))

	createAccount(t, srv, withID(t, factory.InstantAccessJSON("A", "2023-01-01", 1, 1), "a"))
	createAccount(t, srv, withID(t, factory.PremiumBondsJSON("B", "2023-01-01", 1), "b"))

	rec = do(t, srv, http.MethodGet, "/api/accounts", nil)
	list := decode[[]AccountDTO](t, rec)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestGetAccount_NotFound(t *testing.T) {
	_, srv := setupTestServer(t)

	for _, path := range []string{
		"/api/accounts/missing",
		"/api/accounts/missing/summary",
		"/api/accounts/missing/allowance?date=2023-05-01",
	} {
		rec := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := do(t, srv, http.MethodPost, "/api/accounts/missing/deposits", MovementRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "the body is checked before the lookup")

	rec = do(t, srv, http.MethodPost, "/api/accounts/missing/deposits", `{"date":"2023-01-01","amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// MUTATIONS
// =============================================================================

func TestDeposit_ThenSummary(t *testing.T) {
	// GIVEN: 1200 at 12% paid and compounded monthly
	// WHEN: Depositing 1200 more on the first payment day
	// THEN: The summary includes that day's interest on 2400

	_, srv := setupTestServer(t)
	acc := createAccount(t, srv, withID(t, `{
		"name": "Saver",
		"opening_date": "2023-01-01",
		"opening_balance": 1200,
		"interest": {"annual_rate": 12, "payment": "monthly", "compound": "monthly"}
	}`, "saver"))

	rec := do(t, srv, http.MethodPost, "/api/accounts/"+acc.ID+"/deposits", `{"date":"2023-02-01","amount":"1200"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "deposit", decode[MutationDTO](t, rec).Operation)

	rec = do(t, srv, http.MethodGet, "/api/accounts/saver/summary?as_of=2023-02-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[account.Summary](t, rec)

	assert.True(t, s.TotalInterest.Equal(decimal.NewFromInt(24)), s.TotalInterest.String())
	assert.True(t, s.FinalBalance.Equal(decimal.NewFromInt(2424)), s.FinalBalance.String())
	assert.Equal(t, 32, s.DaysSimulated)
	assert.Len(t, s.Transactions, 3)
}

func TestDeposit_Rejections(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.LifetimeISAJSON("ISA", "2023-04-06", 3900, 5), "isa"))
	createAccount(t, srv, withID(t, factory.PremiumBondsJSON("Bonds", "2023-04-06", 100), "bonds"))

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"negative amount", "/api/accounts/isa/deposits", `{"date":"2023-05-01","amount":-1}`, http.StatusBadRequest},
		{"missing date", "/api/accounts/isa/deposits", `{"amount":1}`, http.StatusBadRequest},
		{"bad date", "/api/accounts/isa/deposits", `{"date":"01/05/2023","amount":1}`, http.StatusBadRequest},
		{"over the cap", "/api/accounts/isa/deposits", `{"date":"2023-05-01","amount":101}`, http.StatusUnprocessableEntity},
		{"deposit refused", "/api/accounts/bonds/deposits", `{"date":"2023-05-01","amount":1}`, http.StatusUnprocessableEntity},
		{"overdraw", "/api/accounts/isa/withdrawals", `{"date":"2023-04-07","amount":3500}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	// The cap still has exactly 100 of room.
	rec := do(t, srv, http.MethodPost, "/api/accounts/isa/deposits", `{"date":"2023-05-01","amount":100}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestWithdraw_ChargesPenalty(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.LifetimeISAJSON("ISA", "2023-04-06", 2000, 0), "isa"))

	rec := do(t, srv, http.MethodPost, "/api/accounts/isa/withdrawals", `{"date":"2023-04-10","amount":400}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/accounts/isa/summary?as_of=2023-04-10", nil)
	s := decode[account.Summary](t, rec)
	assert.True(t, s.TotalWithdrawn.Equal(decimal.NewFromInt(400)))
	assert.True(t, s.TotalPenalties.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.FinalBalance.Equal(decimal.NewFromInt(1500)), s.FinalBalance.String())
}

func TestScheduleDeposits(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.InstantAccessJSON("Saver", "2023-01-01", 0, 0), "saver"))

	rec := do(t, srv, http.MethodPost, "/api/accounts/saver/schedules", ScheduleRequest{DayOfMonth: 31})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "from and to are required")

	rec = do(t, srv, http.MethodPost, "/api/accounts/saver/schedules",
		`{"from":"2023-01-01","to":"2023-04-01","day_of_month":32,"amount":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/accounts/saver/schedules",
		`{"from":"2023-01-01","to":"2023-04-01","day_of_month":31,"amount":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/accounts/saver/summary", nil)
	s := decode[account.Summary](t, rec)
	assert.Equal(t, "2023-03-31", s.AsOf.String())
	assert.True(t, s.TotalDeposited.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "2023-02-28", s.Transactions[2].Date.String())
}

// =============================================================================
// READS
// =============================================================================

func TestGetSummary_BadAsOf(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.InstantAccessJSON("A", "2023-01-01", 1, 1), "a"))

	rec := do(t, srv, http.MethodGet, "/api/accounts/a/summary?as_of=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAllowance(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.LifetimeISAJSON("ISA", "2023-04-06", 1500, 5), "isa"))
	createAccount(t, srv, withID(t, factory.InstantAccessJSON("Easy", "2023-04-06", 1500, 5), "easy"))

	rec := do(t, srv, http.MethodGet, "/api/accounts/isa/allowance?date=2023-12-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[AllowanceDTO](t, rec)
	assert.Equal(t, "2023-04-06", a.FiscalYearStart.String())
	assert.Equal(t, "2024-04-05", a.FiscalYearEnd.String())
	assert.True(t, a.Remaining.Equal(decimal.NewFromInt(2500)), a.Remaining.String())
	assert.True(t, a.AnnualDepositCap.Equal(decimal.NewFromInt(4000)))

	rec = do(t, srv, http.MethodGet, "/api/accounts/isa/allowance?date=2024-04-06", nil)
	assert.True(t, decode[AllowanceDTO](t, rec).Remaining.Equal(decimal.NewFromInt(4000)))

	rec = do(t, srv, http.MethodGet, "/api/accounts/isa/allowance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/accounts/easy/allowance?date=2023-12-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := setupTestServer(t)
	createAccount(t, srv, factory.InstantAccessJSON("A", "2023-01-01", 1, 1))

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "savings_mutations_total"))

	rec = do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrAccountNotFound, http.StatusNotFound},
		{ErrDuplicateID, http.StatusConflict},
		{account.ErrCapExceeded, http.StatusUnprocessableEntity},
		{account.ErrWithdrawalWouldOverdraw, http.StatusUnprocessableEntity},
		{account.ErrUnsupportedOperation, http.StatusUnprocessableEntity},
		{account.ErrNegativeAmount, http.StatusBadRequest},
		{account.ErrInvalidDayOfMonth, http.StatusBadRequest},
		{account.ErrInvalidConfig, http.StatusBadRequest},
		{account.ErrUnknownVariant, http.StatusBadRequest},
		{errBadRequest, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
