package api

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/factory"
)

func TestRegistry_AddGetReset(t *testing.T) {
	r := NewRegistry()
	acc, err := factory.NewAccountFactory().ParseAccount(factory.InstantAccessJSON("A", "2023-01-01", 1, 1))
	require.NoError(t, err)

	e, err := r.Add("", acc)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	_, err = r.Add(e.ID, acc)
	assert.ErrorIs(t, err, ErrDuplicateID)

	got, err := r.Get(e.ID)
	require.NoError(t, err)
	assert.Same(t, e, got)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	_, err = r.Get(e.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestConcurrentDeposits_AreSerializedPerAccount(t *testing.T) {
	// GIVEN: One account
	// WHEN: 50 deposits and 50 summaries race over HTTP
	// THEN: Every deposit lands exactly once

	_, srv := setupTestServer(t)
	createAccount(t, srv, withID(t, factory.InstantAccessJSON("Shared", "2023-01-01", 0, 5), "shared"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(day int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"date":"2023-03-%02d","amount":10}`, day%28+1)
			rec := do(t, srv, http.MethodPost, "/api/accounts/shared/deposits", body)
			assert.Equal(t, http.StatusCreated, rec.Code)
		}(i)
		go func() {
			defer wg.Done()
			rec := do(t, srv, http.MethodGet, "/api/accounts/shared/summary", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	rec := do(t, srv, http.MethodGet, "/api/accounts/shared/summary?as_of=2023-03-31", nil)
	s := decode[account.Summary](t, rec)
	assert.True(t, s.TotalDeposited.Equal(decimal.NewFromInt(500)), s.TotalDeposited.String())
}
