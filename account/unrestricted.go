package account

import "github.com/warp/savings-engine/accrual"

// =============================================================================
// UNRESTRICTED - Instant access, no caps
// =============================================================================

// unrestricted adds nothing to base: deposits, withdrawals and schedules are
// plain appends. Withdrawals are not balance-checked.
type unrestricted struct {
	*base
}

var _ Account = (*unrestricted)(nil)

func newUnrestricted(cfg Config) (Account, error) {
	b, err := newBase(cfg, accrual.Simulator{Policy: cfg.Policy})
	if err != nil {
		return nil, err
	}
	return &unrestricted{base: b}, nil
}
