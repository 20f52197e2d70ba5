package amm

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"
)

// CheckInvariants verifies the pool's internal consistency and its backing
// bank balances under the read lock. Intended for tests and operational
// probes after mutations, not for hot paths.
//
// Checked:
//   - constantProduct equals reserveA * reserveB
//   - totalShares equals the sum of all positions
//   - no reserve, share total or position is negative
//   - the pool's bank balance covers each reserve
func (p *Pool) CheckInvariants(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var broken []string

	if p.ledger.reserveA.IsNegative() || p.ledger.reserveB.IsNegative() {
		broken = append(broken, fmt.Sprintf("negative reserves %s/%s", p.ledger.reserveA, p.ledger.reserveB))
	}
	if k, err := SafeMul(p.ledger.reserveA, p.ledger.reserveB); err != nil {
		broken = append(broken, fmt.Sprintf("constant product overflow: %v", err))
	} else if !k.Equal(p.ledger.constantProduct) {
		broken = append(broken, fmt.Sprintf("constant product %s but reserves imply %s", p.ledger.constantProduct, k))
	}

	if p.totalShares.IsNegative() {
		broken = append(broken, fmt.Sprintf("negative total shares %s", p.totalShares))
	}
	sum := math.ZeroInt()
	for party, shares := range p.positions {
		if shares.IsNegative() {
			broken = append(broken, fmt.Sprintf("negative position %s for %s", shares, party))
		}
		sum = sum.Add(shares)
	}
	if !sum.Equal(p.totalShares) {
		broken = append(broken, fmt.Sprintf("positions sum to %s but pool records %s", sum, p.totalShares))
	}

	for _, held := range []struct {
		denom   string
		reserve math.Int
	}{
		{p.denomA, p.ledger.reserveA},
		{p.denomB, p.ledger.reserveB},
	} {
		balance := p.bank.GetBalance(ctx, p.account, held.denom)
		if balance.LT(held.reserve) {
			broken = append(broken, fmt.Sprintf("bank holds %s%s against a reserve of %s", balance, held.denom, held.reserve))
		}
	}

	if len(broken) > 0 {
		return ErrInvalidPoolState.Wrapf("%d broken invariants: %s", len(broken), strings.Join(broken, "; "))
	}
	return nil
}
