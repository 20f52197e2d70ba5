package amm

import (
	"cosmossdk.io/math"
)

// reserveLedger tracks the pool's holdings of both assets together with the
// cached constant product. It never moves assets and knows nothing about
// shares; the Pool serializes all access to it.
type reserveLedger struct {
	reserveA        math.Int
	reserveB        math.Int
	constantProduct math.Int
}

func newReserveLedger() reserveLedger {
	return reserveLedger{
		reserveA:        math.ZeroInt(),
		reserveB:        math.ZeroInt(),
		constantProduct: math.ZeroInt(),
	}
}

// reserveCommit is a fully validated ledger state waiting to be installed.
// Staging separates the fallible arithmetic from the infallible write so a
// mutation can run its bank legs between the two.
type reserveCommit struct {
	reserveA        math.Int
	reserveB        math.Int
	constantProduct math.Int
}

// stageReserves validates a prospective reserve pair and recomputes the
// constant product for it.
func stageReserves(reserveA, reserveB math.Int) (reserveCommit, error) {
	if reserveA.IsNegative() || reserveB.IsNegative() {
		return reserveCommit{}, ErrInvalidPoolState.Wrapf("negative reserves: %s/%s", reserveA, reserveB)
	}
	k, err := SafeMul(reserveA, reserveB)
	if err != nil {
		return reserveCommit{}, ErrOverflow.Wrapf("constant product %s * %s: %v", reserveA, reserveB, err)
	}
	return reserveCommit{reserveA: reserveA, reserveB: reserveB, constantProduct: k}, nil
}

// apply installs the staged state. All three fields change together so the
// constant product is never observed stale; callers hold the pool write lock.
func (l *reserveLedger) apply(c reserveCommit) {
	l.reserveA = c.reserveA
	l.reserveB = c.reserveB
	l.constantProduct = c.constantProduct
}
