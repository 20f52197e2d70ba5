package amm

import (
	"context"

	"cosmossdk.io/math"
)

// BankKeeper is the balance book the pool moves assets through. Reserves are
// held under the pool's own account; the pool never mints or burns.
//
// Implementations must be safe for concurrent use and must not call back into
// the pool: mutating pool operations invoke the bank while holding the pool's
// exclusive lock.
type BankKeeper interface {
	// SendCoins moves amount of denom between two accounts. It either fully
	// succeeds or returns an error having moved nothing.
	SendCoins(ctx context.Context, fromAddr, toAddr, denom string, amount math.Int) error

	// GetBalance reports the balance of addr in denom. Unknown accounts read
	// as zero.
	GetBalance(ctx context.Context, addr, denom string) math.Int
}
