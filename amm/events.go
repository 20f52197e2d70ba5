package amm

import (
	"context"
	"time"

	"cosmossdk.io/math"
)

// Pool event types, used as the event tag by recorders.
const (
	EventTypeSwap            = "swap"
	EventTypeAddLiquidity    = "add_liquidity"
	EventTypeRemoveLiquidity = "remove_liquidity"
	EventTypePoolSeeded      = "pool_seeded"
)

// SwapRecord describes one executed swap. Reserves are post-swap. Sequence
// increases by one per executed swap on the pool.
type SwapRecord struct {
	Sequence  uint64
	Trader    string
	DenomIn   string
	AmountIn  math.Int
	DenomOut  string
	AmountOut math.Int
	ReserveA  math.Int
	ReserveB  math.Int
	Timestamp time.Time
}

// PoolHooks are notified after a pool state transition has committed. A hook
// error is logged by the pool and never rolls the operation back.
type PoolHooks interface {
	// AfterSwap is called once per executed swap.
	AfterSwap(ctx context.Context, record SwapRecord) error

	// AfterLiquidityChanged is called after a deposit (added true) or a
	// withdrawal (added false); amounts are the assets moved and shares the
	// share delta.
	AfterLiquidityChanged(ctx context.Context, provider string, amountA, amountB, shares math.Int, added bool) error

	// AfterPoolSeeded is called when a deposit initializes a pool with no
	// shares outstanding, including re-initialization after a full drain.
	AfterPoolSeeded(ctx context.Context, provider string, amountA, amountB, shares math.Int) error
}

// MultiPoolHooks fans notifications out to several hooks. Nil entries are
// skipped; the first error stops the fan-out and is returned to the pool.
type MultiPoolHooks []PoolHooks

// NewMultiPoolHooks combines the given hooks in call order.
func NewMultiPoolHooks(hooks ...PoolHooks) MultiPoolHooks {
	return hooks
}

func (h MultiPoolHooks) AfterSwap(ctx context.Context, record SwapRecord) error {
	for i := range h {
		if h[i] == nil {
			continue
		}
		if err := h[i].AfterSwap(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (h MultiPoolHooks) AfterLiquidityChanged(ctx context.Context, provider string, amountA, amountB, shares math.Int, added bool) error {
	for i := range h {
		if h[i] == nil {
			continue
		}
		if err := h[i].AfterLiquidityChanged(ctx, provider, amountA, amountB, shares, added); err != nil {
			return err
		}
	}
	return nil
}

func (h MultiPoolHooks) AfterPoolSeeded(ctx context.Context, provider string, amountA, amountB, shares math.Int) error {
	for i := range h {
		if h[i] == nil {
			continue
		}
		if err := h[i].AfterPoolSeeded(ctx, provider, amountA, amountB, shares); err != nil {
			return err
		}
	}
	return nil
}
