package amm_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/pttransamdriver/amm-master/amm"
	"github.com/pttransamdriver/amm-master/bank"
)

func TestAddLiquidity_ProductOverflowRejected(t *testing.T) {
	ctx := context.Background()
	bk := bank.NewKeeper(nil)

	huge := intFromBits(128)
	require.NoError(t, bk.MintCoins(ctx, alice, denomA, huge))
	require.NoError(t, bk.MintCoins(ctx, alice, denomB, huge))

	pool, err := amm.NewPool(amm.PoolConfig{DenomA: denomA, DenomB: denomB, Bank: bk})
	require.NoError(t, err)

	// 2^128 * 2^128 busts the product bound.
	_, err = pool.AddLiquidity(ctx, alice, huge, huge)
	require.Error(t, err)
	require.True(t, amm.ErrOverflow.Is(err))

	// Staging happens before any transfer.
	require.Equal(t, huge, bk.GetBalance(ctx, alice, denomA))
	require.True(t, bk.GetBalance(ctx, pool.Account(), denomA).IsZero())
	require.True(t, pool.TotalShares().IsZero())
}

func TestCalculateSwapOutput_InputOverflowRejected(t *testing.T) {
	_, err := amm.CalculateSwapOutput(
		maxPoolValue(), math.NewInt(1000), math.NewInt(1000), math.NewInt(1_000_000))
	require.Error(t, err)
	require.True(t, amm.ErrOverflow.Is(err))
}

// swapErrorExpected reports whether err is one of the failures
// CalculateSwapOutput is allowed to return.
func swapErrorExpected(err error) bool {
	return amm.ErrInvalidAmount.Is(err) ||
		amm.ErrZeroAmount.Is(err) ||
		amm.ErrPoolNotInitialized.Is(err) ||
		amm.ErrPoolDrainage.Is(err) ||
		amm.ErrOverflow.Is(err)
}

func FuzzCalculateSwapOutput(f *testing.F) {
	f.Add(int64(100), int64(1000), int64(1000))
	f.Add(int64(1), int64(1), int64(1))
	f.Add(int64(1_000_000), int64(1000), int64(1000))
	f.Add(int64(0), int64(5), int64(5))
	f.Add(int64(-3), int64(10), int64(10))
	f.Add(int64(1), int64(1<<62), int64(1<<62))

	f.Fuzz(func(t *testing.T, amountIn, reserveIn, reserveOut int64) {
		in := math.NewInt(amountIn)
		rIn := math.NewInt(reserveIn)
		rOut := math.NewInt(reserveOut)
		k := rIn.Mul(rOut)

		out, err := amm.CalculateSwapOutput(in, rIn, rOut, k)
		if err != nil {
			if !swapErrorExpected(err) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		if out.IsNegative() {
			t.Fatalf("negative payout %s for input %s against %s/%s", out, in, rIn, rOut)
		}
		if out.GTE(rOut) {
			t.Fatalf("payout %s reaches the %s reserve", out, rOut)
		}
	})
}

func FuzzSharesForDeposit(f *testing.F) {
	f.Add(int64(500), int64(1000), int64(1000), int64(2000), int64(1000))
	f.Add(int64(1), int64(1), int64(0), int64(0), int64(0))
	f.Add(int64(3), int64(7), int64(1000), int64(2000), int64(100))
	f.Add(int64(0), int64(5), int64(10), int64(10), int64(10))

	params := amm.DefaultParams()
	f.Fuzz(func(t *testing.T, amountA, amountB, reserveA, reserveB, totalShares int64) {
		// Callers validate amounts and own the ledger; stay in that domain.
		if amountA <= 0 || amountB <= 0 || reserveA < 0 || reserveB < 0 || totalShares < 0 {
			t.Skip()
		}
		minted, err := amm.SharesForDeposit(
			math.NewInt(amountA), math.NewInt(amountB),
			math.NewInt(reserveA), math.NewInt(reserveB),
			math.NewInt(totalShares), params)
		if err != nil {
			return
		}
		if totalShares == 0 {
			if !minted.Equal(params.SeedShares) {
				t.Fatalf("seed deposit minted %s, want %s", minted, params.SeedShares)
			}
			return
		}
		if !minted.IsPositive() {
			t.Fatalf("non-positive mint %s passed the dust check", minted)
		}
	})
}

func FuzzWithdrawAmountsForShares(f *testing.F) {
	f.Add(int64(500), int64(1000), int64(2000), int64(1000))
	f.Add(int64(1), int64(1), int64(1), int64(1))
	f.Add(int64(1000), int64(1000), int64(2000), int64(1000))
	f.Add(int64(0), int64(10), int64(10), int64(10))

	f.Fuzz(func(t *testing.T, shares, reserveA, reserveB, totalShares int64) {
		if shares <= 0 || reserveA < 0 || reserveB < 0 || totalShares < 0 {
			t.Skip()
		}
		amountA, amountB, err := amm.WithdrawAmountsForShares(
			math.NewInt(shares), math.NewInt(reserveA), math.NewInt(reserveB), math.NewInt(totalShares))
		if err != nil {
			return
		}
		if amountA.GT(math.NewInt(reserveA)) || amountB.GT(math.NewInt(reserveB)) {
			t.Fatalf("redemption %s/%s exceeds reserves %d/%d", amountA, amountB, reserveA, reserveB)
		}
		if amountA.IsNegative() || amountB.IsNegative() {
			t.Fatalf("negative redemption %s/%s", amountA, amountB)
		}
	})
}
