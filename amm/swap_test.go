package amm_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/pttransamdriver/amm-master/amm"
)

func TestSwapTokenA_Valid(t *testing.T) {
	pool, bk := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)
	bobA := bk.GetBalance(ctx, bob, denomA)
	bobB := bk.GetBalance(ctx, bob, denomB)

	// k = 1_000_000; 1_000_000/1100 = 909, payout 1000-909 = 91.
	out, err := pool.SwapTokenA(ctx, bob, math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(91), out)

	reserveA, reserveB := pool.Reserves()
	require.Equal(t, math.NewInt(1100), reserveA)
	require.Equal(t, math.NewInt(909), reserveB)
	// The product is recomputed from the committed reserves.
	require.Equal(t, math.NewInt(999_900), pool.ConstantProduct())

	require.Equal(t, bobA.SubRaw(100), bk.GetBalance(ctx, bob, denomA))
	require.Equal(t, bobB.AddRaw(91), bk.GetBalance(ctx, bob, denomB))
	require.NoError(t, pool.CheckInvariants(ctx))
}

func TestSwapTokenB_Mirror(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)

	out, err := pool.SwapTokenB(ctx, bob, math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(91), out)

	reserveA, reserveB := pool.Reserves()
	require.Equal(t, math.NewInt(909), reserveA)
	require.Equal(t, math.NewInt(1100), reserveB)
	require.NoError(t, pool.CheckInvariants(ctx))
}

func TestSwap_SequentialPricingDrift(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)

	out, err := pool.SwapTokenA(ctx, bob, math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(91), out)

	// Second swap prices against the recomputed product 999_900:
	// 999_900/1200 = 833, payout 909-833 = 76.
	out, err = pool.SwapTokenA(ctx, bob, math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(76), out)

	reserveA, reserveB := pool.Reserves()
	require.Equal(t, math.NewInt(1200), reserveA)
	require.Equal(t, math.NewInt(833), reserveB)
	require.Equal(t, math.NewInt(999_600), pool.ConstantProduct())
	require.NoError(t, pool.CheckInvariants(ctx))
}

func TestSwap_QuoteMatchesExecution(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 2000)

	quoted, err := pool.CalculateTokenBSwap(math.NewInt(137))
	require.NoError(t, err)

	out, err := pool.SwapTokenA(ctx, bob, math.NewInt(137))
	require.NoError(t, err)
	require.Equal(t, quoted, out)

	// And the other direction against the post-swap state.
	quoted, err = pool.CalculateTokenASwap(math.NewInt(512))
	require.NoError(t, err)

	out, err = pool.SwapTokenB(ctx, bob, math.NewInt(512))
	require.NoError(t, err)
	require.Equal(t, quoted, out)
}

func TestSwap_QuoteDoesNotMutate(t *testing.T) {
	pool, _ := newTestPool(t)

	seedPool(t, pool, 1000, 2000)
	before := pool.Status()

	_, err := pool.CalculateTokenBSwap(math.NewInt(100))
	require.NoError(t, err)
	_, err = pool.CalculateTokenASwap(math.NewInt(100))
	require.NoError(t, err)

	require.Equal(t, before, pool.Status())
}

func TestSwap_HugeInputLeavesOneUnit(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)

	// 1_000_000/1_001_000 floors to 0, so the raw payout equals the whole
	// reserve and the guard decrements it.
	out, err := pool.SwapTokenA(ctx, bob, math.NewInt(1_000_000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(999), out)

	reserveA, reserveB := pool.Reserves()
	require.Equal(t, math.NewInt(1_001_000), reserveA)
	require.Equal(t, math.NewInt(1), reserveB)
	require.NoError(t, pool.CheckInvariants(ctx))
}

func TestSwap_AgainstOneUnitReserveYieldsZero(t *testing.T) {
	pool, bk := newTestPool(t)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)
	_, err := pool.SwapTokenA(ctx, bob, math.NewInt(1_000_000))
	require.NoError(t, err)

	bobB := bk.GetBalance(ctx, bob, denomB)

	// The guard clamps the payout to reserveOut-1 = 0. The input is still
	// absorbed into the pool.
	out, err := pool.SwapTokenA(ctx, bob, math.NewInt(1000))
	require.NoError(t, err)
	require.True(t, out.IsZero())

	_, reserveB := pool.Reserves()
	require.Equal(t, math.NewInt(1), reserveB)
	require.Equal(t, bobB, bk.GetBalance(ctx, bob, denomB))
	require.NoError(t, pool.CheckInvariants(ctx))
}

func TestSwap_Uninitialized(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()

	_, err := pool.SwapTokenA(ctx, bob, math.NewInt(100))
	require.Error(t, err)
	require.True(t, amm.ErrPoolNotInitialized.Is(err))

	_, err = pool.CalculateTokenASwap(math.NewInt(100))
	require.True(t, amm.ErrPoolNotInitialized.Is(err))
}

func TestSwap_RecordsSequenceAndReserves(t *testing.T) {
	hooks := &recordingHooks{}
	pool, _ := newTestPoolWithHooks(t, hooks)
	ctx := context.Background()

	seedPool(t, pool, 1000, 1000)

	_, err := pool.SwapTokenA(ctx, bob, math.NewInt(100))
	require.NoError(t, err)
	_, err = pool.SwapTokenB(ctx, carol, math.NewInt(50))
	require.NoError(t, err)

	records := hooks.swapRecords()
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	require.Equal(t, uint64(1), first.Sequence)
	require.Equal(t, bob, first.Trader)
	require.Equal(t, denomA, first.DenomIn)
	require.Equal(t, denomB, first.DenomOut)
	require.Equal(t, math.NewInt(100), first.AmountIn)
	require.Equal(t, math.NewInt(91), first.AmountOut)
	require.Equal(t, math.NewInt(1100), first.ReserveA)
	require.Equal(t, math.NewInt(909), first.ReserveB)

	require.Equal(t, uint64(2), second.Sequence)
	require.Equal(t, carol, second.Trader)
	require.Equal(t, denomB, second.DenomIn)

	// The record reserves match the committed ledger.
	reserveA, reserveB := pool.Reserves()
	require.Equal(t, reserveA, second.ReserveA)
	require.Equal(t, reserveB, second.ReserveB)
}

func TestSwap_PayoutFailureRefundsInput(t *testing.T) {
	pool, bk := newTestPool(t)
	ctx := context.Background()
	seedPool(t, pool, 1000, 1000)

	failing := &failingBank{
		BankKeeper: bk,
		failOn: func(from, to, denom string) bool {
			return to == bob && denom == denomB
		},
	}
	pool2, err := amm.NewPool(amm.PoolConfig{DenomA: denomA, DenomB: denomB, Bank: failing})
	require.NoError(t, err)
	_, err = pool2.AddLiquidity(ctx, alice, math.NewInt(1000), math.NewInt(1000))
	require.NoError(t, err)

	bobA := bk.GetBalance(ctx, bob, denomA)
	bobB := bk.GetBalance(ctx, bob, denomB)
	before := pool2.Status()

	_, err = pool2.SwapTokenA(ctx, bob, math.NewInt(100))
	require.Error(t, err)
	require.True(t, amm.ErrTransferFailed.Is(err))

	// Input came back, no commit happened.
	require.Equal(t, bobA, bk.GetBalance(ctx, bob, denomA))
	require.Equal(t, bobB, bk.GetBalance(ctx, bob, denomB))
	require.Equal(t, before, pool2.Status())
	require.NoError(t, pool2.CheckInvariants(ctx))
}

func TestSwap_InputFailureMovesNothing(t *testing.T) {
	pool, bk := newTestPool(t)
	ctx := context.Background()
	seedPool(t, pool, 1000, 1000)

	failing := &failingBank{
		BankKeeper: bk,
		failOn: func(from, to, denom string) bool {
			return from == bob && denom == denomA
		},
	}
	pool2, err := amm.NewPool(amm.PoolConfig{DenomA: denomA, DenomB: denomB, Bank: failing})
	require.NoError(t, err)
	_, err = pool2.AddLiquidity(ctx, alice, math.NewInt(1000), math.NewInt(1000))
	require.NoError(t, err)

	poolA := bk.GetBalance(ctx, pool2.Account(), denomA)
	before := pool2.Status()

	_, err = pool2.SwapTokenA(ctx, bob, math.NewInt(100))
	require.Error(t, err)
	require.True(t, amm.ErrTransferFailed.Is(err))

	require.Equal(t, poolA, bk.GetBalance(ctx, pool2.Account(), denomA))
	require.Equal(t, before, pool2.Status())
}

func TestCalculateSwapOutput_Direct(t *testing.T) {
	out, err := amm.CalculateSwapOutput(
		math.NewInt(100), math.NewInt(1000), math.NewInt(1000), math.NewInt(1_000_000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(91), out)

	// An inflated product implies a payout past the reserve.
	_, err = amm.CalculateSwapOutput(
		math.NewInt(5), math.NewInt(10), math.NewInt(10), math.NewInt(1000))
	require.Error(t, err)
	require.True(t, amm.ErrPoolDrainage.Is(err))

	// Empty reserves cannot be quoted against.
	_, err = amm.CalculateSwapOutput(
		math.NewInt(5), math.ZeroInt(), math.NewInt(10), math.NewInt(0))
	require.True(t, amm.ErrPoolNotInitialized.Is(err))

	// Input validation runs first.
	_, err = amm.CalculateSwapOutput(
		math.ZeroInt(), math.NewInt(1000), math.NewInt(1000), math.NewInt(1_000_000))
	require.True(t, amm.ErrZeroAmount.Is(err))
	_, err = amm.CalculateSwapOutput(
		math.NewInt(-5), math.NewInt(1000), math.NewInt(1000), math.NewInt(1_000_000))
	require.True(t, amm.ErrInvalidAmount.Is(err))
}
