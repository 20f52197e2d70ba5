package amm

import (
	"context"
	"time"

	"cosmossdk.io/math"
)

// CalculateSwapOutput prices a swap of amountIn against the given reserves,
// holding the constant product fixed:
//
//	amountOut = reserveOut - floor(constantProduct / (reserveIn + amountIn))
//
// A result equal to the whole output reserve is decremented by one so a swap
// can never empty the pool; a quote the reserve cannot cover fails with
// ErrPoolDrainage. Pure function, usable for offline quoting.
func CalculateSwapOutput(amountIn, reserveIn, reserveOut, constantProduct math.Int) (math.Int, error) {
	if err := validateAmount(amountIn); err != nil {
		return math.Int{}, err
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, ErrPoolNotInitialized.Wrapf("cannot quote against reserves %s/%s", reserveIn, reserveOut)
	}

	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("input reserve %s + %s: %v", reserveIn, amountIn, err)
	}
	quotient := constantProduct.Quo(newReserveIn)

	amountOut, err := SafeSub(reserveOut, quotient)
	if err != nil {
		return math.Int{}, ErrPoolDrainage.Wrapf("constant product %s implies payout beyond the %s reserve", constantProduct, reserveOut)
	}
	// Never pay out the entire output reserve.
	if amountOut.Equal(reserveOut) {
		amountOut = amountOut.SubRaw(1)
	}
	if amountOut.GTE(reserveOut) {
		return math.Int{}, ErrPoolDrainage.Wrapf("swap of %s would drain the %s reserve", amountIn, reserveOut)
	}
	return amountOut, nil
}

// SwapTokenA sells amountA of token A to the pool and returns the token B
// paid out.
func (p *Pool) SwapTokenA(ctx context.Context, trader string, amountA math.Int) (math.Int, error) {
	return p.executeSwap(ctx, trader, p.denomA, p.denomB, amountA)
}

// SwapTokenB sells amountB of token B to the pool and returns the token A
// paid out.
func (p *Pool) SwapTokenB(ctx context.Context, trader string, amountB math.Int) (math.Int, error) {
	return p.executeSwap(ctx, trader, p.denomB, p.denomA, amountB)
}

// executeSwap quotes, moves both legs and commits the new reserves. The input
// leg runs first; a failed payout refunds it. Post-commit the swap record is
// handed to the hooks.
func (p *Pool) executeSwap(ctx context.Context, trader, denomIn, denomOut string, amountIn math.Int) (math.Int, error) {
	if err := validateParty(trader, p.account); err != nil {
		return math.Int{}, err
	}
	if err := validateAmount(amountIn); err != nil {
		return math.Int{}, err
	}
	start := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	reserveIn, reserveOut := p.ledger.reserveA, p.ledger.reserveB
	if denomIn == p.denomB {
		reserveIn, reserveOut = reserveOut, reserveIn
	}

	amountOut, err := CalculateSwapOutput(amountIn, reserveIn, reserveOut, p.ledger.constantProduct)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordSwapFailure(denomIn, resultRejected)
		}
		return math.Int{}, err
	}

	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("input reserve %s + %s: %v", reserveIn, amountIn, err)
	}
	newReserveOut, err := SafeSub(reserveOut, amountOut)
	if err != nil {
		return math.Int{}, ErrInvalidPoolState.Wrapf("output reserve underflow: %v", err)
	}
	newReserveA, newReserveB := newReserveIn, newReserveOut
	if denomIn == p.denomB {
		newReserveA, newReserveB = newReserveOut, newReserveIn
	}
	commit, err := stageReserves(newReserveA, newReserveB)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordSwapFailure(denomIn, resultRejected)
		}
		return math.Int{}, err
	}

	// Input leg first, then the payout; a failed payout refunds the input.
	if err := p.bank.SendCoins(ctx, trader, p.account, denomIn, amountIn); err != nil {
		if p.metrics != nil {
			p.metrics.RecordSwapFailure(denomIn, resultTransferFailed)
		}
		return math.Int{}, ErrTransferFailed.Wrapf("swap input of %s%s: %v", amountIn, denomIn, err)
	}
	if err := p.bank.SendCoins(ctx, p.account, trader, denomOut, amountOut); err != nil {
		if refundErr := p.bank.SendCoins(ctx, p.account, trader, denomIn, amountIn); refundErr != nil {
			p.logger.Error("failed to refund swap input after payout failure",
				"trader", trader,
				"amount_in", amountIn.String(),
				"denom_in", denomIn,
				"original_error", err,
				"refund_error", refundErr)
		}
		if p.metrics != nil {
			p.metrics.RecordSwapFailure(denomIn, resultTransferFailed)
		}
		return math.Int{}, ErrTransferFailed.Wrapf("swap payout of %s%s: %v", amountOut, denomOut, err)
	}

	p.ledger.apply(commit)
	p.sequence++

	record := SwapRecord{
		Sequence:  p.sequence,
		Trader:    trader,
		DenomIn:   denomIn,
		AmountIn:  amountIn,
		DenomOut:  denomOut,
		AmountOut: amountOut,
		ReserveA:  commit.reserveA,
		ReserveB:  commit.reserveB,
		Timestamp: p.clock(),
	}

	p.logger.Info("swap executed",
		"sequence", record.Sequence,
		"trader", trader,
		"amount_in", amountIn.String(),
		"denom_in", denomIn,
		"amount_out", amountOut.String(),
		"denom_out", denomOut,
		"reserve_a", commit.reserveA.String(),
		"reserve_b", commit.reserveB.String())
	if p.metrics != nil {
		p.metrics.RecordSwap(denomIn, denomOut, amountIn, amountOut, time.Since(start))
		p.metrics.SetPoolState(p.denomA, p.denomB, commit.reserveA, commit.reserveB, p.totalShares)
	}
	if p.hooks != nil {
		if hookErr := p.hooks.AfterSwap(ctx, record); hookErr != nil {
			p.logger.Error("swap hook failed", "sequence", record.Sequence, "error", hookErr)
		}
	}
	return amountOut, nil
}

// CalculateTokenBSwap quotes the token B paid out for selling amountA of
// token A, without executing.
func (p *Pool) CalculateTokenBSwap(amountA math.Int) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return CalculateSwapOutput(amountA, p.ledger.reserveA, p.ledger.reserveB, p.ledger.constantProduct)
}

// CalculateTokenASwap quotes the token A paid out for selling amountB of
// token B, without executing.
func (p *Pool) CalculateTokenASwap(amountB math.Int) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return CalculateSwapOutput(amountB, p.ledger.reserveB, p.ledger.reserveA, p.ledger.constantProduct)
}

// GetSpotPrice returns the marginal price of denomIn in units of the other
// asset, ignoring trade size.
func (p *Pool) GetSpotPrice(denomIn string) (math.LegacyDec, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var reserveIn, reserveOut math.Int
	switch denomIn {
	case p.denomA:
		reserveIn, reserveOut = p.ledger.reserveA, p.ledger.reserveB
	case p.denomB:
		reserveIn, reserveOut = p.ledger.reserveB, p.ledger.reserveA
	default:
		return math.LegacyDec{}, ErrInvalidTokenDenom.Wrapf("%q is not in the pool", denomIn)
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.LegacyDec{}, ErrPoolNotInitialized.Wrap("spot price undefined for empty reserves")
	}
	return math.LegacyNewDecFromInt(reserveOut).Quo(math.LegacyNewDecFromInt(reserveIn)), nil
}
