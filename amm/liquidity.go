package amm

import (
	"context"

	"cosmossdk.io/math"
)

// sharesForDeposit returns the shares minted for depositing (amountA, amountB)
// into a pool holding (reserveA, reserveB) with totalShares outstanding.
//
// A pool with zero shares outstanding mints the fixed seed issuance no matter
// what amounts arrive; afterwards both deposit legs must imply the same share
// count once coarsened by the ratio tolerance divisor, and the token A figure
// is minted. Pure function; sign and zero validation happen at the operation
// boundary.
func sharesForDeposit(amountA, amountB, reserveA, reserveB, totalShares math.Int, params Params) (math.Int, error) {
	if totalShares.IsZero() {
		return params.SeedShares, nil
	}
	if !reserveA.IsPositive() || !reserveB.IsPositive() {
		return math.Int{}, ErrInvalidPoolState.Wrapf("%s shares outstanding against reserves %s/%s", totalShares, reserveA, reserveB)
	}

	sharesA, err := SafeMulDiv(totalShares, amountA, reserveA)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("shares for token A deposit %s: %v", amountA, err)
	}
	sharesB, err := SafeMulDiv(totalShares, amountB, reserveB)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("shares for token B deposit %s: %v", amountB, err)
	}

	if !sharesA.Quo(params.RatioToleranceDivisor).Equal(sharesB.Quo(params.RatioToleranceDivisor)) {
		return math.Int{}, ErrRatioMismatch.Wrapf("deposit implies %s shares by token A but %s by token B", sharesA, sharesB)
	}
	if sharesA.IsZero() {
		return math.Int{}, ErrDepositTooSmall.Wrapf("deposit %s/%s mints zero shares against %s outstanding", amountA, amountB, totalShares)
	}
	return sharesA, nil
}

// withdrawAmountsForShares returns the assets redeemed by burning shares
// against the current reserves. Floor division; rounding remainders stay in
// the pool.
func withdrawAmountsForShares(shares, reserveA, reserveB, totalShares math.Int) (math.Int, math.Int, error) {
	if totalShares.IsZero() {
		return math.Int{}, math.Int{}, ErrPoolNotInitialized.Wrap("no shares outstanding")
	}
	if shares.GT(totalShares) {
		return math.Int{}, math.Int{}, ErrInsufficientPoolShares.Wrapf("pool has %s shares, withdrawal asks %s", totalShares, shares)
	}

	amountA, err := SafeMulDiv(reserveA, shares, totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, ErrOverflow.Wrapf("token A redemption for %s shares: %v", shares, err)
	}
	amountB, err := SafeMulDiv(reserveB, shares, totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, ErrOverflow.Wrapf("token B redemption for %s shares: %v", shares, err)
	}
	return amountA, amountB, nil
}

// AddLiquidity deposits amountA and amountB from provider and mints liquidity
// shares for them. The first deposit into an empty pool (including a pool
// emptied by full withdrawal) mints the seed issuance regardless of the
// amounts; later deposits must match the pool ratio within the configured
// tolerance and mint proportionally.
//
// Both transfer legs run before any state changes; if the second leg fails
// the first is refunded and the pool is left untouched.
func (p *Pool) AddLiquidity(ctx context.Context, provider string, amountA, amountB math.Int) (math.Int, error) {
	if err := validateParty(provider, p.account); err != nil {
		return math.Int{}, err
	}
	if err := validateAmount(amountA); err != nil {
		return math.Int{}, err
	}
	if err := validateAmount(amountB); err != nil {
		return math.Int{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	seeding := p.totalShares.IsZero()
	minted, err := sharesForDeposit(amountA, amountB, p.ledger.reserveA, p.ledger.reserveB, p.totalShares, p.params)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordDeposit(resultRejected)
		}
		return math.Int{}, err
	}

	// Stage everything fallible before moving assets.
	newReserveA, err := SafeAdd(p.ledger.reserveA, amountA)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("reserve A %s + %s: %v", p.ledger.reserveA, amountA, err)
	}
	newReserveB, err := SafeAdd(p.ledger.reserveB, amountB)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("reserve B %s + %s: %v", p.ledger.reserveB, amountB, err)
	}
	commit, err := stageReserves(newReserveA, newReserveB)
	if err != nil {
		return math.Int{}, err
	}
	newTotal, err := SafeAdd(p.totalShares, minted)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("total shares %s + %s: %v", p.totalShares, minted, err)
	}

	// Pull both legs in, provider -> pool. Refund leg one if leg two fails.
	if err := p.bank.SendCoins(ctx, provider, p.account, p.denomA, amountA); err != nil {
		if p.metrics != nil {
			p.metrics.RecordDeposit(resultTransferFailed)
		}
		return math.Int{}, ErrTransferFailed.Wrapf("deposit of %s%s: %v", amountA, p.denomA, err)
	}
	if err := p.bank.SendCoins(ctx, provider, p.account, p.denomB, amountB); err != nil {
		if refundErr := p.bank.SendCoins(ctx, p.account, provider, p.denomA, amountA); refundErr != nil {
			p.logger.Error("failed to refund token A deposit after token B leg failed",
				"provider", provider,
				"amount", amountA.String(),
				"original_error", err,
				"refund_error", refundErr)
		}
		if p.metrics != nil {
			p.metrics.RecordDeposit(resultTransferFailed)
		}
		return math.Int{}, ErrTransferFailed.Wrapf("deposit of %s%s: %v", amountB, p.denomB, err)
	}

	p.ledger.apply(commit)
	p.totalShares = newTotal
	p.positions[provider] = p.sharesOfLocked(provider).Add(minted)

	p.logger.Info("liquidity added",
		"provider", provider,
		"amount_a", amountA.String(),
		"amount_b", amountB.String(),
		"shares", minted.String(),
		"total_shares", newTotal.String(),
		"seeded", seeding)
	if p.metrics != nil {
		p.metrics.RecordDeposit(resultExecuted)
		p.metrics.SetPoolState(p.denomA, p.denomB, commit.reserveA, commit.reserveB, newTotal)
	}
	if p.hooks != nil {
		if seeding {
			if hookErr := p.hooks.AfterPoolSeeded(ctx, provider, amountA, amountB, minted); hookErr != nil {
				p.logger.Error("pool seeded hook failed", "provider", provider, "error", hookErr)
			}
		}
		if hookErr := p.hooks.AfterLiquidityChanged(ctx, provider, amountA, amountB, minted, true); hookErr != nil {
			p.logger.Error("liquidity hook failed", "provider", provider, "error", hookErr)
		}
	}
	return minted, nil
}

// RemoveLiquidity burns shares owned by provider and pays out the
// proportional slice of both reserves. Floor division rounds in the pool's
// favor. Removing every outstanding share empties the pool; the next deposit
// then re-seeds it.
func (p *Pool) RemoveLiquidity(ctx context.Context, provider string, shares math.Int) (math.Int, math.Int, error) {
	if err := validateParty(provider, p.account); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := validateAmount(shares); err != nil {
		return math.Int{}, math.Int{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Pool-wide bound first, then ownership, so the two failure modes stay
	// distinguishable.
	amountA, amountB, err := withdrawAmountsForShares(shares, p.ledger.reserveA, p.ledger.reserveB, p.totalShares)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordWithdrawal(resultRejected)
		}
		return math.Int{}, math.Int{}, err
	}
	owned := p.sharesOfLocked(provider)
	if shares.GT(owned) {
		if p.metrics != nil {
			p.metrics.RecordWithdrawal(resultRejected)
		}
		return math.Int{}, math.Int{}, ErrInsufficientOwnedShares.Wrapf("have %s, need %s", owned, shares)
	}

	newReserveA, err := SafeSub(p.ledger.reserveA, amountA)
	if err != nil {
		return math.Int{}, math.Int{}, ErrInvalidPoolState.Wrapf("reserve A underflow: %v", err)
	}
	newReserveB, err := SafeSub(p.ledger.reserveB, amountB)
	if err != nil {
		return math.Int{}, math.Int{}, ErrInvalidPoolState.Wrapf("reserve B underflow: %v", err)
	}
	commit, err := stageReserves(newReserveA, newReserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	newTotal, err := SafeSub(p.totalShares, shares)
	if err != nil {
		return math.Int{}, math.Int{}, ErrInvalidPoolState.Wrapf("total shares underflow: %v", err)
	}
	newOwned, err := SafeSub(owned, shares)
	if err != nil {
		return math.Int{}, math.Int{}, ErrInvalidPoolState.Wrapf("position underflow: %v", err)
	}

	// Pay out, pool -> provider. Pull leg one back if leg two fails.
	if err := p.bank.SendCoins(ctx, p.account, provider, p.denomA, amountA); err != nil {
		if p.metrics != nil {
			p.metrics.RecordWithdrawal(resultTransferFailed)
		}
		return math.Int{}, math.Int{}, ErrTransferFailed.Wrapf("withdrawal of %s%s: %v", amountA, p.denomA, err)
	}
	if err := p.bank.SendCoins(ctx, p.account, provider, p.denomB, amountB); err != nil {
		if recoverErr := p.bank.SendCoins(ctx, provider, p.account, p.denomA, amountA); recoverErr != nil {
			p.logger.Error("failed to recover token A payout after token B leg failed",
				"provider", provider,
				"amount", amountA.String(),
				"original_error", err,
				"recover_error", recoverErr)
		}
		if p.metrics != nil {
			p.metrics.RecordWithdrawal(resultTransferFailed)
		}
		return math.Int{}, math.Int{}, ErrTransferFailed.Wrapf("withdrawal of %s%s: %v", amountB, p.denomB, err)
	}

	p.ledger.apply(commit)
	p.totalShares = newTotal
	if newOwned.IsZero() {
		delete(p.positions, provider)
	} else {
		p.positions[provider] = newOwned
	}

	p.logger.Info("liquidity removed",
		"provider", provider,
		"shares", shares.String(),
		"amount_a", amountA.String(),
		"amount_b", amountB.String(),
		"total_shares", newTotal.String())
	if p.metrics != nil {
		p.metrics.RecordWithdrawal(resultExecuted)
		p.metrics.SetPoolState(p.denomA, p.denomB, commit.reserveA, commit.reserveB, newTotal)
	}
	if p.hooks != nil {
		if hookErr := p.hooks.AfterLiquidityChanged(ctx, provider, amountA, amountB, shares, false); hookErr != nil {
			p.logger.Error("liquidity hook failed", "provider", provider, "error", hookErr)
		}
	}
	return amountA, amountB, nil
}

// matchingDeposit scales an amount of one asset into the other by the reserve
// ratio: amountOther = reserveOther * amount / reserveSame, floored.
func matchingDeposit(amount, reserveSame, reserveOther math.Int) (math.Int, error) {
	if !reserveSame.IsPositive() || !reserveOther.IsPositive() {
		return math.Int{}, ErrPoolNotInitialized.Wrap("deposit ratio undefined for empty reserves")
	}
	matched, err := SafeMulDiv(reserveOther, amount, reserveSame)
	if err != nil {
		return math.Int{}, ErrOverflow.Wrapf("matching deposit for %s: %v", amount, err)
	}
	return matched, nil
}

// CalculateTokenBDeposit returns the token B amount that matches a token A
// deposit of amountA at the current pool ratio.
func (p *Pool) CalculateTokenBDeposit(amountA math.Int) (math.Int, error) {
	if err := validateAmount(amountA); err != nil {
		return math.Int{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return matchingDeposit(amountA, p.ledger.reserveA, p.ledger.reserveB)
}

// CalculateTokenADeposit mirrors CalculateTokenBDeposit for a token B deposit.
func (p *Pool) CalculateTokenADeposit(amountB math.Int) (math.Int, error) {
	if err := validateAmount(amountB); err != nil {
		return math.Int{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return matchingDeposit(amountB, p.ledger.reserveB, p.ledger.reserveA)
}

// CalculateWithdrawAmount previews the assets a share burn would redeem
// against the current reserves. Only the pool-wide bound is checked here;
// ownership is enforced when the withdrawal executes.
func (p *Pool) CalculateWithdrawAmount(shares math.Int) (math.Int, math.Int, error) {
	if err := validateAmount(shares); err != nil {
		return math.Int{}, math.Int{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return withdrawAmountsForShares(shares, p.ledger.reserveA, p.ledger.reserveB, p.totalShares)
}
