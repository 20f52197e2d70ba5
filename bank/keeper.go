// Package bank provides an in-memory multi-asset balance book. It is the
// transfer collaborator behind the pool: reserves, provider funds and trader
// funds all live here, keyed by opaque account identifiers.
package bank

import (
	"context"
	"sync"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
)

// ModuleName is the error codespace.
const ModuleName = "bank"

// Bank sentinel errors
var (
	ErrInvalidCoins      = errors.Register(ModuleName, 1, "invalid coin amount")
	ErrInsufficientFunds = errors.Register(ModuleName, 2, "insufficient funds")
	ErrInvalidAddress    = errors.Register(ModuleName, 3, "invalid address")
	ErrInvalidDenom      = errors.Register(ModuleName, 4, "invalid denomination")
)

// Keeper is an in-memory balance book. All methods are safe for concurrent
// use; each call takes the keeper lock once, so a transfer either fully
// succeeds or moves nothing.
type Keeper struct {
	mu       sync.RWMutex
	balances map[string]map[string]math.Int // denom -> account -> balance
	logger   log.Logger
}

// NewKeeper returns an empty balance book. A nil logger is replaced with a
// nop logger.
func NewKeeper(logger log.Logger) *Keeper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Keeper{
		balances: make(map[string]map[string]math.Int),
		logger:   logger.With("module", ModuleName),
	}
}

// MintCoins credits amount of denom to addr, creating new supply. Zero
// amounts are a no-op.
func (k *Keeper) MintCoins(ctx context.Context, addr, denom string, amount math.Int) error {
	if err := validateMovement(addr, denom, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.credit(addr, denom, amount)

	k.logger.Debug("minted coins", "address", addr, "denom", denom, "amount", amount.String())
	return nil
}

// BurnCoins debits amount of denom from addr, destroying supply. Zero
// amounts are a no-op.
func (k *Keeper) BurnCoins(ctx context.Context, addr, denom string, amount math.Int) error {
	if err := validateMovement(addr, denom, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.debit(addr, denom, amount); err != nil {
		return err
	}

	k.logger.Debug("burned coins", "address", addr, "denom", denom, "amount", amount.String())
	return nil
}

// SendCoins moves amount of denom from one account to another. Zero amounts
// are a no-op; an underfunded sender fails the transfer with nothing moved.
func (k *Keeper) SendCoins(ctx context.Context, fromAddr, toAddr, denom string, amount math.Int) error {
	if err := validateMovement(fromAddr, denom, amount); err != nil {
		return err
	}
	if toAddr == "" {
		return ErrInvalidAddress.Wrap("empty recipient address")
	}
	if amount.IsZero() {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.debit(fromAddr, denom, amount); err != nil {
		return err
	}
	k.credit(toAddr, denom, amount)
	return nil
}

// GetBalance reports addr's balance in denom. Unknown accounts and denoms
// read as zero.
func (k *Keeper) GetBalance(ctx context.Context, addr, denom string) math.Int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if accounts, ok := k.balances[denom]; ok {
		if balance, ok := accounts[addr]; ok {
			return balance
		}
	}
	return math.ZeroInt()
}

// TotalSupply sums every balance of denom.
func (k *Keeper) TotalSupply(ctx context.Context, denom string) math.Int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	total := math.ZeroInt()
	for _, balance := range k.balances[denom] {
		total = total.Add(balance)
	}
	return total
}

// credit adds to a balance; callers hold the write lock.
func (k *Keeper) credit(addr, denom string, amount math.Int) {
	accounts, ok := k.balances[denom]
	if !ok {
		accounts = make(map[string]math.Int)
		k.balances[denom] = accounts
	}
	current, ok := accounts[addr]
	if !ok {
		current = math.ZeroInt()
	}
	accounts[addr] = current.Add(amount)
}

// debit removes from a balance; callers hold the write lock. Accounts drained
// to zero are deleted.
func (k *Keeper) debit(addr, denom string, amount math.Int) error {
	accounts := k.balances[denom]
	current, ok := accounts[addr]
	if !ok {
		current = math.ZeroInt()
	}
	if current.LT(amount) {
		return ErrInsufficientFunds.Wrapf("%s holds %s%s, needs %s", addr, current, denom, amount)
	}
	next := current.Sub(amount)
	if next.IsZero() {
		delete(accounts, addr)
	} else {
		accounts[addr] = next
	}
	return nil
}

func validateMovement(addr, denom string, amount math.Int) error {
	if addr == "" {
		return ErrInvalidAddress.Wrap("empty address")
	}
	if denom == "" {
		return ErrInvalidDenom.Wrap("empty denomination")
	}
	if amount.IsNil() {
		return ErrInvalidCoins.Wrap("amount is not set")
	}
	if amount.IsNegative() {
		return ErrInvalidCoins.Wrapf("negative amount %s", amount)
	}
	return nil
}
