// Package amm implements a single two-asset constant-product liquidity pool.
//
// The pool prices swaps off the invariant k = reserveA * reserveB, issues
// fungible ownership shares at 10^18 precision for liquidity deposits, and
// moves assets exclusively through an external BankKeeper. Every mutating
// operation is atomic: transfers run first and internal state commits only
// after all legs succeed, so a failure never leaves partial state behind.
package amm

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
)

// PoolConfig wires a Pool to its collaborators. Bank, DenomA and DenomB are
// required; everything else has a working default.
type PoolConfig struct {
	// DenomA and DenomB name the asset pair. They must differ.
	DenomA string
	DenomB string

	// Account is the pool's identity in the bank; reserves live under it.
	// Defaults to DefaultPoolAccount.
	Account string

	Bank    BankKeeper
	Hooks   PoolHooks  // optional
	Logger  log.Logger // optional, defaults to a nop logger
	Metrics *Metrics   // optional
	Params  Params     // zero value means DefaultParams

	// Clock stamps swap records; defaults to time.Now in UTC.
	Clock func() time.Time
}

// Pool is a two-asset constant-product market with share-based liquidity
// accounting. All methods are safe for concurrent use: mutating operations
// hold an exclusive lock across validation, bank transfers and the state
// commit, while read-only queries share a lock and observe consistent
// snapshots.
type Pool struct {
	mu sync.RWMutex

	denomA  string
	denomB  string
	account string

	ledger      reserveLedger
	totalShares math.Int
	positions   map[string]math.Int
	sequence    uint64

	params  Params
	bank    BankKeeper
	hooks   PoolHooks
	logger  log.Logger
	metrics *Metrics
	clock   func() time.Time
}

// NewPool validates cfg and returns an empty pool.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Bank == nil {
		return nil, fmt.Errorf("bank keeper is required")
	}
	if cfg.DenomA == "" || cfg.DenomB == "" {
		return nil, fmt.Errorf("both pool denoms are required")
	}
	if cfg.DenomA == cfg.DenomB {
		return nil, fmt.Errorf("pool denoms must differ, got %q twice", cfg.DenomA)
	}

	account := cfg.Account
	if account == "" {
		account = DefaultPoolAccount
	}

	params := cfg.Params
	if params.RatioToleranceDivisor.IsNil() && params.SeedShares.IsNil() {
		params = DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool params: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	return &Pool{
		denomA:      cfg.DenomA,
		denomB:      cfg.DenomB,
		account:     account,
		ledger:      newReserveLedger(),
		totalShares: math.ZeroInt(),
		positions:   make(map[string]math.Int),
		params:      params,
		bank:        cfg.Bank,
		hooks:       cfg.Hooks,
		logger:      logger.With("module", ModuleName),
		metrics:     cfg.Metrics,
		clock:       clock,
	}, nil
}

// Denoms returns the pool's asset pair in (A, B) order.
func (p *Pool) Denoms() (string, string) {
	return p.denomA, p.denomB
}

// Account returns the pool's bank identity.
func (p *Pool) Account() string {
	return p.account
}

// Params returns the pool's parameters.
func (p *Pool) Params() Params {
	return p.params
}

// Reserves returns a consistent snapshot of both reserves.
func (p *Pool) Reserves() (math.Int, math.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.reserveA, p.ledger.reserveB
}

// ConstantProduct returns the cached invariant k = reserveA * reserveB.
func (p *Pool) ConstantProduct() math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.constantProduct
}

// TotalShares returns the shares outstanding across all providers.
func (p *Pool) TotalShares() math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalShares
}

// SharesOf returns the share balance of party; unknown parties read as zero.
func (p *Pool) SharesOf(party string) math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sharesOfLocked(party)
}

// PoolStatus is a point-in-time snapshot of the whole pool.
type PoolStatus struct {
	DenomA          string
	DenomB          string
	ReserveA        math.Int
	ReserveB        math.Int
	ConstantProduct math.Int
	TotalShares     math.Int
	Providers       int
	Swaps           uint64
	Initialized     bool
}

// Status returns a consistent snapshot of the pool for reporting surfaces.
func (p *Pool) Status() PoolStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PoolStatus{
		DenomA:          p.denomA,
		DenomB:          p.denomB,
		ReserveA:        p.ledger.reserveA,
		ReserveB:        p.ledger.reserveB,
		ConstantProduct: p.ledger.constantProduct,
		TotalShares:     p.totalShares,
		Providers:       len(p.positions),
		Swaps:           p.sequence,
		Initialized:     !p.totalShares.IsZero(),
	}
}

// sharesOfLocked reads a position; callers hold at least the read lock.
func (p *Pool) sharesOfLocked(party string) math.Int {
	if shares, ok := p.positions[party]; ok {
		return shares
	}
	return math.ZeroInt()
}

// validateAmount rejects nil, negative and zero quantities.
func validateAmount(amount math.Int) error {
	if amount.IsNil() {
		return ErrInvalidAmount.Wrap("amount is not set")
	}
	if amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("amount cannot be negative: %s", amount)
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// validateParty rejects empty identifiers and the pool's own account.
func validateParty(party, poolAccount string) error {
	if party == "" {
		return ErrInvalidParty.Wrap("empty party identifier")
	}
	if party == poolAccount {
		return ErrInvalidParty.Wrapf("%q is the pool account", party)
	}
	return nil
}
