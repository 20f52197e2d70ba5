package amm

import (
	"fmt"

	"cosmossdk.io/math"
)

const (
	// ModuleName is the error codespace and the metrics namespace.
	ModuleName = "amm"

	// DefaultPoolAccount is the bank identity holding the reserves when the
	// pool is constructed without an explicit account.
	DefaultPoolAccount = "amm_pool"
)

var (
	// Precision is the fixed-point scale for liquidity shares (10^18).
	Precision = math.NewIntWithDecimal(1, 18)

	// DefaultSeedShares is minted to the depositor who initializes an empty
	// pool: 100 whole shares at Precision scale.
	DefaultSeedShares = math.NewIntWithDecimal(100, 18)

	// DefaultRatioToleranceDivisor coarsens the deposit ratio check.
	DefaultRatioToleranceDivisor = math.NewInt(1000)
)

// Params holds the tunable pool parameters.
type Params struct {
	// RatioToleranceDivisor sets the granularity at which the two share
	// figures implied by a deposit must agree: both are integer-divided by
	// this value before comparison.
	RatioToleranceDivisor math.Int

	// SeedShares is the share amount minted whenever a deposit lands on a
	// pool with zero shares outstanding.
	SeedShares math.Int
}

// DefaultParams returns the default pool parameters.
func DefaultParams() Params {
	return Params{
		RatioToleranceDivisor: DefaultRatioToleranceDivisor,
		SeedShares:            DefaultSeedShares,
	}
}

// Validate validates the set of params.
func (p Params) Validate() error {
	if p.RatioToleranceDivisor.IsNil() {
		return fmt.Errorf("ratio tolerance divisor is not set")
	}
	if !p.RatioToleranceDivisor.IsPositive() {
		return fmt.Errorf("ratio tolerance divisor must be positive, got %s", p.RatioToleranceDivisor)
	}
	if p.SeedShares.IsNil() {
		return fmt.Errorf("seed shares is not set")
	}
	if !p.SeedShares.IsPositive() {
		return fmt.Errorf("seed shares must be positive, got %s", p.SeedShares)
	}
	return nil
}
