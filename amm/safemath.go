package amm

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// Overflow-safe arithmetic for pool quantities. math.Int panics once a value
// passes 2^256; these helpers return errors instead so callers can reject an
// operation before any state or transfer is touched. Callers wrap the plain
// errors with the appropriate sentinel.

// maxPoolInt is the exclusive upper bound for any pool quantity (2^256).
var maxPoolInt = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

// SafeAdd adds two math.Int values with overflow checking.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(maxPoolInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow: addition result exceeds maximum value")
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts b from a with underflow checking.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("underflow: cannot subtract %s from %s", b.String(), a.String())
	}
	return math.NewIntFromBigInt(new(big.Int).Sub(a.BigInt(), b.BigInt())), nil
}

// SafeMul multiplies two math.Int values with overflow checking.
func SafeMul(a, b math.Int) (math.Int, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroInt(), nil
	}
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.Cmp(maxPoolInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow: multiplication result exceeds maximum value")
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeQuo divides a by b with division by zero checking. Floor division.
func SafeQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(a.BigInt(), b.BigInt())), nil
}

// SafeMulDiv performs (a * b) / c with overflow protection on the
// intermediate product. This is the workhorse for share and ratio math.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}
	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if intermediate.Cmp(maxPoolInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow in multiplication step")
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(intermediate, c.BigInt())), nil
}
