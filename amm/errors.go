package amm

import (
	"cosmossdk.io/errors"
)

// Pool sentinel errors
var (
	ErrInvalidAmount           = errors.Register(ModuleName, 1, "invalid amount")
	ErrZeroAmount              = errors.Register(ModuleName, 2, "amount cannot be zero")
	ErrTransferFailed          = errors.Register(ModuleName, 3, "asset transfer failed")
	ErrRatioMismatch           = errors.Register(ModuleName, 4, "deposit does not match pool ratio")
	ErrPoolDrainage            = errors.Register(ModuleName, 5, "swap would drain pool reserve")
	ErrInsufficientPoolShares  = errors.Register(ModuleName, 6, "withdrawal exceeds total pool shares")
	ErrInsufficientOwnedShares = errors.Register(ModuleName, 7, "withdrawal exceeds owned shares")
	ErrOverflow                = errors.Register(ModuleName, 8, "arithmetic overflow")
	ErrPoolNotInitialized      = errors.Register(ModuleName, 9, "pool has no liquidity")
	ErrDepositTooSmall         = errors.Register(ModuleName, 10, "deposit too small to mint shares")
	ErrInvalidPoolState        = errors.Register(ModuleName, 11, "invalid pool state")
	ErrInvalidParty            = errors.Register(ModuleName, 12, "invalid party identifier")
	ErrInvalidTokenDenom       = errors.Register(ModuleName, 13, "invalid token denomination")
)
