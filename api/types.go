package api

import (
	"fmt"
	"net/http"

	sdkerrors "cosmossdk.io/errors"

	"github.com/pttransamdriver/amm-master/amm"
)

// ==================== Request Types ====================

// AddLiquidityRequest deposits both pool assets at the pool ratio.
type AddLiquidityRequest struct {
	Provider string `json:"provider" binding:"required"`
	AmountA  string `json:"amount_a" binding:"required"`
	AmountB  string `json:"amount_b" binding:"required"`
}

// RemoveLiquidityRequest redeems pool shares.
type RemoveLiquidityRequest struct {
	Provider string `json:"provider" binding:"required"`
	Shares   string `json:"shares" binding:"required"`
}

// SwapRequest sells amount of denom_in to the pool.
type SwapRequest struct {
	Trader  string `json:"trader" binding:"required"`
	DenomIn string `json:"denom_in" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// QuoteSwapRequest prices a swap without executing it.
type QuoteSwapRequest struct {
	DenomIn string `json:"denom_in" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// QuoteDepositRequest asks for the matching amount of the other asset.
type QuoteDepositRequest struct {
	Denom  string `json:"denom" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// QuoteWithdrawRequest previews a share redemption.
type QuoteWithdrawRequest struct {
	Shares string `json:"shares" binding:"required"`
}

// ==================== Response Types ====================

// PoolResponse is the public pool snapshot. Amounts are decimal strings.
type PoolResponse struct {
	DenomA          string `json:"denom_a"`
	DenomB          string `json:"denom_b"`
	ReserveA        string `json:"reserve_a"`
	ReserveB        string `json:"reserve_b"`
	ConstantProduct string `json:"constant_product"`
	TotalShares     string `json:"total_shares"`
	Providers       int    `json:"providers"`
	Swaps           uint64 `json:"swaps"`
	Initialized     bool   `json:"initialized"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func poolResponse(status amm.PoolStatus) PoolResponse {
	return PoolResponse{
		DenomA:          status.DenomA,
		DenomB:          status.DenomB,
		ReserveA:        status.ReserveA.String(),
		ReserveB:        status.ReserveB.String(),
		ConstantProduct: status.ConstantProduct.String(),
		TotalShares:     status.TotalShares.String(),
		Providers:       status.Providers,
		Swaps:           status.Swaps,
		Initialized:     status.Initialized,
	}
}

// statusFromError maps pool errors onto HTTP statuses: validation failures
// are 400, state conflicts 409, anything unexpected 500.
func statusFromError(err error) (int, ErrorResponse) {
	status := http.StatusInternalServerError
	switch {
	case amm.ErrInvalidAmount.Is(err),
		amm.ErrZeroAmount.Is(err),
		amm.ErrInvalidParty.Is(err),
		amm.ErrInvalidTokenDenom.Is(err),
		amm.ErrRatioMismatch.Is(err),
		amm.ErrDepositTooSmall.Is(err):
		status = http.StatusBadRequest
	case amm.ErrPoolNotInitialized.Is(err),
		amm.ErrPoolDrainage.Is(err),
		amm.ErrInsufficientPoolShares.Is(err),
		amm.ErrInsufficientOwnedShares.Is(err),
		amm.ErrTransferFailed.Is(err):
		status = http.StatusConflict
	}

	codespace, code, log := sdkerrors.ABCIInfo(err, false)
	resp := ErrorResponse{Error: log}
	if codespace != "" {
		resp.Code = fmt.Sprintf("%s:%d", codespace, code)
	}
	return status, resp
}
