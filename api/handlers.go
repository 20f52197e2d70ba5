package api

import (
	"fmt"
	"net/http"

	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"
)

// parseAmount converts a decimal string from a request into a math.Int,
// answering 400 itself when the field does not parse.
func parseAmount(c *gin.Context, field, value string) (math.Int, bool) {
	amount, ok := math.NewIntFromString(value)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid " + field,
			Details: fmt.Sprintf("%q is not an integer amount", value),
		})
		return math.Int{}, false
	}
	return amount, true
}

// handleGetPool returns the pool snapshot
func (s *Server) handleGetPool(c *gin.Context) {
	c.JSON(http.StatusOK, poolResponse(s.pool.Status()))
}

// handleGetPrice returns the marginal price for selling the given denom
func (s *Server) handleGetPrice(c *gin.Context) {
	denomA, denomB := s.pool.Denoms()

	denomIn := c.DefaultQuery("denom", denomA)
	price, err := s.pool.GetSpotPrice(denomIn)
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	denomOut := denomB
	if denomIn == denomB {
		denomOut = denomA
	}

	c.JSON(http.StatusOK, gin.H{
		"denom_in":  denomIn,
		"denom_out": denomOut,
		"price":     price.String(),
	})
}

// handleGetInvariants re-checks the pool's accounting identities
func (s *Server) handleGetInvariants(c *gin.Context) {
	if err := s.pool.CheckInvariants(c.Request.Context()); err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}

// handleGetPosition returns a provider's share position
func (s *Server) handleGetPosition(c *gin.Context) {
	party := c.Param("party")
	shares := s.pool.SharesOf(party)

	redeemA, redeemB := math.ZeroInt(), math.ZeroInt()
	if shares.IsPositive() {
		var err error
		redeemA, redeemB, err = s.pool.CalculateWithdrawAmount(shares)
		if err != nil {
			status, resp := statusFromError(err)
			c.JSON(status, resp)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"party":        party,
		"shares":       shares.String(),
		"redeemable_a": redeemA.String(),
		"redeemable_b": redeemB.String(),
	})
}

// handleQuoteDeposit returns the matching amount of the other asset
func (s *Server) handleQuoteDeposit(c *gin.Context) {
	var req QuoteDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	denomA, denomB := s.pool.Denoms()
	var (
		matched    math.Int
		matchDenom string
		err        error
	)
	switch req.Denom {
	case denomA:
		matched, err = s.pool.CalculateTokenBDeposit(amount)
		matchDenom = denomB
	case denomB:
		matched, err = s.pool.CalculateTokenADeposit(amount)
		matchDenom = denomA
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid denom",
			Details: fmt.Sprintf("%q is not in the pool", req.Denom),
		})
		return
	}
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"denom_in":     req.Denom,
		"amount_in":    amount.String(),
		"denom_match":  matchDenom,
		"amount_match": matched.String(),
	})
}

// handleQuoteSwap prices a swap against the current reserves
func (s *Server) handleQuoteSwap(c *gin.Context) {
	var req QuoteSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	denomA, denomB := s.pool.Denoms()
	var (
		out      math.Int
		denomOut string
		err      error
	)
	switch req.DenomIn {
	case denomA:
		out, err = s.pool.CalculateTokenBSwap(amount)
		denomOut = denomB
	case denomB:
		out, err = s.pool.CalculateTokenASwap(amount)
		denomOut = denomA
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid denom",
			Details: fmt.Sprintf("%q is not in the pool", req.DenomIn),
		})
		return
	}
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"denom_in":   req.DenomIn,
		"amount_in":  amount.String(),
		"denom_out":  denomOut,
		"amount_out": out.String(),
	})
}

// handleQuoteWithdraw previews a share redemption
func (s *Server) handleQuoteWithdraw(c *gin.Context) {
	var req QuoteWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	shares, ok := parseAmount(c, "shares", req.Shares)
	if !ok {
		return
	}

	amountA, amountB, err := s.pool.CalculateWithdrawAmount(shares)
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shares":   shares.String(),
		"amount_a": amountA.String(),
		"amount_b": amountB.String(),
	})
}

// handleAddLiquidity deposits both assets and mints shares
func (s *Server) handleAddLiquidity(c *gin.Context) {
	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	amountA, ok := parseAmount(c, "amount A", req.AmountA)
	if !ok {
		return
	}
	amountB, ok := parseAmount(c, "amount B", req.AmountB)
	if !ok {
		return
	}

	minted, err := s.pool.AddLiquidity(c.Request.Context(), req.Provider, amountA, amountB)
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"provider": req.Provider,
		"amount_a": amountA.String(),
		"amount_b": amountB.String(),
		"shares":   minted.String(),
		"message":  "Liquidity added successfully",
	})
}

// handleRemoveLiquidity burns shares and pays out both assets
func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	shares, ok := parseAmount(c, "shares", req.Shares)
	if !ok {
		return
	}

	amountA, amountB, err := s.pool.RemoveLiquidity(c.Request.Context(), req.Provider, shares)
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"provider":   req.Provider,
		"shares":     shares.String(),
		"received_a": amountA.String(),
		"received_b": amountB.String(),
		"message":    "Liquidity removed successfully",
	})
}

// handleSwap executes a swap
func (s *Server) handleSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	denomA, denomB := s.pool.Denoms()
	var (
		out      math.Int
		denomOut string
		err      error
	)
	switch req.DenomIn {
	case denomA:
		out, err = s.pool.SwapTokenA(c.Request.Context(), req.Trader, amount)
		denomOut = denomB
	case denomB:
		out, err = s.pool.SwapTokenB(c.Request.Context(), req.Trader, amount)
		denomOut = denomA
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid denom",
			Details: fmt.Sprintf("%q is not in the pool", req.DenomIn),
		})
		return
	}
	if err != nil {
		status, resp := statusFromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"trader":     req.Trader,
		"denom_in":   req.DenomIn,
		"amount_in":  amount.String(),
		"denom_out":  denomOut,
		"amount_out": out.String(),
	})
}
