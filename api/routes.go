package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// API version 1
	api := s.router.Group("/api/v1")
	{
		// Pool state routes (read only)
		pool := api.Group("/pool")
		{
			pool.GET("", s.handleGetPool)
			pool.GET("/price", s.handleGetPrice)
			pool.GET("/invariants", s.handleGetInvariants)
		}

		api.GET("/positions/:party", s.handleGetPosition)

		// Quote routes (read only, priced against current reserves)
		quotes := api.Group("/quotes")
		{
			quotes.POST("/deposit", s.handleQuoteDeposit)
			quotes.POST("/swap", s.handleQuoteSwap)
			quotes.POST("/withdraw", s.handleQuoteWithdraw)
		}

		// State-changing routes
		liquidity := api.Group("/liquidity")
		{
			liquidity.POST("/add", s.handleAddLiquidity)
			liquidity.POST("/remove", s.handleRemoveLiquidity)
		}
		api.POST("/swaps", s.handleSwap)
	}
}
