// Package api exposes the liquidity pool over HTTP.
package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/pttransamdriver/amm-master/amm"
	"github.com/pttransamdriver/amm-master/config"
)

const shutdownTimeout = 10 * time.Second

// Server represents the pool API server
type Server struct {
	router *gin.Engine
	pool   *amm.Pool
	cfg    config.Config
	logger log.Logger
}

// NewServer creates a new API server instance
func NewServer(pool *amm.Pool, cfg config.Config, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := &Server{
		pool:   pool,
		cfg:    cfg,
		logger: logger.With("module", "api"),
	}
	s.setupRouter()
	return s
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Global middleware - ORDER MATTERS!
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(s.CORSMiddleware())
	s.router.Use(RateLimitMiddleware(s.cfg.RateLimit))

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	s.registerRoutes()
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.cfg.ListenAddr,
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
