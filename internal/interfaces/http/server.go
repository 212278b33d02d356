// Package http provides the HTTP adapter for the reconciliation services.
// This is a thin layer that translates requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/service"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/report"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the server exposes
type Services struct {
	Payments    service.PaymentService
	Cheques     service.ChequeService
	Wallet      service.WalletMatcherService
	Outstanding service.OutstandingService
	Daybook     service.DaybookService
	Banks       service.BankService
	Exporter    *report.AgeingExporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Payments
		api.POST("/payments", handlers.RecordPayment)
		api.GET("/payments/partial", handlers.ListPartialPayments)
		api.GET("/payments/:voucher_number", handlers.GetPayment)

		// Cheques
		api.POST("/cheques", handlers.CreateCheque)
		api.GET("/cheques/:id", handlers.GetCheque)
		api.PUT("/cheques/:id/date", handlers.UpdateChequeDate)
		api.POST("/cheques/:id/retry-sync", handlers.RetryChequeSync)
		api.POST("/cheques/:id/links", handlers.LinkChequeToBill)

		// Wallet transactions
		api.POST("/wallet/transactions", handlers.IngestWalletTransaction)
		api.GET("/wallet/transactions/unmatched", handlers.ListUnmatchedWalletTransactions)
		api.POST("/wallet/transactions/:id/link", handlers.LinkWalletTransaction)

		// Outstanding
		api.POST("/outstanding/sync", handlers.SyncOutstanding)
		api.GET("/outstanding", handlers.ListOutstanding)
		api.GET("/outstanding/ageing", handlers.AgeingSummary)
		api.GET("/outstanding/ageing/export", handlers.ExportAgeing)

		// Daybook
		api.GET("/daybook", handlers.Daybook)

		// Banks
		api.POST("/banks", handlers.CreateBank)
		api.GET("/banks", handlers.ListBanks)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
