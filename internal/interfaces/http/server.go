// Package http is the HTTP adapter over the storefront services: traveler
// intake, the catalog, accounts, carts, reservations and the chat assistant.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/intake"
	"github.com/reservat/storefront/internal/metrics"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/storefront"
)

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

// Services bundles everything the HTTP layer exposes.
type Services struct {
	Sessions     *intake.Manager
	PDF          *proposal.PDFExporter
	Excel        *proposal.ExcelExporter
	Catalog      *storefront.Catalog
	Auth         *storefront.Auth
	Cart         *storefront.Cart
	Reservations *storefront.Reservations
	Assistant    ChatService
	Metrics      *metrics.Metrics
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the given services
func NewServer(config ServerConfig, services Services, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		logger: logger,
	}

	router.Use(gin.Recovery())
	router.Use(server.loggingMiddleware())
	router.Use(corsMiddleware())

	server.setupRoutes(services)

	return server
}

// loggingMiddleware logs every request with latency and status.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("latency", time.Since(start).String()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware allows the browser storefront to call the API directly.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(services Services) {
	handlers := NewHandlers(services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	if services.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(services.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api/v1")
	{
		// Traveler intake
		api.POST("/intake", handlers.CreateSession)
		api.GET("/intake/options", handlers.FieldOptions)
		api.GET("/intake/:id", handlers.GetSession)
		api.PUT("/intake/:id/fields", handlers.SetField)
		api.PUT("/intake/:id/options", handlers.ToggleOption)
		api.POST("/intake/:id/submit", handlers.Submit)
		api.GET("/intake/:id/progress", handlers.Progress)
		api.GET("/intake/:id/proposal", handlers.GetProposal)
		api.GET("/intake/:id/proposal/pdf", handlers.DownloadProposalPDF)
		api.GET("/intake/:id/proposal/xlsx", handlers.DownloadProposalExcel)
		api.POST("/intake/:id/reset", handlers.ResetSession)

		// Catalog
		api.GET("/categories", handlers.ListCategories)
		api.GET("/services", handlers.ListServices)
		api.GET("/services/:id", handlers.GetService)

		// Accounts
		api.POST("/auth/register", handlers.Register)
		api.POST("/auth/login", handlers.Login)
		api.POST("/auth/logout", handlers.Logout)
		api.GET("/auth/me", handlers.CurrentUser)

		// Cart and reservations
		api.GET("/cart", handlers.GetCart)
		api.POST("/cart/items", handlers.AddCartItem)
		api.DELETE("/cart/items/:serviceId", handlers.RemoveCartItem)
		api.POST("/cart/checkout", handlers.Checkout)
		api.GET("/reservations", handlers.ListReservations)
		api.POST("/reservations/:id/cancel", handlers.CancelReservation)

		// Chat assistant
		api.GET("/chat/widget", handlers.ChatWidget)
		api.POST("/chat/messages", handlers.ChatMessage)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

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
		s.logger.Error("HTTP server error", zap.Error(err))
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
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
