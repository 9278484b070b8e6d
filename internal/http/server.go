package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/ynpsss/labrador/internal/auth/domain"
	authHTTP "github.com/ynpsss/labrador/internal/auth/http"
	authService "github.com/ynpsss/labrador/internal/auth/service"
	envelopeHTTP "github.com/ynpsss/labrador/internal/envelope/http"
	"github.com/ynpsss/labrador/internal/metrics"
)

// RouterConfig carries the dependencies and settings for the API router.
type RouterConfig struct {
	EnvelopeHandler *envelopeHTTP.EnvelopeHandler

	// Authentication and per-client rate limiting for /v1 routes.
	Clients        *authDomain.ClientSet
	SecretService  authService.SecretService
	RateLimitRPS   float64
	RateLimitBurst int

	// Optional HTTP metrics middleware.
	MetricsProvider *metrics.Provider
	Namespace       string

	// Optional CORS for browser-based callers.
	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server represents the API HTTP server.
type Server struct {
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
	readyFn func() bool
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine: recovery, request id, logging, optional
// CORS and metrics middleware, public health endpoints, and the
// authenticated /v1 envelope API.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.Namespace))
	}

	// Public endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Authenticated API
	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(cfg.Clients, cfg.SecretService, s.logger))
	if cfg.RateLimitRPS > 0 {
		v1.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	apps := v1.Group("/apps/:name")
	apps.POST("/messages/encrypt", cfg.EnvelopeHandler.EncryptMessageHandler)
	apps.POST("/messages/decrypt", cfg.EnvelopeHandler.DecryptMessageHandler)
	apps.POST("/data/encrypt", cfg.EnvelopeHandler.EncryptDataHandler)
	apps.POST("/data/decrypt", cfg.EnvelopeHandler.DecryptDataHandler)
	apps.POST("/aead/encrypt", cfg.EnvelopeHandler.EncryptAEADHandler)
	apps.POST("/aead/decrypt", cfg.EnvelopeHandler.DecryptAEADHandler)

	signatures := v1.Group("/signatures")
	signatures.POST("/rsa", cfg.EnvelopeHandler.SignRSAHandler)
	signatures.POST("/rsa/verify", cfg.EnvelopeHandler.VerifyRSAHandler)
	signatures.POST("/hmac", cfg.EnvelopeHandler.SignHMACHandler)

	s.readyFn = func() bool { return cfg.Clients != nil && cfg.EnvelopeHandler != nil }
	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve API traffic.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.router == nil || (s.readyFn != nil && !s.readyFn()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Start starts the HTTP server. SetupRouter must have been called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
