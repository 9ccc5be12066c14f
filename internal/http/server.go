// Package http provides the HTTP API server, its router and shared middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/allisson/kaurna/internal/auth/http"
	authService "github.com/allisson/kaurna/internal/auth/service"
	"github.com/allisson/kaurna/internal/config"
	"github.com/allisson/kaurna/internal/metrics"
	secretsHTTP "github.com/allisson/kaurna/internal/secrets/http"
)

// ReadinessChecker reports whether the record store can serve requests.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP API server.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	logger    *slog.Logger
	readiness ReadinessChecker
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	readiness ReadinessChecker,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger:    logger,
		readiness: readiness,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin engine: global middleware, health endpoints and the
// authenticated /v1 secret routes. ctx bounds background work started by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	secretHandler *secretsHTTP.SecretHandler,
	tokenService authService.TokenService,
	meterProvider metric.MeterProvider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsEnabled && meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(tokenService, cfg.AuthTokenHash, s.logger))
	if cfg.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	secrets := v1.Group("/secrets")
	{
		secrets.GET("", secretHandler.DescribeHandler)
		secrets.POST("/:name", secretHandler.StoreHandler)
		secrets.GET("/:name", secretHandler.GetHandler)
		secrets.DELETE("/:name", secretHandler.EraseHandler)
		secrets.POST("/:name/rotate", secretHandler.RotateHandler)
		secrets.PUT("/:name/authorized-entities", secretHandler.UpdateAuthorizedEntitiesHandler)
		secrets.POST("/:name/deprecate", secretHandler.DeprecateHandler)
		secrets.POST("/:name/activate", secretHandler.ActivateHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness without touching dependencies.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the record store is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.readiness == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"record_store": "error"},
		})
		return
	}

	if err := s.readiness.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"record_store": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"record_store": "ok"},
	})
}
