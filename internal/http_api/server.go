package http_api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/logger"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// HTTPServer is the HTTP server struct that will serve the API
type HTTPServer struct {
	// logger is the logger instance
	logger *logger.Logger

	// router is the HTTP router
	router *gin.Engine
	// port is the port on which the server will listen
	port int

	// server is the underlying HTTP server
	server *http.Server

	// vault answers every request
	vault models.VaultService
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(vault models.VaultService, port int, logger *logger.Logger) models.APIServer {
	return newHTTPServer(vault, port, logger)
}

func newHTTPServer(vault models.VaultService, port int, logger *logger.Logger) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// Add CORS middleware
	router.Use(corsMiddleware())

	server := &HTTPServer{
		router: router,
		port:   port,
		vault:  vault,
		logger: logger,
	}

	// Define routes
	server.routes()

	return server
}

// requestLogger logs every request through the application logger.
func requestLogger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Start starts the HTTP server
func (s *HTTPServer) Start() {
	addr := fmt.Sprintf("0.0.0.0:%v", s.port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "address", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("Failed to start the HTTP server", "error", err)
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server shut down successfully")
	return nil
}
