// Package mockserver is an in-memory stand-in for the analytics backend.
// It serves the six REST endpoints over a fixed set of listings and can be told
// to misbehave on the chat endpoint, so every client branch can be tried locally.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diogo/estate/internal/models"
)

// Options configures the chat endpoint's behaviour
type Options struct {
	// ChatStatus forces every chat answer to fail with this HTTP status; 0 answers normally
	ChatStatus int
	// ChatDelay is waited before answering a chat question
	ChatDelay time.Duration
	// ChatRaw makes the chat endpoint answer with a non-JSON body
	ChatRaw bool
	// Logger receives one line per request; nil uses slog.Default
	Logger *slog.Logger
}

// Server holds the analysed fixture table
type Server struct {
	opts   Options
	logger *slog.Logger

	mu         sync.RWMutex
	properties []models.Property
	params     models.AnalysisParams

	router *gin.Engine
}

// New creates a server whose table is analysed with the default parameters
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		params: models.DefaultAnalysisParams(),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.properties = analyse(s.params)

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "estate mock backend"})
	})

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/properties", s.handleProperties)
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/city-options", s.handleCityOptions)
		api.GET("/export", s.handleExport)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("mock server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// snapshot returns the current table
func (s *Server) snapshot() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.properties
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("mock request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
