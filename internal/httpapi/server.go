// Package httpapi serves the background and upscaling tools over HTTP.
//
// Every tool route accepts a multipart form whose "file" field carries an
// image, and answers with the resulting PNG as an attachment:
//
//	POST /api/ai/remove-background       backgroundType, backgroundColor
//	POST /api/ai/transparent-background  transparencyLevel
//	POST /api/ai/ai-upscale              upscaleFactor
//	POST /api/ai/detect-background       tolerance (answers JSON)
//	GET  /api/health
//
// Uploads and results are staged in the configured work directory and
// removed once the response is written. A cron-driven sweeper deletes
// anything left behind.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/image-bgtools/internal/config"
	"github.com/ironsheep/image-bgtools/internal/logging"
	"github.com/ironsheep/image-bgtools/internal/segment"
	"github.com/ironsheep/image-bgtools/internal/upscale"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of the tools.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	version   string
	started   time.Time
	segmenter *segment.Segmenter
	upscaler  *upscale.Upscaler
	engine    *gin.Engine
}

// New builds a Server. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		started:   time.Now(),
		segmenter: segment.New(logger),
		upscaler:  upscale.New(logger),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router. It is safe for concurrent use.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), s.requestLogger())

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)

	ai := api.Group("/ai")
	ai.POST("/remove-background", s.handleRemoveBackground)
	ai.POST("/transparent-background", s.handleTransparentBackground)
	ai.POST("/ai-upscale", s.handleUpscale)
	ai.POST("/detect-background", s.handleDetectBackground)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Run serves on cfg.HTTPAddr and runs the sweeper until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.WorkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	sweeper, err := s.StartSweeper()
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr, "work_dir", s.cfg.WorkDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
