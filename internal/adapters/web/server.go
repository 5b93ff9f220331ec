package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/core"
)

// Server is the HTTP frontend: an upload form, an HTML results page and a JSON API
type Server struct {
	service    *core.AnalysisService
	logger     *zap.Logger
	cfg        config.ServerConfig
	httpServer *http.Server
}

// NewServer creates a new HTTP frontend
func NewServer(service *core.AnalysisService, logger *zap.Logger, cfg config.ServerConfig) *Server {
	return &Server{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// Handler returns the routed handler wrapped in the server middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze", s.handleAPIAnalyze)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return ChainMiddleware(mux,
		NewRecoverMiddleware(s.logger),
		NewRequestLogMiddleware(s.logger),
	)
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Scan analyzes an inbox export directly, bypassing HTTP
func (s *Server) Scan(ctx context.Context, format string, r io.Reader) (*core.AnalysisResult, error) {
	return s.service.Analyze(ctx, format, r)
}
