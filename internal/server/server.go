// Package server exposes the analysis core over a REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anupamdhas/artha/internal/app"
	"github.com/anupamdhas/artha/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Holdings analysis
	mux.HandleFunc("/api/holdings/analyze", s.handleHoldingsAnalyze)

	// Reference data
	mux.HandleFunc("/api/sectors", s.handleSectors)
	mux.HandleFunc("/api/asset-classes", s.handleAssetClasses)
	mux.HandleFunc("/api/tickers", s.handleTickers)
	mux.HandleFunc("/api/reference/reload", s.handleReferenceReload)

	// Optimization
	mux.HandleFunc("/api/optimize", s.handleOptimize)
	mux.HandleFunc("/api/optimize/chart", s.handleOptimizeChart)
}
