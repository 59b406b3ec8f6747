package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/geo"
	"github.com/airiq/mockfeed/internal/sim"
	"github.com/airiq/mockfeed/pkg/config"
)

// Server exposes the read-only map API consumed by the demo front end,
// plus the regenerate control endpoint.
type Server struct {
	config    *config.HTTPConfig
	simulator *sim.Simulator
	landIndex *geo.Index // optional
	logger    *zap.Logger
	httpSrv   *http.Server
}

// NewServer creates the map API server. landIndex may be nil when no
// boundary file is configured; the outlines endpoint then returns 404.
func NewServer(cfg *config.HTTPConfig, simulator *sim.Simulator, landIndex *geo.Index, logger *zap.Logger) *Server {
	s := &Server{
		config:    cfg,
		simulator: simulator,
		landIndex: landIndex,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/map/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/map/markers/projected", s.handleProjected)
	mux.HandleFunc("GET /api/map/outlines", s.handleOutlines)
	mux.HandleFunc("GET /api/map/viewport", s.handleViewport)
	mux.HandleFunc("GET /api/regions/summary", s.handleSummary)
	mux.HandleFunc("POST /api/sim/regenerate", s.handleRegenerate)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop shuts the HTTP server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the mux for tests
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
