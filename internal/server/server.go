// Package server exposes the scan pipeline over a small HTTP JSON API
// consumed by the mobile app.
package server

import (
	"log/slog"
	"net/http"

	"github.com/pantrykeep/receipt-scan/internal/export"
	"github.com/pantrykeep/receipt-scan/internal/history"
	"github.com/pantrykeep/receipt-scan/internal/scan"
)

// Server handles HTTP requests for receipt scanning.
type Server struct {
	pipeline *scan.Pipeline
	scans    history.Repository // optional; nil disables recording
	exporter *export.Service    // optional; nil disables export
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Server. The history repository and exporter may be nil;
// the corresponding endpoints then answer 404.
func New(pipeline *scan.Pipeline, scans history.Repository, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pipeline: pipeline,
		scans:    scans,
		exporter: exporter,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/v1/scans", s.handleScans)
	s.mux.HandleFunc("/v1/scans/export", s.handleExport)
	s.mux.HandleFunc("/v1/credential", s.handleCredential)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

// Handler returns the root handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleScanUpload(w, r)
	case http.MethodGet:
		s.handleListScans(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
