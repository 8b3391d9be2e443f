package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/session-clock/internal/dashboard"
)

//go:embed web
var webFS embed.FS

// Config holds HTTP listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MetricsPath  string // Empty disables /metrics
}

// StreamHandler serves the snapshot websocket and reports its client count.
type StreamHandler interface {
	http.Handler
	ClientCount() int
}

// Server is the HTTP front end.
type Server struct {
	cfg       Config
	dashboard *dashboard.Service
	feeds     dashboard.FeedSource
	stream    StreamHandler
	logger    *slog.Logger
	started   time.Time

	httpServer *http.Server
}

// New creates a server. feeds and stream may be nil.
func New(cfg Config, dash *dashboard.Service, feeds dashboard.FeedSource, stream StreamHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		dashboard: dash,
		feeds:     feeds,
		stream:    stream,
		logger:    logger,
		started:   time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(webFS, "web")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSession)
	mux.HandleFunc("GET /api/rates", s.handleRates)
	mux.HandleFunc("GET /api/price", s.handlePrice)
	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /clock.svg", s.handleClockSVG)
	mux.HandleFunc("GET /api/export/timetable.xlsx", s.handleExportXLSX)
	mux.HandleFunc("GET /api/export/timetable.pdf", s.handleExportPDF)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.stream != nil {
		mux.Handle("GET /ws", s.stream)
	}
	if s.cfg.MetricsPath != "" {
		mux.Handle("GET "+s.cfg.MetricsPath, promhttp.Handler())
	}

	return logRequests(s.logger, mux)
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. A clean shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
