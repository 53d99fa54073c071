// Package server exposes the simulator over HTTP: a JSON API, an embedded
// launch page and Prometheus metrics.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	Addr    string
	Workers int
}

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *slog.Logger
	metrics    *serverMetrics
	workers    int
}

// New builds the router. static may be nil, in which case only the API is
// served.
func New(cfg Config, logger *slog.Logger, static fs.FS) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: newServerMetrics(reg),
		workers: cfg.Workers,
	}

	s.router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", metricsHandler(reg)).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/simulate", s.simulate).Methods(http.MethodPost)
	api.HandleFunc("/sweep", s.sweep).Methods(http.MethodPost)
	api.HandleFunc("/presets", s.listPresets).Methods(http.MethodGet)
	api.HandleFunc("/presets/{model}/{name}", s.getPreset).Methods(http.MethodGet)

	if static != nil {
		s.router.PathPrefix("/").Handler(http.FileServerFS(static)).Methods(http.MethodGet)
	}

	s.router.Use(s.metrics.middleware, loggingMiddleware(logger))

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func quietPath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if quietPath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "server",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
