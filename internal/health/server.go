// Package health provides a lightweight HTTP server for container health checks,
// Prometheus metrics and the latest ranked opportunities.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/publisher"
	"github.com/yourusername/sports-edge/internal/service"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// ResultReader exposes the most recent scan result.
type ResultReader interface {
	Latest() (*service.StoredResult, bool)
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// OpportunitiesResponse is the JSON body of the /opportunities endpoint.
type OpportunitiesResponse struct {
	publisher.Snapshot
	CacheStale bool `json:"cache_stale"`
}

// Server is a lightweight HTTP server for health check endpoints.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        string
	server      *http.Server
	logger      *logrus.Logger
	db          DatabasePinger
	redis       DatabasePinger
	metrics     http.Handler
	metricsPath string
	results     ResultReader
	ready       atomic.Bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Redis       DatabasePinger
	Metrics     http.Handler
	MetricsPath string
	Results     ResultReader
}

// NewServer creates a new health check server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}

	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	return &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		logger:      cfg.Logger,
		db:          cfg.DB,
		redis:       cfg.Redis,
		metrics:     cfg.Metrics,
		metricsPath: metricsPath,
		results:     cfg.Results,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	r.Get("/opportunities", s.handleOpportunities)
	if s.metrics != nil {
		r.Method(http.MethodGet, s.metricsPath, s.metrics)
	}

	return r
}

// Start starts the health check server in the background.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"port":    s.port,
				"service": s.serviceName,
			}).Info("Health check server starting")
		}

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("Health check server error")
			}
		}
	}()

	// Wait for context cancellation
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the health check server. Repeated calls return the first result.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.shutdownOnce.Do(func() {
		if s.logger != nil {
			s.logger.Info("Health check server shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.shutdownErr = s.server.Shutdown(ctx)
	})
	return s.shutdownErr
}

// dependencyTimeout bounds each readiness ping
const dependencyTimeout = 3 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.serviceName})
}

// handleReady reports 503 until SetReady(true) and while any configured
// dependency fails its ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": "ok"}
	healthy := s.IsReady()
	if !healthy {
		checks["service"] = "not_ready"
	}

	deps := map[string]DatabasePinger{"database": s.db, "redis": s.redis}
	for name, dep := range deps {
		if dep == nil {
			continue
		}
		if err := ping(r.Context(), dep); err != nil {
			healthy = false
			checks[name] = fmt.Sprintf("error: %v", err)
			continue
		}
		checks[name] = "ok"
	}

	response := ReadyResponse{
		Status:   "ok",
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	code := http.StatusOK
	if !healthy {
		response.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

// handleOpportunities serves the latest ranked list, optionally filtered by
// the sport and min_edge query parameters.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	var stored *service.StoredResult
	ok := false
	if s.results != nil {
		stored, ok = s.results.Latest()
	}
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "no_scan_completed", Service: s.serviceName})
		return
	}

	minEdge := 0.0
	if raw := r.URL.Query().Get("min_edge"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, HealthResponse{Status: "invalid min_edge", Service: s.serviceName})
			return
		}
		minEdge = parsed
	}

	result := stored.Result
	opps := result.Filter(r.URL.Query().Get("sport"), minEdge)

	writeJSON(w, http.StatusOK, OpportunitiesResponse{
		Snapshot:   publisher.NewSnapshot(result.RunID.String(), opps, stored.StoredAt),
		CacheStale: result.CacheStale,
	})
}

func ping(ctx context.Context, dep DatabasePinger) error {
	ctx, cancel := context.WithTimeout(ctx, dependencyTimeout)
	defer cancel()
	return dep.Ping(ctx)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
