package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

// ForecastService produces the day-by-day report for a ZIP code.
type ForecastService interface {
	Forecast(ctx context.Context, zip string, profile domain.Profile) (domain.Report, error)
}

// Server exposes the forecast API plus health, readiness, and metrics routes.
type Server struct {
	httpServer     *http.Server
	svc            ForecastService
	defaultProfile domain.Profile
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewServer creates an HTTP server with the forecast endpoint and the
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, svc ForecastService, defaultProfile domain.Profile, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:            svc,
		defaultProfile: defaultProfile,
		logger:         logger,
		metrics:        metrics,
	}

	mux.HandleFunc("GET /api/v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	logger := s.logger.With("request_id", requestID)

	zip := r.URL.Query().Get("zip")
	if !validZip(zip) {
		s.metrics.ForecastRequests.WithLabelValues("invalid").Inc()
		logger.Warn("rejected forecast request", "zip", zip)
		writeJSON(w, http.StatusBadRequest, domain.NewErrorReport("zip must be a 5-digit US ZIP code"))
		return
	}

	profile := s.defaultProfile
	if name := r.URL.Query().Get("profile"); name != "" {
		p, ok := domain.ProfileByName(name)
		if !ok {
			s.metrics.ForecastRequests.WithLabelValues("invalid").Inc()
			logger.Warn("rejected forecast request", "zip", zip, "profile", name)
			writeJSON(w, http.StatusBadRequest, domain.NewErrorReport(fmt.Sprintf("unknown district profile %q", name)))
			return
		}
		profile = p
	}

	report, err := s.svc.Forecast(r.Context(), zip, profile)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrZipNotFound) {
			status = http.StatusNotFound
		}
		logger.Error("forecast failed", "zip", zip, "status", status, "error", err)
		writeJSON(w, status, report)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// validZip accepts exactly five ASCII digits.
func validZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for _, r := range zip {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort JSON response
}
