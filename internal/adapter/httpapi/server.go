// Package httpapi exposes the seasonality engine over HTTP along with
// health and metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

// SeasonalityRunner executes one seasonality computation per request.
type SeasonalityRunner interface {
	Run(ctx context.Context, req seasonality.RunRequest) (*seasonality.RunResult, error)
}

// Server exposes the seasonality, health, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	runner     SeasonalityRunner
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewServer creates an HTTP server with /api/seasonality, /healthz, and
// /metrics routes.
func NewServer(addr string, runner SeasonalityRunner, logger *slog.Logger) *Server {
	s := &Server{
		runner:   runner,
		logger:   logger,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/seasonality", s.handleSeasonality)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

// seasonalityRequest is the JSON body of POST /api/seasonality.
type seasonalityRequest struct {
	MetricCol       string           `json:"metric_col" validate:"required"`
	Rows            []map[string]any `json:"rows" validate:"required,min=1"`
	MunicipalityCol string           `json:"municipality_col"`
	YearMonthCol    string           `json:"year_month_col"`
	TrendHatCol     string           `json:"trend_hat_col"`
	OutRoot         string           `json:"out_root"`
}

func (s *Server) handleSeasonality(w http.ResponseWriter, r *http.Request) {
	var req seasonalityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), seasonality.RunRequest{
		Table:           seasonality.TableFromRecords(req.Rows),
		MetricCol:       req.MetricCol,
		MunicipalityCol: req.MunicipalityCol,
		YearMonthCol:    req.YearMonthCol,
		TrendHatCol:     req.TrendHatCol,
		OutRoot:         req.OutRoot,
	})
	if err != nil {
		var missing *seasonality.MissingColumnError
		switch {
		case errors.As(err, &missing), errors.Is(err, seasonality.ErrNoSortKey):
			renderError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("seasonality run failed", "error", err)
			renderError(w, r, http.StatusInternalServerError, "seasonality run failed")
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
