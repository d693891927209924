// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/medaldash/internal/app"
	"github.com/okian/medaldash/internal/domain/chart"
	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/internal/domain/types"
	"github.com/okian/medaldash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	OptionsDependencies
	ChartDependencies
}

// OptionsDependencies exposes the filter domains.
type OptionsDependencies interface {
	Options(ctx context.Context) (types.FilterOptions, error)
}

// ChartDependencies exposes the three chart queries.
type ChartDependencies interface {
	Pie(ctx context.Context, country string) (chart.View, error)
	Area(ctx context.Context, kind model.MedalKind) (chart.View, error)
	Bar(ctx context.Context, year int, kind model.MedalKind) (chart.View, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	optionsHandler   *OptionsHandler
	chartsHandler    *ChartsHandler
	dashboardHandler *dashboardHandler
	rootHandler      *RootHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverSettings)

type serverSettings struct {
	logger logger.Logger
}

// WithLogger sets the logger used by handlers to report failures.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *serverSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	var set serverSettings
	for _, opt := range opts {
		opt(&set)
	}
	if set.logger == nil {
		set.logger = logger.Named("api")
	}

	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		optionsHandler:   NewOptionsHandler(deps, set.logger),
		chartsHandler:    NewChartsHandler(deps, set.logger),
		dashboardHandler: newDashboardHandler(),
		rootHandler:      NewRootHandler("/dashboard"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.optionsHandler.HandleGetOptions, "options"))
	mux.HandleFunc("/api/charts/pie", MetricsMiddleware(s.chartsHandler.HandlePie, "pie"))
	mux.HandleFunc("/api/charts/area", MetricsMiddleware(s.chartsHandler.HandleArea, "area"))
	mux.HandleFunc("/api/charts/bar", MetricsMiddleware(s.chartsHandler.HandleBar, "bar"))
	mux.HandleFunc("/", s.rootHandler.HandleRoot)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps errors returned by Dependencies to a status and code.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidMedalKind):
		writeError(w, http.StatusBadRequest, "invalid_medal", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
	default:
		l.Error(ctx, "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
