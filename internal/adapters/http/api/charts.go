// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/pkg/logger"
	"github.com/okian/medaldash/pkg/metrics"
)

// ChartsHandler serves the pie, area and bar chart endpoints.
type ChartsHandler struct {
	deps   ChartDependencies
	logger logger.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies, l logger.Logger) *ChartsHandler {
	return &ChartsHandler{deps: deps, logger: l}
}

// HandlePie handles GET /api/charts/pie?country=NAME requests.
func (h *ChartsHandler) HandlePie(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pie"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing country")))
		return
	}
	view, err := h.deps.Pie(r.Context(), country)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleArea handles GET /api/charts/area?medal=KIND requests.
func (h *ChartsHandler) HandleArea(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_area"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kind, err := model.ParseMedalKind(r.URL.Query().Get("medal"))
	if err != nil {
		metrics.RecordAggregationError("area", "invalid_medal")
		writeError(w, http.StatusBadRequest, "invalid_medal", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Area(r.Context(), kind)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleBar handles GET /api/charts/bar?year=YYYY&medal=KIND requests.
func (h *ChartsHandler) HandleBar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_bar"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	year, err := strconv.Atoi(strings.TrimSpace(q.Get("year")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("year must be an integer")))
		return
	}
	kind, err := model.ParseMedalKind(q.Get("medal"))
	if err != nil {
		metrics.RecordAggregationError("bar", "invalid_medal")
		writeError(w, http.StatusBadRequest, "invalid_medal", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Bar(r.Context(), year, kind)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
