// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/medaldash/pkg/logger"
)

// OptionsHandler serves the dashboard filter domains.
type OptionsHandler struct {
	deps   OptionsDependencies
	logger logger.Logger
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies, l logger.Logger) *OptionsHandler {
	return &OptionsHandler{deps: deps, logger: l}
}

// HandleGetOptions handles GET /api/options requests.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
