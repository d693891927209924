// Package site serves the static assets of the dashboard page.
package site

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Prefix is the URL path the assets are mounted under.
const Prefix = "/assets/"

// Error constants
var (
	ErrAssetNotFound = errors.New("dashboard asset not found")
)

// Register attaches the asset routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(Prefix, NewAssetHandler())
}

// AssetHandler serves the embedded dashboard script and stylesheet.
type AssetHandler struct {
	files http.Handler
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler() *AssetHandler {
	return &AssetHandler{files: http.StripPrefix(Prefix, http.FileServer(FS()))}
}

// ServeHTTP handles GET /assets/{name} requests. Directory listings are not exposed.
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	h.files.ServeHTTP(w, r)
}
