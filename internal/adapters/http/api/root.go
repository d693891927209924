// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// RootHandler sends visitors of / to the dashboard.
type RootHandler struct {
	target string
}

// NewRootHandler creates a root handler redirecting to target.
func NewRootHandler(target string) *RootHandler {
	return &RootHandler{target: target}
}

// HandleRoot handles GET / requests. Any other unmatched path is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, h.target, http.StatusFound)
}
