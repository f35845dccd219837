// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// ProblemsHandler serves the problem-statement catalog.
type ProblemsHandler struct {
	deps Dependencies
}

// NewProblemsHandler creates a new problems handler.
func NewProblemsHandler(deps Dependencies) *ProblemsHandler {
	return &ProblemsHandler{deps: deps}
}

// HandleList handles GET /problems requests.
func (h *ProblemsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Problems(r.Context()))
}
