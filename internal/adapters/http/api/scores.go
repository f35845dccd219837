// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/hacksprint/arena/internal/domain/scoring"
)

// ScoresHandler handles judge scoring requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

type scoreRequest struct {
	TeamID  string           `json:"team_id"`
	JudgeID string           `json:"judge_id"`
	Scores  scoring.Criteria `json:"scores"`
	Notes   string           `json:"notes"`
}

// HandleSubmit handles POST /scores requests. Out-of-range criteria are
// clamped to [0,25], not rejected.
func (h *ScoresHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	score, err := h.deps.SubmitScore(r.Context(), req.TeamID, req.JudgeID, req.Scores, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, score)
}

// HandleAggregate handles GET /teams/{id}/score requests.
func (h *ScoresHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	agg, err := h.deps.TeamScore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// HandleHistory handles GET /teams/{id}/scores requests, returning the
// full retained submission history for audit.
func (h *ScoresHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	scores, err := h.deps.ScoreHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
