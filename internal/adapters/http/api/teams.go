// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hacksprint/arena/internal/domain/model"
)

// TeamsHandler handles team lifecycle requests.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

type registerRequest struct {
	Name    string         `json:"name"`
	Members []model.Member `json:"members"`
}

// HandleRegister handles POST /teams requests.
func (h *TeamsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.RegisterTeam(r.Context(), req.Name, req.Members)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// HandleList handles GET /teams requests.
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Teams(r.Context()))
}

// HandleGet handles GET /teams/{id} requests.
func (h *TeamsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	team, err := h.deps.Team(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

type paymentRequest struct {
	Tier   string `json:"tier"`
	Method string `json:"method"`
}

// HandlePayment handles POST /teams/{id}/payment requests. Repeating a
// confirmed payment is a no-op returning the current record.
func (h *TeamsHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.ConfirmPayment(r.Context(), r.PathValue("id"), req.Tier, req.Method)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

type repoRequest struct {
	URL string `json:"url"`
}

// HandleSetRepo handles PUT /teams/{id}/repo requests.
func (h *TeamsHandler) HandleSetRepo(w http.ResponseWriter, r *http.Request) {
	var req repoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.SubmitRepoURL(r.Context(), r.PathValue("id"), req.URL)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

type selectionRequest struct {
	ProblemID string `json:"problem_id"`
}

// HandleSelect handles PUT /teams/{id}/selection requests.
func (h *TeamsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.SelectProblem(r.Context(), r.PathValue("id"), req.ProblemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

type commitsResponse struct {
	Commits  []model.CommitRecord `json:"commits"`
	SyncedAt time.Time            `json:"synced_at,omitzero"`
}

// HandlePoll handles POST /teams/{id}/poll requests, refreshing the
// commit snapshot on demand.
func (h *TeamsHandler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	commits, err := h.deps.PollRepo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_, syncedAt, _ := h.deps.CommitLog(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, commitsResponse{Commits: commits, SyncedAt: syncedAt})
}

// HandleCommits handles GET /teams/{id}/commits requests, serving the
// last-known snapshot without contacting the upstream.
func (h *TeamsHandler) HandleCommits(w http.ResponseWriter, r *http.Request) {
	commits, syncedAt, err := h.deps.CommitLog(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commitsResponse{Commits: commits, SyncedAt: syncedAt})
}
