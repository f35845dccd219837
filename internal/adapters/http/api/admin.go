// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/hacksprint/arena/internal/domain/model"
)

// AdminHandler handles privileged competition-control requests.
type AdminHandler struct {
	adm AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adm AdminDependencies) *AdminHandler {
	return &AdminHandler{adm: adm}
}

type sprintRequest struct {
	Hours int `json:"hours"`
}

// HandleStartSprint handles POST /admin/sprint requests. Starting an
// already-active sprint with the same duration is a no-op.
func (h *AdminHandler) HandleStartSprint(w http.ResponseWriter, r *http.Request) {
	var req sprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	event, err := h.adm.StartSprint(r.Context(), req.Hours)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// HandleStopSprint handles DELETE /admin/sprint requests.
func (h *AdminHandler) HandleStopSprint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.adm.StopSprint(r.Context()))
}

// HandleEvent handles GET /admin/event requests.
func (h *AdminHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.adm.Event(r.Context()))
}

type registrationRequest struct {
	Open bool `json:"open"`
}

// HandleRegistration handles PUT /admin/registration requests.
func (h *AdminHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, h.adm.SetRegistrationOpen(r.Context(), req.Open))
}

// HandleForceLock handles POST /admin/teams/{id}/lock requests.
func (h *AdminHandler) HandleForceLock(w http.ResponseWriter, r *http.Request) {
	team, err := h.adm.ForceLock(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleForceUnlock handles POST /admin/teams/{id}/unlock requests. The
// team's selection window restarts from the moment of the unlock.
func (h *AdminHandler) HandleForceUnlock(w http.ResponseWriter, r *http.Request) {
	team, err := h.adm.ForceUnlock(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleClearScores handles DELETE /admin/teams/{id}/scores requests.
func (h *AdminHandler) HandleClearScores(w http.ResponseWriter, r *http.Request) {
	h.adm.ClearScores(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// HandleResetTeam handles DELETE /admin/teams/{id} requests, removing
// the team together with its scores and commit snapshot.
func (h *AdminHandler) HandleResetTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.adm.ResetTeam(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAppendProblem handles POST /admin/problems requests.
func (h *AdminHandler) HandleAppendProblem(w http.ResponseWriter, r *http.Request) {
	var p model.ProblemStatement
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.adm.AppendProblem(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
