// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hacksprint/arena/internal/adapters/commits"
	"github.com/hacksprint/arena/internal/adapters/payment"
	"github.com/hacksprint/arena/internal/domain/admin"
	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/leaderboard"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/registry"
	"github.com/hacksprint/arena/internal/domain/scoring"
	"github.com/hacksprint/arena/internal/domain/selection"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	RegisterTeam(ctx context.Context, name string, members []model.Member) (model.Team, error)
	Team(ctx context.Context, teamID string) (model.Team, error)
	Teams(ctx context.Context) []model.Team
	ConfirmPayment(ctx context.Context, teamID, tier, method string) (model.Team, error)
	SubmitRepoURL(ctx context.Context, teamID, url string) (model.Team, error)
	SelectProblem(ctx context.Context, teamID, problemID string) (model.Team, error)
	PollRepo(ctx context.Context, teamID string) ([]model.CommitRecord, error)
	CommitLog(ctx context.Context, teamID string) ([]model.CommitRecord, time.Time, error)
	SubmitScore(ctx context.Context, teamID, judgeID string, c scoring.Criteria, notes string) (model.JudgeScore, error)
	TeamScore(ctx context.Context, teamID string) (scoring.Aggregate, error)
	ScoreHistory(ctx context.Context, teamID string) ([]model.JudgeScore, error)
	Leaderboard(ctx context.Context, limit int) []leaderboard.Row
	Problems(ctx context.Context) []model.ProblemStatement
}

// AdminDependencies is the privileged mutation surface.
type AdminDependencies interface {
	StartSprint(ctx context.Context, hours int) (model.CompetitionEvent, error)
	StopSprint(ctx context.Context) model.CompetitionEvent
	SetRegistrationOpen(ctx context.Context, open bool) model.CompetitionEvent
	Event(ctx context.Context) model.CompetitionEvent
	ForceLock(ctx context.Context, teamID string) (model.Team, error)
	ForceUnlock(ctx context.Context, teamID string) (model.Team, error)
	ClearScores(ctx context.Context, teamID string)
	ResetTeam(ctx context.Context, teamID string) error
	AppendProblem(ctx context.Context, p model.ProblemStatement) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	teamsHandler       *TeamsHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	problemsHandler    *ProblemsHandler
	adminHandler       *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, adm AdminDependencies, stats StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(stats),
		teamsHandler:       NewTeamsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		problemsHandler:    NewProblemsHandler(deps),
		adminHandler:       NewAdminHandler(adm),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /teams", MetricsMiddleware(s.teamsHandler.HandleRegister, "teams"))
	mux.HandleFunc("GET /teams", MetricsMiddleware(s.teamsHandler.HandleList, "teams"))
	mux.HandleFunc("GET /teams/{id}", MetricsMiddleware(s.teamsHandler.HandleGet, "team"))
	mux.HandleFunc("POST /teams/{id}/payment", MetricsMiddleware(s.teamsHandler.HandlePayment, "team_payment"))
	mux.HandleFunc("PUT /teams/{id}/repo", MetricsMiddleware(s.teamsHandler.HandleSetRepo, "team_repo"))
	mux.HandleFunc("PUT /teams/{id}/selection", MetricsMiddleware(s.teamsHandler.HandleSelect, "team_selection"))
	mux.HandleFunc("POST /teams/{id}/poll", MetricsMiddleware(s.teamsHandler.HandlePoll, "team_poll"))
	mux.HandleFunc("GET /teams/{id}/commits", MetricsMiddleware(s.teamsHandler.HandleCommits, "team_commits"))

	mux.HandleFunc("POST /scores", MetricsMiddleware(s.scoresHandler.HandleSubmit, "scores"))
	mux.HandleFunc("GET /teams/{id}/score", MetricsMiddleware(s.scoresHandler.HandleAggregate, "team_score"))
	mux.HandleFunc("GET /teams/{id}/scores", MetricsMiddleware(s.scoresHandler.HandleHistory, "team_scores"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /problems", MetricsMiddleware(s.problemsHandler.HandleList, "problems"))

	mux.HandleFunc("POST /admin/sprint", MetricsMiddleware(s.adminHandler.HandleStartSprint, "admin_sprint"))
	mux.HandleFunc("DELETE /admin/sprint", MetricsMiddleware(s.adminHandler.HandleStopSprint, "admin_sprint"))
	mux.HandleFunc("GET /admin/event", MetricsMiddleware(s.adminHandler.HandleEvent, "admin_event"))
	mux.HandleFunc("PUT /admin/registration", MetricsMiddleware(s.adminHandler.HandleRegistration, "admin_registration"))
	mux.HandleFunc("POST /admin/teams/{id}/lock", MetricsMiddleware(s.adminHandler.HandleForceLock, "admin_lock"))
	mux.HandleFunc("POST /admin/teams/{id}/unlock", MetricsMiddleware(s.adminHandler.HandleForceUnlock, "admin_unlock"))
	mux.HandleFunc("DELETE /admin/teams/{id}/scores", MetricsMiddleware(s.adminHandler.HandleClearScores, "admin_scores"))
	mux.HandleFunc("DELETE /admin/teams/{id}", MetricsMiddleware(s.adminHandler.HandleResetTeam, "admin_reset"))
	mux.HandleFunc("POST /admin/problems", MetricsMiddleware(s.adminHandler.HandleAppendProblem, "admin_problems"))
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

// writeDomainError translates engine error kinds into HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, registry.ErrInvalidRoster):
		writeError(w, http.StatusBadRequest, "invalid_roster", err)
	case errors.Is(err, registry.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "invalid_url", err)
	case errors.Is(err, selection.ErrLocked):
		writeError(w, http.StatusConflict, "selection_locked", err)
	case errors.Is(err, selection.ErrPaymentRequired), errors.Is(err, payment.ErrDeclined):
		writeError(w, http.StatusPaymentRequired, "payment_required", err)
	case errors.Is(err, selection.ErrUnknownProblem),
		errors.Is(err, scoring.ErrInvalidSubmission),
		errors.Is(err, admin.ErrInvalidDuration),
		errors.Is(err, catalog.ErrDuplicateID),
		errors.Is(err, catalog.ErrInvalidStatement):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, admin.ErrRegistrationClosed):
		writeError(w, http.StatusForbidden, "registration_closed", err)
	case errors.Is(err, commits.ErrNoRepo):
		writeError(w, http.StatusConflict, "no_repo", err)
	case errors.Is(err, commits.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
