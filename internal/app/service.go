// Package app wires the competition engine components into one service
// that implements the dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hacksprint/arena/internal/adapters/commits"
	"github.com/hacksprint/arena/internal/adapters/payment"
	"github.com/hacksprint/arena/internal/domain/admin"
	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/leaderboard"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/registry"
	"github.com/hacksprint/arena/internal/domain/scoring"
	"github.com/hacksprint/arena/internal/domain/selection"
	"github.com/hacksprint/arena/pkg/logger"
)

// Store is the persistence collaborator contract. The engine assumes
// nothing about the backing store beyond read-your-writes per team.
type Store interface {
	SaveTeam(ctx context.Context, team model.Team) error
	DeleteTeam(ctx context.Context, teamID string) error
	LoadTeams(ctx context.Context) ([]model.Team, error)

	SaveScore(ctx context.Context, score model.JudgeScore) error
	DeleteScores(ctx context.Context, teamID string) error
	LoadScores(ctx context.Context) ([]model.JudgeScore, error)

	SaveEvent(ctx context.Context, event model.CompetitionEvent) error
	LoadEvent(ctx context.Context) (model.CompetitionEvent, bool, error)

	Close() error
}

// Service composes the engine components behind one mutation surface.
type Service struct {
	mu sync.RWMutex

	// Configuration
	clk          clock.Clock
	lockWindow   time.Duration
	paymentGate  bool
	pollInterval time.Duration
	pollTimeout  time.Duration
	problems     []model.ProblemStatement

	// Collaborators
	source    commits.Source
	processor payment.Processor
	store     Store

	// Core components
	teams   *registry.Registry
	gate    *selection.Gate
	ledger  *scoring.Ledger
	tracker *commits.Tracker
	control *admin.Controller
	catalog *catalog.Catalog

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clk:          clock.System(),
		lockWindow:   selection.DefaultLockWindow,
		paymentGate:  true,
		pollInterval: 5 * time.Minute,
		pollTimeout:  15 * time.Second,
		processor:    payment.NewRecordingProcessor(),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components, restores persisted state and launches
// the background poller.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting competition engine...")

	cat, err := catalog.New(s.problems)
	if err != nil {
		return fmt.Errorf("build problem catalog: %w", err)
	}
	s.catalog = cat

	regOpts := []registry.Option{registry.WithClock(s.clk)}
	ledgerOpts := []scoring.Option{scoring.WithClock(s.clk)}
	adminOpts := []admin.Option{admin.WithClock(s.clk)}
	if s.store != nil {
		regOpts = append(regOpts,
			registry.WithSaveHook(s.persistTeam),
			registry.WithDropHook(s.persistTeamDrop),
		)
		ledgerOpts = append(ledgerOpts,
			scoring.WithSaveHook(s.persistScore),
			scoring.WithClearHook(s.persistScoreClear),
		)
		adminOpts = append(adminOpts, admin.WithSaveHook(s.persistEvent))

		if event, ok, err := s.store.LoadEvent(ctx); err != nil {
			return fmt.Errorf("restore competition event: %w", err)
		} else if ok {
			adminOpts = append(adminOpts, admin.WithEvent(event))
		}
	}

	s.teams = registry.New(regOpts...)
	s.ledger = scoring.New(ledgerOpts...)
	s.gate = selection.New(s.teams,
		selection.WithClock(s.clk),
		selection.WithLockWindow(s.lockWindow),
		selection.WithPaymentGate(s.paymentGate),
		selection.WithCatalog(s.catalog),
	)
	if s.source == nil {
		s.source = commits.NewHTTPSource()
	}
	s.tracker = commits.NewTracker(s.source, commits.WithClock(s.clk))
	s.control = admin.New(admin.Dependencies{
		Gate:     s.gate,
		Teams:    s.teams,
		Scores:   s.ledger,
		Problems: s.catalog,
		Tracker:  s.tracker,
	}, adminOpts...)

	if s.store != nil {
		teams, err := s.store.LoadTeams(ctx)
		if err != nil {
			return fmt.Errorf("restore teams: %w", err)
		}
		if err := s.teams.Restore(ctx, teams); err != nil {
			return fmt.Errorf("restore teams: %w", err)
		}
		scores, err := s.store.LoadScores(ctx)
		if err != nil {
			return fmt.Errorf("restore scores: %w", err)
		}
		s.ledger.Restore(ctx, scores)
		s.logger.Info(ctx, "restored persisted state",
			logger.Int("teams", len(teams)),
			logger.Int("scores", len(scores)),
		)
	}

	if s.pollInterval > 0 {
		s.wg.Add(1)
		go s.runPoller(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "competition engine started",
		logger.Duration("lockWindow", s.lockWindow),
		logger.Bool("paymentGate", s.paymentGate),
		logger.Duration("pollInterval", s.pollInterval),
		logger.Int("problems", s.catalog.Len()),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping competition engine...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "closing store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "competition engine stopped")
}

// Persistence hooks. Failures are logged, never propagated into the
// mutation path: the in-memory state is authoritative for a running
// competition.

func (s *Service) persistTeam(t model.Team) {
	if err := s.store.SaveTeam(context.Background(), t); err != nil {
		s.logger.Error(context.Background(), "persist team failed",
			logger.String("teamID", t.ID), logger.Error(err))
	}
}

func (s *Service) persistTeamDrop(teamID string) {
	if err := s.store.DeleteTeam(context.Background(), teamID); err != nil {
		s.logger.Error(context.Background(), "delete team failed",
			logger.String("teamID", teamID), logger.Error(err))
	}
}

func (s *Service) persistScore(sc model.JudgeScore) {
	if err := s.store.SaveScore(context.Background(), sc); err != nil {
		s.logger.Error(context.Background(), "persist score failed",
			logger.String("scoreID", sc.ID), logger.Error(err))
	}
}

func (s *Service) persistScoreClear(teamID string) {
	if err := s.store.DeleteScores(context.Background(), teamID); err != nil {
		s.logger.Error(context.Background(), "delete scores failed",
			logger.String("teamID", teamID), logger.Error(err))
	}
}

func (s *Service) persistEvent(e model.CompetitionEvent) {
	if err := s.store.SaveEvent(context.Background(), e); err != nil {
		s.logger.Error(context.Background(), "persist event failed", logger.Error(err))
	}
}

// RegisterTeam creates a team while registration is open.
func (s *Service) RegisterTeam(ctx context.Context, name string, members []model.Member) (model.Team, error) {
	if !s.control.Event(ctx).RegistrationOpen {
		return model.Team{}, admin.ErrRegistrationClosed
	}
	return s.teams.Register(ctx, name, members)
}

// Team returns one team record.
func (s *Service) Team(ctx context.Context, teamID string) (model.Team, error) {
	return s.teams.Get(ctx, teamID)
}

// Teams returns all teams in creation order.
func (s *Service) Teams(ctx context.Context) []model.Team {
	return s.teams.List(ctx)
}

// ConfirmPayment charges the team through the payment collaborator and
// marks it paid. Already-paid teams are returned unchanged without a
// second charge.
func (s *Service) ConfirmPayment(ctx context.Context, teamID, tier, method string) (model.Team, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return model.Team{}, err
	}
	if team.Paid {
		return team, nil
	}
	receipt, err := s.processor.Charge(ctx, teamID, tier, method)
	if err != nil {
		return model.Team{}, err
	}
	return s.teams.MarkPaid(ctx, teamID, receipt)
}

// SubmitRepoURL validates and stores the team's repository URL.
func (s *Service) SubmitRepoURL(ctx context.Context, teamID, url string) (model.Team, error) {
	return s.teams.SetRepoURL(ctx, teamID, url)
}

// SelectProblem records or changes the team's problem choice, subject
// to the lock window and the payment gate.
func (s *Service) SelectProblem(ctx context.Context, teamID, problemID string) (model.Team, error) {
	return s.gate.Select(ctx, teamID, problemID)
}

// SelectionDeadline reports when the team's selection locks.
func (s *Service) SelectionDeadline(ctx context.Context, teamID string) (time.Time, bool, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return time.Time{}, false, err
	}
	deadline, ok := s.gate.Deadline(team)
	return deadline, ok, nil
}

// PollRepo refreshes the team's commit snapshot now, bounded by the
// configured poll timeout.
func (s *Service) PollRepo(ctx context.Context, teamID string) ([]model.CommitRecord, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	pollCtx, cancel := context.WithTimeout(ctx, s.pollTimeout)
	defer cancel()
	return s.tracker.Poll(pollCtx, team)
}

// CommitLog returns the last-known commit snapshot and sync time.
func (s *Service) CommitLog(ctx context.Context, teamID string) ([]model.CommitRecord, time.Time, error) {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return nil, time.Time{}, err
	}
	syncedAt, _ := s.tracker.LastSyncedAt(teamID)
	return s.tracker.Snapshot(teamID), syncedAt, nil
}

// SubmitScore records one judge submission for an existing team.
func (s *Service) SubmitScore(ctx context.Context, teamID, judgeID string, c scoring.Criteria, notes string) (model.JudgeScore, error) {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return model.JudgeScore{}, err
	}
	return s.ledger.Submit(ctx, teamID, judgeID, c, notes)
}

// TeamScore returns the aggregate for one team.
func (s *Service) TeamScore(ctx context.Context, teamID string) (scoring.Aggregate, error) {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return scoring.Aggregate{}, err
	}
	return s.ledger.Aggregate(ctx, teamID), nil
}

// ScoreHistory returns the retained submissions for one team.
func (s *Service) ScoreHistory(ctx context.Context, teamID string) ([]model.JudgeScore, error) {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.ledger.Scores(ctx, teamID), nil
}

// Leaderboard projects the current ranking, truncated to limit entries
// when limit is positive.
func (s *Service) Leaderboard(ctx context.Context, limit int) []leaderboard.Row {
	rows := leaderboard.Project(s.teams.List(ctx), func(teamID string) scoring.Aggregate {
		return s.ledger.Aggregate(ctx, teamID)
	})
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Problems lists the catalog including admin additions.
func (s *Service) Problems(ctx context.Context) []model.ProblemStatement {
	return s.catalog.List()
}

// Admin exposes the admin controller.
func (s *Service) Admin() *admin.Controller {
	return s.control
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"lockWindow":   s.lockWindow.String(),
		"paymentGate":  s.paymentGate,
		"pollInterval": s.pollInterval.String(),
	}
	if s.started {
		ctx := context.Background()
		event := s.control.Event(ctx)
		stats["teams"] = s.teams.Count(ctx)
		stats["problems"] = s.catalog.Len()
		stats["registrationOpen"] = event.RegistrationOpen
		stats["sprintActive"] = event.SprintActive()
	}
	return stats
}
