// Package admin mutates global competition state and applies privileged
// team overrides.
//
// Overrides route through the same validated transition functions as
// team-initiated actions; nothing here writes a team field directly.
package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/pkg/metrics"
)

// Sprint duration bounds in hours.
const (
	minSprintHours = 1
	maxSprintHours = 24
)

// SelectionGate is the override surface of the selection lock.
type SelectionGate interface {
	ForceLock(ctx context.Context, teamID string) (model.Team, error)
	ForceUnlock(ctx context.Context, teamID string) (model.Team, error)
}

// TeamResetter removes a team record entirely.
type TeamResetter interface {
	Reset(ctx context.Context, teamID string) error
}

// ScoreClearer removes all scores for a team.
type ScoreClearer interface {
	Clear(ctx context.Context, teamID string)
}

// SnapshotForgetter drops tracked commit state for a team.
type SnapshotForgetter interface {
	Forget(teamID string)
}

// Dependencies bundles the components the controller operates on.
type Dependencies struct {
	Gate     SelectionGate
	Teams    TeamResetter
	Scores   ScoreClearer
	Problems *catalog.Catalog
	Tracker  SnapshotForgetter // optional
}

// Controller owns the singleton CompetitionEvent and applies admin
// mutations. Safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	clk      clock.Clock
	deps     Dependencies
	event    model.CompetitionEvent
	saveHook func(model.CompetitionEvent)
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithClock injects the time source for sprint timestamps.
func WithClock(c clock.Clock) Option {
	return func(a *Controller) {
		if c != nil {
			a.clk = c
		}
	}
}

// WithEvent restores a previously persisted competition event.
func WithEvent(e model.CompetitionEvent) Option {
	return func(a *Controller) { a.event = e }
}

// WithSaveHook installs a callback invoked after every event mutation.
func WithSaveHook(fn func(model.CompetitionEvent)) Option {
	return func(a *Controller) { a.saveHook = fn }
}

// New constructs a controller. Registration starts open unless a
// restored event says otherwise.
func New(deps Dependencies, opts ...Option) *Controller {
	a := &Controller{
		clk:   clock.System(),
		deps:  deps,
		event: model.CompetitionEvent{RegistrationOpen: true},
	}
	for _, opt := range opts {
		opt(a)
	}
	metrics.UpdateSprintActive(a.event.SprintActive())
	metrics.UpdateRegistrationOpen(a.event.RegistrationOpen)
	return a
}

func (a *Controller) commit() model.CompetitionEvent {
	e := a.event
	metrics.UpdateSprintActive(e.SprintActive())
	metrics.UpdateRegistrationOpen(e.RegistrationOpen)
	if a.saveHook != nil {
		a.saveHook(e)
	}
	return e
}

// StartSprint starts the competition clock for the given number of
// hours. Repeating the call with the same duration while the sprint is
// running is a no-op, so retries do not restart the clock.
func (a *Controller) StartSprint(ctx context.Context, hours int) (model.CompetitionEvent, error) {
	if hours < minSprintHours || hours > maxSprintHours {
		return model.CompetitionEvent{}, fmt.Errorf("%w: %d hours (allowed %d-%d)", ErrInvalidDuration, hours, minSprintHours, maxSprintHours)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	duration := time.Duration(hours) * time.Hour
	if a.event.SprintActive() && a.event.SprintEnd.Sub(a.event.SprintStart) == duration {
		return a.event, nil
	}

	now := a.clk.Now()
	a.event.SprintStart = now
	a.event.SprintEnd = now.Add(duration)
	return a.commit(), nil
}

// StopSprint clears both sprint timestamps. Idempotent.
func (a *Controller) StopSprint(ctx context.Context) model.CompetitionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.event.SprintActive() && a.event.SprintEnd.IsZero() {
		return a.event
	}
	a.event.SprintStart = time.Time{}
	a.event.SprintEnd = time.Time{}
	return a.commit()
}

// SetRegistrationOpen toggles whether new teams may register.
func (a *Controller) SetRegistrationOpen(ctx context.Context, open bool) model.CompetitionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.event.RegistrationOpen == open {
		return a.event
	}
	a.event.RegistrationOpen = open
	return a.commit()
}

// Event returns a snapshot of current competition state.
func (a *Controller) Event(ctx context.Context) model.CompetitionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event
}

// Deadline recomputes the sprint deadline from current state. Readers
// must call this instead of caching: clock changes take effect
// immediately for all subsequent computations.
func (a *Controller) Deadline(ctx context.Context) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.event.SprintActive() {
		return time.Time{}, false
	}
	return a.event.SprintEnd, true
}

// ForceLock immediately locks a team's selection.
func (a *Controller) ForceLock(ctx context.Context, teamID string) (model.Team, error) {
	return a.deps.Gate.ForceLock(ctx, teamID)
}

// ForceUnlock re-opens a team's selection window for one full lock
// window from now.
func (a *Controller) ForceUnlock(ctx context.Context, teamID string) (model.Team, error) {
	return a.deps.Gate.ForceUnlock(ctx, teamID)
}

// ClearScores removes every score for a team.
func (a *Controller) ClearScores(ctx context.Context, teamID string) {
	a.deps.Scores.Clear(ctx, teamID)
}

// ResetTeam deletes a team and everything derived from it: scores and
// the tracked commit snapshot.
func (a *Controller) ResetTeam(ctx context.Context, teamID string) error {
	if err := a.deps.Teams.Reset(ctx, teamID); err != nil {
		return err
	}
	a.deps.Scores.Clear(ctx, teamID)
	if a.deps.Tracker != nil {
		a.deps.Tracker.Forget(teamID)
	}
	return nil
}

// AppendProblem adds a statement to the append-only catalog extension.
func (a *Controller) AppendProblem(ctx context.Context, p model.ProblemStatement) error {
	return a.deps.Problems.Append(p)
}
