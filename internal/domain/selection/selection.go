// Package selection governs problem-statement choice and its mutability window.
//
// State machine per team: UNSELECTED -> SELECTED (mutable) -> LOCKED.
// The grace window is anchored to the FIRST selection, never the most
// recent change, so a team cannot postpone the deadline by re-selecting.
package selection

import (
	"context"
	"time"

	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/pkg/metrics"
)

// DefaultLockWindow is the grace window after first selection during
// which a team may still change its choice.
const DefaultLockWindow = 10 * time.Minute

// TeamUpdater is the serialized mutation surface the gate operates
// through. Satisfied by the registry.
type TeamUpdater interface {
	Update(ctx context.Context, teamID string, fn func(*model.Team) error) (model.Team, error)
}

// Gate applies selection transitions for all teams.
type Gate struct {
	teams       TeamUpdater
	clk         clock.Clock
	window      time.Duration
	paymentGate bool
	problems    *catalog.Catalog
}

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithClock injects the time source for lock-window decisions.
func WithClock(c clock.Clock) Option {
	return func(g *Gate) {
		if c != nil {
			g.clk = c
		}
	}
}

// WithLockWindow overrides the grace window duration.
func WithLockWindow(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.window = d
		}
	}
}

// WithPaymentGate enables or disables the paid-teams-only gate on Select.
func WithPaymentGate(enabled bool) Option {
	return func(g *Gate) { g.paymentGate = enabled }
}

// WithCatalog makes Select validate problem ids against the catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(g *Gate) { g.problems = c }
}

// New constructs a gate over the given team updater.
func New(teams TeamUpdater, opts ...Option) *Gate {
	g := &Gate{
		teams:  teams,
		clk:    clock.System(),
		window: DefaultLockWindow,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Window returns the configured lock window.
func (g *Gate) Window() time.Duration { return g.window }

// Select records or changes a team's problem choice.
//
// First selection anchors SelectedAt. Changes inside the window keep the
// anchor untouched. A change attempted at or past the deadline transitions
// the team to LOCKED, keeps ProblemID unchanged and fails with ErrLocked.
func (g *Gate) Select(ctx context.Context, teamID, problemID string) (model.Team, error) {
	if g.problems != nil && !g.problems.Has(problemID) {
		return model.Team{}, ErrUnknownProblem
	}

	now := g.clk.Now()
	expired := false
	team, err := g.teams.Update(ctx, teamID, func(t *model.Team) error {
		if g.paymentGate && !t.Paid {
			return ErrPaymentRequired
		}
		if t.Selection.Locked {
			return ErrLocked
		}
		if t.Selection.SelectedAt.IsZero() {
			t.Selection.ProblemID = problemID
			t.Selection.SelectedAt = now
			return nil
		}
		if now.Sub(t.Selection.SelectedAt) < g.window {
			// Inside the grace window: overwrite in place, anchor stays.
			t.Selection.ProblemID = problemID
			return nil
		}
		// Deadline passed: persist the LOCKED transition, reject the change.
		t.Selection.Locked = true
		expired = true
		return nil
	})
	if err != nil {
		switch err {
		case ErrPaymentRequired:
			metrics.RecordSelectionRejected("payment")
		case ErrLocked:
			metrics.RecordSelectionRejected("locked")
		}
		return model.Team{}, err
	}
	if expired {
		metrics.RecordSelectionRejected("deadline")
		return model.Team{}, ErrLocked
	}
	metrics.RecordSelectionChange()
	return team, nil
}

// ForceLock immediately transitions a team to LOCKED regardless of
// elapsed time. Admin override; idempotent.
func (g *Gate) ForceLock(ctx context.Context, teamID string) (model.Team, error) {
	return g.teams.Update(ctx, teamID, func(t *model.Team) error {
		t.Selection.Locked = true
		return nil
	})
}

// ForceUnlock re-opens a fresh mutable window whose deadline is exactly
// one lock window from now. The existing ProblemID is preserved as the
// default choice. Admin override; idempotent at a fixed instant.
func (g *Gate) ForceUnlock(ctx context.Context, teamID string) (model.Team, error) {
	now := g.clk.Now()
	return g.teams.Update(ctx, teamID, func(t *model.Team) error {
		t.Selection.Locked = false
		if !t.Selection.SelectedAt.IsZero() {
			t.Selection.SelectedAt = now
		}
		return nil
	})
}

// Locked reports whether the team's selection is immutable at now.
func (g *Gate) Locked(t model.Team, now time.Time) bool {
	return IsLocked(t, now, g.window)
}

// IsLocked is the pure lock predicate: true iff the admin forced a lock,
// or a selection exists and the window has fully elapsed. The boundary
// instant itself is locked.
func IsLocked(t model.Team, now time.Time, window time.Duration) bool {
	if t.Selection.Locked {
		return true
	}
	if t.Selection.SelectedAt.IsZero() {
		return false
	}
	return !now.Before(t.Selection.SelectedAt.Add(window))
}

// Deadline returns the instant the team's selection locks, or false when
// nothing has been selected yet.
func (g *Gate) Deadline(t model.Team) (time.Time, bool) {
	if t.Selection.SelectedAt.IsZero() {
		return time.Time{}, false
	}
	return t.Selection.SelectedAt.Add(g.window), true
}
