// Package registry owns team identity, membership and payment state.
//
// All team mutation goes through the registry's single lock so concurrent
// read-modify-write sequences for the same team are serialized and a
// failed transition never leaves a partially mutated record behind.
package registry

import (
	"context"
	"fmt"
	"strings"

	"sync"

	"github.com/google/uuid"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/repourl"
	"github.com/hacksprint/arena/pkg/metrics"
)

// Roster size bounds.
const (
	minMembers = 2
	maxMembers = 4
)

// Registry is the in-memory team store. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	clk      clock.Clock
	byID     map[string]*model.Team
	byName   map[string]string // normalized name -> team id
	order    []string          // ids in creation order
	saveHook func(model.Team)
	dropHook func(teamID string)
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithClock injects the time source used for CreatedAt stamps.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clk = c
		}
	}
}

// WithSaveHook installs a callback invoked with the updated team after
// every successful mutation. Used to wire the persistence collaborator.
func WithSaveHook(fn func(model.Team)) Option {
	return func(r *Registry) { r.saveHook = fn }
}

// WithDropHook installs a callback invoked after a team is reset.
func WithDropHook(fn func(teamID string)) Option {
	return func(r *Registry) { r.dropHook = fn }
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		clk:    clock.System(),
		byID:   make(map[string]*model.Team),
		byName: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateRoster(name string, members []model.Member) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: team name required", ErrInvalidRoster)
	}
	if len(members) < minMembers || len(members) > maxMembers {
		return fmt.Errorf("%w: need %d-%d members, got %d", ErrInvalidRoster, minMembers, maxMembers, len(members))
	}
	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: member %d missing name", ErrInvalidRoster, i+1)
		}
		if strings.TrimSpace(m.Email) == "" || !strings.Contains(m.Email, "@") {
			return fmt.Errorf("%w: member %d missing email", ErrInvalidRoster, i+1)
		}
	}
	return nil
}

// Register creates a team with a fresh id and creation timestamp.
func (r *Registry) Register(ctx context.Context, name string, members []model.Member) (model.Team, error) {
	if err := validateRoster(name, members); err != nil {
		return model.Team{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeName(name)
	if _, taken := r.byName[key]; taken {
		return model.Team{}, fmt.Errorf("%w: name %q already registered", ErrInvalidRoster, name)
	}

	t := &model.Team{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Members:   make([]model.Member, len(members)),
		CreatedAt: r.clk.Now(),
	}
	copy(t.Members, members)

	r.byID[t.ID] = t
	r.byName[key] = t.ID
	r.order = append(r.order, t.ID)

	metrics.RecordTeamRegistered()
	metrics.UpdateTeamsTotal(len(r.byID))

	cp := t.Clone()
	if r.saveHook != nil {
		r.saveHook(cp)
	}
	return cp, nil
}

// MarkPaid flips the paid flag and attaches the receipt. Re-invoking for
// an already paid team is a no-op returning the current record.
func (r *Registry) MarkPaid(ctx context.Context, teamID string, receipt model.Receipt) (model.Team, error) {
	return r.Update(ctx, teamID, func(t *model.Team) error {
		if t.Paid {
			return nil
		}
		receipt.TeamID = t.ID
		t.Paid = true
		t.Receipt = &receipt
		metrics.RecordPaymentConfirmed()
		return nil
	})
}

// SetRepoURL validates and stores the canonical repository URL,
// overwriting any prior value.
func (r *Registry) SetRepoURL(ctx context.Context, teamID, raw string) (model.Team, error) {
	repo, err := repourl.Parse(raw)
	if err != nil {
		return model.Team{}, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	return r.Update(ctx, teamID, func(t *model.Team) error {
		t.RepoURL = repo.String()
		return nil
	})
}

// Update applies fn to a copy of the team and commits the copy only when
// fn succeeds. The registry lock is held for the whole read-modify-write,
// which is the single-writer discipline for team records.
func (r *Registry) Update(ctx context.Context, teamID string, fn func(*model.Team) error) (model.Team, error) {
	r.mu.Lock()

	t, ok := r.byID[teamID]
	if !ok {
		r.mu.Unlock()
		return model.Team{}, fmt.Errorf("%w: %s", ErrNotFound, teamID)
	}

	cp := t.Clone()
	if err := fn(&cp); err != nil {
		r.mu.Unlock()
		return model.Team{}, err
	}
	*t = cp
	out := cp.Clone()
	r.mu.Unlock()

	if r.saveHook != nil {
		r.saveHook(out.Clone())
	}
	return out, nil
}

// Get returns a copy of the team record.
func (r *Registry) Get(ctx context.Context, teamID string) (model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: %s", ErrNotFound, teamID)
	}
	return t.Clone(), nil
}

// List returns copies of all teams in creation order.
func (r *Registry) List(ctx context.Context) []model.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Team, 0, len(r.order))
	for _, id := range r.order {
		if t, ok := r.byID[id]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Count returns the number of registered teams.
func (r *Registry) Count(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Reset removes a team entirely. This is the explicit admin delete; it is
// idempotent so a repeated reset of a gone team succeeds.
func (r *Registry) Reset(ctx context.Context, teamID string) error {
	r.mu.Lock()
	t, ok := r.byID[teamID]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.byID, teamID)
	delete(r.byName, normalizeName(t.Name))
	for i, id := range r.order {
		if id == teamID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	metrics.UpdateTeamsTotal(len(r.byID))
	r.mu.Unlock()

	if r.dropHook != nil {
		r.dropHook(teamID)
	}
	return nil
}

// Restore inserts previously persisted teams without firing save hooks.
// Used once at startup by the application layer.
func (r *Registry) Restore(ctx context.Context, teams []model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range teams {
		if t.ID == "" {
			return fmt.Errorf("%w: restored team missing id", ErrInvalidRoster)
		}
		if _, ok := r.byID[t.ID]; ok {
			continue
		}
		cp := t.Clone()
		r.byID[cp.ID] = &cp
		r.byName[normalizeName(cp.Name)] = cp.ID
		r.order = append(r.order, cp.ID)
	}
	metrics.UpdateTeamsTotal(len(r.byID))
	return nil
}
