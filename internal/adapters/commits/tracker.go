package commits

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/repourl"
	"github.com/hacksprint/arena/pkg/metrics"
)

// snapshot is the last-known-good commit list for one team.
type snapshot struct {
	commits  []model.CommitRecord
	syncedAt time.Time
}

// Tracker holds the last-known commit snapshot per team. On a failed
// poll the prior snapshot stays untouched: stale-but-available beats
// empty-but-fresh. Retry and cadence belong to the caller.
type Tracker struct {
	mu        sync.RWMutex
	clk       clock.Clock
	source    Source
	snapshots map[string]snapshot
}

// TrackerOption applies a configuration option to the Tracker.
type TrackerOption func(*Tracker)

// WithClock injects the time source for sync timestamps.
func WithClock(c clock.Clock) TrackerOption {
	return func(t *Tracker) {
		if c != nil {
			t.clk = c
		}
	}
}

// NewTracker constructs a tracker over the given commit source.
func NewTracker(source Source, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		clk:       clock.System(),
		source:    source,
		snapshots: make(map[string]snapshot),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Poll refreshes the team's commit snapshot. Fails with ErrNoRepo before
// contacting the collaborator when no repository URL is set. On success
// the stored snapshot is replaced wholesale, never merged.
func (t *Tracker) Poll(ctx context.Context, team model.Team) ([]model.CommitRecord, error) {
	start := time.Now()

	if team.RepoURL == "" {
		metrics.RecordRepoPoll("no_repo", time.Since(start).Seconds())
		return nil, ErrNoRepo
	}

	repo, err := repourl.Parse(team.RepoURL)
	if err != nil {
		// Malformed URLs are rejected before any upstream call.
		metrics.RecordRepoPoll("bad_url", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	fetched, err := t.source.ListCommits(ctx, repo)
	if err != nil {
		metrics.RecordRepoPoll("error", time.Since(start).Seconds())
		return nil, err
	}

	stored := make([]model.CommitRecord, len(fetched))
	copy(stored, fetched)

	t.mu.Lock()
	t.snapshots[team.ID] = snapshot{commits: stored, syncedAt: t.clk.Now()}
	t.mu.Unlock()

	metrics.RecordRepoPoll("ok", time.Since(start).Seconds())

	out := make([]model.CommitRecord, len(fetched))
	copy(out, fetched)
	return out, nil
}

// Snapshot returns the last-known commit list for a team.
func (t *Tracker) Snapshot(teamID string) []model.CommitRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.snapshots[teamID]
	out := make([]model.CommitRecord, len(s.commits))
	copy(out, s.commits)
	return out
}

// LastSyncedAt returns when the team's snapshot was last refreshed.
func (t *Tracker) LastSyncedAt(teamID string) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.snapshots[teamID]
	if !ok {
		return time.Time{}, false
	}
	return s.syncedAt, true
}

// Forget drops a team's snapshot. Used when an admin resets the team.
func (t *Tracker) Forget(teamID string) {
	t.mu.Lock()
	delete(t.snapshots, teamID)
	t.mu.Unlock()
}
