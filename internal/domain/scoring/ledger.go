// Package scoring accumulates judge score submissions and computes
// per-team aggregates.
//
// Submissions are append-only: a judge may revise a team's score any
// number of times and every revision is retained for audit. Aggregation
// averages the full history by default; latest-per-judge is available as
// an explicit policy.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/pkg/metrics"
)

// Criterion bounds. Out-of-range input is clamped, not rejected.
const (
	minCriterion = 0
	maxCriterion = 25
	maxTotal     = 100
)

// Criteria carries the four judged dimensions of one submission.
type Criteria struct {
	CommitFrequency  int `json:"commit_frequency"`
	CodeQuality      int `json:"code_quality"`
	ProblemRelevance int `json:"problem_relevance"`
	FinalSubmission  int `json:"final_submission"`
}

// Aggregate is the computed scoring summary for one team.
type Aggregate struct {
	CommitFrequency  float64 `json:"commit_frequency"`
	CodeQuality      float64 `json:"code_quality"`
	ProblemRelevance float64 `json:"problem_relevance"`
	FinalSubmission  float64 `json:"final_submission"`
	Total            float64 `json:"total"`
	JudgeCount       int     `json:"judge_count"`
}

// Ledger is the in-memory score store. Safe for concurrent use.
type Ledger struct {
	mu             sync.RWMutex
	clk            clock.Clock
	latestPerJudge bool
	byTeam         map[string][]model.JudgeScore
	saveHook       func(model.JudgeScore)
	clearHook      func(teamID string)
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithClock injects the time source for submission timestamps.
func WithClock(c clock.Clock) Option {
	return func(l *Ledger) {
		if c != nil {
			l.clk = c
		}
	}
}

// WithLatestPerJudge switches aggregation to each judge's most recent
// submission instead of the full history.
func WithLatestPerJudge() Option {
	return func(l *Ledger) { l.latestPerJudge = true }
}

// WithSaveHook installs a callback invoked with every accepted submission.
func WithSaveHook(fn func(model.JudgeScore)) Option {
	return func(l *Ledger) { l.saveHook = fn }
}

// WithClearHook installs a callback invoked after a team's scores are cleared.
func WithClearHook(fn func(teamID string)) Option {
	return func(l *Ledger) { l.clearHook = fn }
}

// New constructs an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		clk:    clock.System(),
		byTeam: make(map[string][]model.JudgeScore),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func clamp(v int) int {
	if v < minCriterion {
		return minCriterion
	}
	if v > maxCriterion {
		return maxCriterion
	}
	return v
}

// Submit records one judge submission, clamping each criterion to [0,25].
func (l *Ledger) Submit(ctx context.Context, teamID, judgeID string, c Criteria, notes string) (model.JudgeScore, error) {
	if strings.TrimSpace(teamID) == "" {
		return model.JudgeScore{}, fmt.Errorf("%w: team id required", ErrInvalidSubmission)
	}
	if strings.TrimSpace(judgeID) == "" {
		return model.JudgeScore{}, fmt.Errorf("%w: judge id required", ErrInvalidSubmission)
	}

	clamped := Criteria{
		CommitFrequency:  clamp(c.CommitFrequency),
		CodeQuality:      clamp(c.CodeQuality),
		ProblemRelevance: clamp(c.ProblemRelevance),
		FinalSubmission:  clamp(c.FinalSubmission),
	}
	if clamped != c {
		metrics.RecordScoreClamped()
	}

	score := model.JudgeScore{
		ID:               uuid.NewString(),
		TeamID:           teamID,
		JudgeID:          judgeID,
		CommitFrequency:  clamped.CommitFrequency,
		CodeQuality:      clamped.CodeQuality,
		ProblemRelevance: clamped.ProblemRelevance,
		FinalSubmission:  clamped.FinalSubmission,
		Notes:            notes,
		CreatedAt:        l.clk.Now(),
	}

	l.mu.Lock()
	l.byTeam[teamID] = append(l.byTeam[teamID], score)
	l.mu.Unlock()

	metrics.RecordScoreSubmitted()
	if l.saveHook != nil {
		l.saveHook(score)
	}
	return score, nil
}

// Aggregate computes the per-criterion means and bounded total for a
// team. A team with no scores yields a zero-valued aggregate, not an
// error, so read-side projections never fail.
func (l *Ledger) Aggregate(ctx context.Context, teamID string) Aggregate {
	l.mu.RLock()
	scores := l.byTeam[teamID]
	selected := scores
	if l.latestPerJudge {
		selected = latestPerJudge(scores)
	}
	judges := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		judges[s.JudgeID] = struct{}{}
	}

	var agg Aggregate
	agg.JudgeCount = len(judges)
	if len(selected) > 0 {
		n := float64(len(selected))
		var cf, cq, pr, fs int
		for _, s := range selected {
			cf += s.CommitFrequency
			cq += s.CodeQuality
			pr += s.ProblemRelevance
			fs += s.FinalSubmission
		}
		agg.CommitFrequency = float64(cf) / n
		agg.CodeQuality = float64(cq) / n
		agg.ProblemRelevance = float64(pr) / n
		agg.FinalSubmission = float64(fs) / n
		agg.Total = agg.CommitFrequency + agg.CodeQuality + agg.ProblemRelevance + agg.FinalSubmission
		if agg.Total > maxTotal {
			agg.Total = maxTotal
		}
		if agg.Total < 0 {
			agg.Total = 0
		}
	}
	l.mu.RUnlock()
	return agg
}

// latestPerJudge keeps only each judge's most recent submission. Input
// order is submission order, so the last entry per judge wins.
func latestPerJudge(scores []model.JudgeScore) []model.JudgeScore {
	latest := make(map[string]model.JudgeScore, len(scores))
	for _, s := range scores {
		latest[s.JudgeID] = s
	}
	out := make([]model.JudgeScore, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Scores returns the full retained submission history for a team in
// submission order.
func (l *Ledger) Scores(ctx context.Context, teamID string) []model.JudgeScore {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.JudgeScore, len(l.byTeam[teamID]))
	copy(out, l.byTeam[teamID])
	return out
}

// Clear removes all scores for a team. Admin-only operation; idempotent.
func (l *Ledger) Clear(ctx context.Context, teamID string) {
	l.mu.Lock()
	delete(l.byTeam, teamID)
	l.mu.Unlock()

	if l.clearHook != nil {
		l.clearHook(teamID)
	}
}

// Restore loads previously persisted scores without firing save hooks.
// Used once at startup by the application layer.
func (l *Ledger) Restore(ctx context.Context, scores []model.JudgeScore) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range scores {
		l.byTeam[s.TeamID] = append(l.byTeam[s.TeamID], s)
	}
	for teamID := range l.byTeam {
		list := l.byTeam[teamID]
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	}
}
