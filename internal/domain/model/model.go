// Package model contains domain models passed between layers.
package model

import "time"

// Member is a single person on a team roster.
type Member struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact,omitempty"`
}

// Selection tracks a team's problem-statement choice and its mutability.
// SelectedAt is the anchor of the grace window and is set exactly once,
// on the first selection. Locked is the admin-forced lock flag; the
// time-based lock is derived from SelectedAt on demand.
type Selection struct {
	ProblemID  string    `json:"problem_id,omitempty"`
	SelectedAt time.Time `json:"selected_at,omitzero"`
	Locked     bool      `json:"locked"`
}

// Team is the registry-owned record for one competing team.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []Member  `json:"members"`
	Paid      bool      `json:"paid"`
	Receipt   *Receipt  `json:"receipt,omitempty"`
	RepoURL   string    `json:"repo_url,omitempty"`
	Selection Selection `json:"selection"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share mutable state with
// the registry's live record.
func (t Team) Clone() Team {
	cp := t
	cp.Members = make([]Member, len(t.Members))
	copy(cp.Members, t.Members)
	if t.Receipt != nil {
		r := *t.Receipt
		cp.Receipt = &r
	}
	return cp
}

// Receipt records a confirmed payment for display. The engine only
// consumes the paid flag; the receipt itself comes from the payment
// collaborator.
type Receipt struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id"`
	Tier     string    `json:"tier"`
	Method   string    `json:"method"`
	IssuedAt time.Time `json:"issued_at"`
}

// Difficulty grades a problem statement.
type Difficulty string

// Problem statement difficulty levels.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ProblemStatement is reference data supplied at construction and
// read-only to the engine.
type ProblemStatement struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags,omitempty"`
	Summary    string     `json:"summary,omitempty"`
}

// CommitRecord is one commit from a team's tracked repository.
type CommitRecord struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// JudgeScore is a single judge submission for a team. Judges may revise;
// every submission is retained.
type JudgeScore struct {
	ID               string    `json:"id"`
	TeamID           string    `json:"team_id"`
	JudgeID          string    `json:"judge_id"`
	CommitFrequency  int       `json:"commit_frequency"`
	CodeQuality      int       `json:"code_quality"`
	ProblemRelevance int       `json:"problem_relevance"`
	FinalSubmission  int       `json:"final_submission"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Total is the sum of the four criteria for this single submission.
func (s JudgeScore) Total() int {
	return s.CommitFrequency + s.CodeQuality + s.ProblemRelevance + s.FinalSubmission
}

// CompetitionEvent is the admin-owned singleton describing global
// competition state. Deadlines are always derived from it on demand,
// never cached.
type CompetitionEvent struct {
	RegistrationOpen bool      `json:"registration_open"`
	SprintStart      time.Time `json:"sprint_start,omitzero"`
	SprintEnd        time.Time `json:"sprint_end,omitzero"`
}

// SprintActive reports whether a sprint clock is currently configured.
func (e CompetitionEvent) SprintActive() bool {
	return !e.SprintStart.IsZero()
}
