// Package sqlite provides a SQLite-backed persistence collaborator for
// the competition engine.
//
// The engine is storage-agnostic; this store persists whole records as
// JSON documents keyed by id, which gives the required read-your-writes
// consistency per team without coupling the schema to the domain model.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hacksprint/arena/internal/domain/model"

	_ "modernc.org/sqlite" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	doc        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
	id         TEXT PRIMARY KEY,
	team_id    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	doc        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_team_idx ON scores(team_id);
CREATE TABLE IF NOT EXISTS competition_event (
	id  INTEGER PRIMARY KEY CHECK (id = 1),
	doc TEXT NOT NULL
);
`

// Store persists engine state in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTeam upserts one team record.
func (s *Store) SaveTeam(ctx context.Context, team model.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO teams (id, created_at, doc) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, doc = excluded.doc`,
		team.ID, team.CreatedAt.UTC().UnixMilli(), string(doc))
	if err != nil {
		return fmt.Errorf("save team: %w", err)
	}
	return nil
}

// DeleteTeam removes a team and its scores.
func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete team: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, teamID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete team: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE team_id = ?`, teamID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete team scores: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete team: %w", err)
	}
	return nil
}

// LoadTeams returns every persisted team in creation order.
func (s *Store) LoadTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM teams ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		var t model.Team
		if err := json.Unmarshal([]byte(doc), &t); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return out, nil
}

// SaveScore upserts one judge score.
func (s *Store) SaveScore(ctx context.Context, score model.JudgeScore) error {
	doc, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, team_id, created_at, doc) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		score.ID, score.TeamID, score.CreatedAt.UTC().UnixMilli(), string(doc))
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// DeleteScores removes all scores for a team.
func (s *Store) DeleteScores(ctx context.Context, teamID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	return nil
}

// LoadScores returns every persisted score in submission order.
func (s *Store) LoadScores(ctx context.Context) ([]model.JudgeScore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM scores ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()

	var out []model.JudgeScore
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		var sc model.JudgeScore
		if err := json.Unmarshal([]byte(doc), &sc); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

// SaveEvent upserts the singleton competition event.
func (s *Store) SaveEvent(ctx context.Context, event model.CompetitionEvent) error {
	doc, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO competition_event (id, doc) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		string(doc))
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// LoadEvent returns the persisted competition event, reporting whether
// one was found.
func (s *Store) LoadEvent(ctx context.Context) (model.CompetitionEvent, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM competition_event WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CompetitionEvent{}, false, nil
	}
	if err != nil {
		return model.CompetitionEvent{}, false, fmt.Errorf("load event: %w", err)
	}
	var e model.CompetitionEvent
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return model.CompetitionEvent{}, false, fmt.Errorf("decode event: %w", err)
	}
	return e, true, nil
}
