// Package leaderboard projects the registry and scoring ledger into a
// ranked, read-only view.
package leaderboard

import (
	"sort"

	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/scoring"
)

// Row is one ranked leaderboard entry.
type Row struct {
	Rank       int        `json:"rank"`
	Team       model.Team `json:"team"`
	Total      float64    `json:"total"`
	JudgeCount int        `json:"judge_count"`
}

// Project ranks teams descending by aggregate total; ties go to the
// earlier-registered team. Pure function: it performs no mutation and is
// safe to call at any time, including with zero teams or zero scores.
func Project(teams []model.Team, aggregate func(teamID string) scoring.Aggregate) []Row {
	rows := make([]Row, 0, len(teams))
	for _, t := range teams {
		agg := aggregate(t.ID)
		rows = append(rows, Row{
			Team:       t,
			Total:      agg.Total,
			JudgeCount: agg.JudgeCount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Team.CreatedAt.Before(rows[j].Team.CreatedAt)
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
