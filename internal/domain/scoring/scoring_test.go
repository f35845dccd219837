package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSubmit(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
		ledger := scoring.New(scoring.WithClock(clk))

		Convey("When a judge submits an in-range score", func() {
			score, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{
				CommitFrequency:  20,
				CodeQuality:      18,
				ProblemRelevance: 25,
				FinalSubmission:  17,
			}, "solid execution")

			Convey("Then the submission should be recorded as given", func() {
				So(err, ShouldBeNil)
				So(score.ID, ShouldNotBeEmpty)
				So(score.Total(), ShouldEqual, 80)
				So(score.Notes, ShouldEqual, "solid execution")
				So(score.CreatedAt, ShouldEqual, clk.Now())
				So(ledger.Scores(ctx, "team-1"), ShouldHaveLength, 1)
			})
		})

		Convey("When a judge submits out-of-range criteria", func() {
			score, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{
				CommitFrequency:  -5,
				CodeQuality:      30,
				ProblemRelevance: 12,
				FinalSubmission:  25,
			}, "")

			Convey("Then each criterion should be clamped to its bounds", func() {
				So(err, ShouldBeNil)
				So(score.CommitFrequency, ShouldEqual, 0)
				So(score.CodeQuality, ShouldEqual, 25)
				So(score.ProblemRelevance, ShouldEqual, 12)
				So(score.FinalSubmission, ShouldEqual, 25)
			})
		})

		Convey("When the team or judge id is blank", func() {
			_, noTeam := ledger.Submit(ctx, "  ", "judge-a", scoring.Criteria{}, "")
			_, noJudge := ledger.Submit(ctx, "team-1", "", scoring.Criteria{}, "")

			Convey("Then the submission should be rejected", func() {
				So(noTeam, ShouldWrap, scoring.ErrInvalidSubmission)
				So(noJudge, ShouldWrap, scoring.ErrInvalidSubmission)
			})
		})

		Convey("When a judge revises a score", func() {
			_, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{CodeQuality: 10}, "first pass")
			So(err, ShouldBeNil)
			_, err = ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{CodeQuality: 20}, "after demo")
			So(err, ShouldBeNil)

			Convey("Then every submission should be retained in order", func() {
				history := ledger.Scores(ctx, "team-1")
				So(history, ShouldHaveLength, 2)
				So(history[0].Notes, ShouldEqual, "first pass")
				So(history[1].Notes, ShouldEqual, "after demo")
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given a ledger with submissions from three judges", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
		ledger := scoring.New(scoring.WithClock(clk))

		for _, judge := range []string{"judge-a", "judge-b", "judge-c"} {
			_, err := ledger.Submit(ctx, "team-1", judge, scoring.Criteria{
				CommitFrequency:  20,
				CodeQuality:      20,
				ProblemRelevance: 20,
				FinalSubmission:  20,
			}, "")
			So(err, ShouldBeNil)
			clk.Advance(time.Minute)
		}

		Convey("When aggregating the team", func() {
			agg := ledger.Aggregate(ctx, "team-1")

			Convey("Then per-criterion means and the total should be computed", func() {
				So(agg.CommitFrequency, ShouldEqual, 20)
				So(agg.CodeQuality, ShouldEqual, 20)
				So(agg.ProblemRelevance, ShouldEqual, 20)
				So(agg.FinalSubmission, ShouldEqual, 20)
				So(agg.Total, ShouldEqual, 80)
				So(agg.JudgeCount, ShouldEqual, 3)
			})
		})

		Convey("When one judge revises downward", func() {
			_, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{}, "retracted")
			So(err, ShouldBeNil)

			Convey("Then the default policy should average the full history", func() {
				agg := ledger.Aggregate(ctx, "team-1")
				So(agg.Total, ShouldEqual, 60)
				So(agg.JudgeCount, ShouldEqual, 3)
			})
		})

		Convey("When aggregating a team with no scores", func() {
			agg := ledger.Aggregate(ctx, "team-ghost")

			Convey("Then the aggregate should be zero-valued, not an error", func() {
				So(agg.Total, ShouldEqual, 0)
				So(agg.JudgeCount, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a ledger using the latest-per-judge policy", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
		ledger := scoring.New(scoring.WithClock(clk), scoring.WithLatestPerJudge())

		_, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{CodeQuality: 5}, "")
		So(err, ShouldBeNil)
		clk.Advance(time.Minute)
		_, err = ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{CodeQuality: 15}, "")
		So(err, ShouldBeNil)
		clk.Advance(time.Minute)
		_, err = ledger.Submit(ctx, "team-1", "judge-b", scoring.Criteria{CodeQuality: 25}, "")
		So(err, ShouldBeNil)

		Convey("When aggregating the team", func() {
			agg := ledger.Aggregate(ctx, "team-1")

			Convey("Then only each judge's most recent submission should count", func() {
				So(agg.CodeQuality, ShouldEqual, 20)
				So(agg.Total, ShouldEqual, 20)
				So(agg.JudgeCount, ShouldEqual, 2)
			})
		})
	})
}

func TestClearAndRestore(t *testing.T) {
	Convey("Given a ledger with scores for two teams", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))

		var cleared []string
		ledger := scoring.New(
			scoring.WithClock(clk),
			scoring.WithClearHook(func(teamID string) { cleared = append(cleared, teamID) }),
		)

		_, err := ledger.Submit(ctx, "team-1", "judge-a", scoring.Criteria{CodeQuality: 10}, "")
		So(err, ShouldBeNil)
		_, err = ledger.Submit(ctx, "team-2", "judge-a", scoring.Criteria{CodeQuality: 10}, "")
		So(err, ShouldBeNil)

		Convey("When clearing one team", func() {
			ledger.Clear(ctx, "team-1")

			Convey("Then only that team's scores should vanish", func() {
				So(ledger.Scores(ctx, "team-1"), ShouldBeEmpty)
				So(ledger.Scores(ctx, "team-2"), ShouldHaveLength, 1)
				So(cleared, ShouldResemble, []string{"team-1"})
			})

			Convey("And clearing it again should still succeed", func() {
				ledger.Clear(ctx, "team-1")
				So(ledger.Scores(ctx, "team-1"), ShouldBeEmpty)
			})
		})

		Convey("When restoring persisted scores out of order", func() {
			base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
			fresh := scoring.New()
			fresh.Restore(ctx, []model.JudgeScore{
				{ID: "s2", TeamID: "team-1", JudgeID: "judge-a", CodeQuality: 20, CreatedAt: base.Add(time.Hour)},
				{ID: "s1", TeamID: "team-1", JudgeID: "judge-a", CodeQuality: 10, CreatedAt: base},
			})

			Convey("Then the history should come back in submission order", func() {
				history := fresh.Scores(ctx, "team-1")
				So(history, ShouldHaveLength, 2)
				So(history[0].ID, ShouldEqual, "s1")
				So(history[1].ID, ShouldEqual, "s2")
			})
		})
	})
}
