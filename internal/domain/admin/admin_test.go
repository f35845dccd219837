package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/hacksprint/arena/internal/domain/admin"
	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/registry"
	"github.com/hacksprint/arena/internal/domain/scoring"
	"github.com/hacksprint/arena/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeTracker struct {
	forgotten []string
}

func (f *fakeTracker) Forget(teamID string) { f.forgotten = append(f.forgotten, teamID) }

func roster() []model.Member {
	return []model.Member{
		{Name: "Priya", Email: "priya@example.com"},
		{Name: "Marcus", Email: "marcus@example.com"},
	}
}

func newController(t *testing.T, clk clock.Clock) (*admin.Controller, *registry.Registry, *scoring.Ledger, *fakeTracker) {
	t.Helper()
	reg := registry.New(registry.WithClock(clk))
	ledger := scoring.New(scoring.WithClock(clk))
	gate := selection.New(reg, selection.WithClock(clk), selection.WithPaymentGate(false))
	cat, err := catalog.New([]model.ProblemStatement{
		{ID: "ps-01", Title: "Realtime transit map", Difficulty: model.DifficultyMedium},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	tracker := &fakeTracker{}
	ctrl := admin.New(admin.Dependencies{
		Gate:     gate,
		Teams:    reg,
		Scores:   ledger,
		Problems: cat,
		Tracker:  tracker,
	}, admin.WithClock(clk))
	return ctrl, reg, ledger, tracker
}

func TestSprintControl(t *testing.T) {
	Convey("Given a fresh controller", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		ctrl, _, _, _ := newController(t, clk)

		Convey("When starting an eight hour sprint", func() {
			event, err := ctrl.StartSprint(ctx, 8)

			Convey("Then the sprint clock should run from now", func() {
				So(err, ShouldBeNil)
				So(event.SprintStart, ShouldEqual, clk.Now())
				So(event.SprintEnd, ShouldEqual, clk.Now().Add(8*time.Hour))
				So(event.SprintActive(), ShouldBeTrue)

				deadline, ok := ctrl.Deadline(ctx)
				So(ok, ShouldBeTrue)
				So(deadline, ShouldEqual, event.SprintEnd)
			})

			Convey("And repeating the call with the same duration should not restart it", func() {
				So(err, ShouldBeNil)
				clk.Advance(time.Hour)
				again, err := ctrl.StartSprint(ctx, 8)
				So(err, ShouldBeNil)
				So(again.SprintStart, ShouldEqual, event.SprintStart)
				So(again.SprintEnd, ShouldEqual, event.SprintEnd)
			})

			Convey("And a different duration should restart the clock", func() {
				So(err, ShouldBeNil)
				clk.Advance(time.Hour)
				changed, err := ctrl.StartSprint(ctx, 12)
				So(err, ShouldBeNil)
				So(changed.SprintStart, ShouldEqual, clk.Now())
				So(changed.SprintEnd, ShouldEqual, clk.Now().Add(12*time.Hour))
			})
		})

		Convey("When the duration is out of bounds", func() {
			_, tooShort := ctrl.StartSprint(ctx, 0)
			_, tooLong := ctrl.StartSprint(ctx, 25)

			Convey("Then both should be rejected", func() {
				So(tooShort, ShouldWrap, admin.ErrInvalidDuration)
				So(tooLong, ShouldWrap, admin.ErrInvalidDuration)
			})
		})

		Convey("When stopping the sprint", func() {
			_, err := ctrl.StartSprint(ctx, 8)
			So(err, ShouldBeNil)

			event := ctrl.StopSprint(ctx)

			Convey("Then the sprint clock should be cleared", func() {
				So(event.SprintActive(), ShouldBeFalse)
				_, ok := ctrl.Deadline(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("And stopping again should be a no-op", func() {
				again := ctrl.StopSprint(ctx)
				So(again.SprintActive(), ShouldBeFalse)
			})
		})
	})
}

func TestRegistrationToggle(t *testing.T) {
	Convey("Given a fresh controller", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		ctrl, _, _, _ := newController(t, clk)

		Convey("When reading the initial state", func() {
			Convey("Then registration should start open", func() {
				So(ctrl.Event(ctx).RegistrationOpen, ShouldBeTrue)
			})
		})

		Convey("When closing registration", func() {
			event := ctrl.SetRegistrationOpen(ctx, false)

			Convey("Then the flag should flip", func() {
				So(event.RegistrationOpen, ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				again := ctrl.SetRegistrationOpen(ctx, false)
				So(again.RegistrationOpen, ShouldBeFalse)
			})
		})
	})

	Convey("Given a controller restored from a persisted event", t, func() {
		ctx := context.Background()
		restored := model.CompetitionEvent{RegistrationOpen: false}
		ctrl := admin.New(admin.Dependencies{}, admin.WithEvent(restored))

		Convey("When reading the state", func() {
			Convey("Then the restored flags should win over the defaults", func() {
				So(ctrl.Event(ctx).RegistrationOpen, ShouldBeFalse)
			})
		})
	})
}

func TestTeamOverrides(t *testing.T) {
	Convey("Given a controller over a registered team", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		ctrl, reg, ledger, tracker := newController(t, clk)

		team, err := reg.Register(ctx, "Segfault Collective", roster())
		So(err, ShouldBeNil)

		Convey("When force-locking and force-unlocking the team", func() {
			locked, err := ctrl.ForceLock(ctx, team.ID)
			So(err, ShouldBeNil)
			So(locked.Selection.Locked, ShouldBeTrue)

			unlocked, err := ctrl.ForceUnlock(ctx, team.ID)

			Convey("Then the lock should be released", func() {
				So(err, ShouldBeNil)
				So(unlocked.Selection.Locked, ShouldBeFalse)
			})
		})

		Convey("When clearing the team's scores", func() {
			_, err := ledger.Submit(ctx, team.ID, "judge-a", scoring.Criteria{CodeQuality: 10}, "")
			So(err, ShouldBeNil)

			ctrl.ClearScores(ctx, team.ID)

			Convey("Then the history should be empty", func() {
				So(ledger.Scores(ctx, team.ID), ShouldBeEmpty)
			})
		})

		Convey("When resetting the team", func() {
			_, err := ledger.Submit(ctx, team.ID, "judge-a", scoring.Criteria{CodeQuality: 10}, "")
			So(err, ShouldBeNil)

			So(ctrl.ResetTeam(ctx, team.ID), ShouldBeNil)

			Convey("Then the team, its scores and its snapshot should all be dropped", func() {
				_, err := reg.Get(ctx, team.ID)
				So(err, ShouldWrap, registry.ErrNotFound)
				So(ledger.Scores(ctx, team.ID), ShouldBeEmpty)
				So(tracker.forgotten, ShouldResemble, []string{team.ID})
			})
		})

		Convey("When appending a problem statement", func() {
			err := ctrl.AppendProblem(ctx, model.ProblemStatement{
				ID: "ps-02", Title: "Offline-first notes", Difficulty: model.DifficultyEasy,
			})

			Convey("Then the catalog should grow", func() {
				So(err, ShouldBeNil)
			})

			Convey("And an invalid statement should be rejected", func() {
				So(err, ShouldBeNil)
				So(ctrl.AppendProblem(ctx, model.ProblemStatement{ID: "ps-03", Difficulty: "Trivial"}), ShouldWrap, catalog.ErrInvalidStatement)
			})
		})
	})
}
