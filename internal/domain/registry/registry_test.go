package registry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func roster() []model.Member {
	return []model.Member{
		{Name: "Priya", Email: "priya@example.com"},
		{Name: "Marcus", Email: "marcus@example.com"},
		{Name: "Lena", Email: "lena@example.com"},
	}
}

func TestRegister(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		reg := registry.New(registry.WithClock(clk))

		Convey("When registering a valid team", func() {
			team, err := reg.Register(ctx, "Segfault Collective", roster())

			Convey("Then the team should get an id and creation timestamp", func() {
				So(err, ShouldBeNil)
				So(team.ID, ShouldNotBeEmpty)
				So(team.Name, ShouldEqual, "Segfault Collective")
				So(team.Members, ShouldHaveLength, 3)
				So(team.CreatedAt, ShouldEqual, clk.Now())
				So(team.Paid, ShouldBeFalse)
				So(reg.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the roster is too small", func() {
			_, err := reg.Register(ctx, "Solo Act", roster()[:1])

			Convey("Then registration should fail", func() {
				So(err, ShouldWrap, registry.ErrInvalidRoster)
			})
		})

		Convey("When the roster is too large", func() {
			big := append(roster(), model.Member{Name: "Ana", Email: "ana@example.com"}, model.Member{Name: "Bo", Email: "bo@example.com"})
			_, err := reg.Register(ctx, "The Crowd", big)

			Convey("Then registration should fail", func() {
				So(err, ShouldWrap, registry.ErrInvalidRoster)
			})
		})

		Convey("When a member is missing an email", func() {
			bad := roster()
			bad[1].Email = "not-an-email"
			_, err := reg.Register(ctx, "Bad Roster", bad)

			Convey("Then registration should fail", func() {
				So(err, ShouldWrap, registry.ErrInvalidRoster)
			})
		})

		Convey("When the team name is blank", func() {
			_, err := reg.Register(ctx, "   ", roster())

			Convey("Then registration should fail", func() {
				So(err, ShouldWrap, registry.ErrInvalidRoster)
			})
		})

		Convey("When the team name is already taken", func() {
			_, err := reg.Register(ctx, "Segfault Collective", roster())
			So(err, ShouldBeNil)

			Convey("And another team registers the same name with different casing", func() {
				_, err := reg.Register(ctx, "  segfault collective ", roster())

				Convey("Then registration should fail", func() {
					So(err, ShouldWrap, registry.ErrInvalidRoster)
				})
			})
		})
	})
}

func TestPaymentAndRepo(t *testing.T) {
	Convey("Given a registered team", t, func() {
		ctx := context.Background()
		reg := registry.New()
		team, err := reg.Register(ctx, "Segfault Collective", roster())
		So(err, ShouldBeNil)

		Convey("When marking the team paid", func() {
			receipt := model.Receipt{ID: "rcpt-1", Tier: "standard", Method: "card"}
			updated, err := reg.MarkPaid(ctx, team.ID, receipt)

			Convey("Then the paid flag and receipt should be set", func() {
				So(err, ShouldBeNil)
				So(updated.Paid, ShouldBeTrue)
				So(updated.Receipt, ShouldNotBeNil)
				So(updated.Receipt.ID, ShouldEqual, "rcpt-1")
				So(updated.Receipt.TeamID, ShouldEqual, team.ID)
			})

			Convey("And marking it paid again should keep the original receipt", func() {
				So(err, ShouldBeNil)
				again, err := reg.MarkPaid(ctx, team.ID, model.Receipt{ID: "rcpt-2"})
				So(err, ShouldBeNil)
				So(again.Receipt.ID, ShouldEqual, "rcpt-1")
			})
		})

		Convey("When setting a valid repository URL", func() {
			updated, err := reg.SetRepoURL(ctx, team.ID, "github.com/acme/rocket.git")

			Convey("Then the canonical URL should be stored", func() {
				So(err, ShouldBeNil)
				So(updated.RepoURL, ShouldEqual, "https://github.com/acme/rocket")
			})

			Convey("And a later URL should overwrite it", func() {
				So(err, ShouldBeNil)
				updated, err := reg.SetRepoURL(ctx, team.ID, "https://gitlab.com/acme/rocket2")
				So(err, ShouldBeNil)
				So(updated.RepoURL, ShouldEqual, "https://gitlab.com/acme/rocket2")
			})
		})

		Convey("When setting an unsupported repository URL", func() {
			_, err := reg.SetRepoURL(ctx, team.ID, "https://example.com/acme/rocket")

			Convey("Then the update should fail and leave the record untouched", func() {
				So(err, ShouldWrap, registry.ErrInvalidURL)
				current, err := reg.Get(ctx, team.ID)
				So(err, ShouldBeNil)
				So(current.RepoURL, ShouldBeEmpty)
			})
		})

		Convey("When operating on an unknown team", func() {
			_, err := reg.MarkPaid(ctx, "missing", model.Receipt{})

			Convey("Then the operation should fail with not found", func() {
				So(err, ShouldWrap, registry.ErrNotFound)
			})
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given a registry with one team", t, func() {
		ctx := context.Background()
		reg := registry.New()
		team, err := reg.Register(ctx, "Segfault Collective", roster())
		So(err, ShouldBeNil)

		Convey("When an update function fails", func() {
			boom := errors.New("boom")
			_, err := reg.Update(ctx, team.ID, func(t *model.Team) error {
				t.Paid = true
				t.RepoURL = "https://github.com/acme/rocket"
				return boom
			})

			Convey("Then no partial mutation should survive", func() {
				So(err, ShouldEqual, boom)
				current, err := reg.Get(ctx, team.ID)
				So(err, ShouldBeNil)
				So(current.Paid, ShouldBeFalse)
				So(current.RepoURL, ShouldBeEmpty)
			})
		})

		Convey("When many goroutines update the same team concurrently", func() {
			const workers = 16
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					_, _ = reg.Update(ctx, team.ID, func(t *model.Team) error {
						t.Selection.ProblemID = fmt.Sprintf("ps-%02d", n)
						return nil
					})
				}(i)
			}
			wg.Wait()

			Convey("Then the record should hold exactly one of the written values", func() {
				current, err := reg.Get(ctx, team.ID)
				So(err, ShouldBeNil)
				So(current.Selection.ProblemID, ShouldStartWith, "ps-")
			})
		})
	})
}

func TestResetAndRestore(t *testing.T) {
	Convey("Given a registry with two teams", t, func() {
		ctx := context.Background()
		var dropped []string
		reg := registry.New(registry.WithDropHook(func(id string) { dropped = append(dropped, id) }))

		first, err := reg.Register(ctx, "First", roster())
		So(err, ShouldBeNil)
		second, err := reg.Register(ctx, "Second", roster())
		So(err, ShouldBeNil)

		Convey("When resetting one team", func() {
			So(reg.Reset(ctx, first.ID), ShouldBeNil)

			Convey("Then the team should be gone and its name freed", func() {
				_, err := reg.Get(ctx, first.ID)
				So(err, ShouldWrap, registry.ErrNotFound)
				So(reg.Count(ctx), ShouldEqual, 1)
				So(dropped, ShouldResemble, []string{first.ID})

				_, err = reg.Register(ctx, "First", roster())
				So(err, ShouldBeNil)
			})

			Convey("And resetting it again should still succeed", func() {
				So(reg.Reset(ctx, first.ID), ShouldBeNil)
				So(reg.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When restoring persisted teams into a fresh registry", func() {
			fresh := registry.New()
			So(fresh.Restore(ctx, []model.Team{first, second}), ShouldBeNil)

			Convey("Then both teams should be present in creation order", func() {
				list := fresh.List(ctx)
				So(list, ShouldHaveLength, 2)
				So(list[0].ID, ShouldEqual, first.ID)
				So(list[1].ID, ShouldEqual, second.ID)
			})
		})

		Convey("When restoring a team without an id", func() {
			fresh := registry.New()
			err := fresh.Restore(ctx, []model.Team{{Name: "ghost"}})

			Convey("Then the restore should fail", func() {
				So(err, ShouldWrap, registry.ErrInvalidRoster)
			})
		})
	})
}

func TestList(t *testing.T) {
	Convey("Given teams registered in sequence", t, func() {
		ctx := context.Background()
		clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		reg := registry.New(registry.WithClock(clk))

		names := []string{"Alpha", "Beta", "Gamma"}
		for _, name := range names {
			_, err := reg.Register(ctx, name, roster())
			So(err, ShouldBeNil)
			clk.Advance(time.Minute)
		}

		Convey("When listing all teams", func() {
			list := reg.List(ctx)

			Convey("Then creation order should be preserved", func() {
				So(list, ShouldHaveLength, 3)
				for i, name := range names {
					So(list[i].Name, ShouldEqual, name)
				}
			})
		})
	})
}
