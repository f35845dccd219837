package catalog_test

import (
	"testing"

	"github.com/hacksprint/arena/internal/domain/catalog"
	"github.com/hacksprint/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func baseStatements() []model.ProblemStatement {
	return []model.ProblemStatement{
		{ID: "ps-01", Title: "Realtime transit map", Difficulty: model.DifficultyMedium},
		{ID: "ps-02", Title: "Offline-first notes", Difficulty: model.DifficultyEasy},
		{ID: "ps-03", Title: "Fraud ring detector", Difficulty: model.DifficultyHard},
	}
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog built from a base set", t, func() {
		c, err := catalog.New(baseStatements())
		So(err, ShouldBeNil)

		Convey("When looking up statements", func() {
			Convey("Then known ids should resolve", func() {
				p, err := c.Get("ps-02")
				So(err, ShouldBeNil)
				So(p.Title, ShouldEqual, "Offline-first notes")
				So(c.Has("ps-03"), ShouldBeTrue)
			})

			Convey("And unknown ids should fail with not found", func() {
				_, err := c.Get("ps-99")
				So(err, ShouldWrap, catalog.ErrNotFound)
				So(c.Has("ps-99"), ShouldBeFalse)
			})
		})

		Convey("When listing the catalog", func() {
			list := c.List()

			Convey("Then the base set should come back in order", func() {
				So(list, ShouldHaveLength, 3)
				So(list[0].ID, ShouldEqual, "ps-01")
				So(list[2].ID, ShouldEqual, "ps-03")
				So(c.Len(), ShouldEqual, 3)
			})
		})

		Convey("When appending a new statement", func() {
			err := c.Append(model.ProblemStatement{ID: "ps-04", Title: "Edge cache warmer", Difficulty: model.DifficultyMedium})

			Convey("Then it should land after the base set", func() {
				So(err, ShouldBeNil)
				list := c.List()
				So(list, ShouldHaveLength, 4)
				So(list[3].ID, ShouldEqual, "ps-04")
			})

			Convey("And re-appending the same id should be a no-op", func() {
				So(err, ShouldBeNil)
				So(c.Append(model.ProblemStatement{ID: "ps-04", Title: "different title", Difficulty: model.DifficultyEasy}), ShouldBeNil)
				So(c.Len(), ShouldEqual, 4)

				p, err := c.Get("ps-04")
				So(err, ShouldBeNil)
				So(p.Title, ShouldEqual, "Edge cache warmer")
			})
		})

		Convey("When appending an invalid statement", func() {
			Convey("Then an empty id should be rejected", func() {
				So(c.Append(model.ProblemStatement{Difficulty: model.DifficultyEasy}), ShouldWrap, catalog.ErrInvalidStatement)
			})

			Convey("And an unknown difficulty should be rejected", func() {
				So(c.Append(model.ProblemStatement{ID: "ps-05", Difficulty: "Trivial"}), ShouldWrap, catalog.ErrInvalidStatement)
			})
		})
	})

	Convey("Given an invalid base set", t, func() {
		Convey("When two statements share an id", func() {
			_, err := catalog.New([]model.ProblemStatement{
				{ID: "ps-01", Difficulty: model.DifficultyEasy},
				{ID: "ps-01", Difficulty: model.DifficultyHard},
			})

			Convey("Then construction should fail", func() {
				So(err, ShouldWrap, catalog.ErrDuplicateID)
			})
		})

		Convey("When a statement has no id", func() {
			_, err := catalog.New([]model.ProblemStatement{{Difficulty: model.DifficultyEasy}})

			Convey("Then construction should fail", func() {
				So(err, ShouldWrap, catalog.ErrInvalidStatement)
			})
		})
	})
}
