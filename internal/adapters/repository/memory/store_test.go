package memory_test

import (
	"context"
	"testing"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository/memory"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleTable() *model.Table {
	t := model.NewTable("type_name", "pass_end_x", "pass_end_y")
	t.Append(model.FlatRecord{"type_name": "Pass", "pass_end_x": 10.0, "pass_end_y": 20.0})
	t.Append(model.FlatRecord{"type_name": "Shot", "pass_end_x": nil, "pass_end_y": nil})
	return t
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		ctx := context.Background()
		store := memory.NewStore()

		Convey("When ensuring and loading a table", func() {
			src := sampleTable()
			So(store.EnsureTable(ctx, "events", src), ShouldBeNil)

			n, err := store.Load(ctx, "events", src)

			Convey("Then all rows land in the relation", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				So(store.RowCount("events"), ShouldEqual, 2)
				So(store.Table("events").Columns(), ShouldResemble, src.Columns())
			})

			Convey("And loading again appends", func() {
				_, err := store.Load(ctx, "events", sampleTable())
				So(err, ShouldBeNil)
				So(store.RowCount("events"), ShouldEqual, 4)
			})
		})

		Convey("When ensuring a table with no columns", func() {
			err := store.EnsureTable(ctx, "events", model.NewTable())

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, repository.ErrEmptyTable)
			})
		})

		Convey("When ensuring an existing relation with new columns", func() {
			So(store.EnsureTable(ctx, "events", sampleTable()), ShouldBeNil)
			wider := model.NewTable("type_name", "shot_xg")
			So(store.EnsureTable(ctx, "events", wider), ShouldBeNil)

			Convey("Then the column set is the union", func() {
				So(store.Table("events").Columns(), ShouldContain, "shot_xg")
				So(store.Table("events").Columns(), ShouldContain, "pass_end_x")
			})
		})

		Convey("When querying", func() {
			_, err := store.Query(ctx, "SELECT 1")

			Convey("Then SQL is reported unsupported", func() {
				So(err, ShouldWrap, repository.ErrQueryUnsupported)
			})
		})
	})
}
