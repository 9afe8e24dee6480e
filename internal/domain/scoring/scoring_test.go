package scoring_test

import (
	"testing"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable_Score(t *testing.T) {
	Convey("Given a scoring table", t, func() {
		table := scoring.NewTable([]model.Activity{
			{ID: "1", Activity: "Cold Call", Role: model.RoleSales, Score: 5},
			{ID: "2", Activity: "Demo", Role: model.RoleSales, Score: 10},
			{ID: "3", Activity: "QBR", Role: model.RoleAccountManager, Score: 20},
		})

		Convey("When resolving a known activity", func() {
			Convey("Then its configured score should be returned", func() {
				So(table.Score("Cold Call"), ShouldEqual, 5)
				So(table.Score("Demo"), ShouldEqual, 10)
				So(table.Score("QBR"), ShouldEqual, 20)
				So(table.Len(), ShouldEqual, 3)
			})
		})

		Convey("When resolving an unknown activity", func() {
			Convey("Then it should score nothing", func() {
				So(table.Score("Site Visit"), ShouldEqual, 0)
				So(table.Score(""), ShouldEqual, 0)
			})
		})

		Convey("When names differ only by case", func() {
			Convey("Then they should not match", func() {
				So(table.Score("cold call"), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a catalog with duplicate activity names", t, func() {
		table := scoring.NewTable([]model.Activity{
			{ID: "1", Activity: "Demo", Role: model.RoleSales, Score: 10},
			{ID: "2", Activity: "Demo", Role: model.RoleAccountManager, Score: 7},
		})

		Convey("Then the last row should win regardless of role", func() {
			So(table.Score("Demo"), ShouldEqual, 7)
			So(table.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given an empty or nil table", t, func() {
		empty := scoring.NewTable(nil)
		var missing *scoring.Table

		Convey("Then every activity should score zero", func() {
			So(empty.Score("Demo"), ShouldEqual, 0)
			So(missing.Score("Demo"), ShouldEqual, 0)
			So(missing.Len(), ShouldEqual, 0)
		})
	})
}

func TestFunc(t *testing.T) {
	Convey("Given a resolver function", t, func() {
		r := scoring.Func(func(a string) int { return len(a) })

		Convey("Then it should satisfy Resolver", func() {
			var resolver scoring.Resolver = r
			So(resolver.Score("Demo"), ShouldEqual, 4)
		})
	})
}
