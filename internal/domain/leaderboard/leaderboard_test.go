package leaderboard_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) model.Date { return model.NewDate(2024, time.June, d) }

func event(d int, name, activity string) model.ActivityEvent {
	return model.ActivityEvent{Date: day(d), SAMName: name, Activity: activity, ClientType: model.ClientMustWin}
}

func names(entries []leaderboard.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func scores(entries []leaderboard.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Score
	}
	return out
}

var (
	members = []model.Member{
		{ID: "1", Name: "Alice", Role: model.RoleSales, Region: "North", BU: "Cloud"},
		{ID: "2", Name: "Bob", Role: model.RoleAccountManager, Region: "South", BU: "Cloud"},
	}
	activities = []model.Activity{
		{ID: "a1", Activity: "Cold Call", Role: model.RoleSales, Score: 5},
		{ID: "a2", Activity: "Demo", Role: model.RoleAccountManager, Score: 10},
	}
)

func TestNewWindow(t *testing.T) {
	Convey("Given window bounds", t, func() {
		Convey("When start equals end", func() {
			w, err := leaderboard.NewWindow(day(2), day(2))

			Convey("Then the single day should be valid", func() {
				So(err, ShouldBeNil)
				So(w.String(), ShouldEqual, "2024-06-02..2024-06-02")
			})
		})

		Convey("When start is after end", func() {
			_, err := leaderboard.NewWindow(day(3), day(1))

			Convey("Then it should fail with ErrInvalidRange", func() {
				So(errors.Is(err, leaderboard.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When a bound is missing", func() {
			_, err := leaderboard.NewWindow(model.Date{}, day(1))

			Convey("Then it should fail with ErrInvalidRange", func() {
				So(errors.Is(err, leaderboard.ErrInvalidRange), ShouldBeTrue)
			})
		})
	})
}

func TestWindow_Filter(t *testing.T) {
	Convey("Given a window from the 10th to the 20th", t, func() {
		w, err := leaderboard.NewWindow(day(10), day(20))
		So(err, ShouldBeNil)

		events := []model.ActivityEvent{
			event(9, "Alice", "a"),
			event(10, "Alice", "b"),
			event(15, "Alice", "c"),
			event(20, "Alice", "d"),
			event(21, "Alice", "e"),
			{SAMName: "Alice", Activity: "undated"},
		}

		Convey("When filtering the log", func() {
			got := w.Filter(events)

			Convey("Then both bounds should be included and neighbours excluded", func() {
				So(len(got), ShouldEqual, 3)
				So(got[0].Activity, ShouldEqual, "b")
				So(got[1].Activity, ShouldEqual, "c")
				So(got[2].Activity, ShouldEqual, "d")
			})

			Convey("And the input should be untouched", func() {
				So(len(events), ShouldEqual, 6)
				So(events[0].Activity, ShouldEqual, "a")
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given a member catalog and a scoring table", t, func() {
		table := scoring.NewTable(activities)

		Convey("When there are no events", func() {
			res := leaderboard.Aggregate(nil, members, table)

			Convey("Then every member should be present with zero", func() {
				So(names(res.Entries), ShouldResemble, []string{"Alice", "Bob"})
				So(scores(res.Entries), ShouldResemble, []int{0, 0})
				So(res.Orphaned, ShouldEqual, 0)
			})
		})

		Convey("When events reference known activities", func() {
			res := leaderboard.Aggregate([]model.ActivityEvent{
				event(1, "Alice", "Cold Call"),
				event(2, "Alice", "Cold Call"),
				event(3, "Bob", "Demo"),
			}, members, table)

			Convey("Then scores should be summed per member", func() {
				So(scores(res.Entries), ShouldResemble, []int{10, 10})
			})

			Convey("And member attributes should come from the catalog", func() {
				So(res.Entries[0].Region, ShouldEqual, "North")
				So(res.Entries[0].BU, ShouldEqual, "Cloud")
				So(res.Entries[1].ID, ShouldEqual, model.ID("2"))
			})
		})

		Convey("When an event references a deleted activity", func() {
			res := leaderboard.Aggregate([]model.ActivityEvent{
				event(1, "Alice", "Cold Call"),
				event(1, "Alice", "Retired Activity"),
			}, members, table)

			Convey("Then it should contribute nothing", func() {
				So(res.Entries[0].Score, ShouldEqual, 5)
			})
		})

		Convey("When an event references a member no longer in the catalog", func() {
			res := leaderboard.Aggregate([]model.ActivityEvent{
				event(1, "Mallory", "Demo"),
				event(1, "Bob", "Demo"),
			}, members, table)

			Convey("Then it should be dropped without a synthetic entry", func() {
				So(names(res.Entries), ShouldResemble, []string{"Alice", "Bob"})
				So(res.Entries[1].Score, ShouldEqual, 10)
				So(res.Orphaned, ShouldEqual, 1)
			})
		})

		Convey("When the catalog repeats a name", func() {
			dup := []model.Member{
				{ID: "1", Name: "Alice", Role: model.RoleSales, Region: "North"},
				{ID: "2", Name: "Bob", Role: model.RoleAccountManager},
				{ID: "3", Name: "Alice", Role: model.RoleAccountManager, Region: "West"},
			}
			res := leaderboard.Aggregate([]model.ActivityEvent{event(1, "Alice", "Demo")}, dup, table)

			Convey("Then one bucket should exist at the first position with the last attributes", func() {
				So(names(res.Entries), ShouldResemble, []string{"Alice", "Bob"})
				So(res.Entries[0].ID, ShouldEqual, model.ID("3"))
				So(res.Entries[0].Region, ShouldEqual, "West")
				So(res.Entries[0].Score, ShouldEqual, 10)
				So(res.DuplicateNames, ShouldResemble, []string{"Alice"})
			})
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given aggregated entries", t, func() {
		entries := []leaderboard.Entry{
			{Name: "S1", Role: model.RoleSales, Score: 5},
			{Name: "A1", Role: model.RoleAccountManager, Score: 1},
			{Name: "S2", Role: model.RoleSales, Score: 9},
			{Name: "X1", Role: model.Role("Manager"), Score: 100},
			{Name: "S3", Role: model.RoleSales, Score: 5},
			{Name: "A2", Role: model.RoleAccountManager, Score: 4},
			{Name: "N1", Score: 50},
		}

		Convey("When building the boards", func() {
			b := leaderboard.Build(entries)

			Convey("Then each board should be sorted descending with stable ties", func() {
				So(names(b.Sales), ShouldResemble, []string{"S2", "S1", "S3"})
				So(names(b.AccountManagers), ShouldResemble, []string{"A2", "A1"})
			})

			Convey("And unknown roles should appear on neither board", func() {
				for _, e := range append(b.Sales, b.AccountManagers...) {
					So(e.Name, ShouldNotEqual, "X1")
					So(e.Name, ShouldNotEqual, "N1")
				}
			})

			Convey("And ranks should be positional", func() {
				rank, ok := b.Rank(model.RoleSales, "S3")
				So(ok, ShouldBeTrue)
				So(rank, ShouldEqual, 3)

				_, ok = b.Rank(model.RoleSales, "A1")
				So(ok, ShouldBeFalse)
				So(b.For(model.Role("Manager")), ShouldBeNil)
			})

			Convey("And the input order should be untouched", func() {
				So(entries[0].Name, ShouldEqual, "S1")
			})
		})

		Convey("When nothing is present", func() {
			b := leaderboard.Build(nil)

			Convey("Then both boards should encode as empty arrays", func() {
				out, err := json.Marshal(b)
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"sales":[],"am":[]}`)
			})
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given Alice (Sales), Bob (Account Manager) and two logged events", t, func() {
		events := []model.ActivityEvent{
			event(1, "Alice", "Cold Call"),
			event(3, "Bob", "Demo"),
		}

		Convey("When querying 2024-06-01..2024-06-03", func() {
			w, err := leaderboard.NewWindow(day(1), day(3))
			So(err, ShouldBeNil)
			r := leaderboard.Compute(w, events, members, activities)

			Convey("Then Alice should have 5 and Bob 10", func() {
				So(len(r.Boards.Sales), ShouldEqual, 1)
				So(r.Boards.Sales[0].Name, ShouldEqual, "Alice")
				So(r.Boards.Sales[0].Score, ShouldEqual, 5)
				So(len(r.Boards.AccountManagers), ShouldEqual, 1)
				So(r.Boards.AccountManagers[0].Name, ShouldEqual, "Bob")
				So(r.Boards.AccountManagers[0].Score, ShouldEqual, 10)
				So(r.Considered, ShouldEqual, 2)
			})
		})

		Convey("When querying 2024-06-02..2024-06-02", func() {
			w, err := leaderboard.NewWindow(day(2), day(2))
			So(err, ShouldBeNil)
			r := leaderboard.Compute(w, events, members, activities)

			Convey("Then both scores should be zero", func() {
				So(r.Boards.Sales[0].Score, ShouldEqual, 0)
				So(r.Boards.AccountManagers[0].Score, ShouldEqual, 0)
				So(r.Considered, ShouldEqual, 0)
			})
		})

		Convey("When computing twice with identical inputs", func() {
			w, _ := leaderboard.NewWindow(day(1), day(30))
			first, err1 := json.Marshal(leaderboard.Compute(w, events, members, activities).Boards)
			second, err2 := json.Marshal(leaderboard.Compute(w, events, members, activities).Boards)

			Convey("Then the output should be byte-identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(string(first), ShouldEqual, string(second))
			})
		})

		Convey("When Alice moves to Account Manager after logging", func() {
			moved := []model.Member{
				{ID: "1", Name: "Alice", Role: model.RoleAccountManager},
				{ID: "2", Name: "Bob", Role: model.RoleAccountManager},
			}
			w, _ := leaderboard.NewWindow(day(1), day(3))
			r := leaderboard.Compute(w, events, moved, activities)

			Convey("Then her history should count on the Account Manager board", func() {
				So(len(r.Boards.Sales), ShouldEqual, 0)
				So(names(r.Boards.AccountManagers), ShouldResemble, []string{"Bob", "Alice"})
				So(scores(r.Boards.AccountManagers), ShouldResemble, []int{10, 5})
			})
		})

		Convey("When the scoring table changes after logging", func() {
			w, _ := leaderboard.NewWindow(day(1), day(3))
			rescored := []model.Activity{{Activity: "Cold Call", Role: model.RoleSales, Score: 50}}
			r := leaderboard.Compute(w, events, members, rescored)

			Convey("Then current values should apply and removed rules score zero", func() {
				So(r.Boards.Sales[0].Score, ShouldEqual, 50)
				So(r.Boards.AccountManagers[0].Score, ShouldEqual, 0)
			})
		})
	})
}
