package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	Convey("Given calendar dates", t, func() {
		Convey("When parsing a YYYY-MM-DD string", func() {
			d, err := model.ParseDate("2024-06-01")

			Convey("Then it should round-trip through String", func() {
				So(err, ShouldBeNil)
				So(d.String(), ShouldEqual, "2024-06-01")
				So(d.Equal(model.NewDate(2024, time.June, 1)), ShouldBeTrue)
			})
		})

		Convey("When parsing a malformed string", func() {
			_, err := model.ParseDate("06/01/2024")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "YYYY-MM-DD")
			})
		})

		Convey("When comparing adjacent days", func() {
			d := model.NewDate(2024, time.February, 28)
			next := d.AddDays(1)

			Convey("Then ordering should follow the calendar", func() {
				So(next.String(), ShouldEqual, "2024-02-29")
				So(d.Before(next), ShouldBeTrue)
				So(next.After(d), ShouldBeTrue)
				So(d.Equal(next), ShouldBeFalse)
			})
		})

		Convey("When taking the date of a timestamp", func() {
			loc := time.FixedZone("UTC+9", 9*60*60)
			ts := time.Date(2024, time.June, 1, 23, 30, 0, 0, loc)

			Convey("Then the timestamp's own calendar day should be used", func() {
				So(model.DateOf(ts).String(), ShouldEqual, "2024-06-01")
			})
		})

		Convey("When decoding JSON", func() {
			var payload struct {
				A model.Date `json:"a"`
				B model.Date `json:"b"`
				C model.Date `json:"c"`
				D model.Date `json:"d"`
			}
			err := json.Unmarshal([]byte(`{"a":"2024-06-03","b":"","c":null,"d":"2024-06-03T10:00:00Z"}`), &payload)

			Convey("Then dates, blanks and timestamps should be accepted", func() {
				So(err, ShouldBeNil)
				So(payload.A.String(), ShouldEqual, "2024-06-03")
				So(payload.B.IsZero(), ShouldBeTrue)
				So(payload.C.IsZero(), ShouldBeTrue)
				So(payload.D.String(), ShouldEqual, "2024-06-03")
			})
		})

		Convey("When decoding a non-date string", func() {
			var d model.Date
			err := json.Unmarshal([]byte(`"yesterday"`), &d)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When encoding JSON", func() {
			b, err := json.Marshal(model.NewDate(2024, time.June, 1))
			zero, zerr := json.Marshal(model.Date{})

			Convey("Then the wire form should be a date string", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `"2024-06-01"`)
				So(zerr, ShouldBeNil)
				So(string(zero), ShouldEqual, "null")
			})
		})
	})
}

func TestID(t *testing.T) {
	Convey("Given catalog ids", t, func() {
		Convey("When decoding numeric and string ids", func() {
			var members []model.Member
			err := json.Unmarshal([]byte(`[{"id":1717200000000,"name":"Alice"},{"id":"m-2","name":"Bob"}]`), &members)

			Convey("Then both forms should decode to strings", func() {
				So(err, ShouldBeNil)
				So(members[0].ID, ShouldEqual, model.ID("1717200000000"))
				So(members[1].ID, ShouldEqual, model.ID("m-2"))
			})
		})

		Convey("When generating ids", func() {
			a, errA := model.NewID()
			b, errB := model.NewID()

			Convey("Then they should be unique and time-ordered", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldNotEqual, b)
				So(string(a) < string(b), ShouldBeTrue)
			})
		})
	})
}

func TestEnums(t *testing.T) {
	Convey("Given roles and client types", t, func() {
		Convey("Then only the known values should be valid", func() {
			So(model.RoleSales.Valid(), ShouldBeTrue)
			So(model.RoleAccountManager.Valid(), ShouldBeTrue)
			So(model.Role("Manager").Valid(), ShouldBeFalse)
			So(model.Role("").Valid(), ShouldBeFalse)

			So(model.ClientMustWin.Valid(), ShouldBeTrue)
			So(model.ClientNA.Valid(), ShouldBeTrue)
			So(model.ClientType("Whale").Valid(), ShouldBeFalse)
		})

		Convey("When looking up a member by name", func() {
			members := []model.Member{{Name: "Alice"}, {Name: "Bob", Role: model.RoleAccountManager}}
			m, ok := model.FindMember(members, "Bob")
			_, missing := model.FindMember(members, "Carol")

			Convey("Then only present names should be found", func() {
				So(ok, ShouldBeTrue)
				So(m.Role, ShouldEqual, model.RoleAccountManager)
				So(missing, ShouldBeFalse)
			})
		})
	})
}
