package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry and custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("board"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.eventsLogged.Inc()

			Convey("Then collectors should be registered under the configured names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_board_events_logged_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating two managers on one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording write-path metrics", func() {
			before := testutil.ToFloat64(globalManager.eventsLogged)
			RecordEventLogged()
			RecordEventRejected("unknown_member")
			RecordCatalogReplacement("members")

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.eventsLogged), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.eventsRejected.WithLabelValues("unknown_member")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.catalogReplacements.WithLabelValues("members")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording orphaned events", func() {
			before := testutil.ToFloat64(globalManager.orphanedEvents)
			RecordOrphanedEvents(0)
			RecordOrphanedEvents(3)

			Convey("Then only positive counts should be added", func() {
				So(testutil.ToFloat64(globalManager.orphanedEvents), ShouldEqual, before+3)
			})
		})

		Convey("When updating gauges", func() {
			UpdateCatalogSizes(4, 7)
			UpdateEventCount(12)

			Convey("Then they should hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.membersTotal), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.activitiesTotal), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.eventsTotal), ShouldEqual, 12)
			})
		})

		Convey("When recording the remaining series", func() {
			RecordLeaderboardComputation(1.5)
			RecordLeaderboardError()
			RecordStoreFallback("load_events")
			RecordStoreQueryLatency(2)
			RecordStoreUpdateLatency(3)
			RecordHTTPRequest("data", "GET", "200")
			RecordHTTPRequestDuration("data", "GET", "200", 4)
			RecordErrorByType("client_error", "medium")
			RecordErrorByEndpoint("data", "GET", "client_error")
			RecordErrorLatency("http", "client_error", 5)
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(8)
			RecordSystemGCPauseTime(0.2)

			Convey("Then the registry should expose them", func() {
				n, err := testutil.GatherAndCount(GetRegistry())
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThan, 10)

				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "salesboard_leaderboard_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager rebuilt with configured options", t, func() {
		Init(
			WithNamespace("sb"),
			WithSubsystem("board"),
			WithHistogramBuckets([]float64{1, 5}),
			WithCustomLabels(map[string]string{"instance": "a"}),
		)
		Reset(func() { Init() })

		RecordEventLogged()
		RecordLeaderboardComputation(3)

		Convey("Then the exported registry should carry the configured names and labels", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
				if f.GetName() == "sb_board_events_logged_total" {
					So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "instance")
					So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				}
				if f.GetName() == "sb_board_computation_latency_milliseconds" {
					So(f.GetMetric()[0].GetHistogram().GetBucket(), ShouldHaveLength, 2)
				}
			}
			So(names["sb_board_events_logged_total"], ShouldBeTrue)
			So(names["sb_board_computation_latency_milliseconds"], ShouldBeTrue)
			So(names["salesboard_leaderboard_events_logged_total"], ShouldBeFalse)
		})
	})
}
