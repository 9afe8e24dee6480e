package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/config"
	"github.com/okian/salesboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Store.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the application wired on a file store", t, func() {
		convey.So(logger.Init(logger.WithOutput(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()

		svc, err := newService(ctx, testConfig(t), logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = svc.Close() }()

		srv := httptest.NewServer(newHandler(ctx, svc))
		defer srv.Close()

		convey.Convey("When catalogs are installed and an activity is logged", func() {
			for _, body := range []string{
				`{"action":"updateMembers","payload":{"members":[{"name":"Alice","role":"Sales","region":"North","bu":"Cloud"}]}}`,
				`{"action":"updateScores","payload":{"activities":[{"activity":"Demo","role":"Sales","score":10}]}}`,
				`{"action":"logActivity","payload":{"date":"2024-06-03","sam_name":"Alice","activity":"Demo","client_type":"Must Win"}}`,
			} {
				resp, err := http.Post(srv.URL+"/api/data", "application/json", strings.NewReader(body))
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldBeLessThan, 300)
			}

			convey.Convey("Then the leaderboard should reflect it", func() {
				resp, err := http.Get(srv.URL + "/api/data?action=leaderboard&startDate=2024-06-01&endDate=2024-06-30")
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var boards struct {
					Sales []struct {
						Name  string `json:"name"`
						Score int    `json:"score"`
					} `json:"sales"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&boards), convey.ShouldBeNil)
				convey.So(boards.Sales, convey.ShouldHaveLength, 1)
				convey.So(boards.Sales[0].Score, convey.ShouldEqual, 10)
			})

			convey.Convey("And the docs routes should be served", func() {
				resp, err := http.Get(srv.URL + "/openapi.yaml")
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestNewServiceErrors(t *testing.T) {
	convey.Convey("Given a configuration the store cannot satisfy", t, func() {
		convey.So(logger.Init(logger.WithOutput(io.Discard)), convey.ShouldBeNil)
		cfg := testConfig(t)

		convey.Convey("When the driver is unknown", func() {
			cfg.Store.Driver = "mongo"
			_, err := newService(context.Background(), cfg, logger.Get())

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "mongo")
			})
		})

		convey.Convey("When the timezone cannot be loaded", func() {
			cfg.Timezone = "Mars/Olympus"
			_, err := newService(context.Background(), cfg, logger.Get())

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metric updaters", t, func() {
		convey.So(logger.Init(logger.WithOutput(io.Discard)), convey.ShouldBeNil)
		svc, err := newService(context.Background(), testConfig(t), logger.Get())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then they should return once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a direct system update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
