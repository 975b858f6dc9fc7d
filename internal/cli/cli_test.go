package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// fakeRouteService knows a direct road between Atar and Kiffa, reports an
// error for Zouerat and finds nothing otherwise.
func fakeRouteService(calls *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		var req route.Request
		_ = json.NewDecoder(r.Body).Decode(&req)

		var resp route.Response
		switch {
		case req.StartCity == "Zouerat" || req.EndCity == "Zouerat":
			resp.Error = "Invalid city selection."
		case req.StartCity == "Atar" && req.EndCity == "Kiffa":
			diff, pct := 50.0, 10.0
			resp.AllPaths = []route.Path{
				{Number: 1, RouteStr: "Atar → Kiffa", Distance: 500, Optimal: true},
				{Number: 2, RouteStr: "Atar → Rosso → Kiffa", Distance: 550, Difference: &diff, Percentage: &pct},
			}
		case req.StartCity == "Kiffa" && req.EndCity == "Atar":
			resp.AllPaths = []route.Path{{Number: 1, RouteStr: "Kiffa → Atar", Distance: 500, Optimal: true}}
		default:
			resp.AllPaths = []route.Path{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestLookup(t *testing.T) {
	Convey("Given a route service", t, func() {
		var calls int64
		srv := fakeRouteService(&calls)
		defer srv.Close()
		ctx := context.Background()
		cfg := &Config{BaseURL: srv.URL, From: "Atar", To: "Kiffa", Timeout: 2 * time.Second}

		Convey("When looking up a pair with routes as text", func() {
			var out, progress bytes.Buffer
			outcome, err := Lookup(ctx, cfg, &out, &progress)

			Convey("Then each card should print as a block", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, route.OutcomeRoutes)
				So(out.String(), ShouldEqual, "Routes Found:\n"+
					"⭐ Optimal  Route 1\n"+
					"  Atar → Kiffa  500 km\n"+
					"Alternative 1  Route 2\n"+
					"  Atar → Rosso → Kiffa  550 km (+50 km, +10.0%)\n")
				So(progress.String(), ShouldEqual, "Searching for routes...\n")
			})
		})

		Convey("When looking up a pair as HTML", func() {
			cfg.Format = FormatHTML
			var out bytes.Buffer
			_, err := Lookup(ctx, cfg, &out, nil)

			Convey("Then the rendered fragment should be printed", func() {
				So(err, ShouldBeNil)
				doc, perr := goquery.NewDocumentFromReader(&out)
				So(perr, ShouldBeNil)
				So(doc.Find(".path-card").Length(), ShouldEqual, 2)
			})
		})

		Convey("When the route service reports an error", func() {
			cfg.From = "Zouerat"
			var out bytes.Buffer
			outcome, err := Lookup(ctx, cfg, &out, nil)

			Convey("Then it should be printed verbatim", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, route.OutcomeServerError)
				So(out.String(), ShouldEqual, "Error: Invalid city selection.\n")
			})
		})

		Convey("When the pair is invalid", func() {
			cfg.To = "Atar"
			cfg.From = "Atar"
			var out bytes.Buffer
			outcome, err := Lookup(ctx, cfg, &out, nil)

			Convey("Then no request should be made", func() {
				So(outcome, ShouldEqual, route.OutcomeInvalid)
				So(errors.Is(err, route.ErrSameCity), ShouldBeTrue)
				So(atomic.LoadInt64(&calls), ShouldEqual, 0)
				So(out.String(), ShouldEqual, "Error: Start and end cities must be different.\n")
			})
		})

		Convey("When the format is unknown", func() {
			cfg.Format = "pdf"
			_, err := Lookup(ctx, cfg, io.Discard, nil)
			So(errors.Is(err, ErrUnknownFmt), ShouldBeTrue)
			So(atomic.LoadInt64(&calls), ShouldEqual, 0)
		})
	})

	Convey("Given a route service that is down", t, func() {
		var calls int64
		srv := fakeRouteService(&calls)
		srv.Close()
		cfg := &Config{BaseURL: srv.URL, From: "Atar", To: "Kiffa", Timeout: time.Second}

		var out bytes.Buffer
		outcome, err := Lookup(context.Background(), cfg, &out, nil)

		Convey("Then the generic failure message should be printed", func() {
			So(err, ShouldNotBeNil)
			So(outcome, ShouldEqual, route.OutcomeTransport)
			So(out.String(), ShouldStartWith, "Error: An error occurred: ")
		})
	})
}

func TestSweep(t *testing.T) {
	Convey("Given a route service and four cities", t, func() {
		var calls int64
		srv := fakeRouteService(&calls)
		defer srv.Close()
		cfg := &Config{
			BaseURL:  srv.URL,
			AllPairs: true,
			Cities:   []string{"Atar", "Kiffa", "Rosso", "Zouerat"},
			Workers:  3,
			Timeout:  2 * time.Second,
		}

		Convey("When sweeping every pair", func() {
			stats, err := Sweep(context.Background(), cfg, nil)

			Convey("Then every ordered pair should be searched once", func() {
				So(err, ShouldBeNil)
				So(stats.Pairs, ShouldEqual, 12)
				So(atomic.LoadInt64(&calls), ShouldEqual, 12)
			})

			Convey("And outcomes should be counted", func() {
				So(stats.ByOutcome[string(route.OutcomeRoutes)], ShouldEqual, int64(2))
				So(stats.ByOutcome[string(route.OutcomeServerError)], ShouldEqual, int64(6))
				So(stats.ByOutcome[string(route.OutcomeNoRoutes)], ShouldEqual, int64(4))
				So(stats.Paths, ShouldEqual, int64(3))
			})

			Convey("And the summary should list them", func() {
				var out bytes.Buffer
				So(WriteSummary(&out, stats), ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "Pairs searched: 12")
				So(out.String(), ShouldContainSubstring, "routes           2")
				So(out.String(), ShouldContainSubstring, "Paths rendered: 3")
				So(out.String(), ShouldNotContainSubstring, string(route.OutcomeTransport))
			})
		})

		Convey("When there are fewer than two cities", func() {
			cfg.Cities = []string{"Atar"}
			_, err := Sweep(context.Background(), cfg, nil)
			So(errors.Is(err, ErrUsage), ShouldBeTrue)
		})

		Convey("When running through Run", func() {
			var out bytes.Buffer
			err := Run(context.Background(), cfg, &out, io.Discard)
			So(err, ShouldBeNil)
			So(out.String(), ShouldStartWith, "Pairs searched: 12")
		})
	})
}

func TestRunUsage(t *testing.T) {
	Convey("Given no pair and no sweep", t, func() {
		err := Run(context.Background(), &Config{BaseURL: "http://localhost:1"}, io.Discard, nil)
		So(errors.Is(err, ErrUsage), ShouldBeTrue)
	})
}

func TestPairs(t *testing.T) {
	Convey("Given three cities", t, func() {
		got := pairs([]string{"A", "B", "C"})

		Convey("Then every ordered distinct pair should be listed", func() {
			So(len(got), ShouldEqual, 6)
			So(got[0], ShouldResemble, pair{from: "A", to: "B"})
			So(got[0].key(), ShouldEqual, "A→B")
			for _, p := range got {
				So(p.from, ShouldNotEqual, p.to)
			}
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var out bytes.Buffer
		ShowHelp(&out)
		So(out.String(), ShouldContainSubstring, "-all-pairs")
		So(strings.Count(out.String(), "routes-cli"), ShouldBeGreaterThan, 2)
	})
}
