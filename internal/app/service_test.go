package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	service "github.com/okian/citypath/internal/app"
	"github.com/okian/citypath/internal/config"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// routeServer answers every search with the payload chosen by the start city.
func routeServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req route.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch req.StartCity {
		case "Nowhere":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(route.Response{Error: "Invalid city selection."})
		case "Island":
			_ = json.NewEncoder(w).Encode(route.Response{AllPaths: []route.Path{}})
		default:
			_ = json.NewEncoder(w).Encode(route.Response{AllPaths: []route.Path{
				{Number: 1, RouteStr: req.StartCity + " → " + req.EndCity, Distance: 100, Optimal: true},
			}})
		}
	}))
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Title(), ShouldEqual, "Route Finder")
			So(svc.Cities(), ShouldResemble, config.DefaultCities)
			So(svc.Guard(), ShouldBeNil)
		})
	})

	Convey("Given a new service built from config", t, func() {
		cfg := config.New()
		cfg.Cities = []string{"Atar", "Rosso"}
		cfg.PageTitle = "Routes"
		svc := service.New(service.FromConfig(cfg)...)

		Convey("Then the config should be applied", func() {
			So(svc.Title(), ShouldEqual, "Routes")
			So(svc.Cities(), ShouldResemble, []string{"Atar", "Rosso"})
		})

		Convey("And the cities should be a copy", func() {
			got := svc.Cities()
			got[0] = "changed"
			So(svc.Cities()[0], ShouldEqual, "Atar")
		})
	})

	Convey("Given a nil config", t, func() {
		So(service.FromConfig(nil), ShouldBeEmpty)
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithUpstreamURL("http://127.0.0.1:1"))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When searching before start", func() {
			_, err := svc.FindRoutes(ctx, route.Request{StartCity: "A", EndCity: "B"})
			So(err, ShouldEqual, service.ErrNotStarted)
		})

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start and expose its components", func() {
				So(err, ShouldBeNil)
				So(svc.Guard(), ShouldNotBeNil)
				So(svc.Renderer(), ShouldNotBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given an empty upstream URL", t, func() {
		svc := service.New(service.WithUpstreamURL(" "))
		So(svc.Start(context.Background()), ShouldNotBeNil)
	})
}

func TestService_FindRoutes(t *testing.T) {
	Convey("Given a started service talking to a route service", t, func() {
		srv := routeServer()
		defer srv.Close()

		svc := service.New(
			service.WithUpstreamURL(srv.URL),
			service.WithUpstreamTimeout(2*time.Second),
			service.WithHTTPClient(srv.Client()),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When searches produce each outcome", func() {
			resp, err := svc.FindRoutes(ctx, route.Request{StartCity: "Atar", EndCity: "Rosso"})
			So(err, ShouldBeNil)
			So(resp.AllPaths[0].RouteStr, ShouldEqual, "Atar → Rosso")

			resp, err = svc.FindRoutes(ctx, route.Request{StartCity: "Nowhere", EndCity: "Rosso"})
			So(err, ShouldBeNil)
			So(resp.Error, ShouldEqual, "Invalid city selection.")

			_, err = svc.FindRoutes(ctx, route.Request{StartCity: "Island", EndCity: "Rosso"})
			So(err, ShouldBeNil)

			Convey("Then the stats should count them by outcome", func() {
				stats := svc.GetStats()
				So(stats["searches"], ShouldEqual, int64(3))
				So(stats["upstreamFailures"], ShouldEqual, int64(0))
				So(stats["inFlight"], ShouldEqual, int64(0))

				outcomes := stats["outcomes"].(map[string]int64)
				So(outcomes[string(route.OutcomeRoutes)], ShouldEqual, int64(1))
				So(outcomes[string(route.OutcomeServerError)], ShouldEqual, int64(1))
				So(outcomes[string(route.OutcomeNoRoutes)], ShouldEqual, int64(1))
			})
		})

		Convey("When the route service goes away", func() {
			srv.Close()
			_, err := svc.FindRoutes(ctx, route.Request{StartCity: "Atar", EndCity: "Rosso"})

			Convey("Then the failure should be counted", func() {
				So(err, ShouldNotBeNil)
				So(svc.GetStats()["upstreamFailures"], ShouldEqual, int64(1))
				outcomes := svc.GetStats()["outcomes"].(map[string]int64)
				So(outcomes[string(route.OutcomeTransport)], ShouldEqual, int64(1))
			})
		})
	})
}
