package routeclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/citypath/internal/adapters/http/routeclient"
	"github.com/okian/citypath/internal/domain/route"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeRouteService records what it received and answers with a fixed payload.
type fakeRouteService struct {
	status    int
	body      string
	delay     time.Duration
	gotMethod string
	gotPath   string
	gotType   string
	gotID     string
	gotBody   map[string]string
	calls     int
}

func (f *fakeRouteService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls++
	f.gotMethod = r.Method
	f.gotPath = r.URL.Path
	f.gotType = r.Header.Get("Content-Type")
	f.gotID = r.Header.Get(routeclient.RequestIDHeader)
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &f.gotBody)

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func TestClient_New(t *testing.T) {
	Convey("Given a base URL", t, func() {
		Convey("When it is empty", func() {
			c, err := routeclient.New("  ")
			So(c, ShouldBeNil)
			So(err, ShouldEqual, routeclient.ErrEmptyBaseURL)
		})

		Convey("When it has a trailing slash", func() {
			c, err := routeclient.New("http://routes:8000/")
			So(err, ShouldBeNil)
			So(c.Endpoint(), ShouldEqual, "http://routes:8000/api/routes")
		})
	})
}

func TestClient_FindRoutes(t *testing.T) {
	Convey("Given a route service", t, func() {
		fake := &fakeRouteService{status: http.StatusOK}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		c, err := routeclient.New(srv.URL)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When it returns paths", func() {
			fake.body = `{"all_paths":[{"route_str":"Nouakchott → Atar","distance":400,"est_optimal":true}],"image_data":"aGk="}`
			resp, err := c.FindRoutes(ctx, route.Request{StartCity: "Nouakchott", EndCity: "Atar"})

			Convey("Then the request should follow the contract", func() {
				So(err, ShouldBeNil)
				So(fake.calls, ShouldEqual, 1)
				So(fake.gotMethod, ShouldEqual, http.MethodPost)
				So(fake.gotPath, ShouldEqual, "/api/routes")
				So(fake.gotType, ShouldEqual, "application/json")
				So(fake.gotBody, ShouldResemble, map[string]string{"start_city": "Nouakchott", "end_city": "Atar"})
				So(fake.gotID, ShouldNotBeEmpty)
			})

			Convey("And the payload should be decoded", func() {
				So(route.Classify(resp), ShouldEqual, route.OutcomeRoutes)
				So(resp.AllPaths[0].Distance, ShouldEqual, 400)
				So(resp.ImageData, ShouldEqual, "aGk=")
			})
		})

		Convey("When it answers with an error status and an error payload", func() {
			fake.status = http.StatusUnprocessableEntity
			fake.body = `{"error":"Invalid city selection."}`
			resp, err := c.FindRoutes(ctx, route.Request{StartCity: "X", EndCity: "Y"})

			Convey("Then the status should be ignored and the payload used", func() {
				So(err, ShouldBeNil)
				So(resp.Error, ShouldEqual, "Invalid city selection.")
				So(route.Classify(resp), ShouldEqual, route.OutcomeServerError)
			})
		})

		Convey("When it answers with a server error status and a path payload", func() {
			fake.status = http.StatusInternalServerError
			fake.body = `{"all_paths":[{"route_str":"A → B","distance":1,"est_optimal":true}]}`
			resp, err := c.FindRoutes(ctx, route.Request{StartCity: "A", EndCity: "B"})

			Convey("Then the paths should still be returned", func() {
				So(err, ShouldBeNil)
				So(route.Classify(resp), ShouldEqual, route.OutcomeRoutes)
			})
		})

		Convey("When it answers with something that is not JSON", func() {
			fake.status = http.StatusBadGateway
			fake.body = `<html>bad gateway</html>`
			_, err := c.FindRoutes(ctx, route.Request{StartCity: "A", EndCity: "B"})

			Convey("Then a decode error should be returned", func() {
				So(errors.Is(err, routeclient.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When a request id is attached to the context", func() {
			fake.body = `{}`
			_, err := c.FindRoutes(route.WithRequestID(ctx, "req-42"), route.Request{StartCity: "A", EndCity: "B"})

			Convey("Then it should be forwarded", func() {
				So(err, ShouldBeNil)
				So(fake.gotID, ShouldEqual, "req-42")
			})
		})

		Convey("When the caller's context is cancelled", func() {
			fake.delay = time.Second
			fake.body = `{}`
			cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := c.FindRoutes(cctx, route.Request{StartCity: "A", EndCity: "B"})

			Convey("Then a transport error should be returned", func() {
				So(errors.Is(err, routeclient.ErrTransport), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unreachable route service", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := routeclient.New(url, routeclient.WithTimeout(time.Second))
		So(err, ShouldBeNil)

		Convey("When finding routes", func() {
			_, err := c.FindRoutes(context.Background(), route.Request{StartCity: "A", EndCity: "B"})

			Convey("Then a transport error should be returned", func() {
				So(errors.Is(err, routeclient.ErrTransport), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "route service request failed")
			})
		})
	})
}
