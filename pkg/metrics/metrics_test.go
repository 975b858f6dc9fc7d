package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then defaults should apply", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "citypath")
				So(manager.subsystem, ShouldEqual, "frontend")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("web"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"instance": "a"}),
				WithPrometheusRegistry(registry),
			)
			manager.submissions.WithLabelValues("routes").Inc()

			Convey("Then collectors should carry the custom names and labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_web_submissions_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "instance")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then they should be ignored", func() {
				So(manager.namespace, ShouldEqual, "citypath")
				So(manager.subsystem, ShouldEqual, "frontend")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording submissions", func() {
			before := testutil.ToFloat64(globalManager.submissions.WithLabelValues("no_routes"))
			RecordSubmission("no_routes", 12)

			Convey("Then the outcome counter should grow", func() {
				So(testutil.ToFloat64(globalManager.submissions.WithLabelValues("no_routes")), ShouldEqual, before+1)
			})
		})

		Convey("When toggling the in-flight gauge", func() {
			before := testutil.ToFloat64(globalManager.inflightSubmissions)
			IncInflight()
			So(testutil.ToFloat64(globalManager.inflightSubmissions), ShouldEqual, before+1)
			DecInflight()
			So(testutil.ToFloat64(globalManager.inflightSubmissions), ShouldEqual, before)
		})

		Convey("When recording the remaining collectors", func() {
			So(func() {
				RecordValidationFailure("missing_city")
				RecordRejectedSubmission()
				RecordPathsRendered(3)
				RecordRenderError()
				RecordUpstreamRequest("200", 40)
				RecordHTTPRequest("routes", "POST", "200")
				RecordHTTPRequestDuration("routes", "POST", "200", 41)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("routes", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			Convey("Then the registry should expose them", func() {
				count, err := testutil.GatherAndCount(GetRegistry(), "citypath_frontend_upstream_requests_total")
				So(err, ShouldBeNil)
				So(count, ShouldBeGreaterThan, 0)
			})
		})
	})
}
