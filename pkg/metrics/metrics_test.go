package metrics_test

import (
	"testing"

	"github.com/nanavatisneha/analytics-handbook/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a throwaway registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("pipeline"),
		)

		Convey("Then construction registers without panicking", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then recording through them never panics", func() {
			So(func() {
				metrics.RecordMatchFetched()
				metrics.RecordEventsFetched(10)
				metrics.RecordFetchError()
				metrics.RecordFetchLatency(12.5)
				metrics.RecordEventsFlattened(10)
				metrics.RecordFlattenError()
				metrics.UpdateColumnCount(42)
				metrics.RecordRowsLoaded(10)
				metrics.RecordLoadLatency(3.2)
				metrics.RecordDuplicateSkipped()
				metrics.RecordQueryLatency(1.1)
				metrics.RecordQueryError()
				metrics.UpdateQueueSize(5)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.05)
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueEnqueueError()
				metrics.UpdateWorkerCount(4)
				metrics.RecordWorkerProcessingLatency(8.0)
				metrics.RecordWorkerError()
				metrics.RecordHTTPRequest("stats", "GET", "200")
				metrics.RecordHTTPRequestDuration("stats", "GET", "200", 2.0)
				metrics.RecordErrorByEndpoint("query", "POST", "client_error")
				metrics.RecordErrorByComponent("queue", "queue_full")
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
				metrics.RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("Then the shared registry gathers the pipeline families", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)

			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["handbook_pipeline_events_fetched_total"], ShouldBeTrue)
			So(names["handbook_pipeline_rows_loaded_total"], ShouldBeTrue)
			So(names["handbook_pipeline_queue_size"], ShouldBeTrue)
		})
	})
}
