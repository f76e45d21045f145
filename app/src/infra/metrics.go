package infra

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "latency_http_requests_total",
		Help: "Total number of HTTP requests by route",
	}, []string{"route"})
	HttpRequestErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "latency_http_request_errors_total",
		Help: "Total number of HTTP request errors",
	})
	ProcessingDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "latency_processing_duration_seconds",
		Help:    "Duration of request processing in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Ingestion metrics
	ValidationRejectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "latency_validation_rejects_total",
		Help: "Total number of inbound records rejected by validation",
	})
	MeasurementsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "latency_measurements_stored_total",
		Help: "Total number of measurements persisted",
	})

	// Database metrics
	DbWriteErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "latency_db_write_errors_total",
		Help: "Total number of failed measurement inserts",
	})
	DbWriteDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "latency_db_write_duration_seconds",
		Help:    "Duration of measurement inserts in seconds",
		Buckets: prometheus.DefBuckets,
	})
	DbReadDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "latency_db_read_duration_seconds",
		Help:    "Duration of windowed series queries in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Probe metrics
	ProbeRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "latency_probe_records_total",
		Help: "Total number of synthetic records produced by the probe",
	})

	// Worker pool metrics
	WorkerPoolActiveGoroutines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "latency_worker_pool_active_goroutines",
		Help: "Number of active ingest worker goroutines",
	})

	registerOnce      sync.Once
	metricsServerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all Prometheus collectors used by the application.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestErrorsTotal,
			ProcessingDurationSeconds,
			ValidationRejectsTotal,
			MeasurementsStoredTotal,
			DbWriteErrorsTotal,
			DbWriteDurationSeconds,
			DbReadDurationSeconds,
			ProbeRecordsTotal,
			WorkerPoolActiveGoroutines,
		)
	})
}

// Handler returns an HTTP handler that exposes the registered Prometheus metrics.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// StartMetricsServer exposes Prometheus metrics on the configured port.
func StartMetricsServer(logger *Logger, port string) {
	InitMetrics()
	if port == "" {
		return
	}
	metricsServerOnce.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		go func() {
			if err := http.ListenAndServe(":"+port, mux); err != nil {
				if logger != nil {
					logger.Printf(context.Background(), "metrics server error: %v", err)
				}
			}
		}()
	})
}

// HTTPMiddleware instruments HTTP handlers with request/latency metrics.
func HTTPMiddleware(pathResolver func(*http.Request) string) func(http.Handler) http.Handler {
	InitMetrics()
	if pathResolver == nil {
		pathResolver = func(r *http.Request) string {
			if r == nil {
				return "unknown"
			}
			return r.URL.Path
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				HttpRequestErrorsTotal.Inc()
				http.Error(w, "invalid request", http.StatusBadRequest)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				duration := time.Since(start)
				ProcessingDurationSeconds.Observe(duration.Seconds())
				HttpRequestsTotal.WithLabelValues(pathResolver(r)).Inc()

				if recorder.Status() >= http.StatusBadRequest {
					HttpRequestErrorsTotal.Inc()
				}
			}()

			next.ServeHTTP(recorder, r)
		})
	}
}

// IncValidationRejects increments the validation rejection counter.
func IncValidationRejects() {
	InitMetrics()
	ValidationRejectsTotal.Inc()
}

// IncMeasurementsStored tracks a persisted measurement.
func IncMeasurementsStored() {
	InitMetrics()
	MeasurementsStoredTotal.Inc()
}

// IncDBWriteErrors increments the failed insert counter.
func IncDBWriteErrors() {
	InitMetrics()
	DbWriteErrorsTotal.Inc()
}

// ObserveDBWrite records the duration of one insert.
func ObserveDBWrite(duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	DbWriteDurationSeconds.Observe(duration.Seconds())
}

// ObserveDBRead records the duration of one windowed query.
func ObserveDBRead(duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	DbReadDurationSeconds.Observe(duration.Seconds())
}

// IncProbeRecords increments the synthetic record counter.
func IncProbeRecords() {
	InitMetrics()
	ProbeRecordsTotal.Inc()
}

// WorkerStarted increments the worker pool active goroutines gauge.
func WorkerStarted() {
	InitMetrics()
	WorkerPoolActiveGoroutines.Inc()
}

// WorkerFinished decrements the worker pool active goroutines gauge.
func WorkerFinished() {
	InitMetrics()
	WorkerPoolActiveGoroutines.Dec()
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Status() int {
	return r.status
}
