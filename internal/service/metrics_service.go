package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the sync client and the snapshot write-through.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	syncTotal       *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	snapshotWrites  prometheus.Counter
	snapshotErrors  prometheus.Counter
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	syncTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_operations_total",
		Help: "Total sync operations by direction and result",
	}, []string{"direction", "result"})

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of sync push/pull round trips",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})

	snapshotWrites := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_writes_total",
		Help: "Total snapshot write-through operations",
	})

	snapshotErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_write_errors_total",
		Help: "Total failed snapshot writes",
	})

	registry.MustRegister(requestDuration, requestTotal, syncTotal, syncDuration, snapshotWrites, snapshotErrors)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		syncTotal:       syncTotal,
		syncDuration:    syncDuration,
		snapshotWrites:  snapshotWrites,
		snapshotErrors:  snapshotErrors,
	}
}

// Handler serves the Prometheus exposition endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveSync records one push or pull attempt.
func (s *MetricsService) ObserveSync(direction string, success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	s.syncTotal.WithLabelValues(direction, result).Inc()
	s.syncDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// ObserveSnapshotWrite records one write-through attempt.
func (s *MetricsService) ObserveSnapshotWrite(err error) {
	s.snapshotWrites.Inc()
	if err != nil {
		s.snapshotErrors.Inc()
	}
}
