package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
)

// Metrics owns a private registry rather than using the global default.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	taskTotal       *prometheus.CounterVec
	taskDuration    *prometheus.HistogramVec
	taskQueueWait   *prometheus.HistogramVec
	taskAbandoned   *prometheus.CounterVec
	workersBusy     prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_transform_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "image_transform_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		taskTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_transform_tasks_total",
			Help: "Transform tasks run on the worker pool, by outcome.",
		}, []string{"operation", "outcome"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "image_transform_task_duration_seconds",
			Help:    "Time spent running a transform task on a worker.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		taskQueueWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "image_transform_task_queue_wait_seconds",
			Help:    "Time a transform task waited for a free worker slot.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		taskAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_transform_tasks_abandoned_total",
			Help: "Transform tasks whose caller went away, by stage.",
		}, []string{"operation", "stage"}),
		workersBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "image_transform_workers_busy",
			Help: "Worker slots currently running a transform.",
		}),
	}
	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.taskTotal,
		m.taskDuration,
		m.taskQueueWait,
		m.taskAbandoned,
		m.workersBusy,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, route, s).Inc()
	m.requestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
}

func (m *Metrics) TaskQueued(op string, wait time.Duration) {
	m.taskQueueWait.WithLabelValues(op).Observe(wait.Seconds())
}

func (m *Metrics) TaskStarted(string) {
	m.workersBusy.Inc()
}

func (m *Metrics) TaskFinished(op string, d time.Duration, err error) {
	m.workersBusy.Dec()
	m.taskDuration.WithLabelValues(op).Observe(d.Seconds())
	m.taskTotal.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) TaskAbandoned(op, stage string) {
	m.taskAbandoned.WithLabelValues(op, stage).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperrors.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
