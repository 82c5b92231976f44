package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups every metric exported by the service. All methods are
// safe to call on a nil Collector, which lets tests and the worker run
// without a registry.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AnalysesDispatchedTotal prometheus.Counter
	AnalysesCompletedTotal  *prometheus.CounterVec
	InferenceDuration       *prometheus.HistogramVec

	WebsocketConnections prometheus.Gauge
	NotificationsTotal   *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		AnalysesDispatchedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "dispatched_total",
			Help:      "Total number of recording analyses handed to the queue.",
		}),

		AnalysesCompletedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "completed_total",
			Help:      "Total number of finished analysis attempts by result.",
		}, []string{"result"}),

		InferenceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the inference service.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),

		WebsocketConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "open_connections",
			Help:      "Current number of open websocket connections.",
		}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Total number of events published to user groups.",
		}, []string{"type", "outcome"}),
	}
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	c.RequestsTotal.With(labels).Inc()
	c.RequestDuration.With(labels).Observe(duration.Seconds())
}

func (c *Collector) RequestStarted() {
	if c == nil {
		return
	}
	c.InFlightGauge.Inc()
}

func (c *Collector) RequestFinished() {
	if c == nil {
		return
	}
	c.InFlightGauge.Dec()
}

func (c *Collector) AnalysisDispatched() {
	if c == nil {
		return
	}
	c.AnalysesDispatchedTotal.Inc()
}

// AnalysisCompleted records the result of one processing attempt:
// success, retry, failure or dead_letter.
func (c *Collector) AnalysisCompleted(result string) {
	if c == nil {
		return
	}
	c.AnalysesCompletedTotal.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveInference(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.InferenceDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (c *Collector) WebsocketOpened() {
	if c == nil {
		return
	}
	c.WebsocketConnections.Inc()
}

func (c *Collector) WebsocketClosed() {
	if c == nil {
		return
	}
	c.WebsocketConnections.Dec()
}

func (c *Collector) NotificationSent(eventType string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.NotificationsTotal.WithLabelValues(eventType, outcome).Inc()
}
