package prommetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cupcount"

// Metrics implements secondary.Metrics and the HTTP request observer with
// Prometheus instruments.
type Metrics struct {
	webhookEvents *prometheus.CounterVec
	counterValue  prometheus.Gauge
	fetchDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_events_total",
				Help:      "Webhook deliveries by outcome.",
			},
			[]string{"outcome"},
		),
		counterValue: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "counter_value",
				Help:      "Last observed value of the counter.",
			},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_fetch_duration_seconds",
				Help:      "Duration of order API calls in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	collectors := []prometheus.Collector{
		m.webhookEvents, m.counterValue, m.fetchDuration, m.httpRequests, m.httpDurations,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WebhookOutcome counts one webhook delivery.
func (m *Metrics) WebhookOutcome(outcome string) {
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

// CounterValue records the latest counter value.
func (m *Metrics) CounterValue(value int64) {
	m.counterValue.Set(float64(value))
}

// OrderFetch records one order API call.
func (m *Metrics) OrderFetch(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.fetchDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(method, route).Observe(duration.Seconds())
}
