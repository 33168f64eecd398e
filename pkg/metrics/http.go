package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration    *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	wsSessions  prometheus.Gauge
	webhookSeen *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests processed, labeled by status class.",
	}, []string{"method", "route", "status"})
	wsSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_websocket_sessions",
		Help: "Currently open chat websocket sessions.",
	})
	webhookSeen := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook events received, labeled by type and outcome.",
	}, []string{"type", "outcome"})
	reg.MustRegister(duration, requests, wsSessions, webhookSeen)
	return &HTTPMetrics{
		duration:    duration,
		requests:    requests,
		wsSessions:  wsSessions,
		webhookSeen: webhookSeen,
	}
}

// ObserveRequest records one completed request.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(method, normalizeLabel(route)).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Inc()
}

// WebsocketOpened increments the live session gauge.
func (m *HTTPMetrics) WebsocketOpened() {
	if m == nil || m.wsSessions == nil {
		return
	}
	m.wsSessions.Inc()
}

// WebsocketClosed decrements the live session gauge.
func (m *HTTPMetrics) WebsocketClosed() {
	if m == nil || m.wsSessions == nil {
		return
	}
	m.wsSessions.Dec()
}

// ObserveWebhookEvent records one received Stripe event.
func (m *HTTPMetrics) ObserveWebhookEvent(eventType, outcome string) {
	if m == nil || m.webhookSeen == nil {
		return
	}
	m.webhookSeen.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
