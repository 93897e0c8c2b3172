// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Feed metrics
	TicksTotal       *prometheus.CounterVec
	TickDuration     prometheus.Histogram
	TokensTracked    *prometheus.GaugeVec
	PriceMoves       *prometheus.CounterVec
	LastTickUnixTime prometheus.Gauge

	// Presentation metrics
	WSClients       prometheus.Gauge
	WSMessagesSent  prometheus.Counter
	WSClientsKicked prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	SettingsUpdates prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_pulse"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Total number of feed ticks by outcome",
		}, []string{"status"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tick_duration_seconds",
			Help:      "Feed tick duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		TokensTracked: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tokens",
			Help:      "Number of token records per column",
		}, []string{"column"}),
		PriceMoves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "price_moves_total",
			Help:      "Total number of price changes by direction",
		}, []string{"direction"}),
		LastTickUnixTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "last_tick_timestamp",
			Help:      "Unix timestamp of the last accepted tick",
		}),

		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_clients",
			Help:      "Number of connected WebSocket clients",
		}),
		WSMessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_messages_sent_total",
			Help:      "Total number of WebSocket messages queued to clients",
		}),
		WSClientsKicked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_clients_dropped_total",
			Help:      "Total number of slow WebSocket clients dropped",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		SettingsUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "display",
			Name:      "settings_updates_total",
			Help:      "Total number of accepted display settings replacements",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordTick records an accepted tick.
func (m *Metrics) RecordTick(duration time.Duration, columns map[string]int, up, down int) {
	if m == nil {
		return
	}
	m.TicksTotal.WithLabelValues("ok").Inc()
	m.TickDuration.Observe(duration.Seconds())
	for title, n := range columns {
		m.TokensTracked.WithLabelValues(title).Set(float64(n))
	}
	m.PriceMoves.WithLabelValues("up").Add(float64(up))
	m.PriceMoves.WithLabelValues("down").Add(float64(down))
	m.LastTickUnixTime.SetToCurrentTime()
}

// RecordTickError records a rejected or failed tick.
func (m *Metrics) RecordTickError() {
	if m == nil {
		return
	}
	m.TicksTotal.WithLabelValues("error").Inc()
}

// SetWSClients updates the connected clients gauge.
func (m *Metrics) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.WSClients.Set(float64(n))
}

// RecordWSSend counts a queued WebSocket message.
func (m *Metrics) RecordWSSend() {
	if m == nil {
		return
	}
	m.WSMessagesSent.Inc()
}

// RecordWSDrop counts a slow client being dropped.
func (m *Metrics) RecordWSDrop() {
	if m == nil {
		return
	}
	m.WSClientsKicked.Inc()
}

// RecordHTTPRequest counts a served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
}

// RecordSettingsUpdate counts an accepted settings replacement.
func (m *Metrics) RecordSettingsUpdate() {
	if m == nil {
		return
	}
	m.SettingsUpdates.Inc()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
