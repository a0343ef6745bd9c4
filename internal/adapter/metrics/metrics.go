package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cropmart"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	Transitions           *prometheus.CounterVec
	SamplesIngested       *prometheus.CounterVec
	OutOfOrderSamples     prometheus.Counter
	AlertsFired           *prometheus.CounterVec
	Notifications         *prometheus.CounterVec
	BusDropped            *prometheus.CounterVec
	BusRetries            *prometheus.CounterVec
	GatewayConnections    prometheus.Gauge
	GatewayDisconnects    *prometheus.CounterVec
	ReplayedNotifications prometheus.Counter
	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order transition attempts by result",
		}, []string{"result"}),

		SamplesIngested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_samples_ingested_total",
			Help:      "Price samples recorded, by crop",
		}, []string{"crop"}),

		OutOfOrderSamples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_samples_out_of_order_total",
			Help:      "Samples kept in history but not applied to a live aggregate",
		}),

		AlertsFired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_alerts_fired_total",
			Help:      "Price alerts fired, by crop",
		}, []string{"crop"}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications by persistence result",
		}, []string{"result"}),

		BusDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_events_dropped_total",
			Help:      "Events that did not fit a subscriber queue",
		}, []string{"subscription"}),

		BusRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_delivery_retries_total",
			Help:      "Handler retries after a failed delivery",
		}, []string{"subscription"}),

		GatewayConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_connections",
			Help:      "Open realtime connections",
		}),

		GatewayDisconnects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_disconnects_total",
			Help:      "Closed realtime connections by reason",
		}, []string{"reason"}),

		ReplayedNotifications: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_replayed_notifications_total",
			Help:      "Notifications resent to reconnecting clients",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RecordTransition(result string) {
	m.Transitions.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSample(cropID string, outOfOrder bool) {
	m.SamplesIngested.WithLabelValues(cropID).Inc()
	if outOfOrder {
		m.OutOfOrderSamples.Inc()
	}
}

func (m *Metrics) RecordAlertFired(cropID string) {
	m.AlertsFired.WithLabelValues(cropID).Inc()
}

func (m *Metrics) RecordNotification(result string) {
	m.Notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordBusDrop(subscription string) {
	m.BusDropped.WithLabelValues(subscription).Inc()
}

func (m *Metrics) RecordBusRetry(subscription string) {
	m.BusRetries.WithLabelValues(subscription).Inc()
}

func (m *Metrics) SetGatewayConnections(n int) {
	m.GatewayConnections.Set(float64(n))
}

func (m *Metrics) RecordGatewayDisconnect(reason string) {
	m.GatewayDisconnects.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordReplayed(n int) {
	m.ReplayedNotifications.Add(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
