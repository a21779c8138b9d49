package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/registry"
)

// Metrics exposes the listing lifecycle and gateway load to Prometheus.
// It plugs into the registry as an observer so the counters always agree
// with committed mutations.
type Metrics struct {
	roomsLive     prometheus.Gauge
	roomsCreated  prometheus.Counter
	roomsDeleted  prometheus.Counter
	roomsExpired  prometheus.Counter
	roomsExtended prometheus.Counter

	sessionsActive prometheus.Gauge
	eventsTotal    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		roomsLive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "roomboard_rooms_live",
			Help: "Number of currently listed rooms.",
		}),
		roomsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomboard_rooms_created_total",
			Help: "Rooms created by completed conversation flows.",
		}),
		roomsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomboard_rooms_deleted_total",
			Help: "Rooms removed by explicit delete actions.",
		}),
		roomsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomboard_rooms_expired_total",
			Help: "Rooms removed by expiry timers.",
		}),
		roomsExtended: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomboard_rooms_extended_total",
			Help: "Extend actions applied to live rooms.",
		}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "roomboard_gateway_sessions_active",
			Help: "Attached conversational gateway sessions.",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomboard_gateway_events_total",
			Help: "Inbound gateway events by type.",
		}, []string{"type"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomboard_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roomboard_http_request_duration_seconds",
			Help:    "HTTP request latency by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (m *Metrics) RoomCreated(domain.Room) {
	m.roomsCreated.Inc()
	m.roomsLive.Inc()
}

func (m *Metrics) RoomRemoved(_ domain.Room, reason registry.RemovalReason) {
	m.roomsLive.Dec()
	if reason == registry.RemovedByExpiry {
		m.roomsExpired.Inc()
		return
	}
	m.roomsDeleted.Inc()
}

func (m *Metrics) RoomExtended(domain.Room) {
	m.roomsExtended.Inc()
}

func (m *Metrics) SessionOpened() { m.sessionsActive.Inc() }
func (m *Metrics) SessionClosed() { m.sessionsActive.Dec() }

func (m *Metrics) EventReceived(eventType string) {
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

func (m *Metrics) HTTPRequest(method string, status int, seconds float64) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(seconds)
}
