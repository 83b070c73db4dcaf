package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/gauges for the appointment lifecycle and
// the realtime channel.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	realtimeSessions prometheus.Gauge
	eventsTotal      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinibook",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Total booking attempts by result",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinibook",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Total lifecycle transitions by operation and result",
		}, []string{"operation", "result"}),
		realtimeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinibook",
			Subsystem: "realtime",
			Name:      "sessions",
			Help:      "Currently registered realtime sessions",
		}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinibook",
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Realtime events routed by name and delivery kind",
		}, []string{"event", "delivery"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.realtimeSessions, m.eventsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveTransition(operation, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(operation, result).Inc()
}

func (m *BookingMetrics) SessionRegistered() {
	if m == nil {
		return
	}
	m.realtimeSessions.Inc()
}

func (m *BookingMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.realtimeSessions.Dec()
}

func (m *BookingMetrics) ObserveEvent(event, delivery string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event, delivery).Inc()
}
