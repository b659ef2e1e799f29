package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the booking engine counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Bookings    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// New creates the counters and registers them on reg (skipped when reg is nil).
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Public booking attempts by result",
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Provider status changes by target status and result",
		}, []string{"to", "result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Bookings, m.Transitions)
	}
	return m
}

func (m *Metrics) Booking(result string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(result).Inc()
}

func (m *Metrics) Transition(to, result string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to, result).Inc()
}
