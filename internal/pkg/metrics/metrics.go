// Package metrics provides Prometheus instrumentation for the relay: live
// connection and pending-removal gauges, routed message counters by scope,
// dropped deliveries and reconnect grace outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks registered connections, including those inside the grace window.
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_active",
		Help: "Registered connections, including those pending removal",
	})

	// ConnectionsPending tracks connections waiting out the reconnect grace window.
	ConnectionsPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_pending_removal",
		Help: "Connections inside the reconnect grace window",
	})

	// MessagesRouted counts routed messages by scope: "global", "room", "private" or "system".
	MessagesRouted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_routed_total",
		Help: "Messages routed by the coordinator",
	}, []string{"scope"})

	// MessagesDropped counts messages the coordinator refused, by error reason.
	MessagesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_dropped_total",
		Help: "Messages dropped before routing",
	}, []string{"reason"})

	// DeliveriesDropped counts outbound frames dropped at the gateway (full or closed queues).
	DeliveriesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_deliveries_dropped_total",
		Help: "Outbound frames dropped because the recipient queue was full or gone",
	})

	// GraceOutcomes counts how pending removals ended: "cancelled", "expired" or "replaced".
	GraceOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_grace_outcomes_total",
		Help: "Reconnect grace window outcomes",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		ConnectionsActive,
		ConnectionsPending,
		MessagesRouted,
		MessagesDropped,
		DeliveriesDropped,
		GraceOutcomes,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
