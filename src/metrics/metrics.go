package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub Connection Metrics
var (
	// ConnectionsCurrent tracks open WebSocket connections by resolved role
	ConnectionsCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "relay_connections_current",
			Help: "Open WebSocket connections by role (worker/dashboard/unassigned)",
		},
		[]string{"role"},
	)

	// ConnectionsTotal tracks accepted upgrades
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_connections_total",
			Help: "Total accepted WebSocket upgrades",
		},
	)

	// LoginsTotal tracks login attempts by role and outcome
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_logins_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	// FramesDiscarded tracks text frames that were neither a login nor a price update
	FramesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_frames_discarded_total",
			Help: "Text frames dropped because they did not parse as a price update",
		},
	)
)

// Work Pool Metrics
var (
	// PoolRemaining tracks assignable work items
	PoolRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_pool_remaining",
			Help: "Number of work items still available for assignment",
		},
	)
)

// Broadcast Metrics
var (
	// BroadcastsTotal tracks fan-out operations
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcasts_total",
			Help: "Total price updates fanned out to subscribers",
		},
	)

	// SubscribersDropped tracks dashboard sessions forgotten after a failed send
	SubscribersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_subscribers_dropped_total",
			Help: "Dashboard sessions removed from the registry after a failed send",
		},
	)

	// SubscribersCurrent tracks registered dashboard sessions
	SubscribersCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_subscribers_current",
			Help: "Dashboard sessions currently registered for broadcasts",
		},
	)
)

// Poller Metrics
var (
	// UpstreamFetchesTotal tracks upstream quote requests by status
	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_upstream_fetches_total",
			Help: "Upstream price fetches by status (ok/error)",
		},
		[]string{"status"},
	)

	// ReconnectsTotal tracks poller reconnect attempts
	ReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_reconnects_total",
			Help: "Times the poller re-entered the connecting state after an error",
		},
	)
)
