// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Moves counts applied moves by type and result ("ok" or an error kind).
	Moves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowquest_moves_total",
		Help: "Moves applied to games by action and result.",
	}, []string{"action", "result"})

	// PhaseTransitions counts entries into each phase.
	PhaseTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowquest_phase_transitions_total",
		Help: "Phase transitions by target phase.",
	}, []string{"phase"})

	// GamesFinished counts completed games by winner and reason.
	GamesFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowquest_games_finished_total",
		Help: "Finished games by winning alignment and reason.",
	}, []string{"winner", "reason"})

	// SnapshotConflicts counts lost compare-and-swap writes.
	SnapshotConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shadowquest_snapshot_conflicts_total",
		Help: "Snapshot writes rejected because the state moved on.",
	})

	// WebsocketConnections is the number of open websocket clients.
	WebsocketConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shadowquest_websocket_connections",
		Help: "Open websocket connections.",
	})

	// RateLimited counts rejected requests.
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowquest_rate_limited_total",
		Help: "Requests rejected by the rate limiter by surface.",
	}, []string{"surface"})
)

func init() {
	prometheus.MustRegister(Moves, PhaseTransitions, GamesFinished, SnapshotConflicts, WebsocketConnections, RateLimited)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
