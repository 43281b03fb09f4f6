package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_rooms_total",
		Help: "Number of rooms held by the registry.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_active_sessions",
		Help: "Speaker sessions currently bridged upstream.",
	})

	TurnsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_turns_started_total",
		Help: "Translation turns started upstream.",
	})

	TurnsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_turns_cancelled_total",
		Help: "Stale turns cancelled to make way for a new commit.",
	})

	CommitsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_commits_skipped_total",
		Help: "Commit requests rejected by admission checks.",
	}, []string{"reason"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_events_published_total",
		Help: "Outward events published to room channels.",
	}, []string{"type"})

	UpstreamConnectFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_upstream_connect_failures_total",
		Help: "Failed or timed-out upstream connection attempts.",
	})
)
