// Package metrics provides Prometheus metrics for AgriPath — counters and
// gauges for point awards, check-ins, badges, and gateway sync health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Profile ────────────────────────────────────────────────────────────────

// PointsAwarded tracks locally applied point deltas by reason.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "agripath",
	Name:      "points_awarded_total",
	Help:      "Total points applied to the local profile.",
}, []string{"reason"})

// ProfilePoints tracks the current local points total.
var ProfilePoints = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "agripath",
	Name:      "profile_points",
	Help:      "Current local points total.",
})

// StreakDays tracks the current streak length.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "agripath",
	Name:      "streak_days",
	Help:      "Current consecutive-day streak.",
})

// BadgesUnlocked tracks badges added to the local set.
var BadgesUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "agripath",
	Name:      "badges_unlocked_total",
	Help:      "Total badges added to the local profile.",
})

// CheckInsClaimed tracks successful daily check-in claims.
var CheckInsClaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "agripath",
	Name:      "checkins_claimed_total",
	Help:      "Total successful daily check-in claims.",
})

// ─── Gateway Sync ───────────────────────────────────────────────────────────

// GatewayRequests tracks profile gateway calls by operation and outcome.
var GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "agripath",
	Name:      "gateway_requests_total",
	Help:      "Total remote profile gateway requests.",
}, []string{"op", "status"})

// GatewayLatency tracks gateway request duration in seconds.
var GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "agripath",
	Name:      "gateway_request_seconds",
	Help:      "Profile gateway request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

// SyncFailures tracks gateway calls that left optimistic local state
// unreconciled.
var SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "agripath",
	Name:      "sync_failures_total",
	Help:      "Total gateway syncs that failed, leaving optimistic state.",
})
