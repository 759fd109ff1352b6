// Package metrics defines the custom Prometheus collectors of the identity
// service. HTTP request metrics come from echoprometheus; the collectors here
// cover authentication and access decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// AuthAttemptsTotal counts register, login and refresh calls.
// Labels:
//   - operation: "register", "login" or "refresh"
//   - outcome: "success" or the failure kind (e.g. "invalid_credentials", "conflict")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AccessDecisionsTotal counts guard decisions on protected routes.
// Label:
//   - decision: "allowed", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access guard decisions on protected routes.",
	},
	[]string{"decision"},
)

// UserOperationsTotal counts user management calls.
// Labels:
//   - operation: "create", "list", "find", "update" or "remove"
//   - outcome: "success" or the failure kind
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user management operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AuthDuration measures end-to-end latency of the auth operations, which is
// dominated by password hashing.
var AuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_duration_seconds",
		Help:      "Duration of register and login handling.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"operation"},
)
