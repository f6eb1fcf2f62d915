// Package metrics defines and registers all custom Prometheus metrics for the
// user identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics use promauto, so importing the package registers them with the
// default Prometheus registry; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// UsersRegisteredTotal counts completed registration sagas.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users successfully registered.",
	},
)

// RegisterCompensationsTotal counts registration sagas that had to roll back
// the identity-provider user after a store failure.
// Label:
//   - result: "compensated" (provider user removed) or "failed" (removal also
//     failed, systems left divergent)
var RegisterCompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "register_compensations_total",
		Help:      "Total number of registration compensations, by result.",
	},
	[]string{"result"},
)

// StatusChangesTotal counts successful lifecycle transitions.
// Label:
//   - to: the target status ("active" or "inactive")
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of user status transitions, by target status.",
	},
	[]string{"to"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication outcomes.
// Label:
//   - result: "ok", "challenge", or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by outcome.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the event bus.
// Labels:
//   - event: the event name (e.g. "PasswordChanged")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by event name and result.",
	},
	[]string{"event", "result"},
)
