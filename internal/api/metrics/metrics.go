// Package metrics defines the custom Prometheus metrics of the turnos web
// application. It is the single source of truth for metric names, labels,
// and help strings.
//
// All vectors are registered on the default registry through promauto, so
// importing the package is enough; /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "turnos"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the REST backend.
// Labels:
//   - endpoint: route template (e.g. "PUT /turnos/{id}")
//   - code: HTTP status code, "error" for transport failures, "canceled" when the caller gave up, "open" when the breaker rejected the call
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the REST backend.",
	},
	[]string{"endpoint", "code"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - endpoint: route template
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of REST backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// BackendBreakerState reports the circuit breaker state: 0 closed, 1 half-open, 2 open.
var BackendBreakerState = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_breaker_state",
		Help:      "Backend circuit breaker state (0 closed, 1 half-open, 2 open).",
	},
)

// ── Action metrics ────────────────────────────────────────────────────────────

// ActionsTotal counts form actions by outcome.
// Labels:
//   - action: e.g. "login", "shift_create", "room_delete"
//   - result: "success" or "error"
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of form actions, by action and result.",
	},
	[]string{"action", "result"},
)

// InvitationsCreatedTotal counts invitation rows created while booking or editing.
var InvitationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_created_total",
		Help:      "Total number of invitation rows created.",
	},
)

// InvitationsSkippedTotal counts invitee DNIs that could not be invited.
// Label:
//   - reason: "not_found" or "create_failed"
var InvitationsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_skipped_total",
		Help:      "Total number of invitee DNIs skipped while creating invitations.",
	},
	[]string{"reason"},
)

// ── Cache, storage and audit metrics ──────────────────────────────────────────

// CacheLookupsTotal counts cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// PictureUploadsTotal counts profile picture uploads.
// Label:
//   - result: "success" or "error"
var PictureUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picture_uploads_total",
		Help:      "Total number of profile picture uploads.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending audit events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit writes.
// Label:
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, labelled by outcome.",
	},
	[]string{"result"},
)
