// Package metrics defines and registers all custom Prometheus metrics for
// the POS terminal gateway. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "posgate"

// ── Backend gateway metrics ───────────────────────────────────────────────────

// BackendRequestsTotal counts calls forwarded to the central backend.
// Labels:
//   - method: HTTP method of the proxied call
//   - outcome: "ok", "failure" (business/transport failure envelope), or
//     "session_expired"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of calls forwarded to the POS backend.",
	},
	[]string{"method", "outcome"},
)

// TokenRefreshTotal counts access-token refresh attempts.
// Label:
//   - result: "ok" or "failed"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access token refresh attempts, by result.",
	},
	[]string{"result"},
)

// ── RBAC metrics ──────────────────────────────────────────────────────────────

// RBACDenialsTotal counts click-time authorization denials.
// Labels:
//   - role: the denied principal's role
//   - screen: the screen (or empty for capability checks)
var RBACDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rbac_denials_total",
		Help:      "Total number of RBAC denials, by role and screen.",
	},
	[]string{"role", "screen"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each audit worker
// channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events dropped because a worker buffer was
// full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped due to a full queue.",
	},
)
