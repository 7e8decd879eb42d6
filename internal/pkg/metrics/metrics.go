// Package metrics defines and registers the custom Prometheus metrics of the
// access service. It is the single source of truth for metric names, labels
// and help strings.
//
// All collectors are registered with the default registry through promauto,
// so importing the package is enough; /metrics is served by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "access"

// ── Authorization metrics ─────────────────────────────────────────────────────

// DecisionsTotal counts authorization decisions.
// Labels:
//   - kind: resource kind (e.g. "job", "application")
//   - action: attempted action (e.g. "update", "apply")
//   - result: "allow" or "deny"
//   - reason: decision reason (e.g. "owner", "role_mismatch")
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of authorization decisions, by kind, action, result and reason.",
	},
	[]string{"kind", "action", "result", "reason"},
)

// IntegrityFaultsTotal counts resources found with a dangling parent during
// ownership resolution.
// Label:
//   - kind: kind of the child resource (e.g. "application", "message")
var IntegrityFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integrity_faults_total",
		Help:      "Total number of resources whose parent record was missing at resolution time.",
	},
	[]string{"kind"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts issued sessions.
// Label:
//   - source: "login" or "refresh"
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued, by source.",
	},
	[]string{"source"},
)

// SessionRejectionsTotal counts bearer tokens rejected by the validator.
// Label:
//   - reason: "malformed", "expired" or "signature_invalid"
var SessionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_rejections_total",
		Help:      "Total number of rejected session tokens, by failure reason.",
	},
	[]string{"reason"},
)

// LoginAttemptsTotal counts password login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each shard.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a shard was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped because the worker channel was full.",
	},
)

// AuditWriteDuration measures how long persisting one audit entry takes.
// Label:
//   - result: "ok" or "error"
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit entry persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
