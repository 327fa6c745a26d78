// Package metrics defines the Prometheus collectors exported on the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "legal"

// AuthzDecisionsTotal counts policy verdicts.
// Labels:
//   - resource: "cases", "clients", "invoices", "users"
//   - action: "view", "update", "delete"
//   - actor: resolved actor kind
//   - verdict: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of entity policy decisions.",
	},
	[]string{"resource", "action", "actor", "verdict"},
)

// PermissionDenialsTotal counts requests rejected by route permission gates.
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests rejected for a missing permission.",
	},
	[]string{"permission"},
)

// ResolveErrorsTotal counts request contexts that could not be resolved from storage.
var ResolveErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_resolve_errors_total",
		Help:      "Total number of failures resolving roles, permissions or company ids.",
	},
)

var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route pattern and status code.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
