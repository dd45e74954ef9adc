package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, matched route and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nova_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// EngagementMutations counts reaction and comment writes by kind
	EngagementMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_engagement_mutations_total",
		Help: "Total engagement mutations by kind",
	}, []string{"kind"})

	AggregationSliceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_aggregation_slice_failures_total",
		Help: "Profile aggregation slices that degraded to empty values",
	}, []string{"slice"})
)

const (
	MutationReactionSet     = "reaction_set"
	MutationReactionCleared = "reaction_cleared"
	MutationCommentAdded    = "comment_added"
	MutationConnectionReq   = "connection_requested"
	MutationConnectionOK    = "connection_approved"
)
