// Package metrics holds the Prometheus counters shared across the
// collection pipeline. Counters are the only cross-job observability
// surface besides logs; job failures are never returned to the submitter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// JobsTotal counts every collect submission received
	JobsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_jobs_total",
		Help: "Number of collect requests received",
	})
	// JobsDenied counts submissions rejected at the ingress boundary
	JobsDenied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_jobs_denied",
		Help: "Number of collect requests denied",
	})
	// JobsInitiated counts jobs handed to the dispatcher
	JobsInitiated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_jobs_initiated",
		Help: "Number of collection jobs started",
	})

	// Gets counts upstream fetch attempts
	Gets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_gets",
		Help: "Number of source data fetches",
	})
	// GetErrors counts upstream fetches that exhausted their retry budget
	GetErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_get_errors",
		Help: "Number of failed source data fetches",
	})
	// GetSuccesses counts upstream fetches that returned data
	GetSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_get_successes",
		Help: "Number of successful source data fetches",
	})

	// Posts counts forward attempts to the next service
	Posts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_posts",
		Help: "Number of data passes to the next service",
	})
	// PostErrors counts forwards that exhausted their retry budget
	PostErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_post_errors",
		Help: "Number of failed passes to the next service",
	})
	// PostSuccesses counts payloads accepted downstream
	PostSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aiops_collector_post_successes",
		Help: "Number of successful passes to the next service",
	})
)

func init() {
	prometheus.MustRegister(
		JobsTotal, JobsDenied, JobsInitiated,
		Gets, GetErrors, GetSuccesses,
		Posts, PostErrors, PostSuccesses,
	)
}
