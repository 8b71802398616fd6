package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	LifecycleTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_lifecycle_transitions_total",
			Help: "Post lifecycle transitions by outcome",
		},
		[]string{"transition", "outcome"},
	)

	ListViewDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_list_view_degraded_total",
			Help: "List views served against a store without lifecycle columns",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, LifecycleTransitionsTotal, ListViewDegradedTotal)
}
