package team

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	scopeResultResolved = "resolved"
	scopeResultEmpty    = "empty"
	scopeResultNotFound = "not_found"
	scopeResultError    = "error"

	accessPathBulk      = "bulk"
	accessPathPointwise = "pointwise"
)

var (
	scopeResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "team",
		Subsystem: "scope",
		Name:      "resolutions_total",
		Help:      "Total number of manager scope resolutions broken down by result.",
	}, []string{"result"})

	accessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "team",
		Subsystem: "guard",
		Name:      "decisions_total",
		Help:      "Total number of single-target access decisions broken down by path and result.",
	}, []string{"path", "result"})

	profileSliceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "team",
		Subsystem: "profile",
		Name:      "slice_failures_total",
		Help:      "Total number of team member profile slices degraded to empty after a fetch failure.",
	}, []string{"slice"})
)

func recordScopeResolution(result string) {
	scopeResolutions.WithLabelValues(result).Inc()
}

func recordAccessDecision(path string, allowed bool) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	accessDecisions.WithLabelValues(path, result).Inc()
}

func recordProfileSliceFailure(slice string) {
	profileSliceFailures.WithLabelValues(slice).Inc()
}
