package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	outcomeNotInstalled    = "not_installed"
	outcomeVersionMismatch = "version_mismatch"
	outcomeDeclined        = "declined"
	outcomeSelected        = "selected"
	outcomeMatched         = "matched"

	resultOverride = "override"
	resultCached   = "cached"
	resultFound    = "found"
	resultNotFound = "not_found"
	resultError    = "error"
)

var (
	discoveryCandidateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anvil_discovery_candidate_checks_total",
			Help: "Number of candidate checks by package and outcome.",
		},
		[]string{"package", "outcome"},
	)

	discoveryRegistryDiscoverTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anvil_discovery_registry_discover_total",
			Help: "Number of registry lookups by capability and result.",
		},
		[]string{"capability", "result"},
	)

	discoveryRegistryDiscoverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anvil_discovery_registry_discover_duration_seconds",
			Help:    "Time taken to walk the candidates of a capability.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"capability"},
	)

	discoveryRegistryInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anvil_discovery_registry_invalidations_total",
			Help: "Number of times a registry dropped its override and cached instance.",
		},
		[]string{"capability", "reason"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		discoveryCandidateChecksTotal,
		discoveryRegistryDiscoverTotal,
		discoveryRegistryDiscoverDuration,
		discoveryRegistryInvalidationsTotal,
	)
}
