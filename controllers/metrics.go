package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	forgeControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	forgeControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	moduleResolutionResolvedReleases = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forge_moduleresolution_resolved_releases",
			Help: "Number of releases resolved in the last reconcile of a ModuleResolution.",
		},
		[]string{"namespace", "name"},
	)
	moduleResolutionUnresolvedDependencies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forge_moduleresolution_unresolved_dependencies",
			Help: "Number of unresolved dependency edges in the last reconcile of a ModuleResolution.",
		},
		[]string{"namespace", "name", "reason"},
	)
	moduleResolutionCircularChains = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forge_moduleresolution_circular_chains",
			Help: "Number of circular dependency chains in the last reconcile of a ModuleResolution.",
		},
		[]string{"namespace", "name"},
	)

	moduleResolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forge_moduleresolution_duration_seconds",
			Help:    "Time taken to resolve a ModuleResolution.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		forgeControllerReconcileTotal,
		forgeControllerReconcileErrorTotal,
		moduleResolutionResolvedReleases,
		moduleResolutionUnresolvedDependencies,
		moduleResolutionCircularChains,
		moduleResolutionDuration,
	)
}

func forgetResolutionMetrics(namespace, name string) {
	moduleResolutionResolvedReleases.DeleteLabelValues(namespace, name)
	moduleResolutionCircularChains.DeleteLabelValues(namespace, name)
	moduleResolutionUnresolvedDependencies.DeletePartialMatch(prometheus.Labels{"namespace": namespace, "name": name})
}
