package controllers

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
)

const (
	ResolutionConditionRootsLoaded          = "RootsLoaded"
	ResolutionConditionDependenciesResolved = "DependenciesResolved"
	ResolutionConditionAcyclic              = "Acyclic"

	ResolutionPhaseResolved   = "Resolved"
	ResolutionPhaseIncomplete = "Incomplete"
	ResolutionPhaseError      = "Error"
)

func setResolutionCondition(res *forgev1alpha1.ModuleResolution, condition metav1.Condition) {
	if res == nil {
		return
	}
	condition.ObservedGeneration = res.Generation
	meta.SetStatusCondition(&res.Status.Conditions, condition)
}

// summarizeUnresolved keeps the status message human-readable and bounded.
func summarizeUnresolved(items []forgev1alpha1.UnresolvedDependency) string {
	if len(items) == 0 {
		return ""
	}
	limit := 4
	parts := make([]string, 0, limit+1)
	for i := 0; i < len(items) && i < limit; i++ {
		u := items[i]
		req := u.VersionRequirement
		if req == "" {
			req = "*"
		}
		parts = append(parts, fmt.Sprintf("%s requires %s %s (%s)", u.Module, u.Dependency, req, u.Reason))
	}
	if len(items) > limit {
		parts = append(parts, fmt.Sprintf("...and %d more", len(items)-limit))
	}
	return strings.Join(parts, "; ")
}
