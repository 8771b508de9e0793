package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ModuleResolution requests transitive dependency resolution for a set of
// root releases against the ModuleReleases in its namespace.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=mres
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Resolved",type=integer,JSONPath=`.status.resolvedCount`
// +kubebuilder:printcolumn:name="Unresolved",type=integer,JSONPath=`.status.unresolvedCount`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type ModuleResolution struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ModuleResolutionSpec   `json:"spec"`
	Status ModuleResolutionStatus `json:"status,omitempty"`
}

type ModuleResolutionSpec struct {
	// Roots are the releases whose dependency graph is resolved.
	// +kubebuilder:validation:MinItems=1
	Roots []ReleaseRef `json:"roots"`
}

type ReleaseRef struct {
	Module  string `json:"module"`
	Version string `json:"version"`
}

type ModuleResolutionStatus struct {
	ObservedGeneration int64  `json:"observedGeneration,omitempty"`
	Phase              string `json:"phase,omitempty"`
	Message            string `json:"message,omitempty"`

	ResolvedCount   int32 `json:"resolvedCount,omitempty"`
	UnresolvedCount int32 `json:"unresolvedCount,omitempty"`

	Resolved   []ResolvedRelease      `json:"resolved,omitempty"`
	Unresolved []UnresolvedDependency `json:"unresolved,omitempty"`
	// Circular lists dependency cycles rendered as "a-x->b-y->a-x".
	Circular []string `json:"circular,omitempty"`

	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

type ResolvedRelease struct {
	Module  string   `json:"module"`
	Version string   `json:"version"`
	Role    bool     `json:"role,omitempty"`
	Types   []string `json:"types,omitempty"`
}

type UnresolvedDependency struct {
	// Module is the release declaring the dependency.
	Module             string `json:"module"`
	Dependency         string `json:"dependency"`
	VersionRequirement string `json:"versionRequirement,omitempty"`
	Reason             string `json:"reason"`
}

// +kubebuilder:object:root=true
type ModuleResolutionList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ModuleResolution `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ModuleResolution{}, &ModuleResolutionList{})
}
