package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ModuleRelease publishes one release of a Forge module into the cluster catalog.
//
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced,shortName=mrel
// +kubebuilder:printcolumn:name="Module",type=string,JSONPath=`.spec.module`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.version`
// +kubebuilder:printcolumn:name="Role",type=boolean,JSONPath=`.spec.role`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type ModuleRelease struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ModuleReleaseSpec `json:"spec"`
}

type ModuleReleaseSpec struct {
	// Module is the owner-qualified module name, e.g. "puppetlabs-stdlib".
	Module  string `json:"module"`
	Version string `json:"version"`

	Dependencies []ModuleDependency `json:"dependencies,omitempty"`
	Types        []ResourceType     `json:"types,omitempty"`

	// Role marks an aggregation module rather than a leaf component.
	Role bool `json:"role,omitempty"`

	Summary string `json:"summary,omitempty"`
	Source  string `json:"source,omitempty"`
	License string `json:"license,omitempty"`
}

type ModuleDependency struct {
	Name               string `json:"name"`
	VersionRequirement string `json:"versionRequirement,omitempty"`
}

type ResourceType struct {
	Name       string          `json:"name"`
	Doc        string          `json:"doc,omitempty"`
	Properties []TypeAttribute `json:"properties,omitempty"`
	Parameters []TypeAttribute `json:"parameters,omitempty"`
}

type TypeAttribute struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
}

// +kubebuilder:object:root=true
type ModuleReleaseList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ModuleRelease `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ModuleRelease{}, &ModuleReleaseList{})
}
