package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleRelease) DeepCopyInto(out *ModuleRelease) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
}

// DeepCopy copies the receiver, creating a new ModuleRelease.
func (in *ModuleRelease) DeepCopy() *ModuleRelease {
	if in == nil {
		return nil
	}
	out := new(ModuleRelease)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ModuleRelease) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleReleaseList) DeepCopyInto(out *ModuleReleaseList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ModuleRelease, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new ModuleReleaseList.
func (in *ModuleReleaseList) DeepCopy() *ModuleReleaseList {
	if in == nil {
		return nil
	}
	out := new(ModuleReleaseList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ModuleReleaseList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleReleaseSpec) DeepCopyInto(out *ModuleReleaseSpec) {
	*out = *in
	if in.Dependencies != nil {
		out.Dependencies = make([]ModuleDependency, len(in.Dependencies))
		copy(out.Dependencies, in.Dependencies)
	}
	if in.Types != nil {
		out.Types = make([]ResourceType, len(in.Types))
		for i := range in.Types {
			in.Types[i].DeepCopyInto(&out.Types[i])
		}
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ResourceType) DeepCopyInto(out *ResourceType) {
	*out = *in
	if in.Properties != nil {
		out.Properties = make([]TypeAttribute, len(in.Properties))
		copy(out.Properties, in.Properties)
	}
	if in.Parameters != nil {
		out.Parameters = make([]TypeAttribute, len(in.Parameters))
		copy(out.Parameters, in.Parameters)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleResolution) DeepCopyInto(out *ModuleResolution) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new ModuleResolution.
func (in *ModuleResolution) DeepCopy() *ModuleResolution {
	if in == nil {
		return nil
	}
	out := new(ModuleResolution)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ModuleResolution) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleResolutionList) DeepCopyInto(out *ModuleResolutionList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ModuleResolution, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new ModuleResolutionList.
func (in *ModuleResolutionList) DeepCopy() *ModuleResolutionList {
	if in == nil {
		return nil
	}
	out := new(ModuleResolutionList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ModuleResolutionList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleResolutionSpec) DeepCopyInto(out *ModuleResolutionSpec) {
	*out = *in
	if in.Roots != nil {
		out.Roots = make([]ReleaseRef, len(in.Roots))
		copy(out.Roots, in.Roots)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ModuleResolutionStatus) DeepCopyInto(out *ModuleResolutionStatus) {
	*out = *in
	if in.Resolved != nil {
		out.Resolved = make([]ResolvedRelease, len(in.Resolved))
		for i := range in.Resolved {
			in.Resolved[i].DeepCopyInto(&out.Resolved[i])
		}
	}
	if in.Unresolved != nil {
		out.Unresolved = make([]UnresolvedDependency, len(in.Unresolved))
		copy(out.Unresolved, in.Unresolved)
	}
	if in.Circular != nil {
		out.Circular = make([]string, len(in.Circular))
		copy(out.Circular, in.Circular)
	}
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ResolvedRelease) DeepCopyInto(out *ResolvedRelease) {
	*out = *in
	if in.Types != nil {
		out.Types = make([]string, len(in.Types))
		copy(out.Types, in.Types)
	}
}
