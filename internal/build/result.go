package build

import (
	"github.com/bayleafwalker/forge-core/internal/forge"
)

// BuildResult aggregates the MetadataInfo records of one build pass. A module
// name may map to several records; they are kept in insertion order.
type BuildResult struct {
	infos             map[forge.ModuleName][]*MetadataInfo
	order             []forge.ModuleName
	circular          []string
	servicesAvailable bool
	ancillary         any
	sealed            bool
}

// NewBuildResult starts an empty result. servicesAvailable records whether
// the companion type-checking services were reachable during the pass;
// ancillary is caller-owned state stored as is.
func NewBuildResult(servicesAvailable bool, ancillary any) *BuildResult {
	return &BuildResult{
		infos:             map[forge.ModuleName][]*MetadataInfo{},
		servicesAvailable: servicesAvailable,
		ancillary:         ancillary,
	}
}

// Add inserts a built MetadataInfo under its module name.
func (r *BuildResult) Add(info *MetadataInfo) error {
	if r.sealed {
		return ErrFrozen
	}
	if !info.Frozen() {
		return ErrNotFrozen
	}
	name := info.Name()
	if _, ok := r.infos[name]; !ok {
		r.order = append(r.order, name)
	}
	r.infos[name] = append(r.infos[name], info)
	return nil
}

// AddCircularity records a circular chain between added modules.
func (r *BuildResult) AddCircularity(path []*MetadataInfo) error {
	if r.sealed {
		return ErrFrozen
	}
	r.circular = append(r.circular, CircularityLabel(path))
	return nil
}

// Seal makes the result read-only.
func (r *BuildResult) Seal() { r.sealed = true }

func (r *BuildResult) Sealed() bool { return r.sealed }

// Get returns every record for name.
func (r *BuildResult) Get(name forge.ModuleName) []*MetadataInfo {
	return append([]*MetadataInfo(nil), r.infos[name]...)
}

// Names returns module names in first-insertion order.
func (r *BuildResult) Names() []forge.ModuleName {
	return append([]forge.ModuleName(nil), r.order...)
}

// All returns every record, grouped by module in first-insertion order.
func (r *BuildResult) All() []*MetadataInfo {
	var out []*MetadataInfo
	for _, name := range r.order {
		out = append(out, r.infos[name]...)
	}
	return out
}

func (r *BuildResult) Len() int {
	n := 0
	for _, infos := range r.infos {
		n += len(infos)
	}
	return n
}

// Circularities returns the recorded cycle labels.
func (r *BuildResult) Circularities() []string {
	return append([]string(nil), r.circular...)
}

func (r *BuildResult) ServicesAvailable() bool { return r.servicesAvailable }

func (r *BuildResult) Ancillary() any { return r.ancillary }
