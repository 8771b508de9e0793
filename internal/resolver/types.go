package resolver

import (
	"strings"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/graph"
)

// Reason explains why a dependency edge was left unresolved.
type Reason string

const (
	// ReasonNotFound means no known release satisfies the range.
	ReasonNotFound Reason = "NotFound"
	// ReasonVersionConflict means the module was already resolved to a
	// version outside the range.
	ReasonVersionConflict Reason = "VersionConflict"
)

// Unresolved is one dependency edge that could not be satisfied.
type Unresolved struct {
	Owner      forge.ModuleName
	Dependency forge.Dependency
	Reason     Reason
	// Resolved is the release already chosen for the module on a
	// VersionConflict, nil otherwise.
	Resolved *forge.Metadata
}

// Edge is one satisfied dependency: Owner's Dependency is served by Release.
type Edge struct {
	Owner      forge.ModuleName
	Dependency forge.Dependency
	Release    *forge.Metadata
}

// Diagnostics captures what the run could not satisfy.
type Diagnostics struct {
	Unresolved []Unresolved
}

// Result is the outcome of one DeepResolve run.
type Result struct {
	// Roots are the root releases as accepted, duplicates removed.
	Roots []*forge.Metadata
	// Resolved holds one release per module name, roots first, then in
	// discovery order.
	Resolved    []*forge.Metadata
	Edges       []Edge
	Diagnostics Diagnostics
	// Cycles are the circular chains of the resolved graph, each starting at
	// the module discovered first.
	Cycles [][]forge.ModuleName
}

// Release returns the release resolved for name.
func (r *Result) Release(name forge.ModuleName) (*forge.Metadata, bool) {
	for _, m := range r.Resolved {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Names returns the resolved module names in resolution order.
func (r *Result) Names() []forge.ModuleName {
	out := make([]forge.ModuleName, 0, len(r.Resolved))
	for _, m := range r.Resolved {
		out = append(out, m.Name)
	}
	return out
}

// UnresolvedDependencies returns the unresolved collector as plain
// dependencies, in the order they were met.
func (r *Result) UnresolvedDependencies() []forge.Dependency {
	out := make([]forge.Dependency, 0, len(r.Diagnostics.Unresolved))
	for _, u := range r.Diagnostics.Unresolved {
		out = append(out, u.Dependency)
	}
	return out
}

// Complete reports whether every dependency edge was satisfied.
func (r *Result) Complete() bool {
	return len(r.Diagnostics.Unresolved) == 0
}

// Graph returns the resolved dependency graph keyed by module name.
func (r *Result) Graph() *graph.DependencyGraph[forge.ModuleName] {
	g := graph.New[forge.ModuleName]()
	for _, m := range r.Resolved {
		g.AddNode(m.Name)
	}
	for _, e := range r.Edges {
		g.AddEdge(e.Owner, e.Release.Name)
	}
	return g
}

// CircularityLabels renders each cycle as "a-x->b-y->a-x".
func (r *Result) CircularityLabels() []string {
	out := make([]string, 0, len(r.Cycles))
	for _, c := range r.Cycles {
		out = append(out, CycleLabel(c))
	}
	return out
}

// CycleLabel renders a cycle of module names, closing it on its first name.
func CycleLabel(cycle []forge.ModuleName) string {
	if len(cycle) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cycle)+1)
	for _, n := range cycle {
		parts = append(parts, n.String())
	}
	parts = append(parts, cycle[0].String())
	return strings.Join(parts, "->")
}
