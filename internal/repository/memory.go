package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// MemoryRepository holds releases in memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	releases map[forge.ModuleName][]*forge.Metadata
}

// NewMemory returns a repository holding the given releases.
func NewMemory(releases ...*forge.Metadata) *MemoryRepository {
	r := &MemoryRepository{releases: map[forge.ModuleName][]*forge.Metadata{}}
	for _, m := range releases {
		r.MustAdd(m)
	}
	return r
}

// Add registers a release. Releases sharing a version are kept; Resolve
// returns the one added first.
func (r *MemoryRepository) Add(m *forge.Metadata) error {
	if m == nil {
		return fmt.Errorf("repository: release is required")
	}
	if m.Name.IsZero() || m.Version.IsZero() {
		return fmt.Errorf("repository: release %q needs a name and a version", m.Release())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases[m.Name] = append(r.releases[m.Name], m)
	return nil
}

// MustAdd panics if registration fails.
func (r *MemoryRepository) MustAdd(m *forge.Metadata) {
	if err := r.Add(m); err != nil {
		panic(err)
	}
}

func (r *MemoryRepository) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := best(dep, r.releases[dep.Name])
	return m, ok, nil
}

func (r *MemoryRepository) Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (*forge.Metadata, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := exact(version, r.releases[name])
	return m, ok, nil
}

// Modules returns the known module names in sorted order.
func (r *MemoryRepository) Modules() []forge.ModuleName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]forge.ModuleName, 0, len(r.releases))
	for name := range r.releases {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Releases returns every release of name in insertion order.
func (r *MemoryRepository) Releases(name forge.ModuleName) []*forge.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*forge.Metadata(nil), r.releases[name]...)
}
