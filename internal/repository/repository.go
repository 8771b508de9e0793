package repository

import (
	"context"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// Repository is a read-only source of module releases.
//
// A release that does not exist is reported with found=false and a nil
// error. A non-nil error means the repository could not answer at all
// (transport, I/O or decoding failure).
//
// Implementations must be safe for concurrent use, and must answer the same
// query identically while their backing store is unchanged.
type Repository interface {
	// Resolve returns the highest version of dep.Name that dep.Range contains.
	Resolve(ctx context.Context, dep forge.Dependency) (release *forge.Metadata, found bool, err error)
	// Lookup returns the exact release name@version.
	Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (release *forge.Metadata, found bool, err error)
}

// best picks the highest release satisfying dep; the first of equal
// versions wins.
func best(dep forge.Dependency, releases []*forge.Metadata) (*forge.Metadata, bool) {
	idx := semver.MaxSatisfyingIndex(dep.Range, len(releases), func(i int) semver.Version {
		return releases[i].Version
	})
	if idx < 0 {
		return nil, false
	}
	return releases[idx], true
}

func exact(version semver.Version, releases []*forge.Metadata) (*forge.Metadata, bool) {
	for _, r := range releases {
		if semver.Compare(r.Version, version) == 0 {
			return r, true
		}
	}
	return nil, false
}
