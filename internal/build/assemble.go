package build

import (
	"fmt"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/resolver"
)

// RoleClassifier decides whether a release is a role module.
type RoleClassifier func(*forge.Metadata) bool

type Options struct {
	// IsRole classifies releases. Nil classifies nothing as a role.
	IsRole RoleClassifier
	// File reports where a release was loaded from. Nil leaves it empty.
	File func(*forge.Metadata) string

	ServicesAvailable bool
	Ancillary         any
}

// Assemble folds a resolver result into a sealed BuildResult with one
// MetadataInfo per resolved release.
func Assemble(res *resolver.Result, opts Options) (*BuildResult, error) {
	builders := make(map[forge.ModuleName]*InfoBuilder, len(res.Resolved))
	ordered := make([]*InfoBuilder, 0, len(res.Resolved))
	for _, m := range res.Resolved {
		file := ""
		if opts.File != nil {
			file = opts.File(m)
		}
		b := NewInfo(m, file)
		if opts.IsRole != nil {
			if err := b.SetRole(opts.IsRole(m)); err != nil {
				return nil, err
			}
		}
		builders[m.Name] = b
		ordered = append(ordered, b)
	}

	for _, e := range res.Edges {
		owner, target := builders[e.Owner], builders[e.Release.Name]
		if owner == nil || target == nil {
			return nil, fmt.Errorf("build: edge %s -> %s references an unresolved module", e.Owner, e.Release.Release())
		}
		if err := owner.AddResolution(e.Dependency, target.Info()); err != nil {
			return nil, err
		}
	}
	for _, u := range res.Diagnostics.Unresolved {
		owner := builders[u.Owner]
		if owner == nil {
			return nil, fmt.Errorf("build: unresolved %s has unknown owner %s", u.Dependency, u.Owner)
		}
		if err := owner.AddUnresolved(u.Dependency); err != nil {
			return nil, err
		}
	}

	out := NewBuildResult(opts.ServicesAvailable, opts.Ancillary)
	for _, b := range ordered {
		if err := out.Add(b.Build()); err != nil {
			return nil, err
		}
	}
	for _, cycle := range res.Cycles {
		path := make([]*MetadataInfo, 0, len(cycle))
		for _, name := range cycle {
			path = append(path, builders[name].Info())
		}
		if err := out.AddCircularity(path); err != nil {
			return nil, err
		}
	}
	out.Seal()
	return out, nil
}
