package resolver

import (
	"context"

	"github.com/bayleafwalker/forge-core/internal/forge"
)

// Resolver resolves module dependencies against a release repository.
type Resolver interface {
	// Resolve returns the best release for a single dependency without
	// walking that release's own dependencies.
	Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error)
	// DeepResolve resolves the transitive closure of the roots' dependencies.
	DeepResolve(ctx context.Context, roots ...*forge.Metadata) (*Result, error)
}
