package resolver

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/repository"
)

// DefaultResolver walks dependency graphs breadth-first, resolving each
// module name at most once per run. The first release chosen for a name is
// kept; later edges whose range excludes it are reported as VersionConflict.
//
// A DefaultResolver holds no per-run state and may be shared between
// goroutines as long as its repository is safe for concurrent reads.
type DefaultResolver struct {
	repo repository.Repository
	log  logr.Logger
}

type Option func(*DefaultResolver)

// WithLogger sets the logger used for per-edge diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(r *DefaultResolver) { r.log = log }
}

func NewDefault(repo repository.Repository, opts ...Option) *DefaultResolver {
	r := &DefaultResolver{repo: repo, log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *DefaultResolver) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	m, ok, err := r.repo.Resolve(ctx, dep)
	if err == nil && ok {
		err = checkMatch(dep, m)
	}
	if err != nil {
		return nil, false, r.failure(ctx, dep, err)
	}
	return m, ok, nil
}

// checkMatch rejects an answer that is not a release of dep within its range.
func checkMatch(dep forge.Dependency, m *forge.Metadata) error {
	if dep.Matches(m) {
		return nil
	}
	got := "nil release"
	if m != nil {
		got = m.Release()
	}
	return fmt.Errorf("%w: got %s", ErrMismatchedRelease, got)
}

// pending is a queued dependency edge and the release declaring it.
type pending struct {
	owner *forge.Metadata
	dep   forge.Dependency
}

func (r *DefaultResolver) DeepResolve(ctx context.Context, roots ...*forge.Metadata) (*Result, error) {
	res := &Result{}
	visited := map[forge.ModuleName]*forge.Metadata{}
	var queue []pending

	for i, root := range roots {
		if root == nil || root.Name.IsZero() {
			return nil, fmt.Errorf("resolver: %w: root #%d has no module name", ErrInvalidRoot, i)
		}
		if prev, dup := visited[root.Name]; dup {
			r.log.V(1).Info("ignoring duplicate root", "root", root.Release(), "kept", prev.Release())
			continue
		}
		visited[root.Name] = root
		res.Roots = append(res.Roots, root)
		res.Resolved = append(res.Resolved, root)
	}
	for _, root := range res.Roots {
		for _, dep := range root.Dependencies {
			queue = append(queue, pending{owner: root, dep: dep})
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]
		owner, dep := next.owner, next.dep

		if prev, ok := visited[dep.Name]; ok {
			if dep.Range.Contains(prev.Version) {
				res.Edges = append(res.Edges, Edge{Owner: owner.Name, Dependency: dep, Release: prev})
				continue
			}
			r.unresolved(res, Unresolved{Owner: owner.Name, Dependency: dep, Reason: ReasonVersionConflict, Resolved: prev})
			continue
		}

		m, found, err := r.repo.Resolve(ctx, dep)
		if err == nil && found {
			err = checkMatch(dep, m)
		}
		if err != nil {
			return nil, r.failure(ctx, dep, err)
		}
		if !found {
			r.unresolved(res, Unresolved{Owner: owner.Name, Dependency: dep, Reason: ReasonNotFound})
			continue
		}

		r.log.V(1).Info("resolved dependency", "owner", owner.Release(), "dependency", dep.String(), "release", m.Release())
		visited[dep.Name] = m
		res.Resolved = append(res.Resolved, m)
		res.Edges = append(res.Edges, Edge{Owner: owner.Name, Dependency: dep, Release: m})
		for _, d := range m.Dependencies {
			queue = append(queue, pending{owner: m, dep: d})
		}
	}

	res.Cycles = res.Graph().Cycles()
	for _, c := range res.Cycles {
		r.log.Info("circular dependency", "chain", CycleLabel(c))
	}
	return res, nil
}

func (r *DefaultResolver) unresolved(res *Result, u Unresolved) {
	kv := []any{"owner", u.Owner.String(), "dependency", u.Dependency.String(), "reason", string(u.Reason)}
	if u.Resolved != nil {
		kv = append(kv, "resolved", u.Resolved.Release())
	}
	r.log.Info("unresolved dependency", kv...)
	res.Diagnostics.Unresolved = append(res.Diagnostics.Unresolved, u)
}

// failure wraps a repository error. Cancellation of ctx is returned as is.
func (r *DefaultResolver) failure(ctx context.Context, dep forge.Dependency, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("resolver: %w: resolving %s: %w", ErrRepositoryFailure, dep, err)
}
