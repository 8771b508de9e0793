package repository

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// ModuleIndexField indexes ModuleReleases by their normalized module name.
const ModuleIndexField = ".spec.module"

// IndexModule is the field indexer for ModuleIndexField.
func IndexModule(obj client.Object) []string {
	rel, ok := obj.(*forgev1alpha1.ModuleRelease)
	if !ok || rel.Spec.Module == "" {
		return nil
	}
	name, err := forge.ParseModuleName(rel.Spec.Module)
	if err != nil {
		return []string{rel.Spec.Module}
	}
	return []string{name.String()}
}

// ClusterRepository serves the ModuleRelease objects of one namespace. The
// reader must have ModuleIndexField registered for ModuleRelease.
//
// Objects whose spec cannot be converted are skipped and logged; they never
// fail a query.
type ClusterRepository struct {
	reader    client.Reader
	namespace string
	log       logr.Logger
}

func NewCluster(reader client.Reader, namespace string) *ClusterRepository {
	return &ClusterRepository{reader: reader, namespace: namespace, log: logr.Discard()}
}

func (c *ClusterRepository) WithLogger(log logr.Logger) *ClusterRepository {
	c.log = log
	return c
}

func (c *ClusterRepository) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	releases, err := c.releases(ctx, dep.Name)
	if err != nil {
		return nil, false, err
	}
	m, ok := best(dep, releases)
	return m, ok, nil
}

func (c *ClusterRepository) Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (*forge.Metadata, bool, error) {
	releases, err := c.releases(ctx, name)
	if err != nil {
		return nil, false, err
	}
	m, ok := exact(version, releases)
	return m, ok, nil
}

// Roles returns the releases of the namespace flagged as role modules, keyed
// by "owner-name@version".
func (c *ClusterRepository) Roles(ctx context.Context) (map[string]bool, error) {
	var list forgev1alpha1.ModuleReleaseList
	if err := c.reader.List(ctx, &list, client.InNamespace(c.namespace)); err != nil {
		return nil, fmt.Errorf("repository: list module releases in %s: %w", c.namespace, err)
	}
	out := map[string]bool{}
	for i := range list.Items {
		rel := &list.Items[i]
		if !rel.Spec.Role {
			continue
		}
		m, err := ReleaseMetadata(rel)
		if err != nil {
			continue
		}
		out[m.Release()] = true
	}
	return out, nil
}

// releases lists the valid releases of name, ordered by object name so that
// duplicate versions resolve deterministically.
func (c *ClusterRepository) releases(ctx context.Context, name forge.ModuleName) ([]*forge.Metadata, error) {
	var list forgev1alpha1.ModuleReleaseList
	if err := c.reader.List(ctx, &list,
		client.InNamespace(c.namespace),
		client.MatchingFields{ModuleIndexField: name.String()},
	); err != nil {
		return nil, fmt.Errorf("repository: list module releases for %s: %w", name, err)
	}
	sortReleases(list.Items)

	out := make([]*forge.Metadata, 0, len(list.Items))
	for i := range list.Items {
		rel := &list.Items[i]
		m, err := ReleaseMetadata(rel)
		if err != nil {
			c.log.Error(err, "skipping invalid module release", "namespace", rel.Namespace, "name", rel.Name)
			continue
		}
		if m.Name != name {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
