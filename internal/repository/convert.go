package repository

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
	"github.com/bayleafwalker/forge-core/internal/forge"
)

var reNonDNS = regexp.MustCompile(`[^a-z0-9-]+`)

// ReleaseMetadata converts a ModuleRelease spec into release metadata.
func ReleaseMetadata(rel *forgev1alpha1.ModuleRelease) (*forge.Metadata, error) {
	doc := forge.Document{
		Name:    rel.Spec.Module,
		Version: rel.Spec.Version,
		Summary: rel.Spec.Summary,
		Source:  rel.Spec.Source,
		License: rel.Spec.License,
	}
	for _, d := range rel.Spec.Dependencies {
		doc.Dependencies = append(doc.Dependencies, forge.DependencyDocument{Name: d.Name, VersionRequirement: d.VersionRequirement})
	}
	for _, t := range rel.Spec.Types {
		td := forge.TypeDocument{Name: t.Name, Doc: t.Doc}
		for _, p := range t.Properties {
			td.Properties = append(td.Properties, forge.DocDocument{Name: p.Name, Doc: p.Doc})
		}
		for _, p := range t.Parameters {
			td.Parameters = append(td.Parameters, forge.DocDocument{Name: p.Name, Doc: p.Doc})
		}
		doc.Types = append(doc.Types, td)
	}
	m, err := doc.Metadata()
	if err != nil {
		return nil, fmt.Errorf("module release %s/%s: %w", rel.Namespace, rel.Name, err)
	}
	return m, nil
}

// ReleaseSpec renders m as a ModuleRelease spec.
func ReleaseSpec(m *forge.Metadata, role bool) forgev1alpha1.ModuleReleaseSpec {
	doc := forge.DocumentOf(m)
	spec := forgev1alpha1.ModuleReleaseSpec{
		Module:  m.Name.String(),
		Version: m.Version.String(),
		Role:    role,
		Summary: doc.Summary,
		Source:  doc.Source,
		License: doc.License,
	}
	for _, d := range doc.Dependencies {
		spec.Dependencies = append(spec.Dependencies, forgev1alpha1.ModuleDependency{Name: d.Name, VersionRequirement: d.VersionRequirement})
	}
	for _, t := range doc.Types {
		rt := forgev1alpha1.ResourceType{Name: t.Name, Doc: t.Doc}
		for _, p := range t.Properties {
			rt.Properties = append(rt.Properties, forgev1alpha1.TypeAttribute{Name: p.Name, Doc: p.Doc})
		}
		for _, p := range t.Parameters {
			rt.Parameters = append(rt.Parameters, forgev1alpha1.TypeAttribute{Name: p.Name, Doc: p.Doc})
		}
		spec.Types = append(spec.Types, rt)
	}
	return spec
}

// ReleaseObjectName returns a stable DNS-1123 object name for a release,
// e.g. "puppetlabs-stdlib-4-25-0".
func ReleaseObjectName(m *forge.Metadata) string {
	raw := strings.ToLower(m.Name.String() + "-" + m.Version.String())
	name := strings.Trim(reNonDNS.ReplaceAllString(strings.ReplaceAll(raw, ".", "-"), "-"), "-")
	if len(name) > 63 {
		name = strings.TrimRight(name[:63], "-")
	}
	return name
}

func sortReleases(items []forgev1alpha1.ModuleRelease) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
