package forge

import (
	"fmt"

	"github.com/bayleafwalker/forge-core/internal/semver"
)

// Dependency is one edge constraint: the owning release requires some
// release of Name whose version lies in Range.
type Dependency struct {
	Name ModuleName
	// Range is the accepted versions. The zero Range matches any version.
	Range semver.Range
}

// NewDependency parses a module name and a version requirement.
func NewDependency(name, requirement string) (Dependency, error) {
	n, err := ParseModuleName(name)
	if err != nil {
		return Dependency{}, err
	}
	r, err := semver.ParseRange(requirement)
	if err != nil {
		return Dependency{}, fmt.Errorf("forge: dependency on %s: %w", n, err)
	}
	return Dependency{Name: n, Range: r}, nil
}

func MustDependency(name, requirement string) Dependency {
	d, err := NewDependency(name, requirement)
	if err != nil {
		panic(err)
	}
	return d
}

// Matches reports whether release is named by d and lies in its range.
func (d Dependency) Matches(release *Metadata) bool {
	return release != nil && release.Name == d.Name && d.Range.Contains(release.Version)
}

func (d Dependency) String() string {
	if d.Range.IsAny() {
		return d.Name.String()
	}
	return fmt.Sprintf("%s %s", d.Name, d.Range)
}

// NamedDoc is a documented type property or parameter.
type NamedDoc struct {
	Name string
	Doc  string
}

// Type is one entry of the resource type catalog a release exports.
type Type struct {
	Name       string
	Doc        string
	Properties []NamedDoc
	Parameters []NamedDoc
}

// Metadata describes one release of a module.
//
// Metadata is treated as immutable once constructed; the resolver only reads it.
type Metadata struct {
	Name         ModuleName
	Version      semver.Version
	Dependencies []Dependency
	Types        []Type

	Summary string
	Source  string
	License string
}

// Release renders "owner-name@version".
func (m *Metadata) Release() string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

func (m *Metadata) String() string {
	return m.Release()
}
