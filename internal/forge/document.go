package forge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bayleafwalker/forge-core/internal/semver"
)

var ErrInvalidMetadata = errors.New("invalid metadata")

// Document is the metadata.json wire shape of a release. It is also used for
// YAML catalogs.
type Document struct {
	Name         string               `json:"name" yaml:"name"`
	Version      string               `json:"version" yaml:"version"`
	Summary      string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Source       string               `json:"source,omitempty" yaml:"source,omitempty"`
	License      string               `json:"license,omitempty" yaml:"license,omitempty"`
	Dependencies []DependencyDocument `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Types        []TypeDocument       `json:"types,omitempty" yaml:"types,omitempty"`
}

type DependencyDocument struct {
	Name               string `json:"name" yaml:"name"`
	VersionRequirement string `json:"version_requirement,omitempty" yaml:"version_requirement,omitempty"`
}

type TypeDocument struct {
	Name       string        `json:"name" yaml:"name"`
	Doc        string        `json:"doc,omitempty" yaml:"doc,omitempty"`
	Properties []DocDocument `json:"properties,omitempty" yaml:"properties,omitempty"`
	Parameters []DocDocument `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type DocDocument struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Metadata validates d and converts it.
func (d Document) Metadata() (*Metadata, error) {
	name, err := ParseModuleName(d.Name)
	if err != nil {
		return nil, fmt.Errorf("forge: %w: %w", ErrInvalidMetadata, err)
	}
	if d.Version == "" {
		return nil, fmt.Errorf("forge: %w: %s has no version", ErrInvalidMetadata, name)
	}
	version, err := semver.ParseVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("forge: %w: %s: %w", ErrInvalidMetadata, name, err)
	}

	m := &Metadata{
		Name:    name,
		Version: version,
		Summary: d.Summary,
		Source:  d.Source,
		License: d.License,
	}
	for _, dd := range d.Dependencies {
		dep, err := NewDependency(dd.Name, dd.VersionRequirement)
		if err != nil {
			return nil, fmt.Errorf("forge: %w: %s: %w", ErrInvalidMetadata, m.Release(), err)
		}
		m.Dependencies = append(m.Dependencies, dep)
	}
	for _, td := range d.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("forge: %w: %s declares a type without a name", ErrInvalidMetadata, m.Release())
		}
		m.Types = append(m.Types, Type{
			Name:       td.Name,
			Doc:        td.Doc,
			Properties: fromDocDocuments(td.Properties),
			Parameters: fromDocDocuments(td.Parameters),
		})
	}
	return m, nil
}

// DocumentOf is the inverse of Document.Metadata.
func DocumentOf(m *Metadata) Document {
	d := Document{
		Name:    m.Name.String(),
		Version: m.Version.String(),
		Summary: m.Summary,
		Source:  m.Source,
		License: m.License,
	}
	for _, dep := range m.Dependencies {
		d.Dependencies = append(d.Dependencies, DependencyDocument{
			Name:               dep.Name.WithSeparator('/'),
			VersionRequirement: dep.Range.String(),
		})
	}
	for _, t := range m.Types {
		d.Types = append(d.Types, TypeDocument{
			Name:       t.Name,
			Doc:        t.Doc,
			Properties: toDocDocuments(t.Properties),
			Parameters: toDocDocuments(t.Parameters),
		})
	}
	return d
}

// ParseMetadata decodes a metadata.json document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("forge: %w: %w", ErrInvalidMetadata, err)
	}
	return d.Metadata()
}

// DecodeMetadata reads a metadata.json document from r.
func DecodeMetadata(r io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("forge: read metadata: %w", err)
	}
	return ParseMetadata(data)
}

// EncodeMetadata renders m as a metadata.json document.
func EncodeMetadata(m *Metadata) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("forge: %w: nil metadata", ErrInvalidMetadata)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Version requirements are full of '<' and '>'.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(DocumentOf(m)); err != nil {
		return nil, fmt.Errorf("forge: encode %s: %w", m.Release(), err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func fromDocDocuments(in []DocDocument) []NamedDoc {
	if len(in) == 0 {
		return nil
	}
	out := make([]NamedDoc, 0, len(in))
	for _, d := range in {
		out = append(out, NamedDoc{Name: d.Name, Doc: d.Doc})
	}
	return out
}

func toDocDocuments(in []NamedDoc) []DocDocument {
	if len(in) == 0 {
		return nil
	}
	out := make([]DocDocument, 0, len(in))
	for _, d := range in {
		out = append(out, DocDocument{Name: d.Name, Doc: d.Doc})
	}
	return out
}
