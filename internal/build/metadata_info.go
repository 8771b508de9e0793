package build

import (
	"github.com/bayleafwalker/forge-core/internal/forge"
)

// Resolution pairs a dependency with the module that satisfied it.
type Resolution struct {
	Dependency forge.Dependency
	Info       *MetadataInfo
}

// MetadataInfo is the resolution ledger of one module seen during a build.
// It is filled through an InfoBuilder and read-only once built.
type MetadataInfo struct {
	file        string
	metadata    *forge.Metadata
	resolutions []Resolution
	unresolved  []forge.Dependency
	types       []forge.Type
	role        bool
	frozen      bool
}

// File is where the metadata was loaded from, if known.
func (i *MetadataInfo) File() string { return i.file }

func (i *MetadataInfo) Metadata() *forge.Metadata { return i.metadata }

func (i *MetadataInfo) Name() forge.ModuleName { return i.metadata.Name }

// Role reports whether the module aggregates other modules.
func (i *MetadataInfo) Role() bool { return i.role }

func (i *MetadataInfo) Frozen() bool { return i.frozen }

func (i *MetadataInfo) Resolutions() []Resolution {
	return append([]Resolution(nil), i.resolutions...)
}

func (i *MetadataInfo) Unresolved() []forge.Dependency {
	return append([]forge.Dependency(nil), i.unresolved...)
}

func (i *MetadataInfo) Types() []forge.Type {
	return append([]forge.Type(nil), i.types...)
}

// InfoBuilder is the exclusive writer of one MetadataInfo.
type InfoBuilder struct {
	info *MetadataInfo
}

// NewInfo starts a ledger for m, seeded with the types m exports.
func NewInfo(m *forge.Metadata, file string) *InfoBuilder {
	return &InfoBuilder{info: &MetadataInfo{
		file:     file,
		metadata: m,
		types:    append([]forge.Type(nil), m.Types...),
	}}
}

// Info returns the record under construction. Other ledgers may reference
// it before it is built.
func (b *InfoBuilder) Info() *MetadataInfo { return b.info }

func (b *InfoBuilder) SetRole(role bool) error {
	if b.info.frozen {
		return ErrFrozen
	}
	b.info.role = role
	return nil
}

func (b *InfoBuilder) AddResolution(dep forge.Dependency, info *MetadataInfo) error {
	if b.info.frozen {
		return ErrFrozen
	}
	b.info.resolutions = append(b.info.resolutions, Resolution{Dependency: dep, Info: info})
	return nil
}

func (b *InfoBuilder) AddUnresolved(dep forge.Dependency) error {
	if b.info.frozen {
		return ErrFrozen
	}
	b.info.unresolved = append(b.info.unresolved, dep)
	return nil
}

func (b *InfoBuilder) AddType(t forge.Type) error {
	if b.info.frozen {
		return ErrFrozen
	}
	b.info.types = append(b.info.types, t)
	return nil
}

// Build freezes the record and returns it. Calling Build again returns the
// same record.
func (b *InfoBuilder) Build() *MetadataInfo {
	b.info.frozen = true
	return b.info
}
