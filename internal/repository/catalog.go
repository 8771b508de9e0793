package repository

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bayleafwalker/forge-core/internal/forge"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog models a YAML release catalog file.
type Catalog struct {
	Releases []forge.Document `yaml:"releases"`
}

// LoadCatalog decodes a YAML catalog into a MemoryRepository.
func LoadCatalog(r io.Reader) (*MemoryRepository, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMemory(), nil
		}
		return nil, fmt.Errorf("repository: %w: %w", ErrInvalidCatalog, err)
	}
	repo := NewMemory()
	for i, doc := range c.Releases {
		m, err := doc.Metadata()
		if err != nil {
			return nil, fmt.Errorf("repository: %w: release #%d: %w", ErrInvalidCatalog, i, err)
		}
		if err := repo.Add(m); err != nil {
			return nil, fmt.Errorf("repository: %w: %w", ErrInvalidCatalog, err)
		}
	}
	return repo, nil
}

// LoadCatalogFile reads a YAML catalog from path.
func LoadCatalogFile(path string) (*MemoryRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("repository: open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// CatalogOf renders the releases of repo as a Catalog, ordered by module name
// then insertion order.
func CatalogOf(repo *MemoryRepository) Catalog {
	var c Catalog
	for _, name := range repo.Modules() {
		for _, m := range repo.Releases(name) {
			c.Releases = append(c.Releases, forge.DocumentOf(m))
		}
	}
	return c
}
