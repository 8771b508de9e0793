package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

func release(name, version string, deps ...forge.Dependency) *forge.Metadata {
	return &forge.Metadata{
		Name:         forge.MustParseModuleName(name),
		Version:      semver.MustParseVersion(version),
		Dependencies: deps,
	}
}

func TestMemoryRepository_ResolveHighestSatisfying(t *testing.T) {
	repo := NewMemory(
		release("acme-util", "1.0.0"),
		release("acme-util", "2.0.0"),
		release("acme-util", "1.2.0"),
	)

	got, ok, err := repo.Resolve(context.Background(), forge.MustDependency("acme-util", ">=1.0.0 <2.0.0"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok {
		t.Fatalf("expected a match")
	}
	if got.Version.String() != "1.2.0" {
		t.Fatalf("expected 1.2.0, got %s", got.Version)
	}
}

func TestMemoryRepository_UnknownModuleIsNotFound(t *testing.T) {
	repo := NewMemory(release("acme-util", "1.0.0"))

	got, ok, err := repo.Resolve(context.Background(), forge.MustDependency("acme-missing", ""))
	if err != nil {
		t.Fatalf("expected not-found without error, got %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected not found, got %v", got)
	}

	_, ok, err = repo.Resolve(context.Background(), forge.MustDependency("acme-util", ">=3.0.0"))
	if err != nil || ok {
		t.Fatalf("expected unsatisfiable range to be not found, ok=%v err=%v", ok, err)
	}
}

func TestMemoryRepository_DuplicateVersionsFirstWins(t *testing.T) {
	first := release("acme-util", "1.0.0")
	second := release("acme-util", "1.0.0")
	second.Summary = "second"
	repo := NewMemory(first, second)

	for i := 0; i < 3; i++ {
		got, _, _ := repo.Resolve(context.Background(), forge.MustDependency("acme-util", ""))
		if got != first {
			t.Fatalf("expected deterministic first release, got %+v", got)
		}
	}
}

func TestMemoryRepository_Lookup(t *testing.T) {
	repo := NewMemory(release("acme-util", "1.0.0"), release("acme-util", "1.1.0"))
	name := forge.MustParseModuleName("acme/util")

	got, ok, err := repo.Lookup(context.Background(), name, semver.MustParseVersion("1.1.0"))
	if err != nil || !ok || got.Version.String() != "1.1.0" {
		t.Fatalf("unexpected lookup result %v %v %v", got, ok, err)
	}
	_, ok, err = repo.Lookup(context.Background(), name, semver.MustParseVersion("1.0.1"))
	if err != nil || ok {
		t.Fatalf("expected exact miss, ok=%v err=%v", ok, err)
	}
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := NewMemory(release("acme-util", "1.0.0"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := repo.Resolve(ctx, forge.MustDependency("acme-util", "")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemoryRepository_RejectsIncompleteRelease(t *testing.T) {
	repo := NewMemory()
	if err := repo.Add(nil); err == nil {
		t.Fatalf("expected error for nil release")
	}
	if err := repo.Add(&forge.Metadata{Name: forge.MustParseModuleName("acme-util")}); err == nil {
		t.Fatalf("expected error for release without version")
	}
}

func TestMemoryRepository_ConcurrentReads(t *testing.T) {
	repo := NewMemory(release("acme-util", "1.0.0"), release("acme-util", "1.5.0"))
	dep := forge.MustDependency("acme-util", "1.x")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok, err := repo.Resolve(context.Background(), dep)
			if err != nil || !ok || got.Version.String() != "1.5.0" {
				t.Errorf("unexpected concurrent result %v %v %v", got, ok, err)
			}
		}()
	}
	wg.Wait()
}

const catalogYAML = `
releases:
  - name: acme-app
    version: 1.0.0
    dependencies:
      - name: acme/util
        version_requirement: ">= 1.0.0 < 2.0.0"
  - name: acme-util
    version: 1.4.0
    types:
      - name: util_thing
        doc: A thing.
  - name: acme-util
    version: 2.0.0
`

func TestLoadCatalog(t *testing.T) {
	repo, err := LoadCatalog(strings.NewReader(catalogYAML))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got := len(repo.Modules()); got != 2 {
		t.Fatalf("expected 2 modules, got %d", got)
	}
	app, ok, _ := repo.Lookup(context.Background(), forge.MustParseModuleName("acme-app"), semver.MustParseVersion("1.0.0"))
	if !ok {
		t.Fatalf("expected acme-app@1.0.0")
	}
	util, ok, _ := repo.Resolve(context.Background(), app.Dependencies[0])
	if !ok || util.Version.String() != "1.4.0" {
		t.Fatalf("expected acme-util@1.4.0, got %v", util)
	}
	if len(util.Types) != 1 || util.Types[0].Name != "util_thing" {
		t.Fatalf("expected type catalog to load, got %+v", util.Types)
	}

	c := CatalogOf(repo)
	if len(c.Releases) != 3 || c.Releases[0].Name != "acme-app" {
		t.Fatalf("unexpected catalog rendering %+v", c.Releases)
	}
}

func TestLoadCatalog_Invalid(t *testing.T) {
	cases := []string{
		"releases: [",
		"releases:\n  - name: nope\n    version: 1.0.0\n",
		"unknown: true\n",
	}
	for _, c := range cases {
		if _, err := LoadCatalog(strings.NewReader(c)); !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("expected ErrInvalidCatalog for %q, got %v", c, err)
		}
	}
	repo, err := LoadCatalog(strings.NewReader(""))
	if err != nil || len(repo.Modules()) != 0 {
		t.Fatalf("expected empty catalog to load, got %v", err)
	}
}
