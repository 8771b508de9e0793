package repository

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

func moduleRelease(namespace, objName, module, version string, deps ...forgev1alpha1.ModuleDependency) *forgev1alpha1.ModuleRelease {
	return &forgev1alpha1.ModuleRelease{
		TypeMeta:   metav1.TypeMeta{APIVersion: "forge.platform/v1alpha1", Kind: "ModuleRelease"},
		ObjectMeta: metav1.ObjectMeta{Name: objName, Namespace: namespace},
		Spec: forgev1alpha1.ModuleReleaseSpec{
			Module:       module,
			Version:      version,
			Dependencies: deps,
		},
	}
}

func newClusterClient(t *testing.T, objs ...client.Object) client.Client {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := forgev1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	return fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithIndex(&forgev1alpha1.ModuleRelease{}, ModuleIndexField, IndexModule).
		Build()
}

func TestClusterRepository_Resolve(t *testing.T) {
	cl := newClusterClient(t,
		moduleRelease("forge", "util-1", "acme-util", "1.0.0"),
		moduleRelease("forge", "util-2", "Acme/Util", "1.4.0", forgev1alpha1.ModuleDependency{Name: "acme/base", VersionRequirement: ">= 1.0.0"}),
		moduleRelease("forge", "util-3", "acme-util", "2.0.0"),
		moduleRelease("other", "util-9", "acme-util", "1.9.0"),
		moduleRelease("forge", "broken", "acme-util", "not-a-version"),
	)
	repo := NewCluster(cl, "forge")

	got, ok, err := repo.Resolve(context.Background(), forge.MustDependency("acme-util", "1.x"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || got.Version.String() != "1.4.0" {
		t.Fatalf("expected acme-util@1.4.0 from this namespace, got %v", got)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Name.String() != "acme-base" {
		t.Fatalf("unexpected dependencies %v", got.Dependencies)
	}

	_, ok, err = repo.Resolve(context.Background(), forge.MustDependency("acme-missing", ""))
	if err != nil || ok {
		t.Fatalf("expected not found, ok=%v err=%v", ok, err)
	}
}

func TestClusterRepository_LookupAndRoles(t *testing.T) {
	role := moduleRelease("forge", "profile-web", "acme-profile_web", "0.3.0")
	role.Spec.Role = true
	cl := newClusterClient(t,
		role,
		moduleRelease("forge", "util-1", "acme-util", "1.0.0"),
	)
	repo := NewCluster(cl, "forge")

	m, ok, err := repo.Lookup(context.Background(), forge.MustParseModuleName("acme-profile_web"), semver.MustParseVersion("0.3.0"))
	if err != nil || !ok {
		t.Fatalf("expected exact lookup hit, ok=%v err=%v", ok, err)
	}
	roles, err := repo.Roles(context.Background())
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if !roles[m.Release()] || roles["acme-util@1.0.0"] {
		t.Fatalf("unexpected roles %v", roles)
	}
}

func TestReleaseSpec_RoundTrip(t *testing.T) {
	m := &forge.Metadata{
		Name:         forge.MustParseModuleName("acme-util"),
		Version:      semver.MustParseVersion("1.2.3"),
		Dependencies: []forge.Dependency{forge.MustDependency("acme-base", ">= 1.0.0 < 2.0.0")},
		Types: []forge.Type{{
			Name:       "util_thing",
			Properties: []forge.NamedDoc{{Name: "ensure"}},
			Parameters: []forge.NamedDoc{{Name: "name", Doc: "The name."}},
		}},
		Summary: "Utilities",
	}
	rel := &forgev1alpha1.ModuleRelease{
		ObjectMeta: metav1.ObjectMeta{Name: ReleaseObjectName(m), Namespace: "forge"},
		Spec:       ReleaseSpec(m, true),
	}
	if rel.Name != "acme-util-1-2-3" {
		t.Fatalf("unexpected object name %q", rel.Name)
	}

	back, err := ReleaseMetadata(rel)
	if err != nil {
		t.Fatalf("ReleaseMetadata: %v", err)
	}
	if back.Release() != "acme-util@1.2.3" || back.Summary != "Utilities" {
		t.Fatalf("unexpected release %v", back)
	}
	if back.Dependencies[0].Range.String() != ">= 1.0.0 < 2.0.0" {
		t.Fatalf("unexpected range %q", back.Dependencies[0].Range)
	}
	if len(back.Types) != 1 || back.Types[0].Parameters[0].Doc != "The name." {
		t.Fatalf("unexpected types %+v", back.Types)
	}
}
