package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/controller-runtime/pkg/client"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/repository"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(forgev1alpha1.AddToScheme(scheme))
}

func main() {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	} else {
		kubeconfig = os.Getenv("KUBECONFIG")
	}
	flag.StringVar(&kubeconfig, "kubeconfig", kubeconfig, "absolute path to the kubeconfig file")

	var catalogPath string
	var namespace string
	var roles string
	var resolution string
	var roots string
	var workers int
	var wait time.Duration

	flag.StringVar(&catalogPath, "catalog", "catalog.yaml", "YAML release catalog to import")
	flag.StringVar(&namespace, "namespace", "default", "Namespace to import releases into")
	flag.StringVar(&roles, "roles", "", "Comma separated modules to mark as roles")
	flag.StringVar(&resolution, "resolution", "", "Create a ModuleResolution with this name after importing")
	flag.StringVar(&roots, "roots", "", "Comma separated owner-name@version roots for -resolution")
	flag.IntVar(&workers, "workers", 4, "Concurrent API writes")
	flag.DurationVar(&wait, "wait", 2*time.Minute, "How long to wait for the resolution to report a phase")
	flag.Parse()

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		log.Fatalf("Error building kubeconfig: %v", err)
	}

	k8sClient, err := client.New(config, client.Options{Scheme: scheme})
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}

	repo, err := repository.LoadCatalogFile(catalogPath)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	roleSet := map[forge.ModuleName]bool{}
	for _, raw := range splitList(roles) {
		name, err := forge.ParseModuleName(raw)
		if err != nil {
			log.Fatalf("Invalid role %q: %v", raw, err)
		}
		roleSet[name] = true
	}

	var releases []*forge.Metadata
	for _, name := range repo.Modules() {
		releases = append(releases, repo.Releases(name)...)
	}
	fmt.Printf("Importing %d releases into namespace %s\n", len(releases), namespace)

	start := time.Now()
	jobs := make(chan *forge.Metadata)
	var failed sync.Map
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := apply(context.Background(), k8sClient, namespace, m, roleSet[m.Name]); err != nil {
					fmt.Printf("Error importing %s: %v\n", m.Release(), err)
					failed.Store(m.Release(), err)
				}
			}
		}()
	}
	for _, m := range releases {
		jobs <- m
	}
	close(jobs)
	wg.Wait()

	failures := 0
	failed.Range(func(_, _ any) bool { failures++; return true })
	fmt.Printf("Imported %d/%d releases in %v\n", len(releases)-failures, len(releases), time.Since(start))

	if resolution == "" {
		if failures > 0 {
			os.Exit(1)
		}
		return
	}
	phase, err := resolve(k8sClient, namespace, resolution, splitList(roots), wait)
	if err != nil {
		log.Fatalf("Resolution %s: %v", resolution, err)
	}
	fmt.Printf("Resolution %s: %s\n", resolution, phase)
}

// apply creates or updates the ModuleRelease for m.
func apply(ctx context.Context, c client.Client, namespace string, m *forge.Metadata, role bool) error {
	desired := &forgev1alpha1.ModuleRelease{
		ObjectMeta: metav1.ObjectMeta{
			Name:      repository.ReleaseObjectName(m),
			Namespace: namespace,
			Labels:    map[string]string{"forge.platform/module": m.Name.String()},
		},
		Spec: repository.ReleaseSpec(m, role),
	}
	var existing forgev1alpha1.ModuleRelease
	err := c.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		return c.Create(ctx, desired)
	}
	if err != nil {
		return err
	}
	existing.Spec = desired.Spec
	existing.Labels = desired.Labels
	return c.Update(ctx, &existing)
}

// resolve creates the named ModuleResolution and polls until it reports a phase.
func resolve(c client.Client, namespace, name string, roots []string, wait time.Duration) (string, error) {
	if len(roots) == 0 {
		return "", fmt.Errorf("-roots is required with -resolution")
	}
	res := &forgev1alpha1.ModuleResolution{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
	}
	for _, raw := range roots {
		module, version, ok := strings.Cut(raw, "@")
		if !ok {
			return "", fmt.Errorf("root %q must be owner-name@version", raw)
		}
		res.Spec.Roots = append(res.Spec.Roots, forgev1alpha1.ReleaseRef{Module: module, Version: version})
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	if err := c.Create(ctx, res); err != nil {
		return "", err
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("timed out waiting for a phase")
		case <-time.After(1 * time.Second):
			var current forgev1alpha1.ModuleResolution
			if err := c.Get(ctx, client.ObjectKeyFromObject(res), &current); err != nil {
				continue
			}
			if current.Status.Phase != "" {
				for _, u := range current.Status.Unresolved {
					fmt.Printf("  unresolved: %s requires %s %s (%s)\n", u.Module, u.Dependency, u.VersionRequirement, u.Reason)
				}
				for _, chain := range current.Status.Circular {
					fmt.Printf("  circular: %s\n", chain)
				}
				return current.Status.Phase, nil
			}
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
