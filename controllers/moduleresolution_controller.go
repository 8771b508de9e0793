package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	forgev1alpha1 "github.com/bayleafwalker/forge-core/api/v1alpha1"
	"github.com/bayleafwalker/forge-core/internal/build"
	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/repository"
	"github.com/bayleafwalker/forge-core/internal/resolver"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

const controllerModuleResolution = "ModuleResolution"

// ModuleResolutionReconciler resolves the dependency graph of a
// ModuleResolution's roots and publishes the report in its status.
//
// RBAC:
// +kubebuilder:rbac:groups=forge.platform,resources=modulereleases,verbs=get;list;watch
// +kubebuilder:rbac:groups=forge.platform,resources=moduleresolutions,verbs=get;list;watch
// +kubebuilder:rbac:groups=forge.platform,resources=moduleresolutions/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type ModuleResolutionReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// Repository replaces the ModuleReleases of the resolution's namespace
	// as the release source when set.
	Repository repository.Repository
}

func (r *ModuleResolutionReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	forgeControllerReconcileTotal.WithLabelValues(controllerModuleResolution).Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", controllerModuleResolution,
		"namespace", req.Namespace,
		"resolution", req.Name,
	)

	var res forgev1alpha1.ModuleResolution
	if err := r.Get(ctx, req.NamespacedName, &res); err != nil {
		if client.IgnoreNotFound(err) == nil {
			forgetResolutionMetrics(req.Namespace, req.Name)
			return ctrl.Result{}, nil
		}
		forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
		return ctrl.Result{}, err
	}
	logger.Info("reconciling module resolution", "roots", len(res.Spec.Roots))

	repo, roles := r.repositoryFor(res.Namespace, logger)
	start := time.Now()

	// 1) Load roots
	roots, missing, err := loadRoots(ctx, repo, res.Spec.Roots)
	if err != nil {
		var invalid invalidRootError
		if errors.As(err, &invalid) {
			msg := invalid.Error()
			r.patchFailure(ctx, logger, &res, ResolutionConditionRootsLoaded, "InvalidRoot", msg)
			r.recordEventf(&res, corev1.EventTypeWarning, "InvalidRoot", "%s", msg)
			return ctrl.Result{}, nil
		}
		logger.Error(err, "failed to load roots")
		r.patchFailure(ctx, logger, &res, ResolutionConditionRootsLoaded, "RepositoryFailure", err.Error())
		r.recordEventf(&res, corev1.EventTypeWarning, "RepositoryFailure", "Failed to load roots: %v", err)
		forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
		return ctrl.Result{}, err
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("Root release(s) not found: %s", strings.Join(missing, ", "))
		r.patchFailure(ctx, logger, &res, ResolutionConditionRootsLoaded, "RootNotFound", msg)
		logger.Info("root releases missing", "missing", missing)
		r.recordEventf(&res, corev1.EventTypeWarning, "RootNotFound", "%s", msg)
		return ctrl.Result{}, nil
	}

	// 2) Resolve
	out, err := resolver.NewDefault(repo, resolver.WithLogger(logger)).DeepResolve(ctx, roots...)
	if err != nil {
		logger.Error(err, "dependency resolution failed")
		r.patchFailure(ctx, logger, &res, ResolutionConditionDependenciesResolved, "RepositoryFailure", err.Error())
		r.recordEventf(&res, corev1.EventTypeWarning, "RepositoryFailure", "Resolution failed: %v", err)
		forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
		return ctrl.Result{}, err
	}

	// 3) Fold into a build result
	var isRole build.RoleClassifier
	if roles != nil {
		known, err := roles(ctx)
		if err != nil {
			forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
			return ctrl.Result{}, err
		}
		isRole = func(m *forge.Metadata) bool { return known[m.Release()] }
	}
	result, err := build.Assemble(out, build.Options{IsRole: isRole})
	if err != nil {
		forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
		return ctrl.Result{}, err
	}
	moduleResolutionDuration.Observe(time.Since(start).Seconds())

	// 4) Publish
	prevPhase := res.Status.Phase
	before := res.DeepCopy()
	applyReport(&res, out, result)
	recordResolutionMetrics(&res)
	if err := r.Status().Patch(ctx, &res, client.MergeFrom(before)); err != nil {
		logger.Error(err, "failed to patch resolution status")
		forgeControllerReconcileErrorTotal.WithLabelValues(controllerModuleResolution).Inc()
		return ctrl.Result{}, err
	}

	logger.Info("module resolution reconciled",
		"phase", res.Status.Phase,
		"resolved", res.Status.ResolvedCount,
		"unresolved", res.Status.UnresolvedCount,
		"circular", len(res.Status.Circular),
	)
	if prevPhase != res.Status.Phase {
		switch res.Status.Phase {
		case ResolutionPhaseResolved:
			r.recordEventf(&res, corev1.EventTypeNormal, "Resolved", "%s", res.Status.Message)
		default:
			r.recordEventf(&res, corev1.EventTypeWarning, "UnresolvedDependencies", "%s", res.Status.Message)
		}
	}
	for _, chain := range res.Status.Circular {
		if !containsString(before.Status.Circular, chain) {
			r.recordEventf(&res, corev1.EventTypeWarning, "CircularDependency", "Circular dependency %s", chain)
		}
	}
	return ctrl.Result{}, nil
}

// repositoryFor returns the release source for namespace and, for cluster
// sources, the lookup of role releases.
func (r *ModuleResolutionReconciler) repositoryFor(namespace string, logger logr.Logger) (repository.Repository, func(context.Context) (map[string]bool, error)) {
	if r.Repository != nil {
		return r.Repository, nil
	}
	cluster := repository.NewCluster(r.Client, namespace).WithLogger(logger)
	return cluster, cluster.Roles
}

type invalidRootError struct{ err error }

func (e invalidRootError) Error() string { return e.err.Error() }
func (e invalidRootError) Unwrap() error { return e.err }

func loadRoots(ctx context.Context, repo repository.Repository, refs []forgev1alpha1.ReleaseRef) ([]*forge.Metadata, []string, error) {
	roots := make([]*forge.Metadata, 0, len(refs))
	var missing []string
	for _, ref := range refs {
		name, err := forge.ParseModuleName(ref.Module)
		if err != nil {
			return nil, nil, invalidRootError{err}
		}
		version, err := semver.ParseVersion(ref.Version)
		if err != nil {
			return nil, nil, invalidRootError{fmt.Errorf("root %s: %w", name, err)}
		}
		m, found, err := repo.Lookup(ctx, name, version)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			missing = append(missing, fmt.Sprintf("%s@%s", name, version))
			continue
		}
		roots = append(roots, m)
	}
	return roots, missing, nil
}

func applyReport(res *forgev1alpha1.ModuleResolution, out *resolver.Result, result *build.BuildResult) {
	status := &res.Status
	status.ObservedGeneration = res.Generation

	status.Resolved = nil
	for _, info := range result.All() {
		entry := forgev1alpha1.ResolvedRelease{
			Module:  info.Name().String(),
			Version: info.Metadata().Version.String(),
			Role:    info.Role(),
		}
		for _, t := range info.Types() {
			entry.Types = append(entry.Types, t.Name)
		}
		status.Resolved = append(status.Resolved, entry)
	}

	status.Unresolved = nil
	for _, u := range out.Diagnostics.Unresolved {
		entry := forgev1alpha1.UnresolvedDependency{
			Module:     u.Owner.String(),
			Dependency: u.Dependency.Name.String(),
			Reason:     string(u.Reason),
		}
		if !u.Dependency.Range.IsAny() {
			entry.VersionRequirement = u.Dependency.Range.String()
		}
		status.Unresolved = append(status.Unresolved, entry)
	}
	status.Circular = result.Circularities()
	status.ResolvedCount = int32(len(status.Resolved))
	status.UnresolvedCount = int32(len(status.Unresolved))

	setResolutionCondition(res, metav1.Condition{
		Type:    ResolutionConditionRootsLoaded,
		Status:  metav1.ConditionTrue,
		Reason:  "RootsLoaded",
		Message: fmt.Sprintf("%d root release(s) loaded", len(out.Roots)),
	})
	if len(status.Unresolved) == 0 {
		status.Phase = ResolutionPhaseResolved
		status.Message = fmt.Sprintf("Resolved %d release(s)", len(status.Resolved))
		setResolutionCondition(res, metav1.Condition{
			Type:    ResolutionConditionDependenciesResolved,
			Status:  metav1.ConditionTrue,
			Reason:  "AllResolved",
			Message: status.Message,
		})
	} else {
		status.Phase = ResolutionPhaseIncomplete
		status.Message = summarizeUnresolved(status.Unresolved)
		setResolutionCondition(res, metav1.Condition{
			Type:    ResolutionConditionDependenciesResolved,
			Status:  metav1.ConditionFalse,
			Reason:  "UnresolvedDependencies",
			Message: status.Message,
		})
	}
	if len(status.Circular) == 0 {
		setResolutionCondition(res, metav1.Condition{
			Type:    ResolutionConditionAcyclic,
			Status:  metav1.ConditionTrue,
			Reason:  "NoCycles",
			Message: "No circular dependencies",
		})
	} else {
		setResolutionCondition(res, metav1.Condition{
			Type:    ResolutionConditionAcyclic,
			Status:  metav1.ConditionFalse,
			Reason:  "CircularDependency",
			Message: strings.Join(status.Circular, "; "),
		})
	}
}

func recordResolutionMetrics(res *forgev1alpha1.ModuleResolution) {
	forgetResolutionMetrics(res.Namespace, res.Name)
	moduleResolutionResolvedReleases.WithLabelValues(res.Namespace, res.Name).Set(float64(res.Status.ResolvedCount))
	moduleResolutionCircularChains.WithLabelValues(res.Namespace, res.Name).Set(float64(len(res.Status.Circular)))
	for _, u := range res.Status.Unresolved {
		moduleResolutionUnresolvedDependencies.WithLabelValues(res.Namespace, res.Name, u.Reason).Inc()
	}
}

// patchFailure records a resolution that could not run to completion.
// conditionType names the step that failed.
func (r *ModuleResolutionReconciler) patchFailure(ctx context.Context, logger logr.Logger, res *forgev1alpha1.ModuleResolution, conditionType, reason, message string) {
	before := res.DeepCopy()
	res.Status.ObservedGeneration = res.Generation
	res.Status.Phase = ResolutionPhaseError
	res.Status.Message = message
	setResolutionCondition(res, metav1.Condition{
		Type:    conditionType,
		Status:  metav1.ConditionFalse,
		Reason:  reason,
		Message: message,
	})
	if conditionType == ResolutionConditionRootsLoaded {
		setResolutionCondition(res, metav1.Condition{
			Type:    ResolutionConditionDependenciesResolved,
			Status:  metav1.ConditionFalse,
			Reason:  "RootsNotReady",
			Message: "Cannot resolve dependencies until all roots are loaded",
		})
	}
	if err := r.Status().Patch(ctx, res, client.MergeFrom(before)); err != nil {
		logger.Error(err, "failed to patch resolution status")
	}
}

func (r *ModuleResolutionReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *ModuleResolutionReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if err := mgr.GetFieldIndexer().IndexField(context.Background(), &forgev1alpha1.ModuleRelease{}, repository.ModuleIndexField, repository.IndexModule); err != nil {
		return err
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&forgev1alpha1.ModuleResolution{}).
		Watches(&forgev1alpha1.ModuleRelease{}, enqueueResolutionsForRelease(mgr.GetClient())).
		Complete(r)
}

// enqueueResolutionsForRelease enqueues every ModuleResolution in the
// namespace of a changed ModuleRelease.
func enqueueResolutionsForRelease(c client.Client) handler.EventHandler {
	return handler.EnqueueRequestsFromMapFunc(func(ctx context.Context, obj client.Object) []reconcile.Request {
		var list forgev1alpha1.ModuleResolutionList
		if err := c.List(ctx, &list, client.InNamespace(obj.GetNamespace())); err != nil {
			log.FromContext(ctx).Error(err, "failed to list module resolutions", "namespace", obj.GetNamespace())
			return nil
		}
		out := make([]reconcile.Request, 0, len(list.Items))
		for i := range list.Items {
			item := &list.Items[i]
			out = append(out, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: item.Namespace, Name: item.Name}})
		}
		return out
	})
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
