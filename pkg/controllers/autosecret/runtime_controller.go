package autosecret

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/controller-runtime/pkg/source"

	"autosecret/pkg/adapters"
	"autosecret/pkg/adapters/events"
	"autosecret/pkg/agents/summary"
	autosecretv1alpha1 "autosecret/pkg/api/v1alpha1"
	"autosecret/pkg/config"
	"autosecret/pkg/core"
	observabilitymetrics "autosecret/pkg/observability/metrics"
)

// AutoSecretController reconciles AutoSecret resources with a controller-runtime manager.
//
// controller-runtime's work queue provides the per-key guarantees: a key is never processed by
// two workers at once, events arriving while it is processed mark it dirty so it runs exactly
// once more afterwards, and different keys run in parallel up to MaxConcurrentReconciles.
type AutoSecretController struct {
	client.Client
	logger      logr.Logger
	reconciler  *Reconciler
	generators  *core.Generators
	errorPolicy *core.ErrorPolicy
	events      *events.Recorder
	metrics     *observabilitymetrics.Recorder
}

var _ reconcile.Reconciler = &AutoSecretController{}

// NewController constructs an AutoSecretController wired with the manager's clients. Secrets are
// read through the API reader so a stale cache never causes a value to be regenerated.
func NewController(manager ctrl.Manager, options config.Options) *AutoSecretController {
	store := adapters.NewControllerRuntimeStore(manager.GetAPIReader(), manager.GetClient())
	generators := core.DefaultGenerators()

	return &AutoSecretController{
		Client:      manager.GetClient(),
		logger:      ctrl.Log.WithName("controllers").WithName("AutoSecret"),
		reconciler:  NewReconciler(store, generators),
		generators:  generators,
		errorPolicy: core.NewErrorPolicy(options.RetryDelay, nil),
		events:      events.NewRecorder(manager.GetEventRecorderFor(core.ControllerName)),
		metrics:     observabilitymetrics.Default(),
	}
}

// Reconcile runs one reconcile for an AutoSecret. Failures never surface as errors to the
// manager: the ErrorPolicy decides when the key is retried.
func (autoSecretController *AutoSecretController) Reconcile(requestContext context.Context, reconcileRequest ctrl.Request) (ctrl.Result, error) {
	requestLogger := autoSecretController.logger.WithValues("autosecret", reconcileRequest.NamespacedName)
	requestContext = log.IntoContext(requestContext, requestLogger)

	var autoSecret autosecretv1alpha1.AutoSecret
	start := time.Now()

	if err := autoSecretController.Get(requestContext, reconcileRequest.NamespacedName, &autoSecret); err != nil {
		if apierrors.IsNotFound(err) {
			// The Secret is garbage collected through its owner reference.
			autoSecretController.errorPolicy.Forget(reconcileRequest.NamespacedName)
			return ctrl.Result{}, nil
		}

		autoSecretController.metrics.ObserveReconcile(nil, err, time.Since(start))
		return autoSecretController.onError(requestLogger, nil, reconcileRequest.NamespacedName, err), nil
	}

	if !autoSecret.DeletionTimestamp.IsZero() {
		autoSecretController.errorPolicy.Forget(reconcileRequest.NamespacedName)
		return ctrl.Result{}, nil
	}

	result, err := autoSecretController.reconcileObject(requestContext, &autoSecret)
	autoSecretController.metrics.ObserveReconcile(result, err, time.Since(start))

	if err != nil {
		return autoSecretController.onError(requestLogger, &autoSecret, reconcileRequest.NamespacedName, err), nil
	}

	autoSecretController.errorPolicy.Forget(reconcileRequest.NamespacedName)
	autoSecretController.events.Summary(&autoSecret, result)

	requestLogger.Info("reconciled",
		"changed", result.Changed(),
		"created", result.Count(summary.ActionCreated),
		"updated", result.Count(summary.ActionUpdated),
		"removed", result.Count(summary.ActionRemoved),
		"skipped", result.Count(summary.ActionSkipped),
		"conflicts", result.Entries(summary.ActionConflict))

	// Nothing left to do until the AutoSecret or its Secret changes again.
	return ctrl.Result{}, nil
}

func (autoSecretController *AutoSecretController) reconcileObject(requestContext context.Context, autoSecret *autosecretv1alpha1.AutoSecret) (*summary.Summary, error) {
	desired, err := autoSecret.Desired(autoSecretController.generators)
	if err != nil {
		return nil, err
	}

	return autoSecretController.reconciler.Reconcile(requestContext, desired)
}

// onError applies the ErrorPolicy: every failure is retried after the same fixed delay.
func (autoSecretController *AutoSecretController) onError(requestLogger logr.Logger, autoSecret *autosecretv1alpha1.AutoSecret, key types.NamespacedName, err error) ctrl.Result {
	delay := autoSecretController.errorPolicy.OnError(key, err)
	nextRetry, _ := autoSecretController.errorPolicy.NextRetry(key)

	requestLogger.Error(err, "reconcile failed",
		"kind", core.ErrorKind(err),
		"category", core.ClassifyError(err),
		"attempt", autoSecretController.errorPolicy.Attempts(key),
		"retryAfter", delay,
		"nextRetry", nextRetry)

	if autoSecret != nil {
		autoSecretController.events.Error(autoSecret, err)
	}

	return ctrl.Result{RequeueAfter: delay}
}

// SetupWithManager registers the controller with the provided manager. Every value received on
// triggers requests a reconcile of all AutoSecrets; triggers may be nil.
func SetupWithManager(manager ctrl.Manager, options config.Options, triggers <-chan struct{}) error {
	reconciler := NewController(manager, options)

	resyncer := NewResyncer(manager.GetClient(), triggers)
	if err := manager.Add(resyncer); err != nil {
		return err
	}

	return ctrl.NewControllerManagedBy(manager).
		Named("autosecret").
		WithOptions(controllerOptions(options)).
		For(&autosecretv1alpha1.AutoSecret{}).
		Owns(&corev1.Secret{}).
		WatchesRawSource(resyncSource(resyncer), &handler.EnqueueRequestForObject{}).
		Complete(reconciler)
}

func controllerOptions(options config.Options) controller.Options {
	return controller.Options{MaxConcurrentReconciles: options.MaxConcurrentReconciles}
}

// resyncSource feeds the Resyncer's events into the work queue next to the watch events.
func resyncSource(resyncer *Resyncer) source.Source {
	return &source.Channel{Source: resyncer.Events()}
}
