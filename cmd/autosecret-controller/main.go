package main

import (
	"context"
	goflag "flag"
	"io"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	crwebhook "sigs.k8s.io/controller-runtime/pkg/webhook"

	autosecretv1alpha1 "autosecret/pkg/api/v1alpha1"
	"autosecret/pkg/config"
	"autosecret/pkg/controllers/autosecret"
	"autosecret/pkg/core"
	"autosecret/pkg/observability/logging"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(autosecretv1alpha1.AddToScheme(scheme))
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	options := config.FromEnv()
	var printCRD bool

	zapOptions, levelErr := logging.NewOptions()
	zapFlags := goflag.NewFlagSet("zap", goflag.ContinueOnError)
	zapOptions.BindFlags(zapFlags)

	command := &cobra.Command{
		Use:           "autosecret-controller [--crd | -h]",
		Short:         "Generate and maintain Secrets declared by AutoSecret resources",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if printCRD {
				return writeCRD(stdout)
			}

			logging.Setup(zapOptions, nil)
			if levelErr != nil {
				setupLog.Error(levelErr, "ignoring invalid log level")
			}

			if err := options.Validate(); err != nil {
				setupLog.Error(err, "invalid configuration")
				return err
			}

			return run(ctrl.SetupSignalHandler(), options)
		},
	}

	flags := command.Flags()
	flags.BoolVar(&printCRD, "crd", false, "Print the AutoSecret CustomResourceDefinition as YAML and exit.")
	flags.StringVar(&options.MetricsAddr, "metrics-bind-address", options.MetricsAddr, "The address the metric endpoint binds to.")
	flags.StringVar(&options.ProbeAddr, "health-probe-bind-address", options.ProbeAddr, "The address the health probe endpoint binds to.")
	flags.IntVar(&options.WebhookPort, "webhook-port", options.WebhookPort, "Webhook server port.")
	flags.BoolVar(&options.EnableWebhooks, "enable-webhooks", options.EnableWebhooks, "Enable the AutoSecret validating admission webhook.")
	flags.BoolVar(&options.StdinResync, "stdin-resync", options.StdinResync, "Reconcile all AutoSecrets whenever a line is read from standard input.")
	flags.IntVar(&options.MaxConcurrentReconciles, "max-concurrent-reconciles", options.MaxConcurrentReconciles, "Maximum number of AutoSecrets reconciled in parallel.")
	flags.DurationVar(&options.RetryDelay, "retry-delay", options.RetryDelay, "Delay before a failed reconcile is retried.")
	flags.AddGoFlagSet(zapFlags)

	return command
}

// writeCRD renders the CRD for the generation kinds compiled into this binary.
func writeCRD(stdout io.Writer) error {
	rendered, err := autosecretv1alpha1.CRDYAML(core.DefaultGenerators().Kinds())
	if err != nil {
		return err
	}
	_, err = stdout.Write(rendered)
	return err
}

func run(ctx context.Context, options config.Options) error {
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		startupErr := &core.StartupError{Stage: "kubeconfig", Cause: err}
		setupLog.Error(startupErr, "unable to load cluster configuration")
		return startupErr
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress: options.MetricsAddr,
		},
		HealthProbeBindAddress: options.ProbeAddr,
		WebhookServer:          crwebhook.NewServer(crwebhook.Options{Port: options.WebhookPort}),
	})
	if err != nil {
		startupErr := &core.StartupError{Stage: "manager", Cause: err}
		setupLog.Error(startupErr, "unable to start manager")
		return startupErr
	}

	var triggers <-chan struct{}
	if options.StdinResync {
		triggers = autosecret.LineTrigger(os.Stdin)
	}

	if err := autosecret.SetupWithManager(mgr, options, triggers); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", autosecretv1alpha1.Kind)
		return &core.StartupError{Stage: "controller", Cause: err}
	}

	if options.EnableWebhooks {
		if err := (&autosecretv1alpha1.AutoSecret{}).SetupWebhookWithManager(mgr); err != nil {
			setupLog.Error(err, "unable to create webhook", "webhook", autosecretv1alpha1.Kind)
			return &core.StartupError{Stage: "webhook", Cause: err}
		}
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		return &core.StartupError{Stage: "healthz", Cause: err}
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		return &core.StartupError{Stage: "readyz", Cause: err}
	}

	setupLog.Info("starting autosecret-controller",
		"maxConcurrentReconciles", options.MaxConcurrentReconciles,
		"retryDelay", options.RetryDelay.String(),
		"webhooks", options.EnableWebhooks)
	if options.StdinResync {
		setupLog.Info("press <enter> to force a reconciliation of all objects")
	}

	if err := mgr.Start(ctx); err != nil {
		setupLog.Error(err, "problem running manager")
		return err
	}

	setupLog.Info("controller terminated")
	return nil
}
