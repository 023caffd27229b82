package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"autosecret/pkg/core"
)

// Environment variables overriding the built-in defaults. Command-line flags override both.
const (
	EnvMaxConcurrentReconciles = "MAX_CONCURRENT_RECONCILES"
	EnvRetryDelay              = "RETRY_DELAY"
	EnvEnableWebhooks          = "ENABLE_WEBHOOKS"
	EnvStdinResync             = "STDIN_RESYNC"
)

// DefaultMaxConcurrentReconciles bounds how many AutoSecrets are reconciled in parallel.
const DefaultMaxConcurrentReconciles = 4

// Options configures the controller process.
type Options struct {
	MetricsAddr             string
	ProbeAddr               string
	WebhookPort             int
	EnableWebhooks          bool
	StdinResync             bool
	MaxConcurrentReconciles int
	RetryDelay              time.Duration
}

// Default returns the built-in defaults.
func Default() Options {
	return Options{
		MetricsAddr:             ":8080",
		ProbeAddr:               ":8081",
		WebhookPort:             9443,
		EnableWebhooks:          false,
		StdinResync:             true,
		MaxConcurrentReconciles: DefaultMaxConcurrentReconciles,
		RetryDelay:              core.DefaultRetryDelay,
	}
}

// FromEnv returns the defaults overlaid with any valid environment overrides. Invalid values
// keep the default.
func FromEnv() Options {
	options := Default()

	if environmentValue := os.Getenv(EnvMaxConcurrentReconciles); environmentValue != "" {
		if parsed, err := strconv.Atoi(environmentValue); err == nil && parsed >= 1 {
			options.MaxConcurrentReconciles = parsed
		}
	}

	if environmentValue := os.Getenv(EnvRetryDelay); environmentValue != "" {
		if parsed, err := time.ParseDuration(environmentValue); err == nil && parsed > 0 {
			options.RetryDelay = parsed
		}
	}

	if environmentValue, set := os.LookupEnv(EnvEnableWebhooks); set {
		options.EnableWebhooks = parseBoolEnv(environmentValue)
	}

	if environmentValue, set := os.LookupEnv(EnvStdinResync); set {
		options.StdinResync = parseBoolEnv(environmentValue)
	}

	return options
}

// Validate enforces guardrails on values that may come from flags.
func (options Options) Validate() error {
	if options.MaxConcurrentReconciles < 1 {
		return fmt.Errorf("max-concurrent-reconciles must be >= 1")
	}
	if options.RetryDelay <= 0 {
		return fmt.Errorf("retry-delay must be positive")
	}
	if options.EnableWebhooks && (options.WebhookPort < 1 || options.WebhookPort > 65535) {
		return fmt.Errorf("webhook-port must be a valid port")
	}
	return nil
}

// parseBoolEnv interprets common truthy values (1, true, yes, on) in a
// case-insensitive manner.
func parseBoolEnv(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
