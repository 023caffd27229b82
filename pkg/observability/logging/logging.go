package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"autosecret/pkg/core"
)

// ParseLevel interprets a verbosity filter. Accepted values are zap level names (debug, info,
// warn, error) or a non-negative logr verbosity such as "2". An empty value means info.
func ParseLevel(value string) (zapcore.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return zapcore.InfoLevel, nil
	}
	if verbosity, err := strconv.Atoi(value); err == nil {
		if verbosity < 0 {
			return zapcore.InfoLevel, fmt.Errorf("invalid log verbosity %d", verbosity)
		}
		return zapcore.Level(-verbosity), nil
	}
	return zapcore.ParseLevel(strings.ToLower(value))
}

// NewOptions returns zap options whose level comes from the AUTOSECRET_LOG environment
// variable. Flags bound afterwards with BindFlags still take precedence.
func NewOptions() (*zap.Options, error) {
	level, err := ParseLevel(os.Getenv(core.LogEnvVar))
	options := &zap.Options{
		Development: false,
		Level:       level,
		DestWriter:  os.Stderr,
	}
	if err != nil {
		return options, fmt.Errorf("%s: %w", core.LogEnvVar, err)
	}
	return options, nil
}

// Setup installs the process logger once, before the manager starts, and returns it.
func Setup(options *zap.Options, dest io.Writer) logr.Logger {
	if dest != nil {
		options.DestWriter = dest
	}
	logger := zap.New(zap.UseFlagOptions(options))
	ctrl.SetLogger(logger)
	return logger
}
