package core

import (
	"context"
	"errors"
	"fmt"
	"net"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorCategory describes the class of an error encountered while reconciling. It is used for
// logging and metrics only; every reconcile failure is retried the same way.
type ErrorCategory string

const (
	// ErrorCategoryNone indicates no error.
	ErrorCategoryNone ErrorCategory = ""
	// ErrorCategoryRBAC indicates insufficient permissions (Forbidden/Unauthorized).
	ErrorCategoryRBAC ErrorCategory = "rbac"
	// ErrorCategoryTransient indicates a retryable/transient failure.
	ErrorCategoryTransient ErrorCategory = "transient"
	// ErrorCategoryPermanent indicates a non-retryable failure unrelated to RBAC.
	ErrorCategoryPermanent ErrorCategory = "permanent"
)

// ClassifiedError wraps an error with its detected category.
type ClassifiedError struct {
	Err      error
	Category ErrorCategory
}

func (e *ClassifiedError) Error() string { return e.Err.Error() }

func (e *ClassifiedError) Unwrap() error { return e.Err }

// ClassifyError inspects an error and returns the appropriate category.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	// Walk the error chain to find a concrete classification.
	for current := err; current != nil; current = errors.Unwrap(current) {
		switch {
		case apierrors.IsForbidden(current) || apierrors.IsUnauthorized(current):
			return ErrorCategoryRBAC
		case apierrors.IsTooManyRequests(current), apierrors.IsTimeout(current), apierrors.IsServerTimeout(current):
			return ErrorCategoryTransient
		}
		// Handle context cancellations and deadlines as transient issues.
		if errors.Is(current, context.DeadlineExceeded) || errors.Is(current, context.Canceled) {
			return ErrorCategoryTransient
		}
		// Net errors can expose retry semantics via the Temporary method.
		if ne, ok := current.(net.Error); ok {
			if ne.Timeout() || ne.Temporary() {
				return ErrorCategoryTransient
			}
		}
	}
	return ErrorCategoryPermanent
}

// MissingIdentityError reports an AutoSecret without a namespace or name.
type MissingIdentityError struct {
	Field string
}

func (e *MissingIdentityError) Error() string { return fmt.Sprintf("missing object key: %s", e.Field) }

// InvalidSpecError reports an entry whose generation kind has no registered producer.
type InvalidSpecError struct {
	Entry string
	Kind  SecretKind
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("secret %q: unknown generation kind %q", e.Entry, e.Kind)
}

// StateReadError wraps a failure to fetch the backing Secret.
type StateReadError struct {
	Cause error
}

func (e *StateReadError) Error() string { return fmt.Sprintf("failed to get secret: %v", e.Cause) }

func (e *StateReadError) Unwrap() error { return e.Cause }

// StateWriteError wraps a failure to apply the backing Secret.
type StateWriteError struct {
	Cause error
}

func (e *StateWriteError) Error() string { return fmt.Sprintf("failed to apply secret: %v", e.Cause) }

func (e *StateWriteError) Unwrap() error { return e.Cause }

// GenerateError wraps a producer failure for a single entry.
type GenerateError struct {
	Entry string
	Cause error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("failed to generate secret %q: %v", e.Entry, e.Cause)
}

func (e *GenerateError) Unwrap() error { return e.Cause }

// SecretTooLargeError reports managed data that would push the Secret over its size limit.
type SecretTooLargeError struct {
	Bytes int
	Limit int
}

func (e *SecretTooLargeError) Error() string {
	return fmt.Sprintf("managed secret data is %d bytes, above the %d byte limit", e.Bytes, e.Limit)
}

// StartupError is the only process-fatal error: the controller could not reach the cluster or
// could not be wired into the manager.
type StartupError struct {
	Stage string
	Cause error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed (%s): %v", e.Stage, e.Cause)
}

func (e *StartupError) Unwrap() error { return e.Cause }

// ErrorKind returns a short label naming the taxonomy member of err.
func ErrorKind(err error) string {
	var (
		missingIdentity *MissingIdentityError
		invalidSpec     *InvalidSpecError
		stateRead       *StateReadError
		stateWrite      *StateWriteError
		generate        *GenerateError
		tooLarge        *SecretTooLargeError
		startup         *StartupError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missingIdentity):
		return "missing_identity"
	case errors.As(err, &invalidSpec):
		return "invalid_spec"
	case errors.As(err, &stateRead):
		return "state_read"
	case errors.As(err, &stateWrite):
		return "state_write"
	case errors.As(err, &generate):
		return "generate"
	case errors.As(err, &tooLarge):
		return "size_limit"
	case errors.As(err, &startup):
		return "startup"
	default:
		return "other"
	}
}
