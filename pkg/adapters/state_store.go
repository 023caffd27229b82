package adapters

import (
	"context"

	"autosecret/pkg/core"
)

// StateStore defines the minimal interactions the reconciler needs with the Secret backing an
// AutoSecret.
type StateStore interface {
	// Get returns the managed part of the Secret. found=false indicates it does not exist.
	Get(ctx context.Context, namespace, name string) (state *core.ActualState, found bool, err error)
	// Apply upserts the managed part of the Secret. Keys and annotations not present in state
	// that are owned by someone else are preserved.
	Apply(ctx context.Context, namespace, name string, state *core.ActualState) error
}
