package autosecret

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"autosecret/pkg/adapters"
	"autosecret/pkg/agents/summary"
	"autosecret/pkg/core"
)

// Reconciler converges the Secret behind one AutoSecret. It holds no per-object state; the
// caller guarantees at most one reconcile per object at a time.
type Reconciler struct {
	store      adapters.StateStore
	generators *core.Generators
}

// NewReconciler wires a StateStore and a generator registry. A nil registry uses the defaults.
func NewReconciler(store adapters.StateStore, generators *core.Generators) *Reconciler {
	if generators == nil {
		generators = core.DefaultGenerators()
	}
	return &Reconciler{store: store, generators: generators}
}

// Reconcile fetches the Secret (or starts from an empty one), removes entries no longer
// declared, generates values for missing or outdated entries and applies the result in a
// single write.
func (reconciler *Reconciler) Reconcile(ctx context.Context, desired core.DesiredSpec) (*summary.Summary, error) {
	if desired.Namespace == "" {
		return nil, &core.MissingIdentityError{Field: ".metadata.namespace"}
	}
	if desired.Name == "" {
		return nil, &core.MissingIdentityError{Field: ".metadata.name"}
	}

	logger := log.FromContext(ctx)

	state, err := fetchOrSynthesize(ctx, reconciler.store, desired)
	if err != nil {
		return nil, err
	}

	diff := core.ComputeDiff(desired.Entries, state)
	result := &summary.Summary{}

	if diff.Empty() {
		logger.V(1).Info("secret up to date", "entries", len(diff.Unchanged))
	}

	for _, name := range diff.ToRemove {
		logger.Info("removing secret", "secret", name)
		state.Remove(name)
		result.Add(name, summary.ActionRemoved, "")
	}

	for _, name := range diff.Unchanged {
		logger.V(1).Info("skipping secret due to same hash", "secret", name)
		result.Add(name, summary.ActionSkipped, desired.Entries[name].Kind)
	}

	for _, name := range diff.Conflicts {
		logger.Info("not generating secret, data key is managed by another writer", "secret", name)
		result.Add(name, summary.ActionConflict, desired.Entries[name].Kind)
	}

	for _, write := range diff.ToWrite {
		action := summary.ActionCreated
		if write.Status == core.EntryOutdated {
			action = summary.ActionUpdated
			logger.Info("updating secret due to hash change", "secret", write.Entry.Name, "kind", write.Entry.Kind)
		} else {
			logger.Info("creating new secret", "secret", write.Entry.Name, "kind", write.Entry.Kind)
		}

		value, err := reconciler.generators.Generate(write.Entry.Kind)
		if err != nil {
			return nil, &core.GenerateError{Entry: write.Entry.Name, Cause: err}
		}

		state.Set(write.Entry.Name, write.Hash, value)
		result.Add(write.Entry.Name, action, write.Entry.Kind)
	}

	size := core.CheckSecretSize(state)
	if size.Block {
		return nil, &core.SecretTooLargeError{Bytes: size.Bytes, Limit: core.SecretSizeLimitBytes}
	}
	if size.Warn {
		logger.Info("managed secret data is close to the size limit", "bytes", size.Bytes, "limit", core.SecretSizeLimitBytes)
	}

	if err := reconciler.store.Apply(ctx, desired.Namespace, desired.Name, state); err != nil {
		return nil, &core.StateWriteError{Cause: err}
	}

	result.Applied = true
	return result, nil
}

// fetchOrSynthesize returns the managed state of the Secret, or an empty state carrying the
// owner reference when the Secret does not exist yet. Ownership always comes from desired.
func fetchOrSynthesize(ctx context.Context, store adapters.StateStore, desired core.DesiredSpec) (*core.ActualState, error) {
	state := core.NewActualState(desired)

	existing, found, err := store.Get(ctx, desired.Namespace, desired.Name)
	if err != nil {
		return nil, &core.StateReadError{Cause: err}
	}

	if found && existing != nil {
		for name, hash := range existing.Tags {
			state.Tags[name] = hash
		}
		for name, value := range existing.Values {
			state.Values[name] = value
		}
		state.Foreign = existing.Foreign
	}

	return state, nil
}
