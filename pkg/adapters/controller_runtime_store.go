package adapters

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"autosecret/pkg/core"
)

type controllerRuntimeStore struct {
	reader client.Reader
	writer client.Writer
}

// NewControllerRuntimeStore returns a StateStore reading through reader and writing with
// server-side apply through writer. Pass the manager's API reader so reads bypass the cache.
func NewControllerRuntimeStore(reader client.Reader, writer client.Writer) StateStore {
	return &controllerRuntimeStore{reader: reader, writer: writer}
}

// Get retrieves the Secret and extracts its managed tags and values.
func (store *controllerRuntimeStore) Get(ctx context.Context, namespace, name string) (*core.ActualState, bool, error) {
	var secret corev1.Secret

	if err := store.reader.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &secret); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return ActualStateFromSecret(&secret), true, nil
}

// Apply server-side applies the managed fields of the Secret with forced ownership.
func (store *controllerRuntimeStore) Apply(ctx context.Context, namespace, name string, state *core.ActualState) error {
	secret := SecretForApply(namespace, name, state)

	return store.writer.Patch(ctx, secret, client.Apply, client.FieldOwner(core.FieldManager), client.ForceOwnership)
}

// ActualStateFromSecret keeps only the annotations carrying the managed prefix and the data
// keys they track. Everything else on the Secret is foreign: untagged data keys are recorded
// by name so they are never claimed, and their values are not read.
func ActualStateFromSecret(secret *corev1.Secret) *core.ActualState {
	state := &core.ActualState{
		Namespace:       secret.Namespace,
		Name:            secret.Name,
		OwnerReferences: append([]metav1.OwnerReference(nil), secret.OwnerReferences...),
		Tags:            map[string]string{},
		Values:          map[string][]byte{},
		Foreign:         map[string]struct{}{},
	}

	for key, hash := range secret.Annotations {
		entryName, managed := core.EntryFromTagKey(key)
		if !managed {
			continue
		}

		state.Tags[entryName] = hash

		if value, exists := secret.Data[entryName]; exists {
			state.Values[entryName] = copyBytes(value)
		}
	}

	for key := range secret.Data {
		if _, managed := state.Tags[key]; !managed {
			state.Foreign[key] = struct{}{}
		}
	}

	return state
}

// SecretForApply builds the apply configuration for the managed fields only. Fields this
// manager applied before and omits now are released and removed by the API server.
func SecretForApply(namespace, name string, state *core.ActualState) *corev1.Secret {
	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Namespace: namespace,
			Name:      name,
		},
	}

	if state == nil {
		return secret
	}

	secret.OwnerReferences = append([]metav1.OwnerReference(nil), state.OwnerReferences...)

	if len(state.Tags) > 0 {
		secret.Annotations = make(map[string]string, len(state.Tags))

		for entryName, hash := range state.Tags {
			secret.Annotations[core.TagKey(entryName)] = hash
		}
	}

	if len(state.Values) > 0 {
		secret.Data = make(map[string][]byte, len(state.Values))

		for entryName, value := range state.Values {
			secret.Data[entryName] = copyBytes(value)
		}
	}

	return secret
}

// copyBytes duplicates a value so callers can mutate the returned slice safely.
func copyBytes(source []byte) []byte {
	if source == nil {
		return nil
	}

	return append([]byte(nil), source...)
}
