package autosecret

import (
	"context"
	"sync"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"autosecret/pkg/adapters"
	"autosecret/pkg/core"
)

// memoryStore emulates the API server for one field manager: applied fields that are omitted
// from a later apply are removed, fields written by anyone else are left alone.
type memoryStore struct {
	mu       sync.Mutex
	secrets  map[types.NamespacedName]*corev1.Secret
	applied  map[types.NamespacedName]map[string]struct{}
	getErr   error
	applyErr error
	gets     int
	applies  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		secrets: map[types.NamespacedName]*corev1.Secret{},
		applied: map[types.NamespacedName]map[string]struct{}{},
	}
}

// seed stores a Secret as if another actor had written it.
func (m *memoryStore) seed(secret *corev1.Secret) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[types.NamespacedName{Namespace: secret.Namespace, Name: secret.Name}] = secret.DeepCopy()
}

func (m *memoryStore) secret(namespace, name string) *corev1.Secret {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.secrets[types.NamespacedName{Namespace: namespace, Name: name}]
	if !ok {
		return nil
	}
	return secret.DeepCopy()
}

func (m *memoryStore) Get(_ context.Context, namespace, name string) (*core.ActualState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	secret, ok := m.secrets[types.NamespacedName{Namespace: namespace, Name: name}]
	if !ok {
		return nil, false, nil
	}
	return adapters.ActualStateFromSecret(secret.DeepCopy()), true, nil
}

func (m *memoryStore) Apply(_ context.Context, namespace, name string, state *core.ActualState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applies++
	if m.applyErr != nil {
		return m.applyErr
	}

	key := types.NamespacedName{Namespace: namespace, Name: name}
	secret, ok := m.secrets[key]
	if !ok {
		secret = &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name}}
		m.secrets[key] = secret
	}
	if secret.Annotations == nil {
		secret.Annotations = map[string]string{}
	}
	if secret.Data == nil {
		secret.Data = map[string][]byte{}
	}

	payload := adapters.SecretForApply(namespace, name, state)
	owned := m.applied[key]
	for field := range owned {
		if _, keep := payload.Annotations[field]; keep {
			continue
		}
		if _, keep := payload.Data[field]; keep {
			continue
		}
		delete(secret.Annotations, field)
		delete(secret.Data, field)
	}

	owned = map[string]struct{}{}
	for annotation, value := range payload.Annotations {
		secret.Annotations[annotation] = value
		owned[annotation] = struct{}{}
	}
	for dataKey, value := range payload.Data {
		secret.Data[dataKey] = value
		owned[dataKey] = struct{}{}
	}
	m.applied[key] = owned
	secret.OwnerReferences = payload.OwnerReferences
	return nil
}
