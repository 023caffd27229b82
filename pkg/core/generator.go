package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GeneratorFunc produces a fresh value on every call.
type GeneratorFunc func() ([]byte, error)

// Generators maps generation kinds to their producers.
type Generators struct {
	mu        sync.RWMutex
	producers map[SecretKind]GeneratorFunc
}

// NewGenerators returns a registry holding the built-in uuid and ulid producers.
func NewGenerators() *Generators {
	return &Generators{producers: map[SecretKind]GeneratorFunc{
		KindUUID: generateUUID,
		KindULID: generateULID,
	}}
}

var defaultGenerators = NewGenerators()

// DefaultGenerators returns the process-wide registry used by the controller and the webhook.
func DefaultGenerators() *Generators { return defaultGenerators }

// Register adds a producer for a new kind. Existing kinds cannot be replaced.
func (generators *Generators) Register(kind SecretKind, produce GeneratorFunc) error {
	if kind == "" {
		return fmt.Errorf("generation kind must not be empty")
	}
	if produce == nil {
		return fmt.Errorf("generator for %q must not be nil", kind)
	}

	generators.mu.Lock()
	defer generators.mu.Unlock()

	if _, exists := generators.producers[kind]; exists {
		return fmt.Errorf("generation kind %q already registered", kind)
	}
	generators.producers[kind] = produce
	return nil
}

// Known reports whether kind has a registered producer.
func (generators *Generators) Known(kind SecretKind) bool {
	generators.mu.RLock()
	defer generators.mu.RUnlock()

	_, exists := generators.producers[kind]
	return exists
}

// Kinds returns the registered kinds in lexical order.
func (generators *Generators) Kinds() []SecretKind {
	generators.mu.RLock()
	defer generators.mu.RUnlock()

	kinds := make([]SecretKind, 0, len(generators.producers))
	for kind := range generators.producers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Generate produces a new value for kind.
func (generators *Generators) Generate(kind SecretKind) ([]byte, error) {
	generators.mu.RLock()
	produce, exists := generators.producers[kind]
	generators.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown generation kind %q", kind)
	}
	return produce()
}

func generateUUID() ([]byte, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return []byte(id.String()), nil
}

func generateULID() ([]byte, error) {
	return []byte(ulid.Make().String()), nil
}
