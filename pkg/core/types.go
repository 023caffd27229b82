package core

import (
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SecretKind names the algorithm used to produce an entry's value.
type SecretKind string

// Built-in generation kinds.
const (
	KindUUID SecretKind = "uuid"
	KindULID SecretKind = "ulid"
)

// DesiredEntry is a named secret slot declared on an AutoSecret.
type DesiredEntry struct {
	Name string
	Kind SecretKind
}

// DesiredSpec is an immutable snapshot of an AutoSecret taken at the start of a reconcile.
type DesiredSpec struct {
	Namespace string
	Name      string
	Owner     metav1.OwnerReference
	Entries   map[string]DesiredEntry
}

// ActualState holds the managed part of the Secret backing an AutoSecret.
//
// Tags maps entry name to the hex hash of its generation kind and Values maps entry name to the
// generated bytes. Both only ever contain managed entries and always share the same key set.
// Foreign lists data keys written by someone else; their values are never read.
type ActualState struct {
	Namespace       string
	Name            string
	OwnerReferences []metav1.OwnerReference
	Tags            map[string]string
	Values          map[string][]byte
	Foreign         map[string]struct{}
}

// NewActualState synthesizes an empty state carrying the ownership metadata of spec.
func NewActualState(spec DesiredSpec) *ActualState {
	return &ActualState{
		Namespace:       spec.Namespace,
		Name:            spec.Name,
		OwnerReferences: []metav1.OwnerReference{spec.Owner},
		Tags:            map[string]string{},
		Values:          map[string][]byte{},
	}
}

// Remove drops the tag and value of a managed entry.
func (state *ActualState) Remove(name string) {
	delete(state.Tags, name)
	delete(state.Values, name)
}

// Set stores a freshly generated value together with its kind hash.
func (state *ActualState) Set(name, hash string, value []byte) {
	if state.Tags == nil {
		state.Tags = map[string]string{}
	}
	if state.Values == nil {
		state.Values = map[string][]byte{}
	}
	state.Tags[name] = hash
	state.Values[name] = value
}

// TagKey returns the annotation key holding the hash tag for an entry.
func TagKey(name string) string {
	return AnnotationPrefix + name
}

// EntryFromTagKey returns the entry name for a managed annotation key. Keys without the
// recognized prefix are foreign and report false.
func EntryFromTagKey(key string) (string, bool) {
	name, found := strings.CutPrefix(key, AnnotationPrefix)
	if !found || name == "" {
		return "", false
	}
	return name, true
}

// AutoSecretSpec is the desired state carried by an AutoSecret object.
type AutoSecretSpec struct {
	Secrets map[string]SecretKind `json:"secrets"`
}
