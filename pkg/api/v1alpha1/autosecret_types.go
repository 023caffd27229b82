package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"autosecret/pkg/core"
)

const (
	// Kind is the kind name of the AutoSecret resource.
	Kind = "AutoSecret"
	// ListKind is the kind name of the AutoSecret list.
	ListKind = "AutoSecretList"
	// Plural is the resource name used in API paths.
	Plural = "autosecrets"
	// Singular is the singular resource name.
	Singular = "autosecret"
	// ShortName is the kubectl short name.
	ShortName = "as"
)

// AutoSecretSpec defines the desired state of AutoSecret.
type AutoSecretSpec = core.AutoSecretSpec

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced,shortName=as

// AutoSecret declares named secret entries and how their values are generated. The controller
// materializes them in a Secret of the same namespace and name.
type AutoSecret struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec AutoSecretSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// AutoSecretList contains a list of AutoSecret.
type AutoSecretList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []AutoSecret `json:"items"`
}

func init() {
	SchemeBuilder.Register(&AutoSecret{}, &AutoSecretList{})
}

// Desired snapshots the object for a reconcile: identity, controller owner reference and the
// validated entries.
func (autoSecret *AutoSecret) Desired(generators *core.Generators) (core.DesiredSpec, error) {
	owner := metav1.NewControllerRef(autoSecret, GroupVersion.WithKind(Kind))
	return core.BuildDesired(autoSecret.Namespace, autoSecret.Name, *owner, &autoSecret.Spec, generators)
}
