package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"autosecret/pkg/core"
)

var _ webhook.Validator = &AutoSecret{}
var _ runtime.Object = &AutoSecret{}
var _ runtime.Object = &AutoSecretList{}

// SetupWebhookWithManager registers the validating webhook with the provided manager.
func (autoSecret *AutoSecret) SetupWebhookWithManager(manager ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(manager).
		For(autoSecret).
		Complete()
}

// ValidateCreate implements webhook.Validator.
func (autoSecret *AutoSecret) ValidateCreate() (admission.Warnings, error) {
	return nil, core.ValidateSpec(&autoSecret.Spec, core.DefaultGenerators())
}

// ValidateUpdate implements webhook.Validator.
func (autoSecret *AutoSecret) ValidateUpdate(runtime.Object) (admission.Warnings, error) {
	return nil, core.ValidateSpec(&autoSecret.Spec, core.DefaultGenerators())
}

// ValidateDelete implements webhook.Validator.
func (autoSecret *AutoSecret) ValidateDelete() (admission.Warnings, error) {
	return nil, nil
}

// DeepCopyInto copies the receiver into out.
func (autoSecret *AutoSecret) DeepCopyInto(out *AutoSecret) {
	if autoSecret == nil || out == nil {
		return
	}
	*out = *autoSecret
	autoSecret.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	out.Spec = deepCopySpec(&autoSecret.Spec)
}

// DeepCopy creates a new deep copy of the receiver.
func (autoSecret *AutoSecret) DeepCopy() *AutoSecret {
	if autoSecret == nil {
		return nil
	}

	out := new(AutoSecret)

	autoSecret.DeepCopyInto(out)
	return out
}

// DeepCopyObject returns a deep copy as a runtime.Object.
func (autoSecret *AutoSecret) DeepCopyObject() runtime.Object {
	if autoSecret == nil {
		return nil
	}

	return autoSecret.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (autoSecretList *AutoSecretList) DeepCopyInto(out *AutoSecretList) {
	if autoSecretList == nil || out == nil {
		return
	}
	*out = *autoSecretList
	autoSecretList.ListMeta.DeepCopyInto(&out.ListMeta)

	if autoSecretList.Items != nil {
		out.Items = make([]AutoSecret, len(autoSecretList.Items))

		for index := range autoSecretList.Items {
			autoSecretList.Items[index].DeepCopyInto(&out.Items[index])
		}
	}
}

// DeepCopy creates a new deep copy of the list.
func (autoSecretList *AutoSecretList) DeepCopy() *AutoSecretList {
	if autoSecretList == nil {
		return nil
	}

	out := new(AutoSecretList)

	autoSecretList.DeepCopyInto(out)
	return out
}

// DeepCopyObject returns a deep copy of the list as a runtime.Object.
func (autoSecretList *AutoSecretList) DeepCopyObject() runtime.Object {
	if autoSecretList == nil {
		return nil
	}

	return autoSecretList.DeepCopy()
}

func deepCopySpec(source *core.AutoSecretSpec) core.AutoSecretSpec {
	if source == nil {
		return core.AutoSecretSpec{}
	}
	copiedSpec := *source

	if source.Secrets != nil {
		copiedSpec.Secrets = make(map[string]core.SecretKind, len(source.Secrets))

		for name, kind := range source.Secrets {
			copiedSpec.Secrets[name] = kind
		}
	}

	return copiedSpec
}
