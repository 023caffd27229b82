package core

import (
	"fmt"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidateSpec checks that every entry name is usable as a Secret data key and as a tag
// annotation, and that every kind has a registered generator.
func ValidateSpec(spec *AutoSecretSpec, generators *Generators) error {
	if spec == nil {
		return fmt.Errorf("spec is required")
	}
	if generators == nil {
		generators = DefaultGenerators()
	}

	names := make([]string, 0, len(spec.Secrets))
	for name := range spec.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if errs := validation.IsConfigMapKey(name); len(errs) > 0 {
			return fmt.Errorf("secret %q: invalid key: %s", name, strings.Join(errs, "; "))
		}
		if errs := validation.IsQualifiedName(TagKey(name)); len(errs) > 0 {
			return fmt.Errorf("secret %q: cannot be tracked as annotation: %s", name, strings.Join(errs, "; "))
		}
		if kind := spec.Secrets[name]; !generators.Known(kind) {
			return &InvalidSpecError{Entry: name, Kind: kind}
		}
	}
	return nil
}

// BuildDesired turns the identity, owner and spec of an AutoSecret into the snapshot consumed by
// a single reconcile. Missing identity fails before anything else is inspected.
func BuildDesired(namespace, name string, owner metav1.OwnerReference, spec *AutoSecretSpec, generators *Generators) (DesiredSpec, error) {
	if namespace == "" {
		return DesiredSpec{}, &MissingIdentityError{Field: ".metadata.namespace"}
	}
	if name == "" {
		return DesiredSpec{}, &MissingIdentityError{Field: ".metadata.name"}
	}
	if spec == nil {
		spec = &AutoSecretSpec{}
	}
	if err := ValidateSpec(spec, generators); err != nil {
		return DesiredSpec{}, err
	}

	desired := DesiredSpec{
		Namespace: namespace,
		Name:      name,
		Owner:     owner,
		Entries:   make(map[string]DesiredEntry, len(spec.Secrets)),
	}
	for entryName, kind := range spec.Secrets {
		desired.Entries[entryName] = DesiredEntry{Name: entryName, Kind: kind}
	}
	return desired, nil
}
