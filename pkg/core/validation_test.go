package core_test

import (
	"errors"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	core "autosecret/pkg/core"
)

func TestValidateSpec(t *testing.T) {
	cases := []struct {
		name    string
		spec    *core.AutoSecretSpec
		wantErr bool
	}{{
		name: "valid",
		spec: &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"db-password": core.KindUUID, "session.key": core.KindULID}},
	}, {
		name: "empty secrets",
		spec: &core.AutoSecretSpec{},
	}, {
		name:    "nil spec",
		spec:    nil,
		wantErr: true,
	}, {
		name:    "unknown kind",
		spec:    &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"a": "password"}},
		wantErr: true,
	}, {
		name:    "invalid data key",
		spec:    &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"not/allowed": core.KindUUID}},
		wantErr: true,
	}, {
		name:    "not a valid annotation name",
		spec:    &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"trailing_": core.KindUUID}},
		wantErr: true,
	}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := core.ValidateSpec(tc.spec, nil)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSpecUnknownKindIsInvalidSpecError(t *testing.T) {
	err := core.ValidateSpec(&core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"a": "password"}}, core.NewGenerators())
	var invalid *core.InvalidSpecError
	if !errors.As(err, &invalid) || invalid.Entry != "a" || invalid.Kind != "password" {
		t.Fatalf("expected InvalidSpecError, got %v", err)
	}
}

func TestBuildDesired(t *testing.T) {
	owner := metav1.OwnerReference{APIVersion: "webstep.no/v1alpha1", Kind: "AutoSecret", Name: "app", UID: "uid-1"}
	spec := &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"a": core.KindUUID}}

	desired, err := core.BuildDesired("ns", "app", owner, spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desired.Namespace != "ns" || desired.Name != "app" || desired.Owner.UID != "uid-1" {
		t.Fatalf("unexpected identity %+v", desired)
	}
	if entry := desired.Entries["a"]; entry.Name != "a" || entry.Kind != core.KindUUID {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestBuildDesiredMissingIdentity(t *testing.T) {
	spec := &core.AutoSecretSpec{Secrets: map[string]core.SecretKind{"a": "unknown"}}
	cases := []struct {
		namespace, name, field string
	}{
		{"", "app", ".metadata.namespace"},
		{"ns", "", ".metadata.name"},
	}
	for _, tc := range cases {
		_, err := core.BuildDesired(tc.namespace, tc.name, metav1.OwnerReference{}, spec, nil)
		var missing *core.MissingIdentityError
		if !errors.As(err, &missing) || missing.Field != tc.field {
			t.Fatalf("expected missing %s, got %v", tc.field, err)
		}
	}
}
