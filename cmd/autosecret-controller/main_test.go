package main

import (
	"bytes"
	"strings"
	"testing"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"sigs.k8s.io/yaml"
)

func TestCRDFlagPrintsDefinition(t *testing.T) {
	var stdout bytes.Buffer
	command := newRootCommand(&stdout)
	command.SetArgs([]string{"--crd"})

	if err := command.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var crd apiextensionsv1.CustomResourceDefinition
	if err := yaml.Unmarshal(stdout.Bytes(), &crd); err != nil {
		t.Fatalf("output is not a CRD: %v\n%s", err, stdout.String())
	}
	if crd.Name != "autosecrets.webstep.no" {
		t.Fatalf("unexpected CRD name %q", crd.Name)
	}
	if crd.Spec.Names.Kind != "AutoSecret" {
		t.Fatalf("unexpected kind %q", crd.Spec.Names.Kind)
	}
}

func TestHelpListsFlags(t *testing.T) {
	var stdout bytes.Buffer
	command := newRootCommand(&stdout)
	command.SetOut(&stdout)
	command.SetArgs([]string{"-h"})

	if err := command.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	help := stdout.String()
	for _, flag := range []string{"--crd", "--max-concurrent-reconciles", "--retry-delay", "--stdin-resync", "--zap-log-level"} {
		if !strings.Contains(help, flag) {
			t.Fatalf("help output is missing %s:\n%s", flag, help)
		}
	}
}

func TestRejectsPositionalArguments(t *testing.T) {
	command := newRootCommand(&bytes.Buffer{})
	command.SetArgs([]string{"extra"})

	if err := command.Execute(); err == nil {
		t.Fatalf("expected positional arguments to be rejected")
	}
}
