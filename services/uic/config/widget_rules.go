// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the rule configuration shared by the detector
// registry and the widget resolver. Defaults are embedded; deployments can
// override them with a YAML file.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Default Widget Rules
// =============================================================================

//go:embed widget_rules.yaml
var defaultWidgetRulesYAML []byte

// =============================================================================
// Widget Rule Types
// =============================================================================

// WidgetRules configures widget detection and declaration resolution.
//
// Description:
//
//	Holds the known widget-name seed set, the naming conventions that
//	classify property bindings (callback/builder/child), and the semantic
//	anchors the resolver matches against (root widget type, state holder,
//	canonical build method).
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type WidgetRules struct {
	// KnownWidgets seeds the registry's known widget-type set.
	KnownWidgets []string `yaml:"known_widgets"`

	// CallbackPrefixes classify a named argument as a callback when the
	// name starts with one of them ("on" → onTap, onPressed).
	CallbackPrefixes []string `yaml:"callback_prefixes"`

	// CallbackSuffixes classify a named argument as a callback when the
	// name ends with one of them.
	CallbackSuffixes []string `yaml:"callback_suffixes"`

	// BuilderNames are argument names that always mean a builder.
	BuilderNames []string `yaml:"builder_names"`

	// BuilderSuffixes classify closure-valued arguments as builders.
	BuilderSuffixes []string `yaml:"builder_suffixes"`

	// ChildNames are argument names carrying exactly one nested component.
	ChildNames []string `yaml:"child_names"`

	// ChildrenNames are argument names carrying an ordered component list.
	ChildrenNames []string `yaml:"children_names"`

	// RootWidgetType is the designated UI-component root type name.
	RootWidgetType string `yaml:"root_widget_type"`

	// StateHolderType is the designated state-holder base type name.
	StateHolderType string `yaml:"state_holder_type"`

	// BuildMethod is the canonical render/build method name.
	BuildMethod string `yaml:"build_method"`

	// BuildContextType is the canonical build-context parameter type name.
	BuildContextType string `yaml:"build_context_type"`

	// ContainerTypes are generic containers whose type argument propagates
	// widget-ness (List<Widget>, Future<Widget>, ...).
	ContainerTypes []string `yaml:"container_types"`

	// BuilderMethodSubstrings mark builder-style members by name.
	BuilderMethodSubstrings []string `yaml:"builder_method_substrings"`
}

// DefaultWidgetRules returns the embedded default rules.
//
// Description:
//
//	Parses the embedded YAML once per call. The embedded defaults are
//	validated at build time by tests, so a parse failure here is a
//	programmer error and panics rather than returning a half-empty rule
//	set that would silently misclassify everything.
//
// Outputs:
//   - *WidgetRules: The default rule set. Never nil.
//
// Thread Safety: Safe for concurrent use.
func DefaultWidgetRules() *WidgetRules {
	rules := &WidgetRules{}
	if err := yaml.Unmarshal(defaultWidgetRulesYAML, rules); err != nil {
		panic(fmt.Sprintf("embedded widget_rules.yaml is invalid: %v", err))
	}
	return rules
}

// LoadWidgetRules loads rules from a YAML file, falling back to the
// embedded defaults when path is empty.
//
// Inputs:
//   - path: Override file path. Empty means use defaults.
//
// Outputs:
//   - *WidgetRules: The loaded rules. Never nil on success.
//   - error: Non-nil when the file cannot be read or parsed.
//
// Thread Safety: Safe for concurrent use.
func LoadWidgetRules(path string) (*WidgetRules, error) {
	if path == "" {
		return DefaultWidgetRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read widget rules: %w", err)
	}

	rules := &WidgetRules{}
	if err := yaml.Unmarshal(raw, rules); err != nil {
		return nil, fmt.Errorf("parse widget rules %s: %w", path, err)
	}

	slog.Info("loaded widget rules override",
		slog.String("path", path),
		slog.Int("known_widgets", len(rules.KnownWidgets)))
	return rules, nil
}
