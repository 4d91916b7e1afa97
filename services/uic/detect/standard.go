// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detect

import (
	"strings"
	"unicode"

	"github.com/AleutianAI/williwaw/services/uic/config"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// StandardDetector answers every detection operation directly from the
// syntax union and the configured widget rules. It is always the first
// detector a Registry consults.
//
// The detector answers definitively only for node shapes it owns; any
// other shape is "no answer" so that custom detectors behind it get a
// chance to classify framework extensions.
type StandardDetector struct {
	Base

	rules   *config.WidgetRules
	widgets *WidgetSet

	childNames    map[string]struct{}
	childrenNames map[string]struct{}
	builderNames  map[string]struct{}
}

// NewStandardDetector builds the detector. widgets is the shared
// known-widget set owned by the Registry; rules must be non-nil.
func NewStandardDetector(rules *config.WidgetRules, widgets *WidgetSet) *StandardDetector {
	d := &StandardDetector{
		rules:         rules,
		widgets:       widgets,
		childNames:    make(map[string]struct{}, len(rules.ChildNames)),
		childrenNames: make(map[string]struct{}, len(rules.ChildrenNames)),
		builderNames:  make(map[string]struct{}, len(rules.BuilderNames)),
	}
	for _, n := range rules.ChildNames {
		d.childNames[n] = struct{}{}
	}
	for _, n := range rules.ChildrenNames {
		d.childrenNames[n] = struct{}{}
	}
	for _, n := range rules.BuilderNames {
		d.builderNames[n] = struct{}{}
	}
	return d
}

// Name identifies the detector in logs and stats.
func (d *StandardDetector) Name() string { return "standard" }

// =============================================================================
// Node classification
// =============================================================================

// IsWidgetCreation answers for constructor calls: true when the
// constructed type is in the known-widget set, or when its name follows
// the framework's UpperCamelCase widget convention.
func (d *StandardDetector) IsWidgetCreation(n syntax.Node) (bool, bool) {
	ctor, ok := n.(*syntax.ConstructorCall)
	if !ok {
		return false, false
	}
	if d.widgets.Contains(ctor.TypeName) {
		return true, true
	}
	return startsUpper(ctor.TypeName), true
}

func (d *StandardDetector) IsConditional(n syntax.Node) (bool, bool) {
	switch v := n.(type) {
	case *syntax.Conditional, *syntax.IfElement, *syntax.If:
		return true, true
	case *syntax.Binary:
		if v.Operator == "??" {
			return true, true
		}
		return false, true
	}
	return false, false
}

func (d *StandardDetector) IsLoop(n syntax.Node) (bool, bool) {
	switch n.(type) {
	case *syntax.For, *syntax.ForEach, *syntax.While, *syntax.DoWhile, *syntax.ForElement:
		return true, true
	}
	return false, false
}

func (d *StandardDetector) IsCollection(n syntax.Node) (bool, bool) {
	switch n.(type) {
	case *syntax.ListLiteral, *syntax.SetLiteral, *syntax.MapLiteral:
		return true, true
	}
	return false, false
}

// IsBuilder answers for closures: true when a parameter's declared type
// is the canonical build-context type.
func (d *StandardDetector) IsBuilder(n syntax.Node) (bool, bool) {
	closure, ok := n.(*syntax.Closure)
	if !ok {
		return false, false
	}
	for _, p := range closure.Params {
		if p.Type != nil && p.Type.Name == d.rules.BuildContextType {
			return true, true
		}
	}
	return false, true
}

// IsCallback answers for closures: a closure that is not a builder is a
// callback candidate.
func (d *StandardDetector) IsCallback(n syntax.Node) (bool, bool) {
	closure, ok := n.(*syntax.Closure)
	if !ok {
		return false, false
	}
	isBuilder, _ := d.IsBuilder(closure)
	return !isBuilder, true
}

// =============================================================================
// Widget accessors
// =============================================================================

func (d *StandardDetector) WidgetName(n syntax.Node) (string, bool) {
	if ctor, ok := n.(*syntax.ConstructorCall); ok && ctor.TypeName != "" {
		return ctor.TypeName, true
	}
	return "", false
}

func (d *StandardDetector) ConstructorVariant(n syntax.Node) (string, bool) {
	if ctor, ok := n.(*syntax.ConstructorCall); ok {
		return ctor.Variant, true
	}
	return "", false
}

func (d *StandardDetector) IsConstCreation(n syntax.Node) (bool, bool) {
	if ctor, ok := n.(*syntax.ConstructorCall); ok {
		return ctor.IsConst, true
	}
	return false, false
}

func (d *StandardDetector) Properties(n syntax.Node) ([]syntax.NamedArgument, bool) {
	if ctor, ok := n.(*syntax.ConstructorCall); ok {
		return ctor.Named, true
	}
	return nil, false
}

// ChildElements collects the nested child nodes of a constructor call in
// source order: the value of each child-carrying named argument, with
// list-valued "children" arguments unwrapped one node per element.
func (d *StandardDetector) ChildElements(n syntax.Node) ([]syntax.Node, bool) {
	ctor, ok := n.(*syntax.ConstructorCall)
	if !ok {
		return nil, false
	}
	var children []syntax.Node
	for _, arg := range ctor.Named {
		if _, single := d.childNames[arg.Name]; single {
			children = append(children, arg.Value)
			continue
		}
		if _, plural := d.childrenNames[arg.Name]; !plural {
			continue
		}
		if list, isList := arg.Value.(*syntax.ListLiteral); isList {
			for _, el := range list.Elements {
				children = append(children, el)
			}
		} else {
			children = append(children, arg.Value)
		}
	}
	return children, true
}

// =============================================================================
// Conditional accessors
// =============================================================================

func (d *StandardDetector) Condition(n syntax.Node) (string, bool) {
	switch v := n.(type) {
	case *syntax.Conditional:
		return v.Condition.Span().Text, true
	case *syntax.IfElement:
		return v.Condition.Span().Text, true
	case *syntax.If:
		return v.Condition.Span().Text, true
	case *syntax.Binary:
		if v.Operator == "??" {
			return v.Left.Span().Text, true
		}
	}
	return "", false
}

func (d *StandardDetector) ThenBranch(n syntax.Node) (syntax.Node, bool) {
	switch v := n.(type) {
	case *syntax.Conditional:
		return v.Then, true
	case *syntax.IfElement:
		return v.Then, true
	case *syntax.If:
		return v.Then, true
	case *syntax.Binary:
		if v.Operator == "??" {
			return v.Left, true
		}
	}
	return nil, false
}

func (d *StandardDetector) ElseBranch(n syntax.Node) (syntax.Node, bool) {
	switch v := n.(type) {
	case *syntax.Conditional:
		return v.Else, true
	case *syntax.IfElement:
		if v.Else == nil {
			return nil, true
		}
		return v.Else, true
	case *syntax.If:
		if v.Else == nil {
			return nil, true
		}
		return v.Else, true
	case *syntax.Binary:
		if v.Operator == "??" {
			return v.Right, true
		}
	}
	return nil, false
}

// =============================================================================
// Loop accessors
// =============================================================================

func (d *StandardDetector) LoopKind(n syntax.Node) (string, bool) {
	switch n.(type) {
	case *syntax.For, *syntax.ForElement:
		return "for", true
	case *syntax.ForEach:
		return "forEach", true
	case *syntax.While, *syntax.DoWhile:
		return "while", true
	}
	return "", false
}

func (d *StandardDetector) LoopVariable(n syntax.Node) (string, bool) {
	switch v := n.(type) {
	case *syntax.ForEach:
		return v.Variable, true
	case *syntax.For:
		if decl, ok := v.Init.(*syntax.VarDecl); ok {
			return decl.Name, true
		}
		return "", true
	}
	return "", false
}

func (d *StandardDetector) IterableCode(n syntax.Node) (string, bool) {
	if loop, ok := n.(*syntax.ForEach); ok {
		return loop.Iterable.Span().Text, true
	}
	return "", false
}

func (d *StandardDetector) LoopBody(n syntax.Node) (syntax.Node, bool) {
	switch v := n.(type) {
	case *syntax.For:
		return v.Body, true
	case *syntax.ForEach:
		return v.Body, true
	case *syntax.While:
		return v.Body, true
	case *syntax.DoWhile:
		return v.Body, true
	case *syntax.ForElement:
		return v.Body, true
	}
	return nil, false
}

// =============================================================================
// Collection accessors
// =============================================================================

func (d *StandardDetector) CollectionKind(n syntax.Node) (string, bool) {
	switch n.(type) {
	case *syntax.ListLiteral:
		return "list", true
	case *syntax.SetLiteral:
		return "set", true
	case *syntax.MapLiteral:
		return "map", true
	}
	return "", false
}

func (d *StandardDetector) CollectionElements(n syntax.Node) ([]syntax.Node, bool) {
	var elements []syntax.CollectionElement
	switch v := n.(type) {
	case *syntax.ListLiteral:
		elements = v.Elements
	case *syntax.SetLiteral:
		elements = v.Elements
	case *syntax.MapLiteral:
		elements = v.Elements
	default:
		return nil, false
	}
	nodes := make([]syntax.Node, len(elements))
	for i, el := range elements {
		nodes[i] = el
	}
	return nodes, true
}

func (d *StandardDetector) HasSpread(n syntax.Node) (bool, bool) {
	var elements []syntax.CollectionElement
	switch v := n.(type) {
	case *syntax.ListLiteral:
		elements = v.Elements
	case *syntax.SetLiteral:
		elements = v.Elements
	case *syntax.MapLiteral:
		elements = v.Elements
	default:
		return false, false
	}
	for _, el := range elements {
		if _, ok := el.(*syntax.SpreadElement); ok {
			return true, true
		}
	}
	return false, true
}

// =============================================================================
// Closure accessors
// =============================================================================

func (d *StandardDetector) ClosureParams(n syntax.Node) ([]string, bool) {
	closure, ok := n.(*syntax.Closure)
	if !ok {
		return nil, false
	}
	names := make([]string, len(closure.Params))
	for i, p := range closure.Params {
		names[i] = p.Name
	}
	return names, true
}

func (d *StandardDetector) ClosureIsAsync(n syntax.Node) (bool, bool) {
	if closure, ok := n.(*syntax.Closure); ok {
		return closure.Body.IsAsync, true
	}
	return false, false
}

// =============================================================================
// Property-name classification
// =============================================================================

func (d *StandardDetector) IsChildProperty(name string) (bool, bool) {
	_, ok := d.childNames[name]
	return ok, true
}

func (d *StandardDetector) IsChildrenProperty(name string) (bool, bool) {
	_, ok := d.childrenNames[name]
	return ok, true
}

// IsCallbackProperty matches prefixes only at a camelCase word boundary
// ("onTap" yes, "once" no) and suffixes verbatim.
func (d *StandardDetector) IsCallbackProperty(name string) (bool, bool) {
	for _, prefix := range d.rules.CallbackPrefixes {
		rest, found := strings.CutPrefix(name, prefix)
		if found && rest != "" && startsUpper(rest) {
			return true, true
		}
	}
	for _, suffix := range d.rules.CallbackSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true, true
		}
	}
	return false, true
}

func (d *StandardDetector) IsBuilderProperty(name string) (bool, bool) {
	if _, ok := d.builderNames[name]; ok {
		return true, true
	}
	for _, suffix := range d.rules.BuilderSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true, true
		}
	}
	return false, true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
