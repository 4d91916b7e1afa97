// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve decides whether declarations transitively produce UI
// widgets. The resolver walks resolved type hierarchies and member
// signatures with cycle guards, so declaration builders can decide which
// expressions deserve component-tree extraction.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/AleutianAI/williwaw/services/uic/config"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// Resolver classifies declarations as widget-producing.
//
// Description:
//
//	ProducesWidget answers true when evaluating the declaration can yield
//	an instance of the configured root widget type. Results are memoized
//	per declaration pointer; a separate visiting set breaks recursion
//	cycles (a declaration revisited while still being resolved answers
//	false for the nested call).
//
// Thread Safety:
//
//	NOT safe for concurrent use. Allocate one Resolver per file run, or
//	call ResetCache between unrelated runs on a shared instance.
type Resolver struct {
	rules  *config.WidgetRules
	logger *slog.Logger

	memo     map[syntax.Declaration]bool
	visiting map[syntax.Declaration]struct{}

	containers map[string]struct{}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver. Nil rules use the embedded defaults.
func NewResolver(rules *config.WidgetRules, opts ...ResolverOption) *Resolver {
	if rules == nil {
		rules = config.DefaultWidgetRules()
	}
	r := &Resolver{
		rules:      rules,
		logger:     slog.Default(),
		memo:       make(map[syntax.Declaration]bool),
		visiting:   make(map[syntax.Declaration]struct{}),
		containers: make(map[string]struct{}, len(rules.ContainerTypes)),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, name := range rules.ContainerTypes {
		r.containers[name] = struct{}{}
	}
	return r
}

// ResetCache clears the memoization map and the visiting guard. Call it
// between unrelated analysis runs over the same instance.
func (r *Resolver) ResetCache() {
	clear(r.memo)
	clear(r.visiting)
}

// CachedCount returns the number of memoized declarations, for diagnostics.
func (r *Resolver) CachedCount() int {
	return len(r.memo)
}

// ProducesWidget reports whether the declaration transitively yields a
// widget instance.
//
// Description:
//
//	Dispatches on the declaration kind:
//	  - Class: its own type is a widget type; or it extends the state
//	    holder type and declares the canonical build method; or any
//	    member independently produces a widget.
//	  - Constructor: const constructor of a widget class; redirecting
//	    factory delegates to its target; otherwise the declared return
//	    type decides.
//	  - Method/getter: widget return type, widget-carrying generic
//	    container return type, or the builder heuristic (build/render
//	    name substring plus a build-context parameter).
//	  - Field: its getter produces a widget, or its declared type is a
//	    widget type.
//	  - Function: widget or widget-carrying-container return type.
//
// Inputs:
//   - decl: Declaration to classify. Nil answers false.
//
// Outputs:
//   - bool: True when the declaration is widget-producing.
func (r *Resolver) ProducesWidget(decl syntax.Declaration) bool {
	if decl == nil {
		return false
	}
	if cached, ok := r.memo[decl]; ok {
		return cached
	}
	if _, busy := r.visiting[decl]; busy {
		// Cycle: answer false for the nested call without memoizing, so
		// the outer call can still record the real answer.
		return false
	}

	r.visiting[decl] = struct{}{}
	result := r.resolve(decl)
	delete(r.visiting, decl)

	r.memo[decl] = result
	return result
}

func (r *Resolver) resolve(decl syntax.Declaration) bool {
	switch d := decl.(type) {
	case *syntax.ClassElement:
		return r.resolveClass(d)
	case *syntax.ConstructorElement:
		return r.resolveConstructor(d)
	case *syntax.MethodElement:
		return r.resolveMethod(d)
	case *syntax.FieldElement:
		return r.resolveField(d)
	case *syntax.FunctionElement:
		return r.typeYieldsWidget(d.ReturnType)
	default:
		r.logger.Warn("unrecognized declaration kind",
			slog.String("declaration", decl.DeclName()))
		return false
	}
}

func (r *Resolver) resolveClass(class *syntax.ClassElement) bool {
	if r.isWidgetType(class.AsType()) {
		return true
	}
	if r.extendsStateHolder(class) {
		if m := class.Method(r.rules.BuildMethod); m != nil && !m.IsStatic {
			return true
		}
	}
	for _, ctor := range class.Constructors {
		if r.ProducesWidget(ctor) {
			return true
		}
	}
	for _, method := range class.Methods {
		if r.ProducesWidget(method) {
			return true
		}
	}
	for _, field := range class.Fields {
		if r.ProducesWidget(field) {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveConstructor(ctor *syntax.ConstructorElement) bool {
	if ctor.IsConst && r.isWidgetType(ctor.Class.AsType()) {
		return true
	}
	if ctor.IsFactory && ctor.Redirect != nil {
		return r.ProducesWidget(ctor.Redirect)
	}
	return r.isWidgetType(ctor.ReturnType)
}

func (r *Resolver) resolveMethod(m *syntax.MethodElement) bool {
	if r.typeYieldsWidget(m.ReturnType) {
		return true
	}
	return r.matchesBuilderHeuristic(m.Name, m.Params)
}

func (r *Resolver) resolveField(f *syntax.FieldElement) bool {
	if f.Getter != nil && r.ProducesWidget(f.Getter) {
		return true
	}
	return r.isWidgetType(f.Type)
}

// matchesBuilderHeuristic reports whether a member looks like a builder:
// its name contains a build/render-like substring and it declares a
// build-context parameter.
func (r *Resolver) matchesBuilderHeuristic(name string, params []*syntax.ParamElement) bool {
	lower := strings.ToLower(name)
	var named bool
	for _, sub := range r.rules.BuilderMethodSubstrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			named = true
			break
		}
	}
	if !named {
		return false
	}
	for _, p := range params {
		if p.Type != nil && p.Type.Name == r.rules.BuildContextType {
			return true
		}
	}
	return false
}

// typeYieldsWidget reports whether a value of the type is, or carries, a
// widget: the type itself is a widget type, or it is a known generic
// container whose type argument recursively yields a widget.
func (r *Resolver) typeYieldsWidget(t *syntax.TypeRef) bool {
	if t == nil {
		return false
	}
	if r.isWidgetType(t) {
		return true
	}
	if _, container := r.containers[t.Name]; container {
		for _, arg := range t.TypeArgs {
			if r.typeYieldsWidget(arg) {
				return true
			}
		}
	}
	return false
}

// isWidgetType reports whether the type is-a the root widget type,
// walking transitive supertypes. Type parameters recurse on their bound.
func (r *Resolver) isWidgetType(t *syntax.TypeRef) bool {
	return r.typeIsA(t, r.rules.RootWidgetType)
}

func (r *Resolver) extendsStateHolder(class *syntax.ClassElement) bool {
	return r.typeIsA(class.AsType(), r.rules.StateHolderType)
}

// typeIsA walks the supertype closure of t looking for target. A visited
// set guards against malformed cyclic hierarchies.
func (r *Resolver) typeIsA(t *syntax.TypeRef, target string) bool {
	seen := make(map[*syntax.ClassElement]struct{})
	return r.typeIsAGuarded(t, target, seen)
}

func (r *Resolver) typeIsAGuarded(t *syntax.TypeRef, target string, seen map[*syntax.ClassElement]struct{}) bool {
	if t == nil {
		return false
	}
	if t.IsTypeParameter {
		return r.typeIsAGuarded(t.Bound, target, seen)
	}
	if t.Name == target {
		return true
	}
	class := t.Class
	if class == nil {
		return false
	}
	if _, visited := seen[class]; visited {
		return false
	}
	seen[class] = struct{}{}

	if r.typeIsAGuarded(class.Supertype, target, seen) {
		return true
	}
	for _, iface := range class.Interfaces {
		if r.typeIsAGuarded(iface, target, seen) {
			return true
		}
	}
	for _, mixin := range class.Mixins {
		if r.typeIsAGuarded(mixin, target, seen) {
			return true
		}
	}
	return false
}
