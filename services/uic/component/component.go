// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package component defines the typed UI component model the extractor
// produces from widget-producing expressions. It is parallel to, but
// distinct from, the general IR: a closed tagged-variant tree of widget
// instantiations, conditionals, loops, collections, and builder closures.
//
// Components are immutable after construction. Child lists are ordered and
// order is semantically meaningful: it is always original source order.
package component

import (
	"github.com/AleutianAI/williwaw/services/uic/source"
)

// Info is the common header every component carries.
type Info struct {
	// ID uniquely identifies the component within one file run.
	ID string `json:"id"`

	// Name is the display name ("Box", "if", "forEach", ...).
	Name string `json:"name"`

	// Location is the source provenance of the component.
	Location source.Location `json:"location"`

	// Meta holds annotations added by later passes. Nil until annotated.
	Meta map[string]any `json:"meta,omitempty"`
}

// WithMeta returns a copy of the info with one annotation added; the
// receiver is unchanged.
func (i Info) WithMeta(key string, value any) Info {
	meta := make(map[string]any, len(i.Meta)+1)
	for k, v := range i.Meta {
		meta[k] = v
	}
	meta[key] = value
	i.Meta = meta
	return i
}

// Component is implemented by every component variant. The union is
// closed; the extractor and serializer switch exhaustively over it.
type Component interface {
	// ComponentInfo returns the common header.
	ComponentInfo() Info

	// TypeName returns the discriminator used in JSON output.
	TypeName() string

	component()
}

// LoopKind tags Loop components.
type LoopKind string

const (
	LoopFor     LoopKind = "for"
	LoopForEach LoopKind = "forEach"
	LoopWhile   LoopKind = "while"
)

// CollectionKind tags Collection components.
type CollectionKind string

const (
	CollectionList CollectionKind = "list"
	CollectionMap  CollectionKind = "map"
	CollectionSet  CollectionKind = "set"
)

// =============================================================================
// Variants
// =============================================================================

// Widget is an instantiated UI widget.
type Widget struct {
	Info

	// WidgetName is the constructed widget type name.
	WidgetName string

	// Constructor is the named-constructor variant, empty for the default.
	Constructor string

	// IsConst marks const instantiations.
	IsConst bool

	// Properties are the classified named-argument bindings, in source
	// order.
	Properties []PropertyBinding

	// Children are the nested child components, in source order.
	Children []Component
}

// Conditional is a conditionally selected component.
type Conditional struct {
	Info

	// Condition is the condition source text.
	Condition string

	// IsTernary distinguishes `c ? a : b` from statement-level `if`.
	IsTernary bool

	Then Component

	// Else may be nil.
	Else Component
}

// Loop is a component produced repeatedly by a loop.
type Loop struct {
	Info

	Kind LoopKind

	// Variable is the loop variable name, when the loop declares one.
	Variable string

	// Iterable is the iterated expression source text (for-each loops).
	Iterable string

	// Condition is the scalar condition source text (while / classic for).
	Condition string

	Body Component
}

// Collection is an ordered component collection literal.
type Collection struct {
	Info

	Kind CollectionKind

	// Elements are the member components in source order.
	Elements []Component

	// HasSpread is true when any element was a spread.
	HasSpread bool
}

// Builder is a closure that builds UI on demand.
type Builder struct {
	Info

	// Params are the closure parameter names in declaration order.
	Params []string

	IsAsync bool
}

// Unsupported is a construct the extractor cannot model. Code preserves
// the raw source; Reason is human-readable when a cause is known.
type Unsupported struct {
	Info

	Code   string
	Reason string
}

// Fallback wraps at most one inner component with a reason. It is the
// recovery shape for depth-bound and wrapper cases.
type Fallback struct {
	Info

	// Inner may be nil.
	Inner Component

	Reason string
}

func (w *Widget) ComponentInfo() Info      { return w.Info }
func (c *Conditional) ComponentInfo() Info { return c.Info }
func (l *Loop) ComponentInfo() Info        { return l.Info }
func (c *Collection) ComponentInfo() Info  { return c.Info }
func (b *Builder) ComponentInfo() Info     { return b.Info }
func (u *Unsupported) ComponentInfo() Info { return u.Info }
func (f *Fallback) ComponentInfo() Info    { return f.Info }

func (*Widget) TypeName() string      { return "widget" }
func (*Conditional) TypeName() string { return "conditional" }
func (*Loop) TypeName() string        { return "loop" }
func (*Collection) TypeName() string  { return "collection" }
func (*Builder) TypeName() string     { return "builder" }
func (*Unsupported) TypeName() string { return "unsupported" }
func (*Fallback) TypeName() string    { return "fallback" }

func (*Widget) component()      {}
func (*Conditional) component() {}
func (*Loop) component()        {}
func (*Collection) component()  {}
func (*Builder) component()     {}
func (*Unsupported) component() {}
func (*Fallback) component()    {}
