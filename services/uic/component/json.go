// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package component

import (
	"encoding/json"

	"github.com/AleutianAI/williwaw/services/uic/source"
)

// ComponentSchemaVersion is the version of the component JSON projection.
// Increment when the serialized shape changes in a breaking way.
const ComponentSchemaVersion = "1.0"

// Every component serializes to an object with at least "id" and "type",
// plus variant-specific fields. The projection is consumed by the CLI, the
// persistent result cache, and the downstream codegen service, so field
// names here are a compatibility surface.

type widgetJSON struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Widget      string            `json:"widget"`
	Constructor string            `json:"constructor,omitempty"`
	Const       bool              `json:"const,omitempty"`
	Properties  []PropertyBinding `json:"properties"`
	Children    []Component       `json:"children"`
	Location    source.Location   `json:"location"`
	Meta        map[string]any    `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Widget projection.
func (w *Widget) MarshalJSON() ([]byte, error) {
	props := w.Properties
	if props == nil {
		props = []PropertyBinding{}
	}
	children := w.Children
	if children == nil {
		children = []Component{}
	}
	return json.Marshal(widgetJSON{
		ID:          w.ID,
		Type:        w.TypeName(),
		Widget:      w.WidgetName,
		Constructor: w.Constructor,
		Const:       w.IsConst,
		Properties:  props,
		Children:    children,
		Location:    w.Location,
		Meta:        w.Meta,
	})
}

type conditionalJSON struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Condition string          `json:"condition"`
	IsTernary bool            `json:"isTernary"`
	Then      Component       `json:"then,omitempty"`
	Else      Component       `json:"else,omitempty"`
	Location  source.Location `json:"location"`
	Meta      map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Conditional projection.
func (c *Conditional) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionalJSON{
		ID:        c.ID,
		Type:      c.TypeName(),
		Condition: c.Condition,
		IsTernary: c.IsTernary,
		Then:      c.Then,
		Else:      c.Else,
		Location:  c.Location,
		Meta:      c.Meta,
	})
}

type loopJSON struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	LoopKind  LoopKind        `json:"loopKind"`
	Variable  string          `json:"loopVariable,omitempty"`
	Iterable  string          `json:"iterable,omitempty"`
	Condition string          `json:"condition,omitempty"`
	Body      Component       `json:"body,omitempty"`
	Location  source.Location `json:"location"`
	Meta      map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Loop projection.
func (l *Loop) MarshalJSON() ([]byte, error) {
	return json.Marshal(loopJSON{
		ID:        l.ID,
		Type:      l.TypeName(),
		LoopKind:  l.Kind,
		Variable:  l.Variable,
		Iterable:  l.Iterable,
		Condition: l.Condition,
		Body:      l.Body,
		Location:  l.Location,
		Meta:      l.Meta,
	})
}

type collectionJSON struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Kind      CollectionKind  `json:"collectionKind"`
	Elements  []Component     `json:"elements"`
	HasSpread bool            `json:"hasSpread"`
	Location  source.Location `json:"location"`
	Meta      map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Collection projection.
func (c *Collection) MarshalJSON() ([]byte, error) {
	elems := c.Elements
	if elems == nil {
		elems = []Component{}
	}
	return json.Marshal(collectionJSON{
		ID:        c.ID,
		Type:      c.TypeName(),
		Kind:      c.Kind,
		Elements:  elems,
		HasSpread: c.HasSpread,
		Location:  c.Location,
		Meta:      c.Meta,
	})
}

type builderJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Params   []string        `json:"params"`
	IsAsync  bool            `json:"isAsync"`
	Location source.Location `json:"location"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Builder projection.
func (b *Builder) MarshalJSON() ([]byte, error) {
	params := b.Params
	if params == nil {
		params = []string{}
	}
	return json.Marshal(builderJSON{
		ID:       b.ID,
		Type:     b.TypeName(),
		Name:     b.Name,
		Params:   params,
		IsAsync:  b.IsAsync,
		Location: b.Location,
		Meta:     b.Meta,
	})
}

type unsupportedJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Code     string          `json:"code"`
	Reason   string          `json:"reason,omitempty"`
	Location source.Location `json:"location"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Unsupported projection.
func (u *Unsupported) MarshalJSON() ([]byte, error) {
	return json.Marshal(unsupportedJSON{
		ID:       u.ID,
		Type:     u.TypeName(),
		Code:     u.Code,
		Reason:   u.Reason,
		Location: u.Location,
		Meta:     u.Meta,
	})
}

type fallbackJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Inner    Component       `json:"inner,omitempty"`
	Reason   string          `json:"reason"`
	Location source.Location `json:"location"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

// MarshalJSON implements the documented Fallback projection.
func (f *Fallback) MarshalJSON() ([]byte, error) {
	return json.Marshal(fallbackJSON{
		ID:       f.ID,
		Type:     f.TypeName(),
		Inner:    f.Inner,
		Reason:   f.Reason,
		Location: f.Location,
		Meta:     f.Meta,
	})
}

// Walk visits the component and all descendants depth-first in child
// order, calling fn for each. Walk is used by the warning reporter and by
// tests; it allocates nothing beyond the traversal stack.
func Walk(c Component, fn func(Component)) {
	if c == nil {
		return
	}
	fn(c)
	switch v := c.(type) {
	case *Widget:
		for _, child := range v.Children {
			Walk(child, fn)
		}
	case *Conditional:
		Walk(v.Then, fn)
		Walk(v.Else, fn)
	case *Loop:
		Walk(v.Body, fn)
	case *Collection:
		for _, e := range v.Elements {
			Walk(e, fn)
		}
	case *Fallback:
		Walk(v.Inner, fn)
	}
}
