// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extract

import (
	"github.com/AleutianAI/williwaw/services/uic/component"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// extractWidget builds a Widget component from a constructor call.
//
// Named arguments are walked in source order. Child-carrying arguments
// ("child", "children" and configured equivalents) become child
// components; everything else is classified into a property binding:
// callback, builder, nested component, reference, or literal.
func (e *Extractor) extractWidget(ctor *syntax.ConstructorCall, depth int) component.Component {
	widget := &component.Widget{
		Info:        e.info(ctor, e.registry.WidgetName(ctor)),
		WidgetName:  e.registry.WidgetName(ctor),
		Constructor: e.registry.ConstructorVariant(ctor),
		IsConst:     e.registry.IsConstCreation(ctor),
		Properties:  []component.PropertyBinding{},
		Children:    []component.Component{},
	}

	for _, arg := range e.registry.Properties(ctor) {
		switch {
		case e.registry.IsChildProperty(arg.Name):
			// A failed child still occupies its position.
			widget.Children = append(widget.Children, e.extract(arg.Value, depth+1))

		case e.registry.IsChildrenProperty(arg.Name):
			widget.Children = append(widget.Children, e.extractChildren(arg.Value, depth)...)

		default:
			if child, binding := e.classifyProperty(arg, depth); child != nil {
				widget.Children = append(widget.Children, child)
			} else {
				widget.Properties = append(widget.Properties, binding)
			}
		}
	}
	return widget
}

// extractChildren extracts a "children" argument value: a list literal
// yields one child per element with spreads flattened into the sequence;
// any other value yields one child.
func (e *Extractor) extractChildren(value syntax.Expression, depth int) []component.Component {
	list, ok := value.(*syntax.ListLiteral)
	if !ok {
		return []component.Component{e.extract(value, depth+1)}
	}

	children := make([]component.Component, 0, len(list.Elements))
	for _, el := range list.Elements {
		if spread, ok := el.(*syntax.SpreadElement); ok {
			extracted := e.extract(spread.Operand, depth+1)
			// A spread of a literal collection flattens into the children
			// sequence rather than nesting.
			if coll, ok := extracted.(*component.Collection); ok {
				children = append(children, coll.Elements...)
				continue
			}
			children = append(children, extracted)
			continue
		}
		children = append(children, e.extract(el, depth+1))
	}
	return children
}

// classifyProperty classifies one non-child named argument. It returns
// either a nested child component (nil binding is ignored) or a property
// binding.
func (e *Extractor) classifyProperty(arg syntax.NamedArgument, depth int) (component.Component, component.PropertyBinding) {
	binding := component.PropertyBinding{
		Name:  arg.Name,
		Value: argText(arg.Value),
		Kind:  component.BindingLiteral,
	}
	closure, isClosure := unwrapClosure(arg.Value)

	// Callbacks: named like an event handler, or a non-async closure on a
	// non-builder name.
	if e.registry.IsCallbackProperty(arg.Name) || (isClosure && !e.registry.ClosureIsAsync(closure) && !e.registry.IsBuilderProperty(arg.Name)) {
		binding.Kind = component.BindingCallback
		if isClosure {
			binding.Params = e.registry.ClosureParams(closure)
			binding.IsAsync = e.registry.ClosureIsAsync(closure)
		}
		return nil, binding
	}

	// Builders: canonical builder name with a closure value.
	if isClosure && e.registry.IsBuilderProperty(arg.Name) {
		binding.Kind = component.BindingBuilder
		binding.Params = e.registry.ClosureParams(closure)
		binding.IsAsync = e.registry.ClosureIsAsync(closure)
		return nil, binding
	}

	// Nested components: a constructor-call value extracts recursively;
	// if extraction yields an Unsupported result the literal text is
	// recorded as a fallback binding instead.
	if e.registry.IsWidgetCreation(arg.Value) {
		child := e.extract(arg.Value, depth+1)
		if _, failed := child.(*component.Unsupported); failed {
			return nil, binding
		}
		child = annotateProperty(child, arg.Name)
		return child, component.PropertyBinding{}
	}

	switch unwrapParen(arg.Value).(type) {
	case *syntax.Identifier:
		binding.Kind = component.BindingReference
	case *syntax.IntLiteral, *syntax.DoubleLiteral, *syntax.BoolLiteral,
		*syntax.StringLiteral, *syntax.NullLiteral:
		binding.Kind = component.BindingLiteral
	default:
		binding.Kind = component.BindingExpression
	}
	return nil, binding
}

// annotateProperty records the owning argument name on a nested child
// component extracted from a non-child-named property.
func annotateProperty(c component.Component, name string) component.Component {
	switch v := c.(type) {
	case *component.Widget:
		v.Info = v.Info.WithMeta("property", name)
	case *component.Conditional:
		v.Info = v.Info.WithMeta("property", name)
	case *component.Loop:
		v.Info = v.Info.WithMeta("property", name)
	case *component.Collection:
		v.Info = v.Info.WithMeta("property", name)
	case *component.Builder:
		v.Info = v.Info.WithMeta("property", name)
	case *component.Fallback:
		v.Info = v.Info.WithMeta("property", name)
	}
	return c
}

func unwrapClosure(e syntax.Expression) (*syntax.Closure, bool) {
	c, ok := unwrapParen(e).(*syntax.Closure)
	return c, ok
}

func unwrapParen(e syntax.Expression) syntax.Expression {
	for {
		p, ok := e.(*syntax.Paren)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

func argText(e syntax.Expression) string {
	if e == nil {
		return ""
	}
	return e.Span().Text
}
