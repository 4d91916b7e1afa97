// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extract converts widget-producing expressions into typed
// component trees, classifying each named constructor argument into a
// property-binding kind and recursing into child-carrying arguments.
//
// Extraction is total and recursion-guarded: a failure while extracting a
// child becomes an Unsupported component in the child's position, never a
// dropped sibling, and exceeding the depth bound yields a Fallback
// component instead of overflowing the stack.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/AleutianAI/williwaw/services/uic/component"
	"github.com/AleutianAI/williwaw/services/uic/detect"
	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/source"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// MaxDepth bounds component-tree recursion. Exceeding it produces a
// Fallback component annotated with the depth bound.
const MaxDepth = 50

// depthExceededReason is the annotation on depth-bound fallbacks.
const depthExceededReason = "maximum recursion depth exceeded"

// Extractor builds component trees for one file.
//
// Thread Safety: NOT safe for concurrent use; carries file-scoped state.
type Extractor struct {
	registry *detect.Registry
	mapper   *source.Mapper
	ids      *ir.IDGenerator
	logger   *slog.Logger
	maxDepth int

	warnings []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the extractor logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth overrides the recursion bound. Non-positive keeps MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewExtractor creates an Extractor for one file.
//
// Inputs:
//   - registry: Detection registry for this file run. Must be non-nil.
//   - mapper: Location mapper over the file's source text. Must be non-nil.
//   - ids: Component ID generator. Nil allocates a fresh one.
func NewExtractor(registry *detect.Registry, mapper *source.Mapper, ids *ir.IDGenerator, opts ...Option) *Extractor {
	e := &Extractor{
		registry: registry,
		mapper:   mapper,
		ids:      ids,
		logger:   slog.Default(),
		maxDepth: MaxDepth,
	}
	if e.ids == nil {
		e.ids = ir.NewIDGenerator("comp")
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Warnings returns the warnings accumulated so far, in emission order.
func (e *Extractor) Warnings() []string {
	return e.warnings
}

// Extract converts one syntax node into a component tree.
//
// Description:
//
//	Dispatch is type-based, most specific first: constructor call,
//	conditional (ternary, if, collection-if, null-coalescing binary),
//	loop, collection literal, closure, cascade (simplified to a
//	conditional wrapping its target), invocation and property access
//	(recursing into the target), and finally Unsupported annotated with
//	the node shape.
//
// Outputs:
//   - component.Component: Never nil.
func (e *Extractor) Extract(node syntax.Node) component.Component {
	return e.extract(node, 0)
}

// extract is the guarded recursion entry: a panic below this node becomes
// an Unsupported component in this node's position.
func (e *Extractor) extract(node syntax.Node, depth int) (result component.Component) {
	if node == nil {
		return &component.Unsupported{
			Info:   component.Info{ID: e.ids.Next(), Name: "unsupported", Location: e.mapper.Locate(0, 0)},
			Reason: "nil node",
		}
	}
	if depth > e.maxDepth {
		e.warn("%s at %s", depthExceededReason, e.locate(node))
		return &component.Fallback{Info: e.info(node, "fallback"), Reason: depthExceededReason}
	}

	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprintf("extraction failed: %v", rec)
			e.warn("%s at %s", reason, e.locate(node))
			result = e.unsupported(node, reason)
		}
	}()

	return e.dispatch(node, depth)
}

func (e *Extractor) dispatch(node syntax.Node, depth int) component.Component {
	switch v := node.(type) {
	case *syntax.Paren:
		return e.extract(v.Inner, depth)

	case *syntax.ConstructorCall:
		return e.extractWidget(v, depth)

	case *syntax.Conditional:
		return e.extractConditional(v, true, depth)
	case *syntax.If:
		return e.extractConditional(v, false, depth)
	case *syntax.IfElement:
		return e.extractConditional(v, false, depth)

	case *syntax.For, *syntax.ForEach, *syntax.While, *syntax.DoWhile, *syntax.ForElement:
		return e.extractLoop(v, depth)

	case *syntax.ListLiteral, *syntax.SetLiteral, *syntax.MapLiteral:
		return e.extractCollection(v, depth)

	case *syntax.Closure:
		return e.extractBuilder(v)

	case *syntax.Cascade:
		// Simplification: the cascade is modeled as a conditional wrapping
		// its target; sections are not first-class chain nodes.
		return &component.Conditional{
			Info:      e.info(v, "cascade"),
			Condition: v.Target.Span().Text,
			Then:      e.extract(v.Target, depth+1),
		}

	case *syntax.Binary:
		if v.Operator == "??" {
			return &component.Conditional{
				Info:      e.info(v, "ifNull"),
				Condition: e.registry.Condition(v),
				Then:      e.extract(v.Left, depth+1),
				Else:      e.extract(v.Right, depth+1),
			}
		}
		return e.unsupported(v, fmt.Sprintf("binary operator %q", v.Operator))

	case *syntax.Invocation:
		if v.Target != nil {
			return e.extract(v.Target, depth+1)
		}
		return e.unsupported(v, fmt.Sprintf("unqualified invocation of %q", v.Method))

	case *syntax.PropertyAccess:
		return e.extract(v.Target, depth+1)

	case *syntax.SpreadElement:
		return e.extract(v.Operand, depth+1)
	case *syntax.MapEntry:
		return e.extract(v.Value, depth+1)

	case *syntax.Await:
		return e.extract(v.Operand, depth+1)

	case *syntax.ExprStmt:
		return e.extract(v.Expr, depth+1)
	case *syntax.Return:
		if v.Value != nil {
			return e.extract(v.Value, depth+1)
		}
		return e.unsupported(v, "value-less return")
	case *syntax.Block:
		if len(v.Statements) == 1 {
			return e.extract(v.Statements[0], depth+1)
		}
		return e.unsupported(v, fmt.Sprintf("statement block with %d statements", len(v.Statements)))

	case *syntax.Unrecognized:
		return e.unsupported(v, v.Reason)

	default:
		return e.unsupported(node, fmt.Sprintf("node shape %s", node.Kind()))
	}
}

// =============================================================================
// Variant extraction
// =============================================================================

func (e *Extractor) extractConditional(node syntax.Node, isTernary bool, depth int) component.Component {
	cond := &component.Conditional{
		Info:      e.info(node, "if"),
		Condition: e.registry.Condition(node),
		IsTernary: isTernary,
	}
	if then := e.registry.ThenBranch(node); then != nil {
		cond.Then = e.extract(then, depth+1)
	}
	if els := e.registry.ElseBranch(node); els != nil {
		cond.Else = e.extract(els, depth+1)
	} else if ifEl, ok := node.(*syntax.IfElement); ok {
		// Collection-if without an else contributes nothing when false;
		// mirror the normalizer's desugaring with an empty list.
		cond.Else = &component.Collection{
			Info:     e.info(ifEl, "list"),
			Kind:     component.CollectionList,
			Elements: []component.Component{},
		}
	}
	return cond
}

func (e *Extractor) extractLoop(node syntax.Node, depth int) component.Component {
	kind := component.LoopKind(e.registry.LoopKind(node))
	loop := &component.Loop{
		Info:     e.info(node, string(kind)),
		Kind:     kind,
		Variable: e.registry.LoopVariable(node),
		Iterable: e.registry.IterableCode(node),
	}
	switch v := node.(type) {
	case *syntax.For:
		if v.Condition != nil {
			loop.Condition = v.Condition.Span().Text
		}
	case *syntax.While:
		loop.Condition = v.Condition.Span().Text
	case *syntax.DoWhile:
		loop.Condition = v.Condition.Span().Text
	}
	if body := e.registry.LoopBody(node); body != nil {
		loop.Body = e.extract(body, depth+1)
	}
	return loop
}

func (e *Extractor) extractCollection(node syntax.Node, depth int) component.Component {
	kind := component.CollectionKind(e.registry.CollectionKind(node))
	coll := &component.Collection{
		Info:      e.info(node, string(kind)),
		Kind:      kind,
		HasSpread: e.registry.HasSpread(node),
		Elements:  []component.Component{},
	}
	for _, el := range e.registry.CollectionElements(node) {
		coll.Elements = append(coll.Elements, e.extract(el, depth+1))
	}
	return coll
}

func (e *Extractor) extractBuilder(closure *syntax.Closure) component.Component {
	return &component.Builder{
		Info:    e.info(closure, "builder"),
		Params:  e.registry.ClosureParams(closure),
		IsAsync: e.registry.ClosureIsAsync(closure),
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (e *Extractor) info(node syntax.Node, name string) component.Info {
	span := node.Span()
	return component.Info{
		ID:       e.ids.Next(),
		Name:     name,
		Location: e.mapper.Locate(span.Offset, span.Length),
	}
}

func (e *Extractor) unsupported(node syntax.Node, reason string) *component.Unsupported {
	return &component.Unsupported{
		Info:   e.info(node, "unsupported"),
		Code:   node.Span().Text,
		Reason: reason,
	}
}

func (e *Extractor) locate(node syntax.Node) source.Location {
	span := node.Span()
	return e.mapper.Locate(span.Offset, span.Length)
}

func (e *Extractor) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.warnings = append(e.warnings, msg)
	e.logger.Debug("extract warning", slog.String("warning", msg))
}
