// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package detect classifies syntax-tree nodes for component extraction.
//
// A Detector is a pluggable strategy answering detection and accessor
// queries about nodes. The Registry holds detectors in registration order,
// dispatches each query to the first detector that answers, memoizes
// results in a bounded cache, and exposes hit/miss statistics.
package detect

import "github.com/AleutianAI/williwaw/services/uic/syntax"

// Operation names, used as cache-key components and per-operation
// statistic labels.
const (
	OpIsWidgetCreation   = "is_widget_creation"
	OpIsConditional      = "is_conditional"
	OpIsLoop             = "is_loop"
	OpIsCollection       = "is_collection"
	OpIsBuilder          = "is_builder"
	OpIsCallback         = "is_callback"
	OpWidgetName         = "widget_name"
	OpConstructorVariant = "constructor_variant"
	OpIsConstCreation    = "is_const_creation"
	OpProperties         = "properties"
	OpChildElements      = "child_elements"
	OpCondition          = "condition"
	OpThenBranch         = "then_branch"
	OpElseBranch         = "else_branch"
	OpLoopKind           = "loop_kind"
	OpLoopVariable       = "loop_variable"
	OpIterableCode       = "iterable_code"
	OpLoopBody           = "loop_body"
	OpCollectionKind     = "collection_kind"
	OpCollectionElements = "collection_elements"
	OpHasSpread          = "has_spread"
	OpClosureParams      = "closure_params"
	OpClosureIsAsync     = "closure_is_async"
	OpIsChildProperty    = "is_child_property"
	OpIsChildrenProperty = "is_children_property"
	OpIsCallbackProperty = "is_callback_property"
	OpIsBuilderProperty  = "is_builder_property"
)

// UnknownWidgetName is the documented default answer for WidgetName when
// no detector answers.
const UnknownWidgetName = "Unknown"

// Detector answers classification and accessor queries about syntax
// nodes.
//
// Description:
//
//	Every method returns (answer, ok). ok=false means "no answer"; the
//	Registry then asks the next detector in registration order and falls
//	back to a documented default when none answers. Detectors must only
//	set ok=true for definitive answers; a false boolean with ok=true is a
//	definitive "no" that short-circuits later detectors.
//
//	A detector that panics is treated as "no answer" for that query.
//
// Thread Safety:
//
//	Detector instances are confined to one Registry and one file run; the
//	Registry serializes all calls.
type Detector interface {
	// Name identifies the detector in logs and statistics.
	Name() string

	// Node classification.
	IsWidgetCreation(n syntax.Node) (bool, bool)
	IsConditional(n syntax.Node) (bool, bool)
	IsLoop(n syntax.Node) (bool, bool)
	IsCollection(n syntax.Node) (bool, bool)
	IsBuilder(n syntax.Node) (bool, bool)
	IsCallback(n syntax.Node) (bool, bool)

	// Widget accessors.
	WidgetName(n syntax.Node) (string, bool)
	ConstructorVariant(n syntax.Node) (string, bool)
	IsConstCreation(n syntax.Node) (bool, bool)
	Properties(n syntax.Node) ([]syntax.NamedArgument, bool)
	ChildElements(n syntax.Node) ([]syntax.Node, bool)

	// Conditional accessors. Condition returns the condition source text.
	Condition(n syntax.Node) (string, bool)
	ThenBranch(n syntax.Node) (syntax.Node, bool)
	ElseBranch(n syntax.Node) (syntax.Node, bool)

	// Loop accessors.
	LoopKind(n syntax.Node) (string, bool)
	LoopVariable(n syntax.Node) (string, bool)
	IterableCode(n syntax.Node) (string, bool)
	LoopBody(n syntax.Node) (syntax.Node, bool)

	// Collection accessors.
	CollectionKind(n syntax.Node) (string, bool)
	CollectionElements(n syntax.Node) ([]syntax.Node, bool)
	HasSpread(n syntax.Node) (bool, bool)

	// Closure accessors.
	ClosureParams(n syntax.Node) ([]string, bool)
	ClosureIsAsync(n syntax.Node) (bool, bool)

	// Property-name classification.
	IsChildProperty(name string) (bool, bool)
	IsChildrenProperty(name string) (bool, bool)
	IsCallbackProperty(name string) (bool, bool)
	IsBuilderProperty(name string) (bool, bool)
}

// Base provides "no answer" defaults for every Detector operation.
// Custom detectors embed Base and override only the queries they serve.
type Base struct{}

// Name identifies the embedding detector; override it.
func (Base) Name() string { return "base" }

func (Base) IsWidgetCreation(syntax.Node) (bool, bool) { return false, false }
func (Base) IsConditional(syntax.Node) (bool, bool)    { return false, false }
func (Base) IsLoop(syntax.Node) (bool, bool)           { return false, false }
func (Base) IsCollection(syntax.Node) (bool, bool)     { return false, false }
func (Base) IsBuilder(syntax.Node) (bool, bool)        { return false, false }
func (Base) IsCallback(syntax.Node) (bool, bool)       { return false, false }

func (Base) WidgetName(syntax.Node) (string, bool)                 { return "", false }
func (Base) ConstructorVariant(syntax.Node) (string, bool)         { return "", false }
func (Base) IsConstCreation(syntax.Node) (bool, bool)              { return false, false }
func (Base) Properties(syntax.Node) ([]syntax.NamedArgument, bool) { return nil, false }
func (Base) ChildElements(syntax.Node) ([]syntax.Node, bool)       { return nil, false }

func (Base) Condition(syntax.Node) (string, bool)      { return "", false }
func (Base) ThenBranch(syntax.Node) (syntax.Node, bool) { return nil, false }
func (Base) ElseBranch(syntax.Node) (syntax.Node, bool) { return nil, false }

func (Base) LoopKind(syntax.Node) (string, bool)     { return "", false }
func (Base) LoopVariable(syntax.Node) (string, bool) { return "", false }
func (Base) IterableCode(syntax.Node) (string, bool) { return "", false }
func (Base) LoopBody(syntax.Node) (syntax.Node, bool) { return nil, false }

func (Base) CollectionKind(syntax.Node) (string, bool)         { return "", false }
func (Base) CollectionElements(syntax.Node) ([]syntax.Node, bool) { return nil, false }
func (Base) HasSpread(syntax.Node) (bool, bool)                { return false, false }

func (Base) ClosureParams(syntax.Node) ([]string, bool) { return nil, false }
func (Base) ClosureIsAsync(syntax.Node) (bool, bool)    { return false, false }

func (Base) IsChildProperty(string) (bool, bool)    { return false, false }
func (Base) IsChildrenProperty(string) (bool, bool) { return false, false }
func (Base) IsCallbackProperty(string) (bool, bool) { return false, false }
func (Base) IsBuilderProperty(string) (bool, bool)  { return false, false }
