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
	"testing"

	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

func newTestRegistry(t *testing.T, opts ...RegistryOption) *Registry {
	t.Helper()
	return NewRegistry(nil, opts...)
}

func ctorCall(typeName string, named ...syntax.NamedArgument) *syntax.ConstructorCall {
	return &syntax.ConstructorCall{
		Base:     syntax.At(0, len(typeName), typeName+"(...)"),
		TypeName: typeName,
		Named:    named,
	}
}

func ident(name string) *syntax.Identifier {
	return &syntax.Identifier{Base: syntax.At(0, len(name), name), Name: name}
}

// =============================================================================
// Classification
// =============================================================================

func TestRegistry_IsWidgetCreation(t *testing.T) {
	r := newTestRegistry(t)

	if !r.IsWidgetCreation(ctorCall("Container")) {
		t.Error("known widget constructor not classified as widget creation")
	}
	if !r.IsWidgetCreation(ctorCall("MyCustomPanel")) {
		t.Error("UpperCamelCase constructor not classified as widget creation")
	}
	if r.IsWidgetCreation(ctorCall("duration")) {
		t.Error("lowercase constructor classified as widget creation")
	}
	if r.IsWidgetCreation(ident("container")) {
		t.Error("identifier classified as widget creation")
	}
}

func TestRegistry_AddKnownWidget(t *testing.T) {
	r := newTestRegistry(t)

	before := r.KnownWidgetCount()
	r.AddKnownWidget("aleutianChart")
	if r.KnownWidgetCount() != before+1 {
		t.Fatalf("KnownWidgetCount = %d, want %d", r.KnownWidgetCount(), before+1)
	}
	if !r.IsWidgetCreation(ctorCall("aleutianChart")) {
		t.Error("runtime-registered widget not classified as widget creation")
	}
}

func TestRegistry_IsConditional(t *testing.T) {
	r := newTestRegistry(t)

	cond := &syntax.Conditional{
		Base:      syntax.At(0, 20, "flag ? a : b"),
		Condition: ident("flag"),
		Then:      ident("a"),
		Else:      ident("b"),
	}
	if !r.IsConditional(cond) {
		t.Error("ternary not classified as conditional")
	}

	ifNull := &syntax.Binary{
		Base:     syntax.At(0, 6, "a ?? b"),
		Operator: "??",
		Left:     ident("a"),
		Right:    ident("b"),
	}
	if !r.IsConditional(ifNull) {
		t.Error("?? not classified as conditional")
	}
	if got := r.Condition(ifNull); got != "a" {
		t.Errorf("Condition(??) = %q, want %q", got, "a")
	}
	if r.ThenBranch(ifNull) != syntax.Node(ifNull.Left) {
		t.Error("ThenBranch(??) is not the left operand")
	}
	if r.ElseBranch(ifNull) != syntax.Node(ifNull.Right) {
		t.Error("ElseBranch(??) is not the right operand")
	}

	plus := &syntax.Binary{Base: syntax.At(0, 5, "a + b"), Operator: "+", Left: ident("a"), Right: ident("b")}
	if r.IsConditional(plus) {
		t.Error("+ classified as conditional")
	}
}

func TestRegistry_LoopAccessors(t *testing.T) {
	r := newTestRegistry(t)

	body := &syntax.ExprStmt{Base: syntax.At(30, 9, "Row(...)"), Expr: ctorCall("Row")}
	loop := &syntax.ForEach{
		Base:     syntax.At(0, 40, "for (final item in items) Row(...)"),
		Keyword:  "final",
		Variable: "item",
		Iterable: ident("items"),
		Body:     body,
	}

	if !r.IsLoop(loop) {
		t.Fatal("for-each not classified as loop")
	}
	if got := r.LoopKind(loop); got != "forEach" {
		t.Errorf("LoopKind = %q, want forEach", got)
	}
	if got := r.LoopVariable(loop); got != "item" {
		t.Errorf("LoopVariable = %q, want item", got)
	}
	if got := r.IterableCode(loop); got != "items" {
		t.Errorf("IterableCode = %q, want items", got)
	}
	if r.LoopBody(loop) != syntax.Node(body) {
		t.Error("LoopBody did not return the loop body")
	}

	while := &syntax.While{Base: syntax.At(0, 10, "while..."), Condition: ident("run"), Body: body}
	if got := r.LoopKind(while); got != "while" {
		t.Errorf("LoopKind(while) = %q, want while", got)
	}
}

func TestRegistry_CollectionAccessors(t *testing.T) {
	r := newTestRegistry(t)

	list := &syntax.ListLiteral{
		Base: syntax.At(0, 20, "[a, ...rest]"),
		Elements: []syntax.CollectionElement{
			ident("a"),
			&syntax.SpreadElement{Base: syntax.At(4, 7, "...rest"), Operand: ident("rest")},
		},
	}

	if !r.IsCollection(list) {
		t.Fatal("list literal not classified as collection")
	}
	if got := r.CollectionKind(list); got != "list" {
		t.Errorf("CollectionKind = %q, want list", got)
	}
	if got := len(r.CollectionElements(list)); got != 2 {
		t.Errorf("CollectionElements length = %d, want 2", got)
	}
	if !r.HasSpread(list) {
		t.Error("HasSpread = false with a spread element present")
	}

	m := &syntax.MapLiteral{Base: syntax.At(0, 2, "{}")}
	if got := r.CollectionKind(m); got != "map" {
		t.Errorf("CollectionKind(map) = %q, want map", got)
	}
	if r.HasSpread(m) {
		t.Error("HasSpread = true for empty map literal")
	}
}

func TestRegistry_BuilderVersusCallback(t *testing.T) {
	r := newTestRegistry(t)

	builder := &syntax.Closure{
		Base:   syntax.At(0, 30, "(context) => Text(...)"),
		Params: []syntax.Param{{Name: "context", Type: &syntax.TypeRef{Name: "BuildContext"}}},
		Body:   syntax.FunctionBody{IsArrow: true, Expr: ctorCall("Text")},
	}
	if !r.IsBuilder(builder) {
		t.Error("build-context closure not classified as builder")
	}
	if r.IsCallback(builder) {
		t.Error("builder closure classified as callback")
	}

	handler := &syntax.Closure{
		Base: syntax.At(0, 12, "() => save()"),
		Body: syntax.FunctionBody{IsArrow: true, Expr: ident("save")},
	}
	if r.IsBuilder(handler) {
		t.Error("plain closure classified as builder")
	}
	if !r.IsCallback(handler) {
		t.Error("plain closure not classified as callback")
	}
	if got := len(r.ClosureParams(handler)); got != 0 {
		t.Errorf("ClosureParams length = %d, want 0", got)
	}
	if got := r.ClosureParams(builder); len(got) != 1 || got[0] != "context" {
		t.Errorf("ClosureParams = %v, want [context]", got)
	}
}

// =============================================================================
// Widget accessors
// =============================================================================

func TestRegistry_WidgetAccessors(t *testing.T) {
	r := newTestRegistry(t)

	ctor := ctorCall("Box",
		syntax.NamedArgument{Name: "color", Value: ident("red")},
		syntax.NamedArgument{Name: "child", Value: ctorCall("Label")},
	)
	ctor.Variant = "square"
	ctor.IsConst = true

	if got := r.WidgetName(ctor); got != "Box" {
		t.Errorf("WidgetName = %q, want Box", got)
	}
	if got := r.ConstructorVariant(ctor); got != "square" {
		t.Errorf("ConstructorVariant = %q, want square", got)
	}
	if !r.IsConstCreation(ctor) {
		t.Error("IsConstCreation = false for const call")
	}
	if got := len(r.Properties(ctor)); got != 2 {
		t.Errorf("Properties length = %d, want 2", got)
	}

	if got := r.WidgetName(ident("x")); got != UnknownWidgetName {
		t.Errorf("WidgetName(non-ctor) = %q, want %q", got, UnknownWidgetName)
	}
}

func TestRegistry_ChildElements(t *testing.T) {
	r := newTestRegistry(t)

	label := ctorCall("Label")
	icon := ctorCall("Icon")
	row := ctorCall("Row")
	column := ctorCall("Column",
		syntax.NamedArgument{Name: "children", Value: &syntax.ListLiteral{
			Base:     syntax.At(0, 10, "[Icon(), Row()]"),
			Elements: []syntax.CollectionElement{icon, row},
		}},
		syntax.NamedArgument{Name: "title", Value: label},
		syntax.NamedArgument{Name: "padding", Value: ident("pad")},
	)

	children := r.ChildElements(column)
	if len(children) != 3 {
		t.Fatalf("ChildElements length = %d, want 3", len(children))
	}
	if children[0] != syntax.Node(icon) || children[1] != syntax.Node(row) || children[2] != syntax.Node(label) {
		t.Error("ChildElements not in source order (children list first, then title)")
	}
}

// =============================================================================
// Property-name classification
// =============================================================================

func TestRegistry_PropertyNameClassification(t *testing.T) {
	r := newTestRegistry(t)

	cases := []struct {
		name     string
		child    bool
		children bool
		callback bool
		builder  bool
	}{
		{name: "child", child: true},
		{name: "body", child: true},
		{name: "children", children: true},
		{name: "slivers", children: true},
		{name: "onTap", callback: true},
		{name: "onLongPressed", callback: true},
		{name: "once", callback: false},
		{name: "validationHandler", callback: true},
		{name: "builder", builder: true},
		{name: "itemBuilder", builder: true},
		{name: "color"},
	}
	for _, tc := range cases {
		if got := r.IsChildProperty(tc.name); got != tc.child {
			t.Errorf("IsChildProperty(%q) = %v, want %v", tc.name, got, tc.child)
		}
		if got := r.IsChildrenProperty(tc.name); got != tc.children {
			t.Errorf("IsChildrenProperty(%q) = %v, want %v", tc.name, got, tc.children)
		}
		if got := r.IsCallbackProperty(tc.name); got != tc.callback {
			t.Errorf("IsCallbackProperty(%q) = %v, want %v", tc.name, got, tc.callback)
		}
		if got := r.IsBuilderProperty(tc.name); got != tc.builder {
			t.Errorf("IsBuilderProperty(%q) = %v, want %v", tc.name, got, tc.builder)
		}
	}
}

// =============================================================================
// Caching
// =============================================================================

func TestRegistry_CacheHitOnRepeatQuery(t *testing.T) {
	r := newTestRegistry(t)
	ctor := ctorCall("Container")

	first := r.IsWidgetCreation(ctor)
	stats := r.Stats()
	if stats.Misses == 0 {
		t.Fatal("first query did not register a miss")
	}
	missesAfterFirst := stats.Misses
	hitsAfterFirst := stats.Hits

	second := r.IsWidgetCreation(ctor)
	if first != second {
		t.Fatalf("repeated query changed answer: %v then %v", first, second)
	}

	stats = r.Stats()
	if stats.Hits != hitsAfterFirst+1 {
		t.Errorf("Hits = %d after repeat query, want %d", stats.Hits, hitsAfterFirst+1)
	}
	if stats.Misses != missesAfterFirst {
		t.Errorf("Misses = %d after repeat query, want unchanged %d", stats.Misses, missesAfterFirst)
	}
	if got := stats.PerOperation[OpIsWidgetCreation]; got != 2 {
		t.Errorf("PerOperation[%s] = %d, want 2", OpIsWidgetCreation, got)
	}
}

func TestRegistry_CacheDistinguishesOperations(t *testing.T) {
	r := newTestRegistry(t)
	ctor := ctorCall("Container")

	// Same node, different operations must not collide.
	if !r.IsWidgetCreation(ctor) {
		t.Fatal("IsWidgetCreation = false for Container")
	}
	if r.IsConstCreation(ctor) {
		t.Error("IsConstCreation = true for non-const call after IsWidgetCreation on same node")
	}
	if got := r.WidgetName(ctor); got != "Container" {
		t.Errorf("WidgetName = %q after boolean queries on same node", got)
	}
}

func TestRegistry_CacheStaysBounded(t *testing.T) {
	r := newTestRegistry(t, WithCacheSize(8))

	for i := 0; i < 100; i++ {
		r.IsWidgetCreation(ctorCall("Box"))
	}

	stats := r.Stats()
	if stats.CacheEntries > stats.CacheCapacity {
		t.Errorf("cache holds %d entries, capacity %d", stats.CacheEntries, stats.CacheCapacity)
	}
	if stats.CacheCapacity != 8 {
		t.Errorf("CacheCapacity = %d, want 8", stats.CacheCapacity)
	}
	if stats.Misses != 100 {
		t.Errorf("Misses = %d, want 100 (distinct node identities never hit)", stats.Misses)
	}
}

// =============================================================================
// Dispatch order and failure semantics
// =============================================================================

type vetoDetector struct {
	Base
}

func (vetoDetector) Name() string { return "veto" }

func (vetoDetector) IsWidgetCreation(syntax.Node) (bool, bool) { return false, true }

func TestRegistry_FirstAnswerWins(t *testing.T) {
	// The standard detector answers first; a later detector never
	// overrides it.
	r := newTestRegistry(t, WithDetector(vetoDetector{}))
	if !r.IsWidgetCreation(ctorCall("Container")) {
		t.Error("later detector overrode the standard detector's answer")
	}

	stats := r.Stats()
	if stats.Detectors != 2 {
		t.Errorf("Detectors = %d, want 2", stats.Detectors)
	}
}

type panicDetector struct {
	Base
}

func (panicDetector) Name() string { return "panic" }

func (panicDetector) WidgetName(syntax.Node) (string, bool) { panic("bad detector") }

func TestRegistry_DetectorPanicIsNoAnswer(t *testing.T) {
	// A panicking custom detector must not abort the query; the node is
	// an identifier so the standard detector has no answer either and
	// the documented default comes back.
	r := newTestRegistry(t, WithDetector(panicDetector{}))

	got := r.WidgetName(ident("x"))
	if got != UnknownWidgetName {
		t.Errorf("WidgetName = %q after detector panic, want %q", got, UnknownWidgetName)
	}
}

type extensionDetector struct {
	Base
}

func (extensionDetector) Name() string { return "extension" }

func (extensionDetector) IsWidgetCreation(n syntax.Node) (bool, bool) {
	inv, ok := n.(*syntax.Invocation)
	if !ok {
		return false, false
	}
	return inv.Method == "styled", true
}

func TestRegistry_CustomDetectorExtendsCoverage(t *testing.T) {
	// Invocations are outside the standard detector's answer set, so a
	// custom detector behind it gets the query.
	r := newTestRegistry(t, WithDetector(extensionDetector{}))

	styled := &syntax.Invocation{
		Base:   syntax.At(0, 15, "base.styled()"),
		Target: ident("base"),
		Method: "styled",
	}
	if !r.IsWidgetCreation(styled) {
		t.Error("custom detector answer not used for node the standard detector skips")
	}
}
