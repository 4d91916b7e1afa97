// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"fmt"
	"testing"

	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// widgetChain builds a class hierarchy of the given depth whose root
// extends Widget: C0 extends C1 extends ... extends C(depth-1) extends Widget.
func widgetChain(depth int) *syntax.ClassElement {
	super := &syntax.TypeRef{Name: "Widget"}
	for i := depth - 1; i >= 1; i-- {
		cls := &syntax.ClassElement{Name: fmt.Sprintf("C%d", i), Supertype: super}
		super = cls.AsType()
	}
	return &syntax.ClassElement{Name: "C0", Supertype: super}
}

func TestResolver_ClassSupertypeChains(t *testing.T) {
	r := NewResolver(nil)

	for _, depth := range []int{1, 5, 20} {
		t.Run(fmt.Sprintf("depth_%d", depth), func(t *testing.T) {
			if !r.ProducesWidget(widgetChain(depth)) {
				t.Errorf("class %d supertypes away from Widget not resolved as widget-producing", depth)
			}
		})
	}
}

func TestResolver_PlainClassIsNotWidget(t *testing.T) {
	r := NewResolver(nil)

	repo := &syntax.ClassElement{
		Name:      "OrderRepository",
		Supertype: &syntax.TypeRef{Name: "Object"},
		Methods: []*syntax.MethodElement{
			{Name: "fetchAll", ReturnType: &syntax.TypeRef{Name: "List", TypeArgs: []*syntax.TypeRef{{Name: "Order"}}}},
		},
	}
	if r.ProducesWidget(repo) {
		t.Error("data-layer class resolved as widget-producing")
	}
}

func TestResolver_StateHolderWithBuildMethod(t *testing.T) {
	r := NewResolver(nil)

	state := &syntax.ClassElement{
		Name:      "CounterState",
		Supertype: &syntax.TypeRef{Name: "State"},
		Methods: []*syntax.MethodElement{
			{Name: "build", ReturnType: &syntax.TypeRef{Name: "Widget"},
				Params: []*syntax.ParamElement{{Name: "context", Type: &syntax.TypeRef{Name: "BuildContext"}}}},
		},
	}
	if !r.ProducesWidget(state) {
		t.Error("state holder declaring build not resolved as widget-producing")
	}

	staticOnly := &syntax.ClassElement{
		Name:      "StaticState",
		Supertype: &syntax.TypeRef{Name: "State"},
		Methods: []*syntax.MethodElement{
			{Name: "build", IsStatic: true, ReturnType: &syntax.TypeRef{Name: "Object"}},
		},
	}
	if r.ProducesWidget(staticOnly) {
		t.Error("static build method satisfied the state-holder rule")
	}
}

func TestResolver_Constructors(t *testing.T) {
	r := NewResolver(nil)

	widgetClass := &syntax.ClassElement{Name: "Panel", Supertype: &syntax.TypeRef{Name: "Widget"}}

	constCtor := &syntax.ConstructorElement{
		Class:      widgetClass,
		IsConst:    true,
		ReturnType: widgetClass.AsType(),
	}
	if !r.ProducesWidget(constCtor) {
		t.Error("const constructor of widget class not resolved as widget-producing")
	}

	redirecting := &syntax.ConstructorElement{
		Name:      "material",
		Class:     &syntax.ClassElement{Name: "PanelFactory"},
		IsFactory: true,
		Redirect:  constCtor,
	}
	if !r.ProducesWidget(redirecting) {
		t.Error("redirecting factory did not delegate to its target")
	}

	plain := &syntax.ConstructorElement{
		Class:      &syntax.ClassElement{Name: "Clock"},
		ReturnType: &syntax.TypeRef{Name: "Clock", Class: &syntax.ClassElement{Name: "Clock"}},
	}
	if r.ProducesWidget(plain) {
		t.Error("non-widget constructor resolved as widget-producing")
	}
}

func TestResolver_MethodReturnTypes(t *testing.T) {
	r := NewResolver(nil)

	widget := &syntax.TypeRef{Name: "Widget"}
	cases := []struct {
		name   string
		method *syntax.MethodElement
		want   bool
	}{
		{
			name:   "direct widget return",
			method: &syntax.MethodElement{Name: "header", ReturnType: widget},
			want:   true,
		},
		{
			name: "list of widgets",
			method: &syntax.MethodElement{Name: "rows",
				ReturnType: &syntax.TypeRef{Name: "List", TypeArgs: []*syntax.TypeRef{widget}}},
			want: true,
		},
		{
			name: "future of list of widgets",
			method: &syntax.MethodElement{Name: "loadTiles",
				ReturnType: &syntax.TypeRef{Name: "Future", TypeArgs: []*syntax.TypeRef{
					{Name: "List", TypeArgs: []*syntax.TypeRef{widget}},
				}}},
			want: true,
		},
		{
			name: "list of strings",
			method: &syntax.MethodElement{Name: "names",
				ReturnType: &syntax.TypeRef{Name: "List", TypeArgs: []*syntax.TypeRef{{Name: "String"}}}},
			want: false,
		},
		{
			name: "builder heuristic",
			method: &syntax.MethodElement{Name: "buildHeader",
				ReturnType: &syntax.TypeRef{Name: "dynamic"},
				Params:     []*syntax.ParamElement{{Name: "context", Type: &syntax.TypeRef{Name: "BuildContext"}}}},
			want: true,
		},
		{
			name: "build name without context param",
			method: &syntax.MethodElement{Name: "buildIndex",
				ReturnType: &syntax.TypeRef{Name: "int"},
				Params:     []*syntax.ParamElement{{Name: "seed", Type: &syntax.TypeRef{Name: "int"}}}},
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.ProducesWidget(tc.method); got != tc.want {
				t.Errorf("ProducesWidget = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolver_Fields(t *testing.T) {
	r := NewResolver(nil)

	typed := &syntax.FieldElement{Name: "banner", Type: &syntax.TypeRef{Name: "Widget"}}
	if !r.ProducesWidget(typed) {
		t.Error("widget-typed field not resolved as widget-producing")
	}

	viaGetter := &syntax.FieldElement{
		Name:   "lazyBanner",
		Getter: &syntax.MethodElement{Name: "lazyBanner", IsGetter: true, ReturnType: &syntax.TypeRef{Name: "Widget"}},
	}
	if !r.ProducesWidget(viaGetter) {
		t.Error("field with widget getter not resolved as widget-producing")
	}

	plain := &syntax.FieldElement{Name: "count", Type: &syntax.TypeRef{Name: "int"}}
	if r.ProducesWidget(plain) {
		t.Error("int field resolved as widget-producing")
	}
}

func TestResolver_TypeParameterBound(t *testing.T) {
	r := NewResolver(nil)

	// T extends Widget: a method returning T produces widgets.
	bounded := &syntax.MethodElement{
		Name: "pick",
		ReturnType: &syntax.TypeRef{
			Name:            "T",
			IsTypeParameter: true,
			Bound:           &syntax.TypeRef{Name: "Widget"},
		},
	}
	if !r.ProducesWidget(bounded) {
		t.Error("type parameter bounded by Widget not resolved as widget-producing")
	}

	unbounded := &syntax.MethodElement{
		Name:       "pickAny",
		ReturnType: &syntax.TypeRef{Name: "T", IsTypeParameter: true},
	}
	if r.ProducesWidget(unbounded) {
		t.Error("unbounded type parameter resolved as widget-producing")
	}
}

func TestResolver_DeclarationCycleTerminates(t *testing.T) {
	r := NewResolver(nil)

	// Two non-widget classes whose constructors' declared return types
	// point at each other's class. Resolution must terminate and answer
	// false.
	a := &syntax.ClassElement{Name: "A"}
	b := &syntax.ClassElement{Name: "B"}
	a.Constructors = []*syntax.ConstructorElement{{Class: a, ReturnType: b.AsType()}}
	b.Constructors = []*syntax.ConstructorElement{{Class: b, ReturnType: a.AsType()}}
	a.Supertype = b.AsType()
	b.Supertype = a.AsType()

	if r.ProducesWidget(a) {
		t.Error("cyclic non-widget hierarchy resolved as widget-producing")
	}
}

func TestResolver_MemoizationAndReset(t *testing.T) {
	r := NewResolver(nil)

	cls := widgetChain(5)
	if !r.ProducesWidget(cls) {
		t.Fatal("chain not resolved as widget-producing")
	}
	if r.CachedCount() == 0 {
		t.Error("no declarations memoized after resolution")
	}

	// Repeat answers come from the memo and stay identical.
	if !r.ProducesWidget(cls) {
		t.Error("memoized answer differs from first resolution")
	}

	r.ResetCache()
	if r.CachedCount() != 0 {
		t.Errorf("CachedCount = %d after ResetCache, want 0", r.CachedCount())
	}
	if !r.ProducesWidget(cls) {
		t.Error("resolution after ResetCache lost correctness")
	}
}
