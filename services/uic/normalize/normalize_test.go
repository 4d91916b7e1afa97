// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package normalize

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/source"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

const testSource = "final x = 1 + 2;\nfinal y = x! + 3;\n"

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	mapper := source.NewMapper("lib/main.ui", []byte(testSource))
	return NewNormalizer(mapper, ir.NewIDGenerator("t"))
}

func ident(name string) *syntax.Identifier {
	return &syntax.Identifier{Base: syntax.At(0, len(name), name), Name: name}
}

func intLit(v int64, text string) *syntax.IntLiteral {
	return &syntax.IntLiteral{Base: syntax.At(10, len(text), text), Value: v}
}

// =============================================================================
// Expressions
// =============================================================================

func TestExpression_Literals(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		name string
		expr syntax.Expression
		want ir.LiteralKind
	}{
		{"int", intLit(42, "42"), ir.LiteralInt},
		{"double", &syntax.DoubleLiteral{Base: syntax.At(0, 3, "1.5"), Value: 1.5}, ir.LiteralDouble},
		{"bool", &syntax.BoolLiteral{Base: syntax.At(0, 4, "true"), Value: true}, ir.LiteralBool},
		{"string", &syntax.StringLiteral{Base: syntax.At(0, 4, `"hi"`), Value: "hi"}, ir.LiteralString},
		{"null", &syntax.NullLiteral{Base: syntax.At(0, 4, "null")}, ir.LiteralNull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lit, ok := n.Expression(tc.expr).(*ir.Literal)
			if !ok {
				t.Fatalf("Expression produced %T, want *ir.Literal", n.Expression(tc.expr))
			}
			if lit.LitKind != tc.want {
				t.Errorf("LitKind = %v, want %v", lit.LitKind, tc.want)
			}
			if lit.ID == "" {
				t.Error("literal has no node ID")
			}
		})
	}
}

func TestExpression_OperatorsMappedAtExtraction(t *testing.T) {
	n := newTestNormalizer(t)

	sum := n.Expression(&syntax.Binary{
		Base:     syntax.At(10, 5, "1 + 2"),
		Operator: "+",
		Left:     intLit(1, "1"),
		Right:    intLit(2, "2"),
	})
	bin, ok := sum.(*ir.Binary)
	if !ok {
		t.Fatalf("Expression produced %T, want *ir.Binary", sum)
	}
	if bin.Op != ir.BinaryAdd {
		t.Errorf("Op = %v, want BinaryAdd", bin.Op)
	}

	ifNull := n.Expression(&syntax.Binary{
		Base: syntax.At(0, 6, "a ?? b"), Operator: "??", Left: ident("a"), Right: ident("b"),
	}).(*ir.Binary)
	if ifNull.Op != ir.BinaryIfNull {
		t.Errorf("Op(??) = %v, want BinaryIfNull", ifNull.Op)
	}

	// Prefix "!" is logical not; postfix "!" is a null assertion.
	not := n.Expression(&syntax.Unary{
		Base: syntax.At(0, 2, "!a"), Operator: "!", Operand: ident("a"), IsPrefix: true,
	}).(*ir.Unary)
	if not.Op != ir.UnaryNot {
		t.Errorf("prefix ! = %v, want UnaryNot", not.Op)
	}
	assert := n.Expression(&syntax.Unary{
		Base: syntax.At(17, 2, "x!"), Operator: "!", Operand: ident("x"), IsPrefix: false,
	}).(*ir.Unary)
	if assert.Op != ir.UnaryNullAssert {
		t.Errorf("postfix ! = %v, want UnaryNullAssert", assert.Op)
	}
}

func TestExpression_ParenUnwrapsTransparently(t *testing.T) {
	n := newTestNormalizer(t)

	wrapped := n.Expression(&syntax.Paren{
		Base:  syntax.At(0, 5, "(abc)"),
		Inner: ident("abc"),
	})
	id, ok := wrapped.(*ir.Ident)
	if !ok {
		t.Fatalf("parenthesized identifier produced %T, want *ir.Ident", wrapped)
	}
	if id.Name != "abc" {
		t.Errorf("Name = %q, want abc", id.Name)
	}
}

func TestExpression_InterpolationPreservesOrder(t *testing.T) {
	n := newTestNormalizer(t)

	interp := n.Expression(&syntax.Interpolation{
		Base: syntax.At(0, 20, `"a ${x} b ${y} c"`),
		Parts: []syntax.InterpolationPart{
			{Literal: "a "},
			{Expr: ident("x")},
			{Literal: " b "},
			{Expr: ident("y")},
			{Literal: " c"},
		},
	}).(*ir.Interp)

	if len(interp.Parts) != 5 {
		t.Fatalf("Parts length = %d, want 5", len(interp.Parts))
	}
	for i, wantText := range []string{"a ", "", " b ", "", " c"} {
		if interp.Parts[i].Text != wantText {
			t.Errorf("Parts[%d].Text = %q, want %q", i, interp.Parts[i].Text, wantText)
		}
	}
	if interp.Parts[1].Expr == nil || interp.Parts[3].Expr == nil {
		t.Error("embedded expressions missing from interpolation parts")
	}
}

func TestExpression_CollectionElements(t *testing.T) {
	n := newTestNormalizer(t)

	list := n.Expression(&syntax.ListLiteral{
		Base: syntax.At(0, 40, "[a, ...rest, if (flag) b, for (...) c]"),
		Elements: []syntax.CollectionElement{
			ident("a"),
			&syntax.SpreadElement{Base: syntax.At(4, 7, "...rest"), Operand: ident("rest")},
			&syntax.IfElement{
				Base:      syntax.At(13, 11, "if (flag) b"),
				Condition: ident("flag"),
				Then:      ident("b"),
			},
			&syntax.ForElement{Base: syntax.At(26, 11, "for (...) c"), Body: ident("c")},
		},
	}).(*ir.Collection)

	if list.CollKind != ir.CollectionList {
		t.Fatalf("CollKind = %v, want list", list.CollKind)
	}
	if len(list.Elements) != 4 {
		t.Fatalf("Elements length = %d, want 4", len(list.Elements))
	}

	if _, ok := list.Elements[0].(*ir.Ident); !ok {
		t.Errorf("element 0 is %T, want *ir.Ident", list.Elements[0])
	}
	if _, ok := list.Elements[1].(*ir.Spread); !ok {
		t.Errorf("element 1 is %T, want *ir.Spread", list.Elements[1])
	}

	// Conditional inclusion desugars to a conditional over single-element
	// or empty collections.
	cond, ok := list.Elements[2].(*ir.Conditional)
	if !ok {
		t.Fatalf("element 2 is %T, want *ir.Conditional", list.Elements[2])
	}
	then, ok := cond.Then.(*ir.Collection)
	if !ok || len(then.Elements) != 1 {
		t.Errorf("then branch is not a single-element collection: %T", cond.Then)
	}
	elseBranch, ok := cond.Else.(*ir.Collection)
	if !ok || len(elseBranch.Elements) != 0 {
		t.Errorf("absent else branch is not an empty collection: %T", cond.Else)
	}

	// For-comprehension elements surface as typed skip markers.
	if _, ok := list.Elements[3].(*ir.Skip); !ok {
		t.Errorf("element 3 is %T, want *ir.Skip", list.Elements[3])
	}
}

func TestExpression_SpreadPreservedInConditionalBranch(t *testing.T) {
	n := newTestNormalizer(t)

	list := n.Expression(&syntax.ListLiteral{
		Base: syntax.At(0, 30, "[if (flag) ...extra]"),
		Elements: []syntax.CollectionElement{
			&syntax.IfElement{
				Base:      syntax.At(1, 18, "if (flag) ...extra"),
				Condition: ident("flag"),
				Then:      &syntax.SpreadElement{Base: syntax.At(11, 8, "...extra"), Operand: ident("extra")},
			},
		},
	}).(*ir.Collection)

	cond := list.Elements[0].(*ir.Conditional)
	then := cond.Then.(*ir.Collection)
	if len(then.Elements) != 1 {
		t.Fatalf("then branch has %d elements, want 1", len(then.Elements))
	}
	if _, ok := then.Elements[0].(*ir.Spread); !ok {
		t.Errorf("spread branch lowered to %T, spread form lost", then.Elements[0])
	}
}

func TestExpression_MapLiteral(t *testing.T) {
	n := newTestNormalizer(t)

	m := n.Expression(&syntax.MapLiteral{
		Base: syntax.At(0, 12, `{"k": v}`),
		Elements: []syntax.CollectionElement{
			&syntax.MapEntry{
				Base:  syntax.At(1, 8, `"k": v`),
				Key:   &syntax.StringLiteral{Base: syntax.At(1, 3, `"k"`), Value: "k"},
				Value: ident("v"),
			},
		},
	}).(*ir.Collection)

	if m.CollKind != ir.CollectionMap {
		t.Errorf("CollKind = %v, want map", m.CollKind)
	}
	if _, ok := m.Elements[0].(*ir.MapEntry); !ok {
		t.Errorf("map element is %T, want *ir.MapEntry", m.Elements[0])
	}
}

func TestExpression_Closures(t *testing.T) {
	n := newTestNormalizer(t)

	arrow := n.Expression(&syntax.Closure{
		Base: syntax.At(0, 25, "(context) => Text()"),
		Params: []syntax.Param{
			{Name: "context", Type: &syntax.TypeRef{Name: "BuildContext"}},
			{Name: "index", Origin: syntax.ParamNamed, HasDefault: true},
		},
		Body: syntax.FunctionBody{
			IsArrow: true,
			Expr:    &syntax.ConstructorCall{Base: syntax.At(13, 6, "Text()"), TypeName: "Text"},
		},
	}).(*ir.Closure)

	if !arrow.IsArrow || arrow.ArrowBody == nil {
		t.Error("arrow closure lost its arrow form")
	}
	if arrow.ReturnType != "Text" {
		t.Errorf("ReturnType = %q, want Text (inferred from arrow body)", arrow.ReturnType)
	}
	if len(arrow.Params) != 2 {
		t.Fatalf("Params length = %d, want 2", len(arrow.Params))
	}
	if arrow.Params[1].Origin != "named" || !arrow.Params[1].HasDefault {
		t.Errorf("named defaulted param lowered as %+v", arrow.Params[1])
	}

	block := n.Expression(&syntax.Closure{
		Base: syntax.At(0, 40, "() { if (flag) { return 1; } }"),
		Body: syntax.FunctionBody{
			Block: &syntax.Block{
				Base: syntax.At(3, 37, "{...}"),
				Statements: []syntax.Statement{
					&syntax.If{
						Base:      syntax.At(5, 25, "if (flag) { return 1; }"),
						Condition: ident("flag"),
						Then: &syntax.Block{
							Base: syntax.At(15, 14, "{ return 1; }"),
							Statements: []syntax.Statement{
								&syntax.Return{Base: syntax.At(17, 9, "return 1;"), Value: intLit(1, "1")},
							},
						},
					},
				},
			},
			IsAsync: true,
		},
	}).(*ir.Closure)

	if block.IsArrow {
		t.Error("block closure flagged as arrow")
	}
	if !block.IsAsync {
		t.Error("async flag lost")
	}
	if block.ReturnType != "int" {
		t.Errorf("ReturnType = %q, want int (inferred from nested return)", block.ReturnType)
	}

	bare := n.Expression(&syntax.Closure{
		Base: syntax.At(0, 10, "() {}"),
		Body: syntax.FunctionBody{Block: &syntax.Block{Base: syntax.At(3, 2, "{}")}},
	}).(*ir.Closure)
	if bare.ReturnType != DynamicType {
		t.Errorf("ReturnType = %q for value-less body, want %q", bare.ReturnType, DynamicType)
	}
}

func TestExpression_UnrecognizedBecomesUnknown(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Expression(&syntax.Unrecognized{
		Base:   syntax.At(0, 9, "weird@@@!"),
		Reason: "no adapter mapping",
	})
	unknown, ok := got.(*ir.Unknown)
	if !ok {
		t.Fatalf("Expression produced %T, want *ir.Unknown", got)
	}
	if unknown.Code != "weird@@@!" {
		t.Errorf("Code = %q, original text lost", unknown.Code)
	}
	if unknown.Reason != "no adapter mapping" {
		t.Errorf("Reason = %q", unknown.Reason)
	}
}

func TestExpression_LocationStamping(t *testing.T) {
	n := newTestNormalizer(t)

	// Offset 17 is on line 2 of the test source.
	got := n.Expression(&syntax.Identifier{Base: syntax.At(17, 1, "y"), Name: "y"})
	loc := got.Info().Location
	if loc.Line != 2 {
		t.Errorf("Line = %d, want 2", loc.Line)
	}
	if loc.File != "lib/main.ui" {
		t.Errorf("File = %q", loc.File)
	}
}

// =============================================================================
// Statements
// =============================================================================

func TestStatement_Classification(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		name string
		expr syntax.Expression
		want ir.StatementClass
	}{
		{"method call", &syntax.Invocation{Base: syntax.At(0, 6, "run()"), Method: "run"}, ir.StmtMethodCall},
		{"constructor call", &syntax.ConstructorCall{Base: syntax.At(0, 5, "Box()"), TypeName: "Box"}, ir.StmtConstructorCall},
		{"assignment", &syntax.Assignment{Base: syntax.At(0, 5, "x = 1"), Operator: "=", Target: ident("x"), Value: intLit(1, "1")}, ir.StmtAssignment},
		{"cascade", &syntax.Cascade{Base: syntax.At(0, 10, "c..add(1)"), Target: ident("c")}, ir.StmtCascade},
		{"await", &syntax.Await{Base: syntax.At(0, 7, "await f"), Operand: ident("f")}, ir.StmtAwait},
		{"other", ident("x"), ir.StmtOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stmt := n.Statement(&syntax.ExprStmt{Base: syntax.At(0, 10, "stmt;"), Expr: tc.expr})
			es, ok := stmt.(*ir.ExprStmt)
			if !ok {
				t.Fatalf("Statement produced %T, want *ir.ExprStmt", stmt)
			}
			if es.Class != tc.want {
				t.Errorf("Class = %v, want %v", es.Class, tc.want)
			}
		})
	}
}

func TestBodyStatements_ArrowLowersToReturn(t *testing.T) {
	n := newTestNormalizer(t)

	stmts := n.BodyStatements(syntax.FunctionBody{
		IsArrow: true,
		Expr:    &syntax.ConstructorCall{Base: syntax.At(0, 6, "Box()"), TypeName: "Box"},
	})
	if len(stmts) != 1 {
		t.Fatalf("BodyStatements length = %d, want 1", len(stmts))
	}
	ret, ok := stmts[0].(*ir.Return)
	if !ok {
		t.Fatalf("arrow body lowered to %T, want *ir.Return", stmts[0])
	}
	if _, ok := ret.Value.(*ir.Construct); !ok {
		t.Errorf("return value is %T, want *ir.Construct", ret.Value)
	}
}

func TestStatement_ControlFlow(t *testing.T) {
	n := newTestNormalizer(t)

	loop := n.Statement(&syntax.ForEach{
		Base:     syntax.At(0, 35, "for (final item in items) use(item);"),
		Keyword:  "final",
		Variable: "item",
		Iterable: ident("items"),
		Body: &syntax.ExprStmt{
			Base: syntax.At(26, 10, "use(item);"),
			Expr: &syntax.Invocation{Base: syntax.At(26, 9, "use(item)"), Method: "use", Positional: []syntax.Expression{ident("item")}},
		},
	})
	fe, ok := loop.(*ir.ForEach)
	if !ok {
		t.Fatalf("Statement produced %T, want *ir.ForEach", loop)
	}
	if fe.Variable != "item" || fe.Keyword != "final" {
		t.Errorf("loop header lowered as %+v", fe)
	}

	try := n.Statement(&syntax.Try{
		Base: syntax.At(0, 30, "try {...} on E catch (e) {...}"),
		Body: &syntax.Block{Base: syntax.At(4, 5, "{...}")},
		Catches: []syntax.CatchClause{{
			ExcType: &syntax.TypeRef{Name: "E"},
			Param:   "e",
			Body:    &syntax.Block{Base: syntax.At(25, 5, "{...}")},
		}},
	})
	tr, ok := try.(*ir.Try)
	if !ok {
		t.Fatalf("Statement produced %T, want *ir.Try", try)
	}
	if len(tr.Catches) != 1 || tr.Catches[0].ExcType != "E" || tr.Catches[0].Param != "e" {
		t.Errorf("catch clause lowered as %+v", tr.Catches)
	}

	sw := n.Statement(&syntax.Switch{
		Base:  syntax.At(0, 20, "switch (x) {...}"),
		Value: ident("x"),
		Cases: []syntax.SwitchCase{
			{Values: []syntax.Expression{intLit(1, "1")}, Statements: []syntax.Statement{
				&syntax.Break{Base: syntax.At(0, 6, "break;")},
			}},
			{IsDefault: true, Statements: []syntax.Statement{}},
		},
	})
	s, ok := sw.(*ir.Switch)
	if !ok {
		t.Fatalf("Statement produced %T, want *ir.Switch", sw)
	}
	if len(s.Cases) != 2 || !s.Cases[1].IsDefault {
		t.Errorf("switch cases lowered as %+v", s.Cases)
	}
}

func TestStatement_Patterns(t *testing.T) {
	n := newTestNormalizer(t)

	stmt := n.Statement(&syntax.IfCase{
		Base:    syntax.At(0, 30, "if (x case final v) use(v);"),
		Value:   ident("x"),
		Pattern: &syntax.VariablePattern{Base: syntax.At(11, 7, "final v"), Name: "v"},
		Then:    &syntax.ExprStmt{Base: syntax.At(20, 7, "use(v);"), Expr: ident("v")},
	})
	ic, ok := stmt.(*ir.IfCase)
	if !ok {
		t.Fatalf("Statement produced %T, want *ir.IfCase", stmt)
	}
	pat, ok := ic.Pattern.(*ir.PatternIR)
	if !ok {
		t.Fatalf("Pattern lowered to %T, want *ir.PatternIR", ic.Pattern)
	}
	if pat.PatKind != ir.PatternVariable || pat.Name != "v" {
		t.Errorf("pattern lowered as %+v", pat)
	}
	if len(pat.BoundVars) != 1 || pat.BoundVars[0] != "v" {
		t.Errorf("BoundVars = %v, want [v]", pat.BoundVars)
	}
}

// =============================================================================
// Totality and determinism
// =============================================================================

func TestNormalizer_Determinism(t *testing.T) {
	tree := &syntax.ConstructorCall{
		Base:     syntax.At(0, 16, "Box(child: a)"),
		TypeName: "Box",
		Named: []syntax.NamedArgument{
			{Name: "child", Value: &syntax.Conditional{
				Base:      syntax.At(4, 11, "f ? a : b"),
				Condition: ident("f"),
				Then:      ident("a"),
				Else:      ident("b"),
			}},
		},
	}

	first := newTestNormalizer(t).Expression(tree)
	second := newTestNormalizer(t).Expression(tree)
	if !reflect.DeepEqual(first, second) {
		t.Error("normalizing the same tree twice with fresh instances produced different IR")
	}
}

func TestNormalizer_NilInputsDoNotPanic(t *testing.T) {
	n := newTestNormalizer(t)

	if _, ok := n.Expression(nil).(*ir.Unknown); !ok {
		t.Error("nil expression did not produce an unknown node")
	}
	if _, ok := n.Statement(nil).(*ir.UnknownStmt); !ok {
		t.Error("nil statement did not produce an unknown statement")
	}
}
