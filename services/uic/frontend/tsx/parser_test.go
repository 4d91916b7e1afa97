// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tsx

import (
	"context"
	"errors"
	"testing"

	"github.com/AleutianAI/williwaw/services/uic/pipeline"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

func findNamed(t *testing.T, call *syntax.ConstructorCall, name string) syntax.Expression {
	t.Helper()
	for _, arg := range call.Named {
		if arg.Name == name {
			return arg.Value
		}
	}
	t.Fatalf("constructor call %s has no named argument %q", call.TypeName, name)
	return nil
}

// unwrapParen strips parenthesized wrappers around multi-line JSX returns.
func unwrapParen(e syntax.Expression) syntax.Expression {
	for {
		p, ok := e.(*syntax.Paren)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

// =============================================================================
// Validation
// =============================================================================

func TestParse_RejectsOversizedFile(t *testing.T) {
	p := NewParser(WithMaxFileSize(8))
	_, err := p.Parse(context.Background(), "big.tsx", []byte("const x = 12345678;"))
	if !errors.Is(err, pipeline.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestParse_RejectsInvalidUTF8(t *testing.T) {
	p := NewParser()
	_, err := p.Parse(context.Background(), "bad.tsx", []byte{0xff, 0xfe, 0xfd})
	if !errors.Is(err, pipeline.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewParser()
	if _, err := p.Parse(ctx, "c.tsx", []byte("const x = 1;")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

// =============================================================================
// Component discovery
// =============================================================================

const componentSrc = `
export function HomePage() {
  const title = "hello";
  return (
    <Container color="red" padded>
      <Text>{title}</Text>
      <Image src={icon} />
    </Container>
  );
}

const add = (a, b) => a + b;

export const Badge = () => <Chip label="new" />;
`

func TestParse_FindsComponents(t *testing.T) {
	p := NewParser()
	file, err := p.Parse(context.Background(), "home.tsx", []byte(componentSrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(file.Units) != 2 {
		t.Fatalf("units = %d, want 2 (lowercase bindings skipped)", len(file.Units))
	}
	if file.Units[0].Name != "HomePage" || file.Units[1].Name != "Badge" {
		t.Fatalf("unit names = %q, %q; want HomePage, Badge", file.Units[0].Name, file.Units[1].Name)
	}

	for _, unit := range file.Units {
		fn, ok := unit.Decl.(*syntax.FunctionElement)
		if !ok {
			t.Fatalf("unit %s decl is %T, want *syntax.FunctionElement", unit.Name, unit.Decl)
		}
		if fn.ReturnType == nil || fn.ReturnType.Name != "Widget" {
			t.Errorf("unit %s return type = %+v, want Widget", unit.Name, fn.ReturnType)
		}
	}
}

func TestParse_LowersJSXTree(t *testing.T) {
	p := NewParser()
	file, err := p.Parse(context.Background(), "home.tsx", []byte(componentSrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	body := file.Units[0].Body
	if body.IsArrow || body.Block == nil {
		t.Fatal("expected block body for HomePage")
	}
	if len(body.Block.Statements) != 2 {
		t.Fatalf("statements = %d, want 2", len(body.Block.Statements))
	}

	decl, ok := body.Block.Statements[0].(*syntax.VarDecl)
	if !ok || decl.Name != "title" || decl.Keyword != "const" {
		t.Fatalf("statement 0 = %+v, want const title", body.Block.Statements[0])
	}

	ret, ok := body.Block.Statements[1].(*syntax.Return)
	if !ok {
		t.Fatalf("statement 1 is %T, want *syntax.Return", body.Block.Statements[1])
	}
	container, ok := unwrapParen(ret.Value).(*syntax.ConstructorCall)
	if !ok {
		t.Fatalf("return value is %T, want *syntax.ConstructorCall", unwrapParen(ret.Value))
	}
	if container.TypeName != "Container" {
		t.Fatalf("root = %q, want Container", container.TypeName)
	}

	color, ok := findNamed(t, container, "color").(*syntax.StringLiteral)
	if !ok || color.Value != "red" {
		t.Errorf("color = %+v, want string red", findNamed(t, container, "color"))
	}
	padded, ok := findNamed(t, container, "padded").(*syntax.BoolLiteral)
	if !ok || !padded.Value {
		t.Errorf("bare attribute padded should lower to true")
	}

	children, ok := findNamed(t, container, "children").(*syntax.ListLiteral)
	if !ok {
		t.Fatalf("children = %T, want *syntax.ListLiteral", findNamed(t, container, "children"))
	}
	if len(children.Elements) != 2 {
		t.Fatalf("children = %d, want 2", len(children.Elements))
	}

	text, ok := children.Elements[0].(*syntax.ConstructorCall)
	if !ok || text.TypeName != "Text" {
		t.Fatalf("child 0 = %+v, want Text call", children.Elements[0])
	}
	if _, ok := findNamed(t, text, "child").(*syntax.Identifier); !ok {
		t.Errorf("Text child should be the title identifier")
	}

	image, ok := children.Elements[1].(*syntax.ConstructorCall)
	if !ok || image.TypeName != "Image" {
		t.Fatalf("child 1 = %+v, want Image call", children.Elements[1])
	}
	if _, ok := findNamed(t, image, "src").(*syntax.Identifier); !ok {
		t.Errorf("Image src should be the icon identifier")
	}
}

func TestParse_ArrowComponentBody(t *testing.T) {
	p := NewParser()
	file, err := p.Parse(context.Background(), "home.tsx", []byte(componentSrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	body := file.Units[1].Body
	if !body.IsArrow {
		t.Fatal("expected arrow body for Badge")
	}
	chip, ok := body.Expr.(*syntax.ConstructorCall)
	if !ok || chip.TypeName != "Chip" {
		t.Fatalf("arrow body = %+v, want Chip call", body.Expr)
	}
	label, ok := findNamed(t, chip, "label").(*syntax.StringLiteral)
	if !ok || label.Value != "new" {
		t.Errorf("label = %+v, want string new", findNamed(t, chip, "label"))
	}
}

func TestParse_HelperWithoutJSXHasNoWidgetType(t *testing.T) {
	src := `export function Formatter() { return 42; }`
	p := NewParser()
	file, err := p.Parse(context.Background(), "f.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(file.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(file.Units))
	}
	fn := file.Units[0].Decl.(*syntax.FunctionElement)
	if fn.ReturnType != nil {
		t.Errorf("return type = %+v, want nil for a JSX-free function", fn.ReturnType)
	}
}

func TestParse_UnknownConstructDegrades(t *testing.T) {
	src := `export const Page = () => {
  label: for (;;) { break label; }
  return <Box />;
};`
	p := NewParser()
	file, err := p.Parse(context.Background(), "p.tsx", []byte(src))
	if err != nil {
		t.Fatalf("unknown constructs must degrade, not fail: %v", err)
	}
	if len(file.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(file.Units))
	}

	degraded := false
	for _, stmt := range file.Units[0].Body.Block.Statements {
		if _, ok := stmt.(*syntax.Unrecognized); ok {
			degraded = true
		}
	}
	if !degraded {
		t.Error("expected an Unrecognized statement for the labeled loop")
	}
}

func TestParse_FragmentLowersToFragmentCall(t *testing.T) {
	src := `export const Pair = () => <><A /><B /></>;`
	p := NewParser()
	file, err := p.Parse(context.Background(), "pair.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	call, ok := file.Units[0].Body.Expr.(*syntax.ConstructorCall)
	if !ok || call.TypeName != "Fragment" {
		t.Fatalf("fragment = %+v, want Fragment call", file.Units[0].Body.Expr)
	}
	children, ok := findNamed(t, call, "children").(*syntax.ListLiteral)
	if !ok || len(children.Elements) != 2 {
		t.Fatalf("fragment children = %+v, want 2 elements", findNamed(t, call, "children"))
	}
}
