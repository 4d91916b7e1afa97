// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/AleutianAI/williwaw/services/uic/component"
	"github.com/AleutianAI/williwaw/services/uic/store"
	badgerstore "github.com/AleutianAI/williwaw/services/uic/store/badger"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

func ctorCall(offset int, typeName string, named ...syntax.NamedArgument) *syntax.ConstructorCall {
	return &syntax.ConstructorCall{
		Base:     syntax.At(offset, len(typeName)+2, typeName+"()"),
		TypeName: typeName,
		Named:    named,
	}
}

func arrowBody(expr syntax.Expression) syntax.FunctionBody {
	return syntax.FunctionBody{IsArrow: true, Expr: expr}
}

func blockBody(stmts ...syntax.Statement) syntax.FunctionBody {
	return syntax.FunctionBody{Block: &syntax.Block{Statements: stmts}}
}

// widgetFn is a top-level function declared to return the root widget
// type, so the resolver classifies it as widget-producing.
func widgetFn(name string) *syntax.FunctionElement {
	return &syntax.FunctionElement{
		Name:       name,
		ReturnType: &syntax.TypeRef{Name: "Widget"},
	}
}

func plainFn(name string) *syntax.FunctionElement {
	return &syntax.FunctionElement{
		Name:       name,
		ReturnType: &syntax.TypeRef{Name: "int"},
	}
}

func testFile(path string) *SourceFile {
	root := ctorCall(0, "Container",
		syntax.NamedArgument{Name: "child", Value: ctorCall(12, "Text")},
	)
	return &SourceFile{
		Path:    path,
		Content: []byte("Widget home() => Container(child: Text());\nint count() => 0;\n"),
		Units: []BuildUnit{
			{Name: "home", Decl: widgetFn("home"), Body: arrowBody(root)},
			{Name: "count", Decl: plainFn("count"), Body: arrowBody(&syntax.IntLiteral{Base: syntax.At(58, 1, "0"), Value: 0})},
		},
	}
}

// =============================================================================
// ExtractFile
// =============================================================================

func TestPipeline_ExtractFile(t *testing.T) {
	p := New(nil)

	result, err := p.ExtractFile(context.Background(), testFile("lib/home.ui"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.SchemaVersion != FileSchemaVersion {
		t.Errorf("schema version: got %q, want %q", result.SchemaVersion, FileSchemaVersion)
	}
	if result.File != "lib/home.ui" {
		t.Errorf("file: got %q", result.File)
	}
	if len(result.ContentHash) != 64 {
		t.Errorf("content hash: got %d chars, want 64", len(result.ContentHash))
	}
	if len(result.Units) != 2 {
		t.Fatalf("units: got %d, want 2", len(result.Units))
	}

	// Units are sorted by name: count before home.
	if result.Units[0].Name != "count" || result.Units[1].Name != "home" {
		t.Errorf("unit order: got [%s, %s]", result.Units[0].Name, result.Units[1].Name)
	}

	count := result.Units[0]
	if count.ProducesWidget {
		t.Error("count should not be classified as widget-producing")
	}
	if count.Tree != nil {
		t.Error("non-widget unit should have no component tree")
	}
	if len(count.Body) != 1 {
		t.Errorf("count body: got %d statements, want 1", len(count.Body))
	}

	home := result.Units[1]
	if !home.ProducesWidget {
		t.Fatal("home should be classified as widget-producing")
	}
	w, ok := home.Tree.(*component.Widget)
	if !ok {
		t.Fatalf("home tree: got %T, want *component.Widget", home.Tree)
	}
	if w.WidgetName != "Container" {
		t.Errorf("root widget: got %q, want Container", w.WidgetName)
	}
	if len(w.Children) != 1 {
		t.Fatalf("root children: got %d, want 1", len(w.Children))
	}
}

func TestPipeline_ExtractFile_Validation(t *testing.T) {
	ctx := context.Background()

	p := New(nil, WithMaxFileSize(8))
	_, err := p.ExtractFile(ctx, &SourceFile{Path: "big.ui", Content: []byte("0123456789")})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized file: got %v, want ErrFileTooLarge", err)
	}

	p = New(nil)
	_, err = p.ExtractFile(ctx, &SourceFile{Path: "bad.ui", Content: []byte{0xff, 0xfe, 0xfd}})
	if !errors.Is(err, ErrInvalidContent) {
		t.Errorf("invalid UTF-8: got %v, want ErrInvalidContent", err)
	}

	if _, err := p.ExtractFile(ctx, nil); err == nil {
		t.Error("nil file should error")
	}
}

func TestPipeline_ExtractFile_SummaryCountsDegradedNodes(t *testing.T) {
	p := New(nil)

	bad := &syntax.Unrecognized{Base: syntax.At(0, 3, "???"), Reason: "unmapped node"}
	file := &SourceFile{
		Path:    "lib/broken.ui",
		Content: []byte("???"),
		Units: []BuildUnit{
			{Name: "build", Decl: widgetFn("build"), Body: arrowBody(bad)},
		},
	}

	result, err := p.ExtractFile(context.Background(), file)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// The arrow body normalizes to a return of an Unknown expression and
	// the component tree degrades to Unsupported.
	if result.Summary.Unknown == 0 {
		t.Error("expected unknown IR nodes in summary")
	}
	if result.Summary.Unsupported == 0 {
		t.Error("expected unsupported component nodes in summary")
	}
	if got := result.Summary.Total(); got != len(result.Summary.Warnings) {
		t.Errorf("warning list length %d does not match total %d", len(result.Summary.Warnings), got)
	}
	for _, w := range result.Summary.Warnings {
		if w.Location.File != "lib/broken.ui" {
			t.Errorf("warning location file: got %q", w.Location.File)
		}
	}
}

func TestPipeline_ExtractFile_Deterministic(t *testing.T) {
	ctx := context.Background()

	a, err := New(nil).ExtractFile(ctx, testFile("lib/home.ui"))
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	b, err := New(nil).ExtractFile(ctx, testFile("lib/home.ui"))
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}

	if !reflect.DeepEqual(a.Units, b.Units) {
		t.Error("unit output differs between identical runs")
	}
	if a.ContentHash != b.ContentHash {
		t.Errorf("content hash differs: %s vs %s", a.ContentHash, b.ContentHash)
	}
}

// =============================================================================
// Root expression discovery
// =============================================================================

func TestRootExpression_FindsNestedReturn(t *testing.T) {
	root := ctorCall(0, "Scaffold")
	body := blockBody(
		&syntax.VarDecl{Keyword: "final", Name: "x", Init: &syntax.IntLiteral{Value: 1}},
		&syntax.If{
			Condition: &syntax.Identifier{Name: "loading"},
			Then: &syntax.Block{Statements: []syntax.Statement{
				&syntax.Return{Value: root},
			}},
		},
	)

	if got := rootExpression(body); got != syntax.Expression(root) {
		t.Errorf("root expression: got %v, want the nested return value", got)
	}

	if got := rootExpression(blockBody()); got != nil {
		t.Errorf("empty block: got %v, want nil", got)
	}
}

// =============================================================================
// Run
// =============================================================================

func TestPipeline_Run(t *testing.T) {
	p := New(nil, WithConcurrency(2))

	files := []*SourceFile{
		testFile("lib/a.ui"),
		testFile("lib/b.ui"),
		{Path: "lib/bad.ui", Content: []byte{0xff}},
	}
	// Distinct content so the files hash differently.
	files[1].Content = append([]byte{}, files[1].Content...)
	files[1].Content = append(files[1].Content, '\n')

	result, err := p.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID == "" {
		t.Error("run id should be set")
	}
	if len(result.Files) != 3 {
		t.Fatalf("files: got %d, want 3", len(result.Files))
	}

	// Outputs stay in input order.
	if result.Files[0].Path != "lib/a.ui" || result.Files[1].Path != "lib/b.ui" {
		t.Errorf("output order: got [%s, %s]", result.Files[0].Path, result.Files[1].Path)
	}
	if result.Files[0].ContentHash == result.Files[1].ContentHash {
		t.Error("distinct content should hash differently")
	}

	for _, out := range result.Files[:2] {
		if out.Error != "" {
			t.Errorf("%s: unexpected error %q", out.Path, out.Error)
		}
		if !json.Valid(out.Payload) {
			t.Errorf("%s: payload is not valid JSON", out.Path)
		}
		var decoded struct {
			RunID string `json:"run_id"`
		}
		if err := json.Unmarshal(out.Payload, &decoded); err != nil {
			t.Fatalf("%s: decode payload: %v", out.Path, err)
		}
		if decoded.RunID != result.RunID {
			t.Errorf("%s: payload run id %q, want %q", out.Path, decoded.RunID, result.RunID)
		}
	}

	// The invalid file fails in place without aborting the run.
	if result.Files[2].Error == "" {
		t.Error("invalid file should record an error")
	}
	if result.Files[2].Payload != nil {
		t.Error("failed file should have no payload")
	}
}

func TestPipeline_Run_ReplaysFromStore(t *testing.T) {
	db, err := badgerstore.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	cache := store.NewBadgerResultCacheStore(db, 0, nil)

	p := New(nil, WithStore(cache))
	ctx := context.Background()
	files := []*SourceFile{testFile("lib/home.ui")}

	first, err := p.Run(ctx, files)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Files[0].FromCache {
		t.Fatal("first run should extract fresh")
	}

	second, err := p.Run(ctx, files)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Files[0].FromCache {
		t.Fatal("second run should replay from the store")
	}
	if string(second.Files[0].Payload) != string(first.Files[0].Payload) {
		t.Error("replayed payload differs from the original")
	}
}
