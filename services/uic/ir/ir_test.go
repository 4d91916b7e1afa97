// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ir

import "testing"

// =============================================================================
// Operator Mapping Tests
// =============================================================================

func TestBinaryOpFromLexeme(t *testing.T) {
	cases := map[string]BinaryOp{
		"+":   BinaryAdd,
		"~/":  BinaryIntegerDivide,
		"??":  BinaryIfNull,
		">>>": BinaryShiftRightUnsigned,
		"==":  BinaryEqual,
	}
	for lexeme, want := range cases {
		if got := BinaryOpFromLexeme(lexeme); got != want {
			t.Errorf("BinaryOpFromLexeme(%q) = %v, want %v", lexeme, got, want)
		}
	}
	if got := BinaryOpFromLexeme("<=>"); got != BinaryUnknown {
		t.Errorf("expected BinaryUnknown for unmapped lexeme, got %v", got)
	}
}

func TestUnaryOpFromLexeme_BangIsPositionDependent(t *testing.T) {
	if got := UnaryOpFromLexeme("!", true); got != UnaryNot {
		t.Errorf("prefix ! should be not, got %v", got)
	}
	if got := UnaryOpFromLexeme("!", false); got != UnaryNullAssert {
		t.Errorf("postfix ! should be nullAssert, got %v", got)
	}
}

func TestAssignOpFromLexeme(t *testing.T) {
	if got := AssignOpFromLexeme("??="); got != AssignIfNull {
		t.Errorf("expected AssignIfNull, got %v", got)
	}
	if got := AssignOpFromLexeme("==="); got != AssignUnknown {
		t.Errorf("expected AssignUnknown, got %v", got)
	}
}

// =============================================================================
// NodeInfo Tests
// =============================================================================

func TestNodeInfo_WithMeta_DoesNotMutateReceiver(t *testing.T) {
	base := NodeInfo{ID: "e_1"}

	annotated := base.WithMeta("resolved", true)
	if base.Meta != nil {
		t.Errorf("receiver meta mutated: %v", base.Meta)
	}
	if got, ok := annotated.Meta["resolved"]; !ok || got != true {
		t.Errorf("annotation missing: %v", annotated.Meta)
	}

	// A second update must not leak into the first copy.
	second := annotated.WithMeta("pass", "typecheck")
	if _, ok := annotated.Meta["pass"]; ok {
		t.Error("first copy gained annotation from second update")
	}
	if len(second.Meta) != 2 {
		t.Errorf("expected 2 annotations, got %d", len(second.Meta))
	}
}

// =============================================================================
// IDGenerator Tests
// =============================================================================

func TestIDGenerator_Sequential(t *testing.T) {
	g := NewIDGenerator("expr")

	if got := g.Next(); got != "expr_1" {
		t.Errorf("expected expr_1, got %q", got)
	}
	if got := g.Next(); got != "expr_2" {
		t.Errorf("expected expr_2, got %q", got)
	}
	if g.Count() != 2 {
		t.Errorf("expected count 2, got %d", g.Count())
	}
}

func TestIDGenerator_EmptyPrefixDefaults(t *testing.T) {
	g := NewIDGenerator("")
	if got := g.Next(); got != "ir_1" {
		t.Errorf("expected ir_1, got %q", got)
	}
}
