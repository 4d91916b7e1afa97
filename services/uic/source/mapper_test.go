// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import "testing"

// =============================================================================
// Locate Tests
// =============================================================================

func TestMapper_Locate_FirstLine(t *testing.T) {
	m := NewMapper("app.wlw", []byte("hello world\nsecond line\n"))

	loc := m.Locate(0, 5)
	if loc.Line != 1 || loc.Column != 1 {
		t.Errorf("expected 1:1, got %d:%d", loc.Line, loc.Column)
	}
	if loc.Length != 5 {
		t.Errorf("expected length 5, got %d", loc.Length)
	}

	loc = m.Locate(6, 5)
	if loc.Line != 1 || loc.Column != 7 {
		t.Errorf("expected 1:7, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_SecondLine(t *testing.T) {
	m := NewMapper("app.wlw", []byte("hello world\nsecond line\n"))

	loc := m.Locate(12, 6)
	if loc.Line != 2 || loc.Column != 1 {
		t.Errorf("expected 2:1, got %d:%d", loc.Line, loc.Column)
	}

	loc = m.Locate(19, 4)
	if loc.Line != 2 || loc.Column != 8 {
		t.Errorf("expected 2:8, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_OffsetOnNewline(t *testing.T) {
	m := NewMapper("app.wlw", []byte("ab\ncd"))

	// The newline byte itself still belongs to line 1.
	loc := m.Locate(2, 1)
	if loc.Line != 1 || loc.Column != 3 {
		t.Errorf("expected 1:3, got %d:%d", loc.Line, loc.Column)
	}

	// The byte after the newline starts line 2.
	loc = m.Locate(3, 1)
	if loc.Line != 2 || loc.Column != 1 {
		t.Errorf("expected 2:1, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_ClampsPastEnd(t *testing.T) {
	m := NewMapper("app.wlw", []byte("ab\ncd"))

	loc := m.Locate(999, 10)
	if loc.Offset != 5 {
		t.Errorf("expected offset clamped to 5, got %d", loc.Offset)
	}
	if loc.Length != 0 {
		t.Errorf("expected length clamped to 0, got %d", loc.Length)
	}
	if loc.Line != 2 || loc.Column != 3 {
		t.Errorf("expected 2:3 at end of buffer, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_NegativeInputs(t *testing.T) {
	m := NewMapper("app.wlw", []byte("abc"))

	loc := m.Locate(-5, -5)
	if loc.Offset != 0 || loc.Length != 0 {
		t.Errorf("expected clamped 0/0, got %d/%d", loc.Offset, loc.Length)
	}
	if loc.Line != 1 || loc.Column != 1 {
		t.Errorf("expected 1:1, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_EmptyBuffer(t *testing.T) {
	m := NewMapper("empty.wlw", nil)

	loc := m.Locate(0, 0)
	if loc.Line != 1 || loc.Column != 1 {
		t.Errorf("expected 1:1 for empty buffer, got %d:%d", loc.Line, loc.Column)
	}
}

func TestMapper_Locate_LengthTruncatedAtEnd(t *testing.T) {
	m := NewMapper("app.wlw", []byte("abcdef"))

	loc := m.Locate(4, 100)
	if loc.Length != 2 {
		t.Errorf("expected length truncated to 2, got %d", loc.Length)
	}
}

func TestMapper_Locate_String(t *testing.T) {
	m := NewMapper("widgets/app.wlw", []byte("x\ny"))

	got := m.Locate(2, 1).String()
	if got != "widgets/app.wlw:2:1" {
		t.Errorf("unexpected String(): %q", got)
	}
}
