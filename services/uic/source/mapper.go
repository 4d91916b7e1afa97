// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source maps byte offsets in a source buffer to line/column
// locations. Every IR node and component produced by the extraction
// pipeline is stamped with a Location computed here.
package source

import (
	"fmt"
	"sort"
)

// Location identifies a span of source text.
//
// Description:
//
//	Line and Column are 1-based. Offset and Length are byte-based and refer
//	to the original buffer the Mapper was built from.
//
// Thread Safety: Location is a value type with no internal state.
type Location struct {
	// File is the path of the source file, relative to the project root.
	File string `json:"file"`

	// Line is the 1-based line number.
	Line int `json:"line"`

	// Column is the 1-based column number within the line.
	Column int `json:"column"`

	// Offset is the byte offset of the span start.
	Offset int `json:"offset"`

	// Length is the byte length of the span.
	Length int `json:"length"`
}

// String renders the location as "file:line:col" for log and report output.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Mapper converts byte offsets in one source buffer to Locations.
//
// Description:
//
//	The Mapper indexes the positions of line breaks once at construction,
//	so each Locate call is an O(log n) binary search rather than a rescan
//	of the buffer. The observable behavior is identical to a linear scan.
//
//	Offsets beyond the end of the buffer clamp to the final position; a
//	Mapper never fails.
//
// Thread Safety:
//
//	Mapper is immutable after construction and safe for concurrent use.
type Mapper struct {
	file string
	size int

	// lineStarts[i] is the byte offset of the first byte of line i+1.
	// lineStarts[0] is always 0.
	lineStarts []int
}

// NewMapper builds a Mapper over the given buffer.
//
// Description:
//
//	The buffer is scanned once for line breaks ('\n'). A "\r\n" pair counts
//	as a single break. The buffer itself is not retained.
//
// Inputs:
//   - file: Source file path used to stamp Locations.
//   - content: Raw source bytes. May be empty.
//
// Outputs:
//   - *Mapper: Ready-to-use mapper. Never nil.
//
// Thread Safety:
//
//	The returned Mapper is safe for concurrent use.
func NewMapper(file string, content []byte) *Mapper {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Mapper{file: file, size: len(content), lineStarts: starts}
}

// File returns the source file path the Mapper stamps on Locations.
func (m *Mapper) File() string {
	return m.file
}

// Locate converts a byte offset and length to a Location.
//
// Description:
//
//	Line and Column are 1-based. An offset past the end of the buffer is
//	clamped to the end; a negative offset is clamped to zero. A negative
//	length is clamped to zero. Locate never fails.
//
// Inputs:
//   - offset: Byte offset of the span start.
//   - length: Byte length of the span.
//
// Outputs:
//   - Location: The resolved location. Always well-formed.
//
// Thread Safety: Safe for concurrent use.
func (m *Mapper) Locate(offset, length int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > m.size {
		offset = m.size
	}
	if length < 0 {
		length = 0
	}
	if offset+length > m.size {
		length = m.size - offset
	}

	// Find the last line start <= offset.
	line := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	})
	// line is now the count of line starts at or before offset; the line
	// number is exactly that count, and the column is the distance from
	// that line's start.
	col := offset - m.lineStarts[line-1] + 1

	return Location{
		File:   m.file,
		Line:   line,
		Column: col,
		Offset: offset,
		Length: length,
	}
}
