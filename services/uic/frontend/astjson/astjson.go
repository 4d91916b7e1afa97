// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package astjson decodes the versioned JSON AST interchange format into
// the closed syntax node set.
//
// The native widget-language parser runs as a separate service and emits
// one JSON document per file: the source text, the semantic declaration
// view, and the syntax tree of every function body. This package is the
// only place that format is interpreted; everything downstream consumes
// syntax nodes.
//
// A node kind with no mapping decodes to syntax.Unrecognized rather than
// failing the document, so a newer producer degrades gracefully instead
// of breaking extraction.
package astjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/williwaw/services/uic/pipeline"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// AstSchemaVersion is the interchange schema version this decoder
// accepts. The producer stamps it on every document.
const AstSchemaVersion = "1.0"

var (
	// ErrSchemaVersion is returned for documents with a different schema
	// version.
	ErrSchemaVersion = errors.New("unsupported ast schema version")

	// ErrMalformedDocument is returned when the document envelope cannot
	// be decoded.
	ErrMalformedDocument = errors.New("malformed ast document")
)

// document is the JSON envelope of one parsed file.
type document struct {
	SchemaVersion string    `json:"schema_version"`
	File          string    `json:"file"`
	Source        string    `json:"source"`
	Declarations  []rawDecl `json:"declarations"`
}

// Decoder lowers AST interchange documents into pipeline inputs.
//
// Description:
//
//	Decoding runs in two passes. The first pass builds every declaration
//	and syntax node; the second links type references and constructor
//	calls to the classes declared in the same document, so the resolver
//	can walk supertype chains without a global symbol table.
//
// Thread Safety: A Decoder is single-use per document and not safe for
// concurrent use. Create one per Decode call via the package function.
type Decoder struct {
	logger *slog.Logger

	classes  map[string]*syntax.ClassElement
	typeRefs []*syntax.TypeRef
	ctorCalls []*syntax.ConstructorCall
	redirects []pendingRedirect

	// warnings collects non-fatal decode problems (unknown node kinds,
	// unresolvable redirects).
	warnings []string
}

type pendingRedirect struct {
	ctor    *syntax.ConstructorElement
	class   string
	variant string
}

// Decode lowers one AST interchange document into a pipeline SourceFile.
//
// Inputs:
//   - data: The JSON document bytes.
//   - logger: Logger for decode diagnostics. May be nil.
//
// Outputs:
//   - *pipeline.SourceFile: The decoded file with declarations and build
//     units. Never nil on success.
//   - error: ErrSchemaVersion, ErrMalformedDocument, or a wrapped decode
//     error.
func Decode(data []byte, logger *slog.Logger) (*pipeline.SourceFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.SchemaVersion != AstSchemaVersion {
		return nil, fmt.Errorf("%w: %q (expected %q)", ErrSchemaVersion, doc.SchemaVersion, AstSchemaVersion)
	}

	d := &Decoder{
		logger:  logger,
		classes: make(map[string]*syntax.ClassElement),
	}

	file := &pipeline.SourceFile{
		Path:    doc.File,
		Content: []byte(doc.Source),
	}

	for i := range doc.Declarations {
		decl, units := d.declaration(&doc.Declarations[i])
		if decl != nil {
			file.Decls = append(file.Decls, decl)
		}
		file.Units = append(file.Units, units...)
	}

	d.link()

	if len(d.warnings) > 0 {
		logger.Warn("astjson: document decoded with warnings",
			slog.String("file", doc.File),
			slog.Int("warning_count", len(d.warnings)),
		)
	}
	logger.Debug("astjson: document decoded",
		slog.String("file", doc.File),
		slog.Int("decl_count", len(file.Decls)),
		slog.Int("unit_count", len(file.Units)),
	)
	return file, nil
}

// link resolves same-document references: type refs to class elements,
// constructor calls to their classes, and redirecting factory targets.
func (d *Decoder) link() {
	for _, ref := range d.typeRefs {
		if ref.Class == nil && !ref.IsTypeParameter {
			ref.Class = d.classes[ref.Name]
		}
	}
	for _, call := range d.ctorCalls {
		if call.Class == nil {
			call.Class = d.classes[call.TypeName]
		}
	}
	for _, r := range d.redirects {
		class, ok := d.classes[r.class]
		if !ok {
			d.warnf("redirect target class %q not declared", r.class)
			continue
		}
		for _, ctor := range class.Constructors {
			if ctor.Name == r.variant {
				r.ctor.Redirect = ctor
				break
			}
		}
		if r.ctor.Redirect == nil {
			d.warnf("redirect target %s.%s not declared", r.class, r.variant)
		}
	}
}

func (d *Decoder) warnf(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}
