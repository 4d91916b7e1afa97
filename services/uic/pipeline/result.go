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
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/williwaw/services/uic/component"
	"github.com/AleutianAI/williwaw/services/uic/detect"
	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/source"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// FileSchemaVersion is the version of the FileResult serialization schema.
// Increment when the serialized shape changes in a breaking way. The
// version participates in the content hash, so bumping it invalidates
// every persisted cache entry.
const FileSchemaVersion = "1.0"

// SourceFile is one parsed input file handed to the pipeline by a front
// end. The pipeline never reads the filesystem itself; front ends own I/O
// and parsing.
type SourceFile struct {
	// Path is the file path relative to the project root. Used for
	// location stamping and result identification.
	Path string

	// Content is the raw source bytes. Must be valid UTF-8.
	Content []byte

	// Decls is the semantic declaration view of the file, for widget
	// classification.
	Decls []syntax.Declaration

	// Units are the function bodies to normalize and extract, one per
	// build-capable declaration.
	Units []BuildUnit
}

// BuildUnit ties a declaration to the function body that renders its UI.
type BuildUnit struct {
	// Name identifies the unit in results, typically the declaration name
	// or "Class.method".
	Name string

	// Decl is the owning declaration, used for widget classification.
	// May be nil for top-level expressions with no declaration.
	Decl syntax.Declaration

	// Body is the function body to normalize.
	Body syntax.FunctionBody
}

// DeclResult is the per-unit output: the normalized body and, for
// widget-producing declarations, the extracted component tree.
type DeclResult struct {
	Name           string `json:"name"`
	ProducesWidget bool   `json:"producesWidget"`

	// Body is the normalized statement sequence of the unit's body.
	Body []ir.Statement `json:"body"`

	// Tree is the extracted component tree. Nil when the declaration does
	// not produce a widget or its body has no widget expression.
	Tree component.Component `json:"tree,omitempty"`
}

// Warning is one lost-fidelity node observed in a file's output.
type Warning struct {
	// Kind is "unsupported", "fallback", or "unknown".
	Kind string `json:"kind"`

	Location source.Location `json:"location"`

	// Detail carries the reason recorded on the node, when present.
	Detail string `json:"detail,omitempty"`
}

// WarningSummary counts the lost-fidelity nodes in a file's output. The
// CLI report prints these counts and locations.
type WarningSummary struct {
	Unsupported int `json:"unsupported"`
	Fallback    int `json:"fallback"`
	Unknown     int `json:"unknown"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// Total returns the combined degraded-node count.
func (s *WarningSummary) Total() int {
	return s.Unsupported + s.Fallback + s.Unknown
}

// FileResult is the complete output of one file extraction.
//
// Description:
//
//	Units are sorted by name for deterministic output, enabling reliable
//	diffing and content-addressed caching of the serialized form.
//
// Thread Safety: Immutable after ExtractFile returns.
type FileResult struct {
	// SchemaVersion identifies the serialization format version.
	SchemaVersion string `json:"schema_version"`

	// RunID is the pipeline run that produced this result. Empty for
	// standalone ExtractFile calls.
	RunID string `json:"run_id,omitempty"`

	// File is the input file path.
	File string `json:"file"`

	// ContentHash is the deterministic hash of the extraction inputs.
	ContentHash string `json:"content_hash"`

	// ParsedAtMilli is the Unix timestamp in milliseconds when extraction
	// started.
	ParsedAtMilli int64 `json:"parsed_at_milli"`

	// DurationMilli is how long extraction took, in milliseconds.
	DurationMilli int64 `json:"duration_milli"`

	// Units contains one result per build unit, sorted by name.
	Units []DeclResult `json:"units"`

	// Summary counts the lost-fidelity nodes across all units.
	Summary WarningSummary `json:"summary"`

	// DetectorStats snapshots the detector registry counters for the run.
	DetectorStats detect.Stats `json:"detector_stats"`
}

// Marshal serializes the result as indented JSON. Output is
// deterministic: units are pre-sorted and map keys serialize in sorted
// order.
func (r *FileResult) Marshal() ([]byte, error) {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal file result for %s: %w", r.File, err)
	}
	return raw, nil
}

// FileOutput is one file's slot in a RunResult: either a freshly
// serialized result or a payload replayed from the persistent cache.
type FileOutput struct {
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`

	// FromCache is true when Payload was replayed from the result store
	// without re-extraction.
	FromCache bool `json:"from_cache"`

	// Payload is the serialized FileResult. Nil when Error is set.
	Payload json.RawMessage `json:"result,omitempty"`

	// Error is the failure message for files that could not be processed.
	// Individual file failures do not abort the run.
	Error string `json:"error,omitempty"`
}

// RunResult is the output of a multi-file pipeline run. Files appear in
// input order regardless of completion order.
type RunResult struct {
	RunID          string       `json:"run_id"`
	StartedAtMilli int64        `json:"started_at_milli"`
	DurationMilli  int64        `json:"duration_milli"`
	Files          []FileOutput `json:"files"`
}
