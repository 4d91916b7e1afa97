// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ir defines the intermediate representation the normalizer lowers
// syntax trees into: a closed, immutable, tagged-variant tree of statements
// and expressions with provenance and open metadata.
//
// IR nodes are created during a single top-to-bottom traversal of one
// source file. Ownership passes entirely to the caller once the top-level
// declaration that owns them is emitted; the normalizer never touches them
// again. Mutation is expressed as functional update: construct a new node
// copying unchanged fields (see NodeInfo.WithMeta).
package ir

import (
	"fmt"

	"github.com/AleutianAI/williwaw/services/uic/source"
)

// NodeInfo is the common header every IR node carries.
//
// Description:
//
//	ID is generator-assigned and unique within one file-extraction run.
//	Meta is an open annotation map for later passes; treat NodeInfo as
//	immutable and use WithMeta for updates.
//
// Thread Safety: Immutable by convention; safe to share once constructed.
type NodeInfo struct {
	// ID uniquely identifies the node within one file run.
	ID string `json:"id"`

	// Location is the source provenance of the node.
	Location source.Location `json:"location"`

	// Code is the raw source text the node was extracted from.
	Code string `json:"code,omitempty"`

	// Meta holds annotations added by later passes. Nil until annotated.
	Meta map[string]any `json:"meta,omitempty"`
}

// WithMeta returns a copy of the info with one annotation added. The
// receiver is not modified; existing annotations are carried over.
func (n NodeInfo) WithMeta(key string, value any) NodeInfo {
	meta := make(map[string]any, len(n.Meta)+1)
	for k, v := range n.Meta {
		meta[k] = v
	}
	meta[key] = value
	n.Meta = meta
	return n
}

// Node is implemented by every IR node.
type Node interface {
	// Info returns the node's common header.
	Info() NodeInfo

	irNode()
}

// Expression is an IR expression node.
type Expression interface {
	Node
	irExpression()
}

// Statement is an IR statement node.
type Statement interface {
	Node
	irStatement()
}

// IDGenerator assigns node IDs for one file-extraction run.
//
// Description:
//
//	IDs are the prefix plus a monotonically increasing counter, so runs
//	over the same tree produce structurally equal IR. The generator carries
//	file-scoped state and must not be shared across concurrently processed
//	files; allocate one per file.
//
// Thread Safety: NOT safe for concurrent use.
type IDGenerator struct {
	prefix string
	next   int
}

// NewIDGenerator creates a generator producing "<prefix>_<n>" IDs.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "ir"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next unique ID.
func (g *IDGenerator) Next() string {
	g.next++
	return fmt.Sprintf("%s_%d", g.prefix, g.next)
}

// Count returns how many IDs have been issued.
func (g *IDGenerator) Count() int {
	return g.next
}
