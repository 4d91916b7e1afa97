// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package normalize lowers syntax trees into the uniform IR.
//
// The normalizer is total over the sealed syntax union: every node shape
// produces an IR node, and shapes with no mapping produce an explicit
// unknown node carrying the original source text. A failure while
// normalizing a nested construct substitutes an unknown node in that
// position and continues; partial failures are local, never file-wide.
package normalize

import (
	"fmt"
	"log/slog"

	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/source"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// Normalizer lowers one file's syntax nodes into IR.
//
// Description:
//
//	A Normalizer owns file-scoped state: the location mapper, the node ID
//	generator, and the warning list. Allocate one per file.
//
// Thread Safety: NOT safe for concurrent use.
type Normalizer struct {
	mapper *source.Mapper
	ids    *ir.IDGenerator
	logger *slog.Logger

	warnings []string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the normalizer logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer creates a Normalizer for one file.
//
// Inputs:
//   - mapper: Location mapper over the file's source text. Must be non-nil.
//   - ids: Node ID generator for this run. Nil allocates a fresh one.
func NewNormalizer(mapper *source.Mapper, ids *ir.IDGenerator, opts ...Option) *Normalizer {
	n := &Normalizer{
		mapper: mapper,
		ids:    ids,
		logger: slog.Default(),
	}
	if n.ids == nil {
		n.ids = ir.NewIDGenerator("ir")
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Warnings returns the warnings accumulated so far, in emission order.
func (n *Normalizer) Warnings() []string {
	return n.warnings
}

// info builds the common IR header for a syntax node.
func (n *Normalizer) info(node syntax.Node) ir.NodeInfo {
	span := node.Span()
	return ir.NodeInfo{
		ID:       n.ids.Next(),
		Location: n.mapper.Locate(span.Offset, span.Length),
		Code:     span.Text,
	}
}

// warn records a recoverable normalization problem.
func (n *Normalizer) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.warnings = append(n.warnings, msg)
	n.logger.Debug("normalize warning", slog.String("warning", msg))
}

// unknownExpr builds the expression-position fallback node.
func (n *Normalizer) unknownExpr(node syntax.Node, reason string) *ir.Unknown {
	return &ir.Unknown{NodeInfo: n.info(node), Reason: reason}
}

// unknownStmt builds the statement-position fallback node.
func (n *Normalizer) unknownStmt(node syntax.Node, reason string) *ir.UnknownStmt {
	return &ir.UnknownStmt{NodeInfo: n.info(node), Reason: reason}
}

// guardExpr runs fn and converts a panic into an unknown node for the
// given syntax node. Nested constructs are normalized through it so a
// failure stays local.
func (n *Normalizer) guardExpr(node syntax.Node, fn func() ir.Expression) (result ir.Expression) {
	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprintf("normalization failed: %v", rec)
			n.warn("%s at %s", reason, n.mapper.Locate(node.Span().Offset, node.Span().Length))
			result = n.unknownExpr(node, reason)
		}
	}()
	return fn()
}

// guardStmt is guardExpr for statement position.
func (n *Normalizer) guardStmt(node syntax.Node, fn func() ir.Statement) (result ir.Statement) {
	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprintf("normalization failed: %v", rec)
			n.warn("%s at %s", reason, n.mapper.Locate(node.Span().Offset, node.Span().Length))
			result = n.unknownStmt(node, reason)
		}
	}()
	return fn()
}
