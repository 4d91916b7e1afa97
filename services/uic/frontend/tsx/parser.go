// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tsx lowers React-flavored TSX sources into the closed syntax
// node set so the extraction pipeline can treat JSX components the same
// way it treats native widget declarations.
//
// The lowering is deliberately lossy: JSX elements become constructor
// calls (attributes as named arguments, children under a "child" or
// "children" argument), and any construct without a syntax-node mapping
// degrades to an Unrecognized node rather than failing the parse.
package tsx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/williwaw/services/uic/pipeline"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

const (
	tracerName = "williwaw.frontend.tsx"

	// maxLowerDepth bounds recursion while lowering deeply nested trees.
	maxLowerDepth = 200
)

var parsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "williwaw",
		Subsystem: "frontend",
		Name:      "tsx_parses_total",
		Help:      "TSX parse attempts by status.",
	},
	[]string{"status"},
)

// ParserOption configures a Parser instance.
type ParserOption func(*Parser)

// WithMaxFileSize sets the maximum file size the parser will accept.
func WithMaxFileSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithWidgetType sets the type name reported as the return type of
// components whose bodies produce JSX. It should match the root widget
// type of the rule set the pipeline runs with.
func WithWidgetType(name string) ParserOption {
	return func(p *Parser) {
		if name != "" {
			p.widgetType = name
		}
	}
}

// WithLogger sets the logger for parse diagnostics.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser lowers TSX source files into pipeline inputs.
//
// Description:
//
//	Parser uses tree-sitter with the TSX grammar. Each Parse call creates
//	its own tree-sitter parser instance internally, so a single Parser is
//	safe for concurrent use.
//
// Thread Safety:
//
//	Parser instances are safe for concurrent use.
type Parser struct {
	maxFileSize int64
	widgetType  string
	logger      *slog.Logger
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		maxFileSize: pipeline.DefaultMaxFileSize,
		widgetType:  "Widget",
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse lowers TSX source code into a pipeline source file.
//
// Description:
//
//	Parse finds every top-level component (a function declaration or an
//	arrow function bound by a lexical declaration, with a capitalized
//	name) and lowers its body into syntax nodes. Export wrappers are
//	looked through. The parse is error-tolerant: syntactically invalid
//	regions degrade to Unrecognized nodes.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//     Tree-sitter parsing itself cannot be interrupted mid-parse.
//   - path: File path for reporting. Forward slashes.
//   - content: Raw TSX source bytes. Must be valid UTF-8.
//
// Outputs:
//   - *pipeline.SourceFile: Declarations and build units. Never nil on
//     success.
//   - error: pipeline.ErrFileTooLarge, pipeline.ErrInvalidContent, a
//     context error, or a wrapped tree-sitter failure.
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*pipeline.SourceFile, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "tsx.Parse",
		oteltrace.WithAttributes(
			attribute.String("file", path),
			attribute.Int("bytes", len(content)),
		))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > p.maxFileSize {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", pipeline.ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: content is not valid UTF-8", pipeline.ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	file := &pipeline.SourceFile{
		Path:    path,
		Content: content,
	}

	root := tree.RootNode()
	if root == nil {
		parsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tree-sitter returned nil root node for %s", path)
	}
	if root.HasError() {
		p.logger.Warn("tsx: source contains syntax errors",
			slog.String("file", path))
	}

	l := &lowerer{content: content, logger: p.logger, file: path}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		p.collectComponent(l, root.NamedChild(i), file)
	}

	parsesTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("unit_count", len(file.Units)))
	p.logger.Debug("tsx: file lowered",
		slog.String("file", path),
		slog.Int("unit_count", len(file.Units)),
		slog.Duration("duration", time.Since(start)))
	return file, nil
}

// collectComponent turns a top-level declaration into a build unit when
// it names a component. Export statements are unwrapped first.
func (p *Parser) collectComponent(l *lowerer, node *sitter.Node, file *pipeline.SourceFile) {
	switch node.Type() {
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			p.collectComponent(l, decl, file)
		}
	case "function_declaration":
		name := l.text(node.ChildByFieldName("name"))
		body := node.ChildByFieldName("body")
		if !isComponentName(name) || body == nil {
			return
		}
		p.addUnit(l, file, name, node, body, false)
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			declarator := node.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := l.text(declarator.ChildByFieldName("name"))
			value := declarator.ChildByFieldName("value")
			if !isComponentName(name) || value == nil || value.Type() != "arrow_function" {
				continue
			}
			body := value.ChildByFieldName("body")
			if body == nil {
				continue
			}
			p.addUnit(l, file, name, value, body, body.Type() != "statement_block")
		}
	}
}

func (p *Parser) addUnit(l *lowerer, file *pipeline.SourceFile, name string, fn, body *sitter.Node, arrow bool) {
	decl := &syntax.FunctionElement{Name: name}
	if containsJSX(fn) {
		decl.ReturnType = &syntax.TypeRef{Name: p.widgetType}
	}

	var fnBody syntax.FunctionBody
	if arrow {
		fnBody = syntax.FunctionBody{IsArrow: true, Expr: l.expr(body, 0)}
	} else {
		fnBody = syntax.FunctionBody{Block: l.blockStmt(body, 0)}
	}

	file.Decls = append(file.Decls, decl)
	file.Units = append(file.Units, pipeline.BuildUnit{
		Name: name,
		Decl: decl,
		Body: fnBody,
	})
}

// isComponentName reports whether a binding name follows the component
// convention of an initial capital letter.
func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// containsJSX scans a subtree for any JSX node. The scan is iterative
// and bounded so a pathological tree cannot pin the parser.
func containsJSX(root *sitter.Node) bool {
	const maxScanNodes = 100000

	stack := []*sitter.Node{root}
	visited := 0
	for len(stack) > 0 && visited < maxScanNodes {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		switch node.Type() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			return true
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			stack = append(stack, node.NamedChild(i))
		}
	}
	return false
}

// snippet returns a capped source excerpt for node spans.
func snippet(text string) string {
	const maxLen = 80
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return strings.TrimRight(text[:cut], " \t\n")
}
