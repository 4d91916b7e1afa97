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
	"log/slog"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// lowerer holds the per-file state of one lowering pass.
type lowerer struct {
	content []byte
	logger  *slog.Logger
	file    string
}

func (l *lowerer) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(l.content[node.StartByte():node.EndByte()])
}

func (l *lowerer) base(node *sitter.Node) syntax.Base {
	return syntax.At(int(node.StartByte()), int(node.EndByte()-node.StartByte()), snippet(l.text(node)))
}

func (l *lowerer) unrecognized(node *sitter.Node, reason string) *syntax.Unrecognized {
	l.logger.Debug("tsx: node degraded",
		slog.String("file", l.file),
		slog.String("node_type", node.Type()),
		slog.String("reason", reason))
	return &syntax.Unrecognized{Base: l.base(node), Reason: reason}
}

// =============================================================================
// Expressions
// =============================================================================

func (l *lowerer) expr(node *sitter.Node, depth int) syntax.Expression {
	if node == nil {
		return nil
	}
	if depth > maxLowerDepth {
		return l.unrecognized(node, "nesting depth limit reached")
	}

	switch node.Type() {
	case "number":
		text := l.text(node)
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			return &syntax.IntLiteral{Base: l.base(node), Value: i}
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return &syntax.DoubleLiteral{Base: l.base(node), Value: f}
		}
		return l.unrecognized(node, "unparseable number literal")
	case "string":
		return &syntax.StringLiteral{Base: l.base(node), Value: stringValue(l.text(node))}
	case "true":
		return &syntax.BoolLiteral{Base: l.base(node), Value: true}
	case "false":
		return &syntax.BoolLiteral{Base: l.base(node), Value: false}
	case "null", "undefined":
		return &syntax.NullLiteral{Base: l.base(node)}
	case "identifier":
		return &syntax.Identifier{Base: l.base(node), Name: l.text(node)}

	case "template_string":
		return l.templateString(node, depth)

	case "member_expression":
		return &syntax.PropertyAccess{
			Base:      l.base(node),
			Target:    l.expr(node.ChildByFieldName("object"), depth+1),
			Property:  l.text(node.ChildByFieldName("property")),
			NullAware: strings.Contains(l.text(node), "?."),
		}
	case "subscript_expression":
		return &syntax.IndexAccess{
			Base:   l.base(node),
			Target: l.expr(node.ChildByFieldName("object"), depth+1),
			Index:  l.expr(node.ChildByFieldName("index"), depth+1),
		}
	case "call_expression":
		return l.callExpr(node, depth)

	case "binary_expression":
		return &syntax.Binary{
			Base:     l.base(node),
			Operator: l.text(node.ChildByFieldName("operator")),
			Left:     l.expr(node.ChildByFieldName("left"), depth+1),
			Right:    l.expr(node.ChildByFieldName("right"), depth+1),
		}
	case "unary_expression":
		return &syntax.Unary{
			Base:     l.base(node),
			Operator: l.text(node.ChildByFieldName("operator")),
			Operand:  l.expr(node.ChildByFieldName("argument"), depth+1),
			IsPrefix: true,
		}
	case "ternary_expression":
		return &syntax.Conditional{
			Base:      l.base(node),
			Condition: l.expr(node.ChildByFieldName("condition"), depth+1),
			Then:      l.expr(node.ChildByFieldName("consequence"), depth+1),
			Else:      l.expr(node.ChildByFieldName("alternative"), depth+1),
		}
	case "assignment_expression":
		return &syntax.Assignment{
			Base:     l.base(node),
			Operator: "=",
			Target:   l.expr(node.ChildByFieldName("left"), depth+1),
			Value:    l.expr(node.ChildByFieldName("right"), depth+1),
		}
	case "parenthesized_expression":
		inner := node.NamedChild(0)
		if inner == nil {
			return l.unrecognized(node, "empty parenthesized expression")
		}
		return &syntax.Paren{Base: l.base(node), Inner: l.expr(inner, depth+1)}
	case "await_expression":
		return &syntax.Await{Base: l.base(node), Operand: l.expr(node.NamedChild(0), depth+1)}
	case "non_null_expression", "as_expression", "satisfies_expression":
		// Type-level wrappers carry no runtime meaning.
		return l.expr(node.NamedChild(0), depth+1)

	case "arrow_function":
		return l.arrowFunction(node, depth)

	case "array":
		elements := make([]syntax.CollectionElement, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "spread_element" {
				elements = append(elements, &syntax.SpreadElement{
					Base:    l.base(child),
					Operand: l.expr(child.NamedChild(0), depth+1),
				})
				continue
			}
			elements = append(elements, l.expr(child, depth+1).(syntax.CollectionElement))
		}
		return &syntax.ListLiteral{Base: l.base(node), Elements: elements}

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return l.jsx(node, depth)

	default:
		return l.unrecognized(node, "no expression mapping for "+node.Type())
	}
}

func (l *lowerer) callExpr(node *sitter.Node, depth int) syntax.Expression {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")

	var positional []syntax.Expression
	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			positional = append(positional, l.expr(args.NamedChild(i), depth+1))
		}
	}

	// A call on a capitalized bare identifier is presented as a
	// constructor call so widget factories lower uniformly with JSX.
	if fn != nil && fn.Type() == "identifier" && isComponentName(l.text(fn)) {
		return &syntax.ConstructorCall{
			Base:       l.base(node),
			TypeName:   l.text(fn),
			Positional: positional,
		}
	}

	if fn != nil && fn.Type() == "member_expression" {
		return &syntax.Invocation{
			Base:       l.base(node),
			Target:     l.expr(fn.ChildByFieldName("object"), depth+1),
			Method:     l.text(fn.ChildByFieldName("property")),
			Positional: positional,
		}
	}

	return &syntax.Invocation{
		Base:       l.base(node),
		Target:     l.expr(fn, depth+1),
		Positional: positional,
	}
}

func (l *lowerer) arrowFunction(node *sitter.Node, depth int) syntax.Expression {
	var params []syntax.Param
	if ps := node.ChildByFieldName("parameters"); ps != nil {
		for i := 0; i < int(ps.NamedChildCount()); i++ {
			param := ps.NamedChild(i)
			name := param
			if inner := param.ChildByFieldName("pattern"); inner != nil {
				name = inner
			}
			params = append(params, syntax.Param{
				Name:   l.text(name),
				Origin: syntax.ParamPositional,
			})
		}
	} else if single := node.ChildByFieldName("parameter"); single != nil {
		params = append(params, syntax.Param{
			Name:   l.text(single),
			Origin: syntax.ParamPositional,
		})
	}

	body := node.ChildByFieldName("body")
	var fnBody syntax.FunctionBody
	if body != nil && body.Type() == "statement_block" {
		fnBody = syntax.FunctionBody{Block: l.blockStmt(body, depth+1)}
	} else {
		fnBody = syntax.FunctionBody{IsArrow: true, Expr: l.expr(body, depth+1)}
	}

	return &syntax.Closure{Base: l.base(node), Params: params, Body: fnBody}
}

func (l *lowerer) templateString(node *sitter.Node, depth int) syntax.Expression {
	var parts []syntax.InterpolationPart
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "string_fragment":
			parts = append(parts, syntax.InterpolationPart{Literal: l.text(child)})
		case "template_substitution":
			parts = append(parts, syntax.InterpolationPart{Expr: l.expr(child.NamedChild(0), depth+1)})
		}
	}
	if len(parts) == 0 {
		return &syntax.StringLiteral{Base: l.base(node), Value: stringValue(l.text(node))}
	}
	if len(parts) == 1 && parts[0].Expr == nil {
		return &syntax.StringLiteral{Base: l.base(node), Value: parts[0].Literal}
	}
	return &syntax.Interpolation{Base: l.base(node), Parts: parts}
}

// =============================================================================
// JSX
// =============================================================================

// jsx lowers a JSX node into a constructor call: the tag becomes the
// type name, attributes become named arguments, and children land under
// "child" (exactly one) or "children" (several).
func (l *lowerer) jsx(node *sitter.Node, depth int) syntax.Expression {
	if depth > maxLowerDepth {
		return l.unrecognized(node, "nesting depth limit reached")
	}

	var tagNode *sitter.Node
	var attrSource *sitter.Node
	switch node.Type() {
	case "jsx_self_closing_element":
		tagNode = node.ChildByFieldName("name")
		attrSource = node
	case "jsx_element":
		opening := firstChildOfType(node, "jsx_opening_element")
		if opening == nil {
			return l.unrecognized(node, "jsx element without opening tag")
		}
		tagNode = opening.ChildByFieldName("name")
		attrSource = opening
	case "jsx_fragment":
		// Fragments have no tag or attributes of their own.
	}

	tag := "Fragment"
	if tagNode != nil {
		tag = l.text(tagNode)
	}

	call := &syntax.ConstructorCall{
		Base:     l.base(node),
		TypeName: tag,
	}

	if attrSource != nil {
		for i := 0; i < int(attrSource.NamedChildCount()); i++ {
			child := attrSource.NamedChild(i)
			switch child.Type() {
			case "jsx_attribute":
				name, value := l.jsxAttribute(child, depth)
				if name != "" {
					call.Named = append(call.Named, syntax.NamedArgument{Name: name, Value: value})
				}
			case "jsx_expression":
				// Spread attributes ({...props}) have no named-argument form.
				call.Positional = append(call.Positional, l.unrecognized(child, "jsx spread attribute"))
			}
		}
	}

	children := l.jsxChildren(node, depth)
	switch len(children) {
	case 0:
	case 1:
		call.Named = append(call.Named, syntax.NamedArgument{Name: "child", Value: children[0]})
	default:
		elements := make([]syntax.CollectionElement, 0, len(children))
		for _, c := range children {
			elements = append(elements, c.(syntax.CollectionElement))
		}
		call.Named = append(call.Named, syntax.NamedArgument{
			Name:  "children",
			Value: &syntax.ListLiteral{Base: l.base(node), Elements: elements},
		})
	}

	return call
}

func (l *lowerer) jsxAttribute(node *sitter.Node, depth int) (string, syntax.Expression) {
	nameNode := node.NamedChild(0)
	if nameNode == nil {
		return "", nil
	}
	name := l.text(nameNode)

	// A bare attribute is a true flag.
	if node.NamedChildCount() < 2 {
		return name, &syntax.BoolLiteral{Base: l.base(node), Value: true}
	}

	value := node.NamedChild(1)
	switch value.Type() {
	case "string":
		return name, &syntax.StringLiteral{Base: l.base(value), Value: stringValue(l.text(value))}
	case "jsx_expression":
		inner := value.NamedChild(0)
		if inner == nil {
			return name, &syntax.NullLiteral{Base: l.base(value)}
		}
		return name, l.expr(inner, depth+1)
	default:
		return name, l.expr(value, depth+1)
	}
}

func (l *lowerer) jsxChildren(node *sitter.Node, depth int) []syntax.Expression {
	var children []syntax.Expression
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			children = append(children, l.jsx(child, depth+1))
		case "jsx_text":
			text := strings.TrimSpace(l.text(child))
			if text != "" {
				children = append(children, &syntax.StringLiteral{Base: l.base(child), Value: text})
			}
		case "jsx_expression":
			inner := child.NamedChild(0)
			if inner != nil && inner.Type() != "comment" {
				children = append(children, l.expr(inner, depth+1))
			}
		}
	}
	return children
}

// =============================================================================
// Statements
// =============================================================================

func (l *lowerer) blockStmt(node *sitter.Node, depth int) *syntax.Block {
	block := &syntax.Block{Base: l.base(node)}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		block.Statements = append(block.Statements, l.stmt(node.NamedChild(i), depth+1))
	}
	return block
}

func (l *lowerer) stmt(node *sitter.Node, depth int) syntax.Statement {
	if node == nil {
		return nil
	}
	if depth > maxLowerDepth {
		return l.unrecognized(node, "nesting depth limit reached")
	}

	switch node.Type() {
	case "statement_block":
		return l.blockStmt(node, depth)
	case "return_statement":
		ret := &syntax.Return{Base: l.base(node)}
		if v := node.NamedChild(0); v != nil {
			ret.Value = l.expr(v, depth+1)
		}
		return ret
	case "expression_statement":
		return &syntax.ExprStmt{Base: l.base(node), Expr: l.expr(node.NamedChild(0), depth+1)}
	case "lexical_declaration", "variable_declaration":
		return l.varDecl(node, depth)
	case "if_statement":
		stmt := &syntax.If{
			Base:      l.base(node),
			Condition: l.condition(node.ChildByFieldName("condition"), depth),
			Then:      l.stmt(node.ChildByFieldName("consequence"), depth+1),
		}
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			// else_clause wraps the actual statement.
			if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
				stmt.Else = l.stmt(alt.NamedChild(0), depth+1)
			} else {
				stmt.Else = l.stmt(alt, depth+1)
			}
		}
		return stmt
	case "while_statement":
		return &syntax.While{
			Base:      l.base(node),
			Condition: l.condition(node.ChildByFieldName("condition"), depth),
			Body:      l.stmt(node.ChildByFieldName("body"), depth+1),
		}
	case "for_in_statement":
		return &syntax.ForEach{
			Base:     l.base(node),
			Keyword:  l.text(node.ChildByFieldName("kind")),
			Variable: l.text(node.ChildByFieldName("left")),
			Iterable: l.expr(node.ChildByFieldName("right"), depth+1),
			Body:     l.stmt(node.ChildByFieldName("body"), depth+1),
		}
	case "throw_statement":
		t := &syntax.Throw{Base: l.base(node)}
		if v := node.NamedChild(0); v != nil {
			t.Value = l.expr(v, depth+1)
		}
		return t
	case "break_statement":
		return &syntax.Break{Base: l.base(node)}
	case "continue_statement":
		return &syntax.Continue{Base: l.base(node)}
	default:
		return l.unrecognized(node, "no statement mapping for "+node.Type())
	}
}

func (l *lowerer) varDecl(node *sitter.Node, depth int) syntax.Statement {
	keyword := "var"
	if node.Type() == "lexical_declaration" {
		// The keyword token (const or let) is the first unnamed child.
		if kw := node.Child(0); kw != nil {
			keyword = l.text(kw)
		}
	}

	var decls []syntax.Statement
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		decls = append(decls, &syntax.VarDecl{
			Base:    l.base(declarator),
			Keyword: keyword,
			Name:    l.text(declarator.ChildByFieldName("name")),
			Init:    l.expr(declarator.ChildByFieldName("value"), depth+1),
		})
	}

	switch len(decls) {
	case 0:
		return l.unrecognized(node, "declaration without declarators")
	case 1:
		return decls[0]
	default:
		return &syntax.Block{Base: l.base(node), Statements: decls}
	}
}

// condition unwraps the mandatory parentheses around control-flow
// conditions.
func (l *lowerer) condition(node *sitter.Node, depth int) syntax.Expression {
	if node == nil {
		return nil
	}
	if node.Type() == "parenthesized_expression" {
		if inner := node.NamedChild(0); inner != nil {
			return l.expr(inner, depth+1)
		}
	}
	return l.expr(node, depth+1)
}

// =============================================================================
// Helpers
// =============================================================================

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// stringValue strips matching quote characters from a string token.
func stringValue(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return text[1 : len(text)-1]
		}
	}
	return text
}
