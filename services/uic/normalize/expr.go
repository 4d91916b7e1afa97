// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package normalize

import (
	"fmt"

	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// Expression lowers one syntax expression into IR.
//
// Description:
//
//	Total over the expression union: every shape yields an IR node, with
//	unrecognized shapes becoming ir.Unknown carrying the source text.
//	Parenthesized expressions unwrap transparently. Operators are mapped
//	to the closed enums here, never deferred as strings.
//
// Inputs:
//   - e: Syntax expression. Nil yields an unknown node.
//
// Outputs:
//   - ir.Expression: Never nil.
func (n *Normalizer) Expression(e syntax.Expression) ir.Expression {
	if e == nil {
		return &ir.Unknown{
			NodeInfo: ir.NodeInfo{ID: n.ids.Next(), Location: n.mapper.Locate(0, 0)},
			Reason:   "nil expression",
		}
	}
	return n.guardExpr(e, func() ir.Expression { return n.expression(e) })
}

func (n *Normalizer) expression(e syntax.Expression) ir.Expression {
	switch v := e.(type) {
	case *syntax.Paren:
		// Transparent: no IR node of its own.
		return n.Expression(v.Inner)

	case *syntax.IntLiteral:
		return &ir.Literal{NodeInfo: n.info(v), LitKind: ir.LiteralInt, IntValue: v.Value}
	case *syntax.DoubleLiteral:
		return &ir.Literal{NodeInfo: n.info(v), LitKind: ir.LiteralDouble, DoubleValue: v.Value}
	case *syntax.BoolLiteral:
		return &ir.Literal{NodeInfo: n.info(v), LitKind: ir.LiteralBool, BoolValue: v.Value}
	case *syntax.StringLiteral:
		return &ir.Literal{NodeInfo: n.info(v), LitKind: ir.LiteralString, StringValue: v.Value}
	case *syntax.NullLiteral:
		return &ir.Literal{NodeInfo: n.info(v), LitKind: ir.LiteralNull}

	case *syntax.Identifier:
		return &ir.Ident{NodeInfo: n.info(v), Name: v.Name, Library: v.Library}

	case *syntax.Binary:
		return &ir.Binary{
			NodeInfo: n.info(v),
			Op:       ir.BinaryOpFromLexeme(v.Operator),
			Left:     n.Expression(v.Left),
			Right:    n.Expression(v.Right),
		}

	case *syntax.Unary:
		return &ir.Unary{
			NodeInfo: n.info(v),
			Op:       ir.UnaryOpFromLexeme(v.Operator, v.IsPrefix),
			Operand:  n.Expression(v.Operand),
			IsPrefix: v.IsPrefix,
		}

	case *syntax.Assignment:
		return &ir.Assign{
			NodeInfo: n.info(v),
			Op:       ir.AssignOpFromLexeme(v.Operator),
			Target:   n.Expression(v.Target),
			Value:    n.Expression(v.Value),
		}

	case *syntax.Conditional:
		return &ir.Conditional{
			NodeInfo:  n.info(v),
			Condition: n.Expression(v.Condition),
			Then:      n.Expression(v.Then),
			Else:      n.Expression(v.Else),
		}

	case *syntax.Invocation:
		call := &ir.Call{
			NodeInfo:  n.info(v),
			Method:    v.Method,
			NullAware: v.NullAware,
			TypeArgs:  typeArgNames(v.TypeArgs),
		}
		if v.Target != nil {
			call.Target = n.Expression(v.Target)
		}
		for _, arg := range v.Positional {
			call.Positional = append(call.Positional, n.Expression(arg))
		}
		call.Named = n.namedArguments(v.Named)
		return call

	case *syntax.ConstructorCall:
		ctor := &ir.Construct{
			NodeInfo: n.info(v),
			TypeName: v.TypeName,
			Variant:  v.Variant,
			IsConst:  v.IsConst,
			TypeArgs: typeArgNames(v.TypeArgs),
		}
		for _, arg := range v.Positional {
			ctor.Positional = append(ctor.Positional, n.Expression(arg))
		}
		ctor.Named = n.namedArguments(v.Named)
		return ctor

	case *syntax.PropertyAccess:
		return &ir.Property{
			NodeInfo:  n.info(v),
			Target:    n.Expression(v.Target),
			Name:      v.Property,
			NullAware: v.NullAware,
		}

	case *syntax.IndexAccess:
		return &ir.Index{
			NodeInfo:  n.info(v),
			Target:    n.Expression(v.Target),
			IndexExpr: n.Expression(v.Index),
			NullAware: v.NullAware,
		}

	case *syntax.ListLiteral:
		return n.collection(v, ir.CollectionList, v.IsConst, v.Elements)
	case *syntax.SetLiteral:
		return n.collection(v, ir.CollectionSet, v.IsConst, v.Elements)
	case *syntax.MapLiteral:
		return n.collection(v, ir.CollectionMap, v.IsConst, v.Elements)

	case *syntax.Interpolation:
		interp := &ir.Interp{NodeInfo: n.info(v)}
		for _, part := range v.Parts {
			if part.Expr != nil {
				interp.Parts = append(interp.Parts, ir.InterpPart{Expr: n.Expression(part.Expr)})
			} else {
				interp.Parts = append(interp.Parts, ir.InterpPart{Text: part.Literal})
			}
		}
		return interp

	case *syntax.Cascade:
		cascade := &ir.Cascade{
			NodeInfo: n.info(v),
			Target:   n.Expression(v.Target),
		}
		for _, section := range v.Sections {
			cascade.Sections = append(cascade.Sections, n.Expression(section))
		}
		return cascade

	case *syntax.Closure:
		return n.closure(v)

	case *syntax.Await:
		return &ir.Await{NodeInfo: n.info(v), Operand: n.Expression(v.Operand)}

	case *syntax.Unrecognized:
		return n.unknownExpr(v, v.Reason)

	default:
		reason := fmt.Sprintf("unhandled expression shape %T", e)
		n.warn("%s", reason)
		return n.unknownExpr(e, reason)
	}
}

// namedArguments lowers a named-argument list into the IR name map.
func (n *Normalizer) namedArguments(args []syntax.NamedArgument) map[string]ir.Expression {
	if len(args) == 0 {
		return nil
	}
	named := make(map[string]ir.Expression, len(args))
	for _, arg := range args {
		named[arg.Name] = n.Expression(arg.Value)
	}
	return named
}

// collection lowers a list, set, or map literal. Element failures stay
// local: each element is guarded independently.
func (n *Normalizer) collection(node syntax.Expression, kind ir.CollectionKind, isConst bool, elements []syntax.CollectionElement) *ir.Collection {
	coll := &ir.Collection{
		NodeInfo: n.info(node),
		CollKind: kind,
		IsConst:  isConst,
		Elements: make([]ir.Expression, 0, len(elements)),
	}
	for _, el := range elements {
		coll.Elements = append(coll.Elements, n.guardExpr(el, func() ir.Expression {
			return n.collectionElement(el, kind)
		}))
	}
	return coll
}

// collectionElement lowers one collection element shape.
//
// Spread elements unwrap into ir.Spread; conditional-inclusion elements
// desugar to a conditional whose branches are single-element or empty
// collections of the enclosing kind; for-comprehension elements surface
// as a typed skip marker.
func (n *Normalizer) collectionElement(el syntax.CollectionElement, kind ir.CollectionKind) ir.Expression {
	switch v := el.(type) {
	case *syntax.SpreadElement:
		return &ir.Spread{
			NodeInfo:  n.info(v),
			Operand:   n.Expression(v.Operand),
			NullAware: v.NullAware,
		}

	case *syntax.IfElement:
		return &ir.Conditional{
			NodeInfo:  n.info(v),
			Condition: n.Expression(v.Condition),
			Then:      n.branchCollection(v, v.Then, kind),
			Else:      n.branchCollection(v, v.Else, kind),
		}

	case *syntax.ForElement:
		return &ir.Skip{NodeInfo: n.info(v), Reason: "for-comprehension element not modeled"}

	case *syntax.MapEntry:
		return &ir.MapEntry{
			NodeInfo: n.info(v),
			Key:      n.Expression(v.Key),
			Value:    n.Expression(v.Value),
		}

	default:
		expr, ok := el.(syntax.Expression)
		if !ok {
			reason := fmt.Sprintf("unhandled collection element shape %T", el)
			n.warn("%s", reason)
			return n.unknownExpr(el, reason)
		}
		return n.Expression(expr)
	}
}

// branchCollection desugars one branch of a conditional-inclusion element
// into a single-element or empty collection, preserving whether the
// branch was itself a spread.
func (n *Normalizer) branchCollection(owner syntax.Node, branch syntax.CollectionElement, kind ir.CollectionKind) ir.Expression {
	info := n.info(owner)
	info.Code = ""
	if branch == nil {
		return &ir.Collection{NodeInfo: info, CollKind: kind, Elements: []ir.Expression{}}
	}
	element := n.guardExpr(branch, func() ir.Expression {
		return n.collectionElement(branch, kind)
	})
	return &ir.Collection{NodeInfo: info, CollKind: kind, Elements: []ir.Expression{element}}
}

// closure lowers a function literal, inferring a best-effort return type.
func (n *Normalizer) closure(c *syntax.Closure) *ir.Closure {
	closure := &ir.Closure{
		NodeInfo:    n.info(c),
		Params:      make([]ir.ClosureParam, 0, len(c.Params)),
		IsArrow:     c.Body.IsArrow,
		IsAsync:     c.Body.IsAsync,
		IsGenerator: c.Body.IsGenerator,
	}
	for _, p := range c.Params {
		closure.Params = append(closure.Params, ir.ClosureParam{
			Name:       p.Name,
			Origin:     p.Origin.String(),
			HasDefault: p.HasDefault,
		})
	}
	if c.Body.IsArrow {
		closure.ArrowBody = n.Expression(c.Body.Expr)
		closure.ReturnType = n.inferArrowReturnType(c.Body.Expr)
	} else {
		closure.Body = n.blockStatements(c.Body.Block)
		closure.ReturnType = n.inferBlockReturnType(c.Body.Block)
	}
	return closure
}

func typeArgNames(args []*syntax.TypeRef) []string {
	if len(args) == 0 {
		return nil
	}
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = arg.Name
	}
	return names
}
