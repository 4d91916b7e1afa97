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

// BodyStatements lowers a function body into a statement list.
//
// Description:
//
//	Arrow bodies lower to a single return of the arrow expression, so
//	downstream passes see one uniform statement shape for both body
//	forms. Block bodies lower statement by statement; a failed statement
//	becomes an unknown statement in its position.
//
// Outputs:
//   - []ir.Statement: Never nil; empty for an empty body.
func (n *Normalizer) BodyStatements(body syntax.FunctionBody) []ir.Statement {
	if body.IsArrow {
		if body.Expr == nil {
			return []ir.Statement{}
		}
		expr := n.Expression(body.Expr)
		return []ir.Statement{&ir.Return{NodeInfo: expr.Info(), Value: expr}}
	}
	return n.blockStatements(body.Block)
}

// Statement lowers one syntax statement into IR. Total: unrecognized
// shapes become unknown statements, never a panic.
func (n *Normalizer) Statement(s syntax.Statement) ir.Statement {
	if s == nil {
		return &ir.UnknownStmt{
			NodeInfo: ir.NodeInfo{ID: n.ids.Next(), Location: n.mapper.Locate(0, 0)},
			Reason:   "nil statement",
		}
	}
	return n.guardStmt(s, func() ir.Statement { return n.statement(s) })
}

func (n *Normalizer) statement(s syntax.Statement) ir.Statement {
	switch v := s.(type) {
	case *syntax.Block:
		return &ir.Block{NodeInfo: n.info(v), Statements: n.blockStatements(v)}

	case *syntax.VarDecl:
		decl := &ir.VarDecl{
			NodeInfo: n.info(v),
			Keyword:  v.Keyword,
			Name:     v.Name,
		}
		if v.Type != nil {
			decl.Type = v.Type.Name
		}
		if v.Init != nil {
			decl.Init = n.Expression(v.Init)
		}
		return decl

	case *syntax.Return:
		ret := &ir.Return{NodeInfo: n.info(v)}
		if v.Value != nil {
			ret.Value = n.Expression(v.Value)
		}
		return ret

	case *syntax.Break:
		return &ir.Break{NodeInfo: n.info(v), Label: v.Label}

	case *syntax.Continue:
		return &ir.Continue{NodeInfo: n.info(v), Label: v.Label}

	case *syntax.Throw:
		return &ir.Throw{NodeInfo: n.info(v), Value: n.Expression(v.Value)}

	case *syntax.If:
		out := &ir.If{
			NodeInfo:  n.info(v),
			Condition: n.Expression(v.Condition),
			Then:      n.Statement(v.Then),
		}
		if v.Else != nil {
			out.Else = n.Statement(v.Else)
		}
		return out

	case *syntax.IfCase:
		out := &ir.IfCase{
			NodeInfo: n.info(v),
			Value:    n.Expression(v.Value),
			Pattern:  n.pattern(v.Pattern),
			Then:     n.Statement(v.Then),
		}
		if v.Guard != nil {
			out.Guard = n.Expression(v.Guard)
		}
		if v.Else != nil {
			out.Else = n.Statement(v.Else)
		}
		return out

	case *syntax.For:
		out := &ir.For{NodeInfo: n.info(v), Body: n.Statement(v.Body)}
		if v.Init != nil {
			out.Init = n.Statement(v.Init)
		}
		if v.Condition != nil {
			out.Condition = n.Expression(v.Condition)
		}
		for _, update := range v.Updates {
			out.Updates = append(out.Updates, n.Expression(update))
		}
		return out

	case *syntax.ForEach:
		return &ir.ForEach{
			NodeInfo: n.info(v),
			Keyword:  v.Keyword,
			Variable: v.Variable,
			Iterable: n.Expression(v.Iterable),
			Body:     n.Statement(v.Body),
			IsAwait:  v.IsAwait,
		}

	case *syntax.While:
		return &ir.While{
			NodeInfo:  n.info(v),
			Condition: n.Expression(v.Condition),
			Body:      n.Statement(v.Body),
		}

	case *syntax.DoWhile:
		return &ir.DoWhile{
			NodeInfo:  n.info(v),
			Body:      n.Statement(v.Body),
			Condition: n.Expression(v.Condition),
		}

	case *syntax.Try:
		out := &ir.Try{
			NodeInfo: n.info(v),
			Body:     n.Statement(v.Body),
		}
		for _, clause := range v.Catches {
			c := ir.Catch{
				Param:      clause.Param,
				StackParam: clause.StackParam,
				Body:       n.Statement(clause.Body),
			}
			if clause.ExcType != nil {
				c.ExcType = clause.ExcType.Name
			}
			out.Catches = append(out.Catches, c)
		}
		if v.Finally != nil {
			out.Finally = n.Statement(v.Finally)
		}
		return out

	case *syntax.Switch:
		out := &ir.Switch{
			NodeInfo: n.info(v),
			Value:    n.Expression(v.Value),
		}
		for _, sc := range v.Cases {
			c := ir.SwitchCase{
				IsDefault:  sc.IsDefault,
				Statements: make([]ir.Statement, 0, len(sc.Statements)),
			}
			for _, value := range sc.Values {
				c.Values = append(c.Values, n.Expression(value))
			}
			if sc.Pattern != nil {
				c.Pattern = n.pattern(sc.Pattern)
			}
			for _, stmt := range sc.Statements {
				c.Statements = append(c.Statements, n.Statement(stmt))
			}
			out.Cases = append(out.Cases, c)
		}
		return out

	case *syntax.Labeled:
		return &ir.Labeled{
			NodeInfo: n.info(v),
			Label:    v.Label,
			Stmt:     n.Statement(v.Stmt),
		}

	case *syntax.ExprStmt:
		expr := n.Expression(v.Expr)
		return &ir.ExprStmt{
			NodeInfo: n.info(v),
			Expr:     expr,
			Class:    classifyExpr(expr),
		}

	case *syntax.Unrecognized:
		return n.unknownStmt(v, v.Reason)

	default:
		reason := fmt.Sprintf("unhandled statement shape %T", s)
		n.warn("%s", reason)
		return n.unknownStmt(s, reason)
	}
}

// blockStatements lowers a block's statements; a nil block is an empty
// list. Each statement is guarded independently.
func (n *Normalizer) blockStatements(block *syntax.Block) []ir.Statement {
	if block == nil {
		return []ir.Statement{}
	}
	out := make([]ir.Statement, 0, len(block.Statements))
	for _, s := range block.Statements {
		out = append(out, n.Statement(s))
	}
	return out
}

// pattern lowers a pattern-match construct. Unrecognized shapes become
// unknown expressions.
func (n *Normalizer) pattern(p syntax.Pattern) ir.Expression {
	if p == nil {
		return nil
	}
	return n.guardExpr(p, func() ir.Expression {
		switch v := p.(type) {
		case *syntax.WildcardPattern:
			return &ir.PatternIR{NodeInfo: n.info(v), PatKind: ir.PatternWildcard}
		case *syntax.VariablePattern:
			return &ir.PatternIR{
				NodeInfo:  n.info(v),
				PatKind:   ir.PatternVariable,
				Name:      v.Name,
				BoundVars: []string{v.Name},
			}
		case *syntax.ConstantPattern:
			return &ir.PatternIR{
				NodeInfo: n.info(v),
				PatKind:  ir.PatternConstant,
				Value:    n.Expression(v.Value),
			}
		case *syntax.Unrecognized:
			return n.unknownExpr(v, v.Reason)
		default:
			reason := fmt.Sprintf("unhandled pattern shape %T", p)
			n.warn("%s", reason)
			return n.unknownExpr(p, reason)
		}
	})
}

// classifyExpr tags what an expression statement does.
func classifyExpr(e ir.Expression) ir.StatementClass {
	switch e.(type) {
	case *ir.Call:
		return ir.StmtMethodCall
	case *ir.Construct:
		return ir.StmtConstructorCall
	case *ir.Assign:
		return ir.StmtAssignment
	case *ir.Cascade:
		return ir.StmtCascade
	case *ir.Await:
		return ir.StmtAwait
	default:
		return ir.StmtOther
	}
}
