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

import "github.com/AleutianAI/williwaw/services/uic/syntax"

// DynamicType is the untyped marker used when closure return-type
// inference finds nothing better.
const DynamicType = "dynamic"

// inferArrowReturnType infers a closure return type from the literal
// shape of its arrow body.
func (n *Normalizer) inferArrowReturnType(e syntax.Expression) string {
	return inferExprType(e)
}

// inferBlockReturnType scans a block body for return statements and
// infers from the first returned value. A body that never returns a
// value stays dynamic.
func (n *Normalizer) inferBlockReturnType(block *syntax.Block) string {
	if block == nil {
		return DynamicType
	}
	if t := scanReturns(block.Statements); t != "" {
		return t
	}
	return DynamicType
}

// scanReturns walks statements (including nested control flow) for the
// first return carrying a value, and returns its inferred type. Empty
// string means no value-carrying return was found.
func scanReturns(stmts []syntax.Statement) string {
	for _, s := range stmts {
		if t := scanReturn(s); t != "" {
			return t
		}
	}
	return ""
}

func scanReturn(s syntax.Statement) string {
	switch v := s.(type) {
	case *syntax.Return:
		if v.Value != nil {
			return inferExprType(v.Value)
		}
	case *syntax.Block:
		return scanReturns(v.Statements)
	case *syntax.If:
		if t := scanReturn(v.Then); t != "" {
			return t
		}
		if v.Else != nil {
			return scanReturn(v.Else)
		}
	case *syntax.IfCase:
		if t := scanReturn(v.Then); t != "" {
			return t
		}
		if v.Else != nil {
			return scanReturn(v.Else)
		}
	case *syntax.For:
		return scanReturn(v.Body)
	case *syntax.ForEach:
		return scanReturn(v.Body)
	case *syntax.While:
		return scanReturn(v.Body)
	case *syntax.DoWhile:
		return scanReturn(v.Body)
	case *syntax.Try:
		if v.Body != nil {
			if t := scanReturns(v.Body.Statements); t != "" {
				return t
			}
		}
		for _, c := range v.Catches {
			if c.Body != nil {
				if t := scanReturns(c.Body.Statements); t != "" {
					return t
				}
			}
		}
		if v.Finally != nil {
			return scanReturns(v.Finally.Statements)
		}
	case *syntax.Switch:
		for _, sc := range v.Cases {
			if t := scanReturns(sc.Statements); t != "" {
				return t
			}
		}
	case *syntax.Labeled:
		return scanReturn(v.Stmt)
	}
	return ""
}

// inferExprType maps a returned expression's literal shape to a type
// name. Anything without an evident shape is dynamic.
func inferExprType(e syntax.Expression) string {
	switch v := e.(type) {
	case *syntax.Paren:
		return inferExprType(v.Inner)
	case *syntax.IntLiteral:
		return "int"
	case *syntax.DoubleLiteral:
		return "double"
	case *syntax.BoolLiteral:
		return "bool"
	case *syntax.StringLiteral, *syntax.Interpolation:
		return "String"
	case *syntax.NullLiteral:
		return "Null"
	case *syntax.ListLiteral:
		return "List"
	case *syntax.SetLiteral:
		return "Set"
	case *syntax.MapLiteral:
		return "Map"
	case *syntax.ConstructorCall:
		return v.TypeName
	case *syntax.Await:
		return inferExprType(v.Operand)
	case *syntax.Conditional:
		// Branches of matching shape carry the shared type.
		then := inferExprType(v.Then)
		if then != DynamicType && then == inferExprType(v.Else) {
			return then
		}
		return DynamicType
	default:
		return DynamicType
	}
}
