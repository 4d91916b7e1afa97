// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ir

import "sort"

// Walk visits n and every node reachable from it in pre-order. Nil nodes
// and nil optional children are skipped. The visit order within a node is
// field declaration order, so traversal is deterministic.
//
// Thread Safety: Safe for concurrent use on immutable trees.
func Walk(n Node, fn func(Node)) {
	if n == nil || fn == nil {
		return
	}
	fn(n)

	switch v := n.(type) {
	case *Binary:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	case *Unary:
		Walk(v.Operand, fn)
	case *Assign:
		Walk(v.Target, fn)
		Walk(v.Value, fn)
	case *Conditional:
		Walk(v.Condition, fn)
		Walk(v.Then, fn)
		Walk(v.Else, fn)
	case *Call:
		Walk(v.Target, fn)
		for _, a := range v.Positional {
			Walk(a, fn)
		}
		walkNamed(v.Named, fn)
	case *Construct:
		for _, a := range v.Positional {
			Walk(a, fn)
		}
		walkNamed(v.Named, fn)
	case *Property:
		Walk(v.Target, fn)
	case *Index:
		Walk(v.Target, fn)
		Walk(v.IndexExpr, fn)
	case *Collection:
		for _, e := range v.Elements {
			Walk(e, fn)
		}
	case *MapEntry:
		Walk(v.Key, fn)
		Walk(v.Value, fn)
	case *Spread:
		Walk(v.Operand, fn)
	case *Interp:
		for _, p := range v.Parts {
			Walk(p.Expr, fn)
		}
	case *Cascade:
		Walk(v.Target, fn)
		for _, s := range v.Sections {
			Walk(s, fn)
		}
	case *Closure:
		Walk(v.ArrowBody, fn)
		for _, s := range v.Body {
			Walk(s, fn)
		}
	case *Await:
		Walk(v.Operand, fn)
	case *PatternIR:
		Walk(v.Value, fn)

	case *Block:
		for _, s := range v.Statements {
			Walk(s, fn)
		}
	case *VarDecl:
		Walk(v.Init, fn)
	case *Return:
		Walk(v.Value, fn)
	case *Throw:
		Walk(v.Value, fn)
	case *If:
		Walk(v.Condition, fn)
		Walk(v.Then, fn)
		Walk(v.Else, fn)
	case *IfCase:
		Walk(v.Value, fn)
		Walk(v.Pattern, fn)
		Walk(v.Guard, fn)
		Walk(v.Then, fn)
		Walk(v.Else, fn)
	case *For:
		Walk(v.Init, fn)
		Walk(v.Condition, fn)
		for _, u := range v.Updates {
			Walk(u, fn)
		}
		Walk(v.Body, fn)
	case *ForEach:
		Walk(v.Iterable, fn)
		Walk(v.Body, fn)
	case *While:
		Walk(v.Condition, fn)
		Walk(v.Body, fn)
	case *DoWhile:
		Walk(v.Body, fn)
		Walk(v.Condition, fn)
	case *Try:
		Walk(v.Body, fn)
		for _, c := range v.Catches {
			Walk(c.Body, fn)
		}
		Walk(v.Finally, fn)
	case *Switch:
		Walk(v.Value, fn)
		for _, c := range v.Cases {
			for _, val := range c.Values {
				Walk(val, fn)
			}
			Walk(c.Pattern, fn)
			for _, s := range c.Statements {
				Walk(s, fn)
			}
		}
	case *Labeled:
		Walk(v.Stmt, fn)
	case *ExprStmt:
		Walk(v.Expr, fn)
	}
}

// walkNamed visits named-argument values in sorted key order so traversal
// stays deterministic across runs.
func walkNamed(named map[string]Expression, fn func(Node)) {
	if len(named) == 0 {
		return
	}
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		Walk(named[k], fn)
	}
}
