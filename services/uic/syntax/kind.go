// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

// Kind discriminates the closed set of syntax-tree node shapes.
//
// Description:
//
//	Every node the normalizer and component extractor consume reports
//	exactly one Kind. Front-end adapters must map their grammar onto this
//	set; a shape with no mapping becomes KindUnrecognized, never a new
//	ad-hoc node type.
type Kind int

const (
	// KindUnrecognized marks a node the front-end adapter could not map.
	KindUnrecognized Kind = iota

	// Expressions.
	KindIntLiteral
	KindDoubleLiteral
	KindBoolLiteral
	KindStringLiteral
	KindNullLiteral
	KindIdentifier
	KindBinary
	KindUnary
	KindAssignment
	KindConditional
	KindInvocation
	KindConstructorCall
	KindPropertyAccess
	KindIndexAccess
	KindListLiteral
	KindSetLiteral
	KindMapLiteral
	KindInterpolation
	KindCascade
	KindClosure
	KindParen
	KindAwait

	// Collection elements.
	KindSpreadElement
	KindIfElement
	KindForElement
	KindMapEntry

	// Patterns.
	KindWildcardPattern
	KindVariablePattern
	KindConstantPattern

	// Statements.
	KindBlock
	KindVarDecl
	KindReturn
	KindBreak
	KindContinue
	KindThrow
	KindIf
	KindIfCase
	KindFor
	KindForEach
	KindWhile
	KindDoWhile
	KindTry
	KindSwitch
	KindLabeled
	KindExprStmt
)

// kindNames holds display names indexed by Kind. Used by String and by the
// extractor when annotating Unsupported components with the node shape.
var kindNames = map[Kind]string{
	KindUnrecognized:    "Unrecognized",
	KindIntLiteral:      "IntLiteral",
	KindDoubleLiteral:   "DoubleLiteral",
	KindBoolLiteral:     "BoolLiteral",
	KindStringLiteral:   "StringLiteral",
	KindNullLiteral:     "NullLiteral",
	KindIdentifier:      "Identifier",
	KindBinary:          "Binary",
	KindUnary:           "Unary",
	KindAssignment:      "Assignment",
	KindConditional:     "Conditional",
	KindInvocation:      "Invocation",
	KindConstructorCall: "ConstructorCall",
	KindPropertyAccess:  "PropertyAccess",
	KindIndexAccess:     "IndexAccess",
	KindListLiteral:     "ListLiteral",
	KindSetLiteral:      "SetLiteral",
	KindMapLiteral:      "MapLiteral",
	KindInterpolation:   "Interpolation",
	KindCascade:         "Cascade",
	KindClosure:         "Closure",
	KindParen:           "Paren",
	KindAwait:           "Await",
	KindSpreadElement:   "SpreadElement",
	KindIfElement:       "IfElement",
	KindForElement:      "ForElement",
	KindMapEntry:        "MapEntry",
	KindWildcardPattern: "WildcardPattern",
	KindVariablePattern: "VariablePattern",
	KindConstantPattern: "ConstantPattern",
	KindBlock:           "Block",
	KindVarDecl:         "VarDecl",
	KindReturn:          "Return",
	KindBreak:           "Break",
	KindContinue:        "Continue",
	KindThrow:           "Throw",
	KindIf:              "If",
	KindIfCase:          "IfCase",
	KindFor:             "For",
	KindForEach:         "ForEach",
	KindWhile:           "While",
	KindDoWhile:         "DoWhile",
	KindTry:             "Try",
	KindSwitch:          "Switch",
	KindLabeled:         "Labeled",
	KindExprStmt:        "ExprStmt",
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unrecognized"
}
