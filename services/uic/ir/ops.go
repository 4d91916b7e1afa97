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

// Operators are mapped from raw lexemes to closed enumerations when the
// normalizer builds IR nodes. Downstream passes never pattern-match on
// operator strings.

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	BinaryUnknown BinaryOp = iota
	BinaryAdd
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryIntegerDivide
	BinaryModulo
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryLessEqual
	BinaryGreater
	BinaryGreaterEqual
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryShiftLeft
	BinaryShiftRight
	BinaryShiftRightUnsigned
	BinaryIfNull
)

// binaryLexemes maps raw operator lexemes to BinaryOp values.
var binaryLexemes = map[string]BinaryOp{
	"+":   BinaryAdd,
	"-":   BinarySubtract,
	"*":   BinaryMultiply,
	"/":   BinaryDivide,
	"~/":  BinaryIntegerDivide,
	"%":   BinaryModulo,
	"==":  BinaryEqual,
	"!=":  BinaryNotEqual,
	"<":   BinaryLess,
	"<=":  BinaryLessEqual,
	">":   BinaryGreater,
	">=":  BinaryGreaterEqual,
	"&&":  BinaryLogicalAnd,
	"||":  BinaryLogicalOr,
	"&":   BinaryBitAnd,
	"|":   BinaryBitOr,
	"^":   BinaryBitXor,
	"<<":  BinaryShiftLeft,
	">>":  BinaryShiftRight,
	">>>": BinaryShiftRightUnsigned,
	"??":  BinaryIfNull,
}

var binaryNames = map[BinaryOp]string{
	BinaryUnknown:            "unknown",
	BinaryAdd:                "add",
	BinarySubtract:           "subtract",
	BinaryMultiply:           "multiply",
	BinaryDivide:             "divide",
	BinaryIntegerDivide:      "integerDivide",
	BinaryModulo:             "modulo",
	BinaryEqual:              "equal",
	BinaryNotEqual:           "notEqual",
	BinaryLess:               "less",
	BinaryLessEqual:          "lessEqual",
	BinaryGreater:            "greater",
	BinaryGreaterEqual:       "greaterEqual",
	BinaryLogicalAnd:         "logicalAnd",
	BinaryLogicalOr:          "logicalOr",
	BinaryBitAnd:             "bitAnd",
	BinaryBitOr:              "bitOr",
	BinaryBitXor:             "bitXor",
	BinaryShiftLeft:          "shiftLeft",
	BinaryShiftRight:         "shiftRight",
	BinaryShiftRightUnsigned: "shiftRightUnsigned",
	BinaryIfNull:             "ifNull",
}

// BinaryOpFromLexeme maps a raw operator lexeme to its BinaryOp. Unknown
// lexemes map to BinaryUnknown rather than failing.
func BinaryOpFromLexeme(lexeme string) BinaryOp {
	if op, ok := binaryLexemes[lexeme]; ok {
		return op
	}
	return BinaryUnknown
}

// String returns the stable name used in serialized output.
func (op BinaryOp) String() string {
	if n, ok := binaryNames[op]; ok {
		return n
	}
	return "unknown"
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	UnaryUnknown UnaryOp = iota
	UnaryNegate
	UnaryNot
	UnaryBitNot
	UnaryIncrement
	UnaryDecrement
	UnaryNullAssert
)

var unaryLexemes = map[string]UnaryOp{
	"-":  UnaryNegate,
	"!":  UnaryNot,
	"~":  UnaryBitNot,
	"++": UnaryIncrement,
	"--": UnaryDecrement,
}

var unaryNames = map[UnaryOp]string{
	UnaryUnknown:    "unknown",
	UnaryNegate:     "negate",
	UnaryNot:        "not",
	UnaryBitNot:     "bitNot",
	UnaryIncrement:  "increment",
	UnaryDecrement:  "decrement",
	UnaryNullAssert: "nullAssert",
}

// UnaryOpFromLexeme maps a raw operator lexeme to its UnaryOp.
//
// The "!" lexeme is position-dependent in the source grammar: prefix "!"
// is logical not, postfix "!" is a null assertion. Callers pass the prefix
// flag to disambiguate.
func UnaryOpFromLexeme(lexeme string, prefix bool) UnaryOp {
	if lexeme == "!" && !prefix {
		return UnaryNullAssert
	}
	if op, ok := unaryLexemes[lexeme]; ok {
		return op
	}
	return UnaryUnknown
}

// String returns the stable name used in serialized output.
func (op UnaryOp) String() string {
	if n, ok := unaryNames[op]; ok {
		return n
	}
	return "unknown"
}

// AssignOp enumerates plain and compound assignment operators.
type AssignOp int

const (
	AssignUnknown AssignOp = iota
	AssignPlain
	AssignAdd
	AssignSubtract
	AssignMultiply
	AssignDivide
	AssignIntegerDivide
	AssignModulo
	AssignIfNull
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignShiftLeft
	AssignShiftRight
	AssignShiftRightUnsigned
)

var assignLexemes = map[string]AssignOp{
	"=":    AssignPlain,
	"+=":   AssignAdd,
	"-=":   AssignSubtract,
	"*=":   AssignMultiply,
	"/=":   AssignDivide,
	"~/=":  AssignIntegerDivide,
	"%=":   AssignModulo,
	"??=":  AssignIfNull,
	"&=":   AssignBitAnd,
	"|=":   AssignBitOr,
	"^=":   AssignBitXor,
	"<<=":  AssignShiftLeft,
	">>=":  AssignShiftRight,
	">>>=": AssignShiftRightUnsigned,
}

var assignNames = map[AssignOp]string{
	AssignUnknown:            "unknown",
	AssignPlain:              "assign",
	AssignAdd:                "addAssign",
	AssignSubtract:           "subtractAssign",
	AssignMultiply:           "multiplyAssign",
	AssignDivide:             "divideAssign",
	AssignIntegerDivide:      "integerDivideAssign",
	AssignModulo:             "moduloAssign",
	AssignIfNull:             "ifNullAssign",
	AssignBitAnd:             "bitAndAssign",
	AssignBitOr:              "bitOrAssign",
	AssignBitXor:             "bitXorAssign",
	AssignShiftLeft:          "shiftLeftAssign",
	AssignShiftRight:         "shiftRightAssign",
	AssignShiftRightUnsigned: "shiftRightUnsignedAssign",
}

// AssignOpFromLexeme maps a raw assignment lexeme to its AssignOp.
func AssignOpFromLexeme(lexeme string) AssignOp {
	if op, ok := assignLexemes[lexeme]; ok {
		return op
	}
	return AssignUnknown
}

// String returns the stable name used in serialized output.
func (op AssignOp) String() string {
	if n, ok := assignNames[op]; ok {
		return n
	}
	return "unknown"
}
