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

// LiteralKind tags the semantic kind of a literal expression.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralDouble
	LiteralBool
	LiteralString
	LiteralNull
)

// String returns the stable name used in serialized output.
func (k LiteralKind) String() string {
	switch k {
	case LiteralInt:
		return "int"
	case LiteralDouble:
		return "double"
	case LiteralBool:
		return "bool"
	case LiteralString:
		return "string"
	default:
		return "null"
	}
}

// CollectionKind tags list, map, and set literal expressions.
type CollectionKind int

const (
	CollectionList CollectionKind = iota
	CollectionMap
	CollectionSet
)

// String returns the stable name used in serialized output.
func (k CollectionKind) String() string {
	switch k {
	case CollectionMap:
		return "map"
	case CollectionSet:
		return "set"
	default:
		return "list"
	}
}

// PatternKind tags pattern-match constructs.
type PatternKind int

const (
	PatternWildcard PatternKind = iota
	PatternVariable
	PatternConstant
)

// String returns the stable name used in serialized output.
func (k PatternKind) String() string {
	switch k {
	case PatternVariable:
		return "variable"
	case PatternConstant:
		return "constant"
	default:
		return "wildcard"
	}
}

// =============================================================================
// Expression variants
// =============================================================================

// Literal is an int, double, bool, string, or null literal.
type Literal struct {
	NodeInfo
	LitKind LiteralKind `json:"kind"`

	IntValue    int64   `json:"intValue,omitempty"`
	DoubleValue float64 `json:"doubleValue,omitempty"`
	BoolValue   bool    `json:"boolValue,omitempty"`
	StringValue string  `json:"stringValue,omitempty"`
}

// Ident is an identifier reference with an optional resolved library.
type Ident struct {
	NodeInfo
	Name    string `json:"name"`
	Library string `json:"library,omitempty"`
}

// Binary is a binary operation with an enumerated operator.
type Binary struct {
	NodeInfo
	Op    BinaryOp   `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

// Unary is a prefix or postfix unary operation.
type Unary struct {
	NodeInfo
	Op       UnaryOp    `json:"op"`
	Operand  Expression `json:"operand"`
	IsPrefix bool       `json:"isPrefix"`
}

// Assign is a plain or compound assignment expression.
type Assign struct {
	NodeInfo
	Op     AssignOp   `json:"op"`
	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

// Conditional is the ternary operator.
type Conditional struct {
	NodeInfo
	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

// Call is a method or function invocation.
type Call struct {
	NodeInfo

	// Target is the receiver. Nil for unqualified calls.
	Target Expression `json:"target,omitempty"`

	Method    string `json:"method"`
	NullAware bool   `json:"nullAware,omitempty"`

	// Positional are positional argument expressions in source order.
	Positional []Expression `json:"positional,omitempty"`

	// Named maps argument name to expression.
	Named map[string]Expression `json:"named,omitempty"`

	// TypeArgs are the resolved generic argument names.
	TypeArgs []string `json:"typeArgs,omitempty"`
}

// Construct is a constructor call.
type Construct struct {
	NodeInfo

	TypeName string `json:"typeName"`

	// Variant is the named-constructor variant, empty for the default one.
	Variant string `json:"variant,omitempty"`

	IsConst bool `json:"isConst,omitempty"`

	Positional []Expression          `json:"positional,omitempty"`
	Named      map[string]Expression `json:"named,omitempty"`
	TypeArgs   []string              `json:"typeArgs,omitempty"`
}

// Property is a property read, nullable-aware.
type Property struct {
	NodeInfo
	Target    Expression `json:"target"`
	Name      string     `json:"name"`
	NullAware bool       `json:"nullAware,omitempty"`
}

// Index is an index read, nullable-aware.
type Index struct {
	NodeInfo
	Target    Expression `json:"target"`
	IndexExpr Expression `json:"index"`
	NullAware bool       `json:"nullAware,omitempty"`
}

// Collection is a list, map, or set literal.
//
// Elements may be any expression plus the structural element forms the
// normalizer produces: Spread for spread entries, Conditional for
// conditional inclusion (branches are single-element or empty
// collections), MapEntry for map pairs, and Skip for for-comprehension
// elements, which are not modeled.
type Collection struct {
	NodeInfo
	CollKind CollectionKind `json:"kind"`
	IsConst  bool           `json:"isConst,omitempty"`
	Elements []Expression   `json:"elements"`
}

// MapEntry is one key/value pair inside a map Collection.
type MapEntry struct {
	NodeInfo
	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

// Spread is a spread element inside a Collection.
type Spread struct {
	NodeInfo
	Operand   Expression `json:"operand"`
	NullAware bool       `json:"nullAware,omitempty"`
}

// Skip marks a collection element shape the pipeline deliberately does not
// model (for-comprehension elements). The raw text is preserved in Code.
type Skip struct {
	NodeInfo
	Reason string `json:"reason"`
}

// InterpPart is one segment of an Interp: a literal run (Expr nil) or an
// embedded expression (Text empty).
type InterpPart struct {
	Text string     `json:"text,omitempty"`
	Expr Expression `json:"expr,omitempty"`
}

// Interp is a string interpolation with parts in exact source order.
type Interp struct {
	NodeInfo
	Parts []InterpPart `json:"parts"`
}

// Cascade is a cascade expression; Sections are extracted in source order.
type Cascade struct {
	NodeInfo
	Target   Expression   `json:"target"`
	Sections []Expression `json:"sections"`
}

// ClosureParam is one parameter of a Closure.
type ClosureParam struct {
	Name       string `json:"name"`
	Origin     string `json:"origin"`
	HasDefault bool   `json:"hasDefault,omitempty"`
}

// Closure is a function literal.
type Closure struct {
	NodeInfo

	Params []ClosureParam `json:"params"`

	// IsArrow is true for `=> expr` bodies; ArrowBody holds the expression.
	IsArrow   bool       `json:"isArrow"`
	ArrowBody Expression `json:"arrowBody,omitempty"`

	// Body holds the block-form statements. Empty when IsArrow.
	Body []Statement `json:"body,omitempty"`

	IsAsync     bool `json:"isAsync,omitempty"`
	IsGenerator bool `json:"isGenerator,omitempty"`

	// ReturnType is the best-effort inferred return type name; "dynamic"
	// when inference found nothing.
	ReturnType string `json:"returnType"`
}

// Await is an await expression.
type Await struct {
	NodeInfo
	Operand Expression `json:"operand"`
}

// PatternIR is a pattern-match construct with its bound-variable set.
type PatternIR struct {
	NodeInfo
	PatKind PatternKind `json:"kind"`

	// Name is the bound variable for variable patterns.
	Name string `json:"name,omitempty"`

	// Value is the matched constant for constant patterns.
	Value Expression `json:"value,omitempty"`

	// BoundVars lists every variable the pattern binds.
	BoundVars []string `json:"boundVars,omitempty"`
}

// Unknown is the explicit fallback for shapes the normalizer has no case
// for, or for nested extractions that failed. Code carries the original
// source text; Reason the error, when one occurred.
type Unknown struct {
	NodeInfo
	Reason string `json:"reason,omitempty"`
}

func (e *Literal) Info() NodeInfo     { return e.NodeInfo }
func (e *Ident) Info() NodeInfo       { return e.NodeInfo }
func (e *Binary) Info() NodeInfo      { return e.NodeInfo }
func (e *Unary) Info() NodeInfo       { return e.NodeInfo }
func (e *Assign) Info() NodeInfo      { return e.NodeInfo }
func (e *Conditional) Info() NodeInfo { return e.NodeInfo }
func (e *Call) Info() NodeInfo        { return e.NodeInfo }
func (e *Construct) Info() NodeInfo   { return e.NodeInfo }
func (e *Property) Info() NodeInfo    { return e.NodeInfo }
func (e *Index) Info() NodeInfo       { return e.NodeInfo }
func (e *Collection) Info() NodeInfo  { return e.NodeInfo }
func (e *MapEntry) Info() NodeInfo    { return e.NodeInfo }
func (e *Spread) Info() NodeInfo      { return e.NodeInfo }
func (e *Skip) Info() NodeInfo        { return e.NodeInfo }
func (e *Interp) Info() NodeInfo      { return e.NodeInfo }
func (e *Cascade) Info() NodeInfo     { return e.NodeInfo }
func (e *Closure) Info() NodeInfo     { return e.NodeInfo }
func (e *Await) Info() NodeInfo       { return e.NodeInfo }
func (e *PatternIR) Info() NodeInfo   { return e.NodeInfo }
func (e *Unknown) Info() NodeInfo     { return e.NodeInfo }

func (*Literal) irNode()     {}
func (*Ident) irNode()       {}
func (*Binary) irNode()      {}
func (*Unary) irNode()       {}
func (*Assign) irNode()      {}
func (*Conditional) irNode() {}
func (*Call) irNode()        {}
func (*Construct) irNode()   {}
func (*Property) irNode()    {}
func (*Index) irNode()       {}
func (*Collection) irNode()  {}
func (*MapEntry) irNode()    {}
func (*Spread) irNode()      {}
func (*Skip) irNode()        {}
func (*Interp) irNode()      {}
func (*Cascade) irNode()     {}
func (*Closure) irNode()     {}
func (*Await) irNode()       {}
func (*PatternIR) irNode()   {}
func (*Unknown) irNode()     {}

func (*Literal) irExpression()     {}
func (*Ident) irExpression()       {}
func (*Binary) irExpression()      {}
func (*Unary) irExpression()       {}
func (*Assign) irExpression()      {}
func (*Conditional) irExpression() {}
func (*Call) irExpression()        {}
func (*Construct) irExpression()   {}
func (*Property) irExpression()    {}
func (*Index) irExpression()       {}
func (*Collection) irExpression()  {}
func (*MapEntry) irExpression()    {}
func (*Spread) irExpression()      {}
func (*Skip) irExpression()        {}
func (*Interp) irExpression()      {}
func (*Cascade) irExpression()     {}
func (*Closure) irExpression()     {}
func (*Await) irExpression()       {}
func (*PatternIR) irExpression()   {}
func (*Unknown) irExpression()     {}
