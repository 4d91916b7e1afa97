// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package syntax defines the closed set of syntax-tree node shapes the
// Williwaw semantic front-end operates on.
//
// The native widget-language parser lives in a separate service; its
// versioned grammar is confined behind the front-end adapters (see the
// frontend packages), which lower whatever they parse into these nodes.
// Downstream code dispatches on the closed union; there is no "unknown
// shape at runtime" beyond the explicit Unrecognized node.
//
// All nodes are immutable after construction and must not be modified once
// handed to the normalizer or extractor. Node values are always pointers;
// pointer identity is the node identity used by the detector cache.
package syntax

// Span records where a node came from in the source buffer.
//
// Text is the raw source slice for the node. The extraction pipeline uses
// it verbatim for unknown-node fallbacks, property values, and condition
// snippets, so adapters must populate it.
type Span struct {
	// Offset is the byte offset of the node start.
	Offset int

	// Length is the byte length of the node.
	Length int

	// Text is the raw source text of the node.
	Text string
}

// Node is the interface satisfied by every syntax-tree node.
//
// The union is sealed: only types in this package implement Node, so a
// switch over concrete types (or Kind) can be exhaustive.
type Node interface {
	// Kind reports the node's shape discriminator.
	Kind() Kind

	// Span reports the node's source span.
	Span() Span

	sealed()
}

// Expression is a Node that can appear in expression position.
type Expression interface {
	Node
	expression()
}

// CollectionElement is a Node that can appear inside a list, set, or map
// literal. Every Expression is wrapped as a plain element by adapters; the
// remaining shapes are spread, conditional, for-comprehension, and map
// entries.
type CollectionElement interface {
	Node
	element()
}

// Pattern is a Node that can appear in pattern-match position.
type Pattern interface {
	Node
	pattern()
}

// Statement is a Node that can appear in statement position.
type Statement interface {
	Node
	statement()
}

// Base is the common embedded position base for all nodes. Front-end
// adapters embed it implicitly by constructing nodes with At.
type Base struct {
	S Span
}

// Span reports the node's source span.
func (b Base) Span() Span { return b.S }

func (Base) sealed() {}

// At builds a node base from a span. Adapters use it when constructing
// nodes:
//
//	&syntax.Identifier{Base: syntax.At(off, length, text), Name: "items"}
func At(offset, length int, text string) Base {
	return Base{S: Span{Offset: offset, Length: length, Text: text}}
}

// =============================================================================
// Literals
// =============================================================================

// IntLiteral is an integer literal.
type IntLiteral struct {
	Base
	Value int64
}

// DoubleLiteral is a floating-point literal.
type DoubleLiteral struct {
	Base
	Value float64
}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Base
	Value bool
}

// StringLiteral is a plain (non-interpolated) string literal. Value holds
// the cooked content without quotes.
type StringLiteral struct {
	Base
	Value string
}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Base
}

func (*IntLiteral) Kind() Kind    { return KindIntLiteral }
func (*DoubleLiteral) Kind() Kind { return KindDoubleLiteral }
func (*BoolLiteral) Kind() Kind   { return KindBoolLiteral }
func (*StringLiteral) Kind() Kind { return KindStringLiteral }
func (*NullLiteral) Kind() Kind   { return KindNullLiteral }

// =============================================================================
// Simple expressions
// =============================================================================

// Identifier is a simple or prefixed identifier reference.
type Identifier struct {
	Base

	// Name is the identifier text.
	Name string

	// Library is the resolved defining library URI, when the front end
	// resolved the reference. Empty otherwise.
	Library string
}

func (*Identifier) Kind() Kind { return KindIdentifier }

// Binary is a binary operation. Operator holds the raw lexeme ("+", "??",
// "=="); the normalizer maps it to a closed enum.
type Binary struct {
	Base
	Operator string
	Left     Expression
	Right    Expression
}

func (*Binary) Kind() Kind { return KindBinary }

// Unary is a prefix or postfix unary operation.
type Unary struct {
	Base
	Operator string
	Operand  Expression
	IsPrefix bool
}

func (*Unary) Kind() Kind { return KindUnary }

// Assignment is a plain or compound assignment. Operator is the raw lexeme
// ("=", "+=", "??=").
type Assignment struct {
	Base
	Operator string
	Target   Expression
	Value    Expression
}

func (*Assignment) Kind() Kind { return KindAssignment }

// Conditional is the ternary operator.
type Conditional struct {
	Base
	Condition Expression
	Then      Expression
	Else      Expression
}

func (*Conditional) Kind() Kind { return KindConditional }

// Paren is a parenthesized expression. The normalizer unwraps it
// transparently; no IR node is produced for it.
type Paren struct {
	Base
	Inner Expression
}

func (*Paren) Kind() Kind { return KindParen }

// Await is an await expression.
type Await struct {
	Base
	Operand Expression
}

func (*Await) Kind() Kind { return KindAwait }

// Unrecognized is a shape the front-end adapter had no mapping for. The
// raw text is preserved so the normalizer can emit an unknown IR node.
type Unrecognized struct {
	Base

	// Reason describes why the adapter could not map the node, when known.
	Reason string
}

func (*Unrecognized) Kind() Kind { return KindUnrecognized }

// =============================================================================
// Calls and access
// =============================================================================

// NamedArgument is a name: value pair in an argument list. It is not a
// Node; ordering within the argument list is source order.
type NamedArgument struct {
	Name  string
	Value Expression
}

// Invocation is a method or function call that is not a constructor call.
type Invocation struct {
	Base

	// Target is the receiver expression. Nil for unqualified calls.
	Target Expression

	// Method is the invoked name.
	Method string

	// NullAware is true for `?.` invocations.
	NullAware bool

	Positional []Expression
	Named      []NamedArgument

	// TypeArgs are resolved generic arguments, when the front end provides
	// them.
	TypeArgs []*TypeRef
}

func (*Invocation) Kind() Kind { return KindInvocation }

// ConstructorCall instantiates a class, e.g. `Box(color: "red")` or
// `EdgeInsets.all(8)`.
type ConstructorCall struct {
	Base

	// TypeName is the constructed class name.
	TypeName string

	// Variant is the named-constructor variant ("all" in EdgeInsets.all).
	// Empty for the default constructor.
	Variant string

	// IsConst is true for const instantiations.
	IsConst bool

	Positional []Expression
	Named      []NamedArgument
	TypeArgs   []*TypeRef

	// Class is the resolved class element, when the front end resolved the
	// reference. May be nil.
	Class *ClassElement
}

func (*ConstructorCall) Kind() Kind { return KindConstructorCall }

// PropertyAccess reads a property from a target expression.
type PropertyAccess struct {
	Base
	Target    Expression
	Property  string
	NullAware bool
}

func (*PropertyAccess) Kind() Kind { return KindPropertyAccess }

// IndexAccess reads an indexed element from a target expression.
type IndexAccess struct {
	Base
	Target    Expression
	Index     Expression
	NullAware bool
}

func (*IndexAccess) Kind() Kind { return KindIndexAccess }

// Cascade applies a sequence of sections to one target, e.g.
// `controller..add(1)..close()`. Sections are the section expressions in
// source order.
type Cascade struct {
	Base
	Target   Expression
	Sections []Expression
}

func (*Cascade) Kind() Kind { return KindCascade }

// =============================================================================
// Collections
// =============================================================================

// ListLiteral is a list literal, including const lists.
type ListLiteral struct {
	Base
	IsConst  bool
	TypeArgs []*TypeRef
	Elements []CollectionElement
}

// SetLiteral is a set literal.
type SetLiteral struct {
	Base
	IsConst  bool
	TypeArgs []*TypeRef
	Elements []CollectionElement
}

// MapLiteral is a map literal. Elements are MapEntry, SpreadElement,
// IfElement, or ForElement nodes.
type MapLiteral struct {
	Base
	IsConst  bool
	TypeArgs []*TypeRef
	Elements []CollectionElement
}

func (*ListLiteral) Kind() Kind { return KindListLiteral }
func (*SetLiteral) Kind() Kind  { return KindSetLiteral }
func (*MapLiteral) Kind() Kind  { return KindMapLiteral }

// SpreadElement spreads another collection into this one (`...x`, `...?x`).
type SpreadElement struct {
	Base
	Operand   Expression
	NullAware bool
}

func (*SpreadElement) Kind() Kind { return KindSpreadElement }

// IfElement conditionally includes an element (`if (flag) X()` inside a
// literal). Else may be nil.
type IfElement struct {
	Base
	Condition Expression
	Then      CollectionElement
	Else      CollectionElement
}

func (*IfElement) Kind() Kind { return KindIfElement }

// ForElement is a `for` comprehension inside a collection literal. The
// pipeline does not model comprehension semantics; it surfaces a typed
// skip marker instead.
type ForElement struct {
	Base
	Body CollectionElement
}

func (*ForElement) Kind() Kind { return KindForElement }

// MapEntry is a key: value entry in a map literal.
type MapEntry struct {
	Base
	Key   Expression
	Value Expression
}

func (*MapEntry) Kind() Kind { return KindMapEntry }

// =============================================================================
// Interpolation
// =============================================================================

// InterpolationPart is one segment of an interpolated string: either a
// literal run (Expr nil) or an embedded expression (Literal empty).
type InterpolationPart struct {
	Literal string
	Expr    Expression
}

// Interpolation is an interpolated string literal. Parts preserve the
// exact interleave order as written.
type Interpolation struct {
	Base
	Parts []InterpolationPart
}

func (*Interpolation) Kind() Kind { return KindInterpolation }

// =============================================================================
// Closures
// =============================================================================

// ParamOrigin tags how a closure parameter was declared.
type ParamOrigin int

const (
	// ParamPositional is a required positional parameter.
	ParamPositional ParamOrigin = iota

	// ParamOptionalPositional is an optional positional parameter.
	ParamOptionalPositional

	// ParamNamed is a named parameter.
	ParamNamed
)

// String returns the display name of the origin tag.
func (o ParamOrigin) String() string {
	switch o {
	case ParamOptionalPositional:
		return "optionalPositional"
	case ParamNamed:
		return "named"
	default:
		return "positional"
	}
}

// Param is a closure or function parameter.
type Param struct {
	Name       string
	Type       *TypeRef
	Origin     ParamOrigin
	HasDefault bool
}

// FunctionBody is the body of a closure, function, or method: either an
// arrow expression or a statement block, never both.
type FunctionBody struct {
	// IsArrow is true for `=> expr` bodies.
	IsArrow bool

	// Expr is the arrow expression. Nil when IsArrow is false.
	Expr Expression

	// Block is the block body. Nil when IsArrow is true.
	Block *Block

	IsAsync     bool
	IsGenerator bool
}

// Closure is a function literal.
type Closure struct {
	Base
	Params []Param
	Body   FunctionBody
}

func (*Closure) Kind() Kind { return KindClosure }

// =============================================================================
// Patterns
// =============================================================================

// WildcardPattern matches anything and binds nothing (`_`).
type WildcardPattern struct {
	Base
}

// VariablePattern matches anything and binds one variable.
type VariablePattern struct {
	Base
	Name string
}

// ConstantPattern matches a constant expression.
type ConstantPattern struct {
	Base
	Value Expression
}

func (*WildcardPattern) Kind() Kind { return KindWildcardPattern }
func (*VariablePattern) Kind() Kind { return KindVariablePattern }
func (*ConstantPattern) Kind() Kind { return KindConstantPattern }

// =============================================================================
// Statements
// =============================================================================

// Block is a `{ ... }` statement sequence.
type Block struct {
	Base
	Statements []Statement
}

// VarDecl declares one local variable. Keyword is the declaring lexeme
// ("var", "final", "const"); Type may be nil for inferred declarations.
type VarDecl struct {
	Base
	Keyword string
	Name    string
	Type    *TypeRef
	Init    Expression
}

// Return returns from the enclosing function. Value may be nil.
type Return struct {
	Base
	Value Expression
}

// Break exits the enclosing loop or switch. Label may be empty.
type Break struct {
	Base
	Label string
}

// Continue advances the enclosing loop. Label may be empty.
type Continue struct {
	Base
	Label string
}

// Throw raises an error value.
type Throw struct {
	Base
	Value Expression
}

// If is a standard conditional statement. Else may be nil.
type If struct {
	Base
	Condition Expression
	Then      Statement
	Else      Statement
}

// IfCase is an if-with-pattern statement (`if (x case Pattern) ...`).
type IfCase struct {
	Base
	Value   Expression
	Pattern Pattern

	// Guard is the optional `when` clause.
	Guard Expression

	Then Statement
	Else Statement
}

// For is a classic three-clause loop. Any clause may be nil/empty.
type For struct {
	Base

	// Init is the initializer: a VarDecl or ExprStmt. Nil when absent.
	Init Statement

	Condition Expression
	Updates   []Expression
	Body      Statement
}

// ForEach iterates a collection (`for (final item in items) ...`).
type ForEach struct {
	Base

	// Keyword is the loop-variable declaration lexeme ("final", "var").
	// Empty when the loop reuses an existing variable.
	Keyword string

	Variable string
	Iterable Expression
	Body     Statement
	IsAwait  bool
}

// While is a pre-condition loop.
type While struct {
	Base
	Condition Expression
	Body      Statement
}

// DoWhile is a post-condition loop.
type DoWhile struct {
	Base
	Body      Statement
	Condition Expression
}

// CatchClause is one catch handler of a Try statement.
type CatchClause struct {
	// ExcType is the `on` type filter. Nil for untyped catches.
	ExcType *TypeRef

	// Param is the exception variable name. Empty for `on T` without catch.
	Param string

	// StackParam is the stack-trace variable name, when declared.
	StackParam string

	Body *Block
}

// Try is a try/catch/finally statement.
type Try struct {
	Base
	Body    *Block
	Catches []CatchClause

	// Finally is the finally block. Nil when absent.
	Finally *Block
}

// SwitchCase is one case of a Switch statement.
type SwitchCase struct {
	// Values are the case expressions. Empty for `default`.
	Values []Expression

	// Pattern is the case pattern for pattern switches. Nil otherwise.
	Pattern Pattern

	IsDefault  bool
	Statements []Statement
}

// Switch is a switch statement.
type Switch struct {
	Base
	Value Expression
	Cases []SwitchCase
}

// Labeled attaches a label to a statement.
type Labeled struct {
	Base
	Label string
	Stmt  Statement
}

// ExprStmt is an expression used in statement position.
type ExprStmt struct {
	Base
	Expr Expression
}

func (*Block) Kind() Kind    { return KindBlock }
func (*VarDecl) Kind() Kind  { return KindVarDecl }
func (*Return) Kind() Kind   { return KindReturn }
func (*Break) Kind() Kind    { return KindBreak }
func (*Continue) Kind() Kind { return KindContinue }
func (*Throw) Kind() Kind    { return KindThrow }
func (*If) Kind() Kind       { return KindIf }
func (*IfCase) Kind() Kind   { return KindIfCase }
func (*For) Kind() Kind      { return KindFor }
func (*ForEach) Kind() Kind  { return KindForEach }
func (*While) Kind() Kind    { return KindWhile }
func (*DoWhile) Kind() Kind  { return KindDoWhile }
func (*Try) Kind() Kind      { return KindTry }
func (*Switch) Kind() Kind   { return KindSwitch }
func (*Labeled) Kind() Kind  { return KindLabeled }
func (*ExprStmt) Kind() Kind { return KindExprStmt }

// =============================================================================
// Union membership
// =============================================================================

func (*IntLiteral) expression()      {}
func (*DoubleLiteral) expression()   {}
func (*BoolLiteral) expression()     {}
func (*StringLiteral) expression()   {}
func (*NullLiteral) expression()     {}
func (*Identifier) expression()      {}
func (*Binary) expression()          {}
func (*Unary) expression()           {}
func (*Assignment) expression()      {}
func (*Conditional) expression()     {}
func (*Invocation) expression()      {}
func (*ConstructorCall) expression() {}
func (*PropertyAccess) expression()  {}
func (*IndexAccess) expression()     {}
func (*ListLiteral) expression()     {}
func (*SetLiteral) expression()      {}
func (*MapLiteral) expression()      {}
func (*Interpolation) expression()   {}
func (*Cascade) expression()         {}
func (*Closure) expression()         {}
func (*Paren) expression()           {}
func (*Await) expression()           {}
func (*Unrecognized) expression()    {}

// Expressions appear directly as collection elements; the remaining
// element shapes are structural.
func (*IntLiteral) element()      {}
func (*DoubleLiteral) element()   {}
func (*BoolLiteral) element()     {}
func (*StringLiteral) element()   {}
func (*NullLiteral) element()     {}
func (*Identifier) element()      {}
func (*Binary) element()          {}
func (*Unary) element()           {}
func (*Assignment) element()      {}
func (*Conditional) element()     {}
func (*Invocation) element()      {}
func (*ConstructorCall) element() {}
func (*PropertyAccess) element()  {}
func (*IndexAccess) element()     {}
func (*ListLiteral) element()     {}
func (*SetLiteral) element()      {}
func (*MapLiteral) element()      {}
func (*Interpolation) element()   {}
func (*Cascade) element()         {}
func (*Closure) element()         {}
func (*Paren) element()           {}
func (*Await) element()           {}
func (*Unrecognized) element()    {}
func (*SpreadElement) element()   {}
func (*IfElement) element()       {}
func (*ForElement) element()      {}
func (*MapEntry) element()        {}

func (*WildcardPattern) pattern() {}
func (*VariablePattern) pattern() {}
func (*ConstantPattern) pattern() {}

func (*Block) statement()    {}
func (*VarDecl) statement()  {}
func (*Return) statement()   {}
func (*Break) statement()    {}
func (*Continue) statement() {}
func (*Throw) statement()    {}
func (*If) statement()       {}
func (*IfCase) statement()   {}
func (*For) statement()      {}
func (*ForEach) statement()  {}
func (*While) statement()    {}
func (*DoWhile) statement()  {}
func (*Try) statement()      {}
func (*Switch) statement()   {}
func (*Labeled) statement()  {}
func (*ExprStmt) statement() {}

// Unrecognized nodes are valid in every position so adapters can always
// produce a well-formed tree.
func (*Unrecognized) statement() {}
func (*Unrecognized) pattern()   {}
