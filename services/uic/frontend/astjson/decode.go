// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package astjson

import (
	"encoding/json"

	"github.com/AleutianAI/williwaw/services/uic/pipeline"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// =============================================================================
// Raw wire shapes
// =============================================================================

type rawTypeRef struct {
	Name          string        `json:"name"`
	Library       string        `json:"library,omitempty"`
	TypeArgs      []*rawTypeRef `json:"typeArgs,omitempty"`
	TypeParameter bool          `json:"typeParameter,omitempty"`
	Bound         *rawTypeRef   `json:"bound,omitempty"`
}

type rawParam struct {
	Name       string      `json:"name"`
	Type       *rawTypeRef `json:"type,omitempty"`
	Origin     string      `json:"origin,omitempty"`
	HasDefault bool        `json:"default,omitempty"`
}

type rawBody struct {
	Arrow     bool     `json:"arrow,omitempty"`
	Async     bool     `json:"async,omitempty"`
	Generator bool     `json:"generator,omitempty"`
	Expr      *rawNode `json:"expr,omitempty"`
	Block     *rawNode `json:"block,omitempty"`
}

type rawCtor struct {
	Name            string      `json:"name,omitempty"`
	IsConst         bool        `json:"const,omitempty"`
	IsFactory       bool        `json:"factory,omitempty"`
	RedirectClass   string      `json:"redirectClass,omitempty"`
	RedirectVariant string      `json:"redirectVariant,omitempty"`
	ReturnType      *rawTypeRef `json:"returnType,omitempty"`
}

type rawMethod struct {
	Name       string      `json:"name"`
	IsStatic   bool        `json:"static,omitempty"`
	IsGetter   bool        `json:"getter,omitempty"`
	ReturnType *rawTypeRef `json:"returnType,omitempty"`
	Params     []rawParam  `json:"params,omitempty"`
	Body       *rawBody    `json:"body,omitempty"`
}

type rawField struct {
	Name     string      `json:"name"`
	IsStatic bool        `json:"static,omitempty"`
	Type     *rawTypeRef `json:"type,omitempty"`
	Getter   *rawMethod  `json:"getter,omitempty"`
}

type rawDecl struct {
	Kind    string `json:"kind"` // "class" or "function"
	Name    string `json:"name"`
	Library string `json:"library,omitempty"`

	// Class fields.
	Supertype    *rawTypeRef   `json:"supertype,omitempty"`
	Interfaces   []*rawTypeRef `json:"interfaces,omitempty"`
	Mixins       []*rawTypeRef `json:"mixins,omitempty"`
	Constructors []rawCtor     `json:"constructors,omitempty"`
	Methods      []rawMethod   `json:"methods,omitempty"`
	Fields       []rawField    `json:"fields,omitempty"`

	// Function fields.
	ReturnType *rawTypeRef `json:"returnType,omitempty"`
	Params     []rawParam  `json:"params,omitempty"`
	Body       *rawBody    `json:"body,omitempty"`
}

type rawNamedArg struct {
	Name  string   `json:"name"`
	Value *rawNode `json:"value"`
}

type rawInterpPart struct {
	Literal string   `json:"literal,omitempty"`
	Expr    *rawNode `json:"expr,omitempty"`
}

type rawCatch struct {
	ExcType    *rawTypeRef `json:"excType,omitempty"`
	Param      string      `json:"param,omitempty"`
	StackParam string      `json:"stackParam,omitempty"`
	Body       *rawNode    `json:"body"`
}

type rawCase struct {
	Values     []*rawNode `json:"values,omitempty"`
	Pattern    *rawNode   `json:"pattern,omitempty"`
	IsDefault  bool       `json:"default,omitempty"`
	Statements []*rawNode `json:"statements"`
}

// rawNode is the union wire shape of every syntax node. The kind string
// matches syntax.Kind display names; fields are interpreted per kind.
type rawNode struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Text   string `json:"text"`

	// Value is a scalar for literals and a node for Return, Throw,
	// Switch, ConstantPattern, MapEntry, and IfCase.
	Value json.RawMessage `json:"value,omitempty"`

	Name      string `json:"name,omitempty"`
	Library   string `json:"library,omitempty"`
	Op        string `json:"op,omitempty"`
	Prefix    bool   `json:"prefix,omitempty"`
	NullAware bool   `json:"nullAware,omitempty"`
	Reason    string `json:"reason,omitempty"`

	Left      *rawNode `json:"left,omitempty"`
	Right     *rawNode `json:"right,omitempty"`
	Operand   *rawNode `json:"operand,omitempty"`
	Target    *rawNode `json:"target,omitempty"`
	Condition *rawNode `json:"condition,omitempty"`
	Then      *rawNode `json:"then,omitempty"`
	Else      *rawNode `json:"else,omitempty"`
	Inner     *rawNode `json:"inner,omitempty"`
	Index     *rawNode `json:"index,omitempty"`
	Key       *rawNode `json:"key,omitempty"`
	Init      *rawNode `json:"init,omitempty"`
	Iterable  *rawNode `json:"iterable,omitempty"`
	Guard     *rawNode `json:"guard,omitempty"`
	Pattern   *rawNode `json:"pattern,omitempty"`
	Stmt      *rawNode `json:"stmt,omitempty"`
	Finally   *rawNode `json:"finally,omitempty"`
	Body      *rawNode `json:"body,omitempty"`

	Method   string `json:"method,omitempty"`
	TypeName string `json:"typeName,omitempty"`
	Variant  string `json:"variant,omitempty"`
	IsConst  bool   `json:"const,omitempty"`
	Property string `json:"property,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
	Variable string `json:"variable,omitempty"`
	Label    string `json:"label,omitempty"`
	IsAwait  bool   `json:"await,omitempty"`

	Positional []*rawNode      `json:"positional,omitempty"`
	Named      []rawNamedArg   `json:"named,omitempty"`
	TypeArgs   []*rawTypeRef   `json:"typeArgs,omitempty"`
	Elements   []*rawNode      `json:"elements,omitempty"`
	Sections   []*rawNode      `json:"sections,omitempty"`
	Statements []*rawNode      `json:"statements,omitempty"`
	Updates    []*rawNode      `json:"updates,omitempty"`
	Parts      []rawInterpPart `json:"parts,omitempty"`
	Params     []rawParam      `json:"params,omitempty"`
	Catches    []rawCatch      `json:"catches,omitempty"`
	Cases      []rawCase       `json:"cases,omitempty"`
	Type       *rawTypeRef     `json:"type,omitempty"`

	// FnBody is the function body of a Closure.
	FnBody *rawBody `json:"fnBody,omitempty"`
}

// =============================================================================
// Declarations
// =============================================================================

func (d *Decoder) declaration(raw *rawDecl) (syntax.Declaration, []pipeline.BuildUnit) {
	switch raw.Kind {
	case "class":
		return d.class(raw)
	case "function":
		fn := &syntax.FunctionElement{
			Name:       raw.Name,
			ReturnType: d.typeRef(raw.ReturnType),
			Params:     d.paramElements(raw.Params),
		}
		var units []pipeline.BuildUnit
		if raw.Body != nil {
			units = append(units, pipeline.BuildUnit{
				Name: raw.Name,
				Decl: fn,
				Body: d.body(raw.Body),
			})
		}
		return fn, units
	default:
		d.warnf("unknown declaration kind %q for %q", raw.Kind, raw.Name)
		return nil, nil
	}
}

func (d *Decoder) class(raw *rawDecl) (syntax.Declaration, []pipeline.BuildUnit) {
	class := &syntax.ClassElement{
		Name:       raw.Name,
		Library:    raw.Library,
		Supertype:  d.typeRef(raw.Supertype),
		Interfaces: d.typeRefList(raw.Interfaces),
		Mixins:     d.typeRefList(raw.Mixins),
	}
	d.classes[raw.Name] = class

	for _, rc := range raw.Constructors {
		ctor := &syntax.ConstructorElement{
			Name:       rc.Name,
			Class:      class,
			IsConst:    rc.IsConst,
			IsFactory:  rc.IsFactory,
			ReturnType: d.typeRef(rc.ReturnType),
		}
		if ctor.ReturnType == nil {
			ctor.ReturnType = class.AsType()
		}
		if rc.RedirectClass != "" {
			d.redirects = append(d.redirects, pendingRedirect{
				ctor:    ctor,
				class:   rc.RedirectClass,
				variant: rc.RedirectVariant,
			})
		}
		class.Constructors = append(class.Constructors, ctor)
	}

	var units []pipeline.BuildUnit
	for i := range raw.Methods {
		rm := &raw.Methods[i]
		method := d.method(rm)
		class.Methods = append(class.Methods, method)
		if rm.Body != nil {
			units = append(units, pipeline.BuildUnit{
				Name: class.Name + "." + method.Name,
				Decl: method,
				Body: d.body(rm.Body),
			})
		}
	}

	for i := range raw.Fields {
		rf := &raw.Fields[i]
		field := &syntax.FieldElement{
			Name:     rf.Name,
			IsStatic: rf.IsStatic,
			Type:     d.typeRef(rf.Type),
		}
		if rf.Getter != nil {
			field.Getter = d.method(rf.Getter)
		}
		class.Fields = append(class.Fields, field)
	}

	return class, units
}

func (d *Decoder) method(raw *rawMethod) *syntax.MethodElement {
	return &syntax.MethodElement{
		Name:       raw.Name,
		IsStatic:   raw.IsStatic,
		IsGetter:   raw.IsGetter,
		ReturnType: d.typeRef(raw.ReturnType),
		Params:     d.paramElements(raw.Params),
	}
}

func (d *Decoder) paramElements(raws []rawParam) []*syntax.ParamElement {
	if len(raws) == 0 {
		return nil
	}
	params := make([]*syntax.ParamElement, 0, len(raws))
	for _, rp := range raws {
		params = append(params, &syntax.ParamElement{
			Name: rp.Name,
			Type: d.typeRef(rp.Type),
		})
	}
	return params
}

func (d *Decoder) typeRef(raw *rawTypeRef) *syntax.TypeRef {
	if raw == nil {
		return nil
	}
	ref := &syntax.TypeRef{
		Name:            raw.Name,
		Library:         raw.Library,
		TypeArgs:        d.typeRefList(raw.TypeArgs),
		IsTypeParameter: raw.TypeParameter,
		Bound:           d.typeRef(raw.Bound),
	}
	d.typeRefs = append(d.typeRefs, ref)
	return ref
}

func (d *Decoder) typeRefList(raws []*rawTypeRef) []*syntax.TypeRef {
	if len(raws) == 0 {
		return nil
	}
	refs := make([]*syntax.TypeRef, 0, len(raws))
	for _, r := range raws {
		refs = append(refs, d.typeRef(r))
	}
	return refs
}

// =============================================================================
// Function bodies
// =============================================================================

func (d *Decoder) body(raw *rawBody) syntax.FunctionBody {
	body := syntax.FunctionBody{
		IsArrow:     raw.Arrow,
		IsAsync:     raw.Async,
		IsGenerator: raw.Generator,
	}
	if raw.Arrow {
		body.Expr = d.expr(raw.Expr)
	} else {
		body.Block = d.block(raw.Block)
	}
	return body
}

func (d *Decoder) block(raw *rawNode) *syntax.Block {
	if raw == nil {
		return &syntax.Block{}
	}
	if s, ok := d.stmt(raw).(*syntax.Block); ok {
		return s
	}
	// A single non-block statement in block position gets wrapped.
	return &syntax.Block{Base: d.base(raw), Statements: []syntax.Statement{d.stmt(raw)}}
}

// =============================================================================
// Nodes
// =============================================================================

func (d *Decoder) base(raw *rawNode) syntax.Base {
	return syntax.At(raw.Offset, raw.Length, raw.Text)
}

func (d *Decoder) unrecognized(raw *rawNode, reason string) *syntax.Unrecognized {
	d.warnf("unmapped node kind %q at offset %d", raw.Kind, raw.Offset)
	return &syntax.Unrecognized{Base: d.base(raw), Reason: reason}
}

// valueNode decodes the polymorphic "value" field as a child node.
func (d *Decoder) valueNode(raw *rawNode) *rawNode {
	if len(raw.Value) == 0 {
		return nil
	}
	var child rawNode
	if err := json.Unmarshal(raw.Value, &child); err != nil {
		d.warnf("bad value node at offset %d: %v", raw.Offset, err)
		return nil
	}
	return &child
}

func (d *Decoder) expr(raw *rawNode) syntax.Expression {
	if raw == nil {
		return nil
	}

	switch raw.Kind {
	case "IntLiteral":
		var v int64
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return d.unrecognized(raw, "bad int literal value")
		}
		return &syntax.IntLiteral{Base: d.base(raw), Value: v}
	case "DoubleLiteral":
		var v float64
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return d.unrecognized(raw, "bad double literal value")
		}
		return &syntax.DoubleLiteral{Base: d.base(raw), Value: v}
	case "BoolLiteral":
		var v bool
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return d.unrecognized(raw, "bad bool literal value")
		}
		return &syntax.BoolLiteral{Base: d.base(raw), Value: v}
	case "StringLiteral":
		var v string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return d.unrecognized(raw, "bad string literal value")
		}
		return &syntax.StringLiteral{Base: d.base(raw), Value: v}
	case "NullLiteral":
		return &syntax.NullLiteral{Base: d.base(raw)}

	case "Identifier":
		return &syntax.Identifier{Base: d.base(raw), Name: raw.Name, Library: raw.Library}
	case "Binary":
		return &syntax.Binary{
			Base:     d.base(raw),
			Operator: raw.Op,
			Left:     d.expr(raw.Left),
			Right:    d.expr(raw.Right),
		}
	case "Unary":
		return &syntax.Unary{
			Base:     d.base(raw),
			Operator: raw.Op,
			Operand:  d.expr(raw.Operand),
			IsPrefix: raw.Prefix,
		}
	case "Assignment":
		return &syntax.Assignment{
			Base:     d.base(raw),
			Operator: raw.Op,
			Target:   d.expr(raw.Target),
			Value:    d.expr(d.valueNode(raw)),
		}
	case "Conditional":
		return &syntax.Conditional{
			Base:      d.base(raw),
			Condition: d.expr(raw.Condition),
			Then:      d.expr(raw.Then),
			Else:      d.expr(raw.Else),
		}
	case "Paren":
		return &syntax.Paren{Base: d.base(raw), Inner: d.expr(raw.Inner)}
	case "Await":
		return &syntax.Await{Base: d.base(raw), Operand: d.expr(raw.Operand)}

	case "Invocation":
		return &syntax.Invocation{
			Base:       d.base(raw),
			Target:     d.expr(raw.Target),
			Method:     raw.Method,
			NullAware:  raw.NullAware,
			Positional: d.exprs(raw.Positional),
			Named:      d.namedArgs(raw.Named),
			TypeArgs:   d.typeRefList(raw.TypeArgs),
		}
	case "ConstructorCall":
		call := &syntax.ConstructorCall{
			Base:       d.base(raw),
			TypeName:   raw.TypeName,
			Variant:    raw.Variant,
			IsConst:    raw.IsConst,
			Positional: d.exprs(raw.Positional),
			Named:      d.namedArgs(raw.Named),
			TypeArgs:   d.typeRefList(raw.TypeArgs),
		}
		d.ctorCalls = append(d.ctorCalls, call)
		return call
	case "PropertyAccess":
		return &syntax.PropertyAccess{
			Base:      d.base(raw),
			Target:    d.expr(raw.Target),
			Property:  raw.Property,
			NullAware: raw.NullAware,
		}
	case "IndexAccess":
		return &syntax.IndexAccess{
			Base:      d.base(raw),
			Target:    d.expr(raw.Target),
			Index:     d.expr(raw.Index),
			NullAware: raw.NullAware,
		}
	case "Cascade":
		return &syntax.Cascade{
			Base:     d.base(raw),
			Target:   d.expr(raw.Target),
			Sections: d.exprs(raw.Sections),
		}

	case "ListLiteral":
		return &syntax.ListLiteral{
			Base:     d.base(raw),
			IsConst:  raw.IsConst,
			TypeArgs: d.typeRefList(raw.TypeArgs),
			Elements: d.elements(raw.Elements),
		}
	case "SetLiteral":
		return &syntax.SetLiteral{
			Base:     d.base(raw),
			IsConst:  raw.IsConst,
			TypeArgs: d.typeRefList(raw.TypeArgs),
			Elements: d.elements(raw.Elements),
		}
	case "MapLiteral":
		return &syntax.MapLiteral{
			Base:     d.base(raw),
			IsConst:  raw.IsConst,
			TypeArgs: d.typeRefList(raw.TypeArgs),
			Elements: d.elements(raw.Elements),
		}

	case "Interpolation":
		parts := make([]syntax.InterpolationPart, 0, len(raw.Parts))
		for _, p := range raw.Parts {
			parts = append(parts, syntax.InterpolationPart{
				Literal: p.Literal,
				Expr:    d.expr(p.Expr),
			})
		}
		return &syntax.Interpolation{Base: d.base(raw), Parts: parts}

	case "Closure":
		params := make([]syntax.Param, 0, len(raw.Params))
		for _, p := range raw.Params {
			params = append(params, syntax.Param{
				Name:       p.Name,
				Type:       d.typeRef(p.Type),
				Origin:     paramOrigin(p.Origin),
				HasDefault: p.HasDefault,
			})
		}
		var body syntax.FunctionBody
		if raw.FnBody != nil {
			body = d.body(raw.FnBody)
		}
		return &syntax.Closure{Base: d.base(raw), Params: params, Body: body}

	case "Unrecognized":
		return &syntax.Unrecognized{Base: d.base(raw), Reason: raw.Reason}

	default:
		return d.unrecognized(raw, "no expression mapping for kind "+raw.Kind)
	}
}

func (d *Decoder) exprs(raws []*rawNode) []syntax.Expression {
	if len(raws) == 0 {
		return nil
	}
	out := make([]syntax.Expression, 0, len(raws))
	for _, r := range raws {
		out = append(out, d.expr(r))
	}
	return out
}

func (d *Decoder) namedArgs(raws []rawNamedArg) []syntax.NamedArgument {
	if len(raws) == 0 {
		return nil
	}
	out := make([]syntax.NamedArgument, 0, len(raws))
	for _, r := range raws {
		out = append(out, syntax.NamedArgument{Name: r.Name, Value: d.expr(r.Value)})
	}
	return out
}

func (d *Decoder) element(raw *rawNode) syntax.CollectionElement {
	if raw == nil {
		return nil
	}
	switch raw.Kind {
	case "SpreadElement":
		return &syntax.SpreadElement{
			Base:      d.base(raw),
			Operand:   d.expr(raw.Operand),
			NullAware: raw.NullAware,
		}
	case "IfElement":
		return &syntax.IfElement{
			Base:      d.base(raw),
			Condition: d.expr(raw.Condition),
			Then:      d.element(raw.Then),
			Else:      d.element(raw.Else),
		}
	case "ForElement":
		return &syntax.ForElement{Base: d.base(raw), Body: d.element(raw.Body)}
	case "MapEntry":
		return &syntax.MapEntry{
			Base:  d.base(raw),
			Key:   d.expr(raw.Key),
			Value: d.expr(d.valueNode(raw)),
		}
	default:
		return d.expr(raw).(syntax.CollectionElement)
	}
}

func (d *Decoder) elements(raws []*rawNode) []syntax.CollectionElement {
	if len(raws) == 0 {
		return nil
	}
	out := make([]syntax.CollectionElement, 0, len(raws))
	for _, r := range raws {
		out = append(out, d.element(r))
	}
	return out
}

func (d *Decoder) pattern(raw *rawNode) syntax.Pattern {
	if raw == nil {
		return nil
	}
	switch raw.Kind {
	case "WildcardPattern":
		return &syntax.WildcardPattern{Base: d.base(raw)}
	case "VariablePattern":
		return &syntax.VariablePattern{Base: d.base(raw), Name: raw.Name}
	case "ConstantPattern":
		return &syntax.ConstantPattern{Base: d.base(raw), Value: d.expr(d.valueNode(raw))}
	default:
		return d.unrecognized(raw, "no pattern mapping for kind "+raw.Kind)
	}
}

func (d *Decoder) stmt(raw *rawNode) syntax.Statement {
	if raw == nil {
		return nil
	}

	switch raw.Kind {
	case "Block":
		stmts := make([]syntax.Statement, 0, len(raw.Statements))
		for _, s := range raw.Statements {
			stmts = append(stmts, d.stmt(s))
		}
		return &syntax.Block{Base: d.base(raw), Statements: stmts}
	case "VarDecl":
		return &syntax.VarDecl{
			Base:    d.base(raw),
			Keyword: raw.Keyword,
			Name:    raw.Name,
			Type:    d.typeRef(raw.Type),
			Init:    d.expr(raw.Init),
		}
	case "Return":
		return &syntax.Return{Base: d.base(raw), Value: d.expr(d.valueNode(raw))}
	case "Break":
		return &syntax.Break{Base: d.base(raw), Label: raw.Label}
	case "Continue":
		return &syntax.Continue{Base: d.base(raw), Label: raw.Label}
	case "Throw":
		return &syntax.Throw{Base: d.base(raw), Value: d.expr(d.valueNode(raw))}
	case "If":
		return &syntax.If{
			Base:      d.base(raw),
			Condition: d.expr(raw.Condition),
			Then:      d.stmt(raw.Then),
			Else:      d.stmt(raw.Else),
		}
	case "IfCase":
		return &syntax.IfCase{
			Base:    d.base(raw),
			Value:   d.expr(d.valueNode(raw)),
			Pattern: d.pattern(raw.Pattern),
			Guard:   d.expr(raw.Guard),
			Then:    d.stmt(raw.Then),
			Else:    d.stmt(raw.Else),
		}
	case "For":
		return &syntax.For{
			Base:      d.base(raw),
			Init:      d.stmt(raw.Init),
			Condition: d.expr(raw.Condition),
			Updates:   d.exprs(raw.Updates),
			Body:      d.stmt(raw.Body),
		}
	case "ForEach":
		return &syntax.ForEach{
			Base:     d.base(raw),
			Keyword:  raw.Keyword,
			Variable: raw.Variable,
			Iterable: d.expr(raw.Iterable),
			Body:     d.stmt(raw.Body),
			IsAwait:  raw.IsAwait,
		}
	case "While":
		return &syntax.While{
			Base:      d.base(raw),
			Condition: d.expr(raw.Condition),
			Body:      d.stmt(raw.Body),
		}
	case "DoWhile":
		return &syntax.DoWhile{
			Base:      d.base(raw),
			Body:      d.stmt(raw.Body),
			Condition: d.expr(raw.Condition),
		}
	case "Try":
		catches := make([]syntax.CatchClause, 0, len(raw.Catches))
		for _, c := range raw.Catches {
			catches = append(catches, syntax.CatchClause{
				ExcType:    d.typeRef(c.ExcType),
				Param:      c.Param,
				StackParam: c.StackParam,
				Body:       d.block(c.Body),
			})
		}
		t := &syntax.Try{Base: d.base(raw), Body: d.block(raw.Body), Catches: catches}
		if raw.Finally != nil {
			t.Finally = d.block(raw.Finally)
		}
		return t
	case "Switch":
		cases := make([]syntax.SwitchCase, 0, len(raw.Cases))
		for _, c := range raw.Cases {
			sc := syntax.SwitchCase{
				Values:    d.exprs(c.Values),
				IsDefault: c.IsDefault,
			}
			if c.Pattern != nil {
				sc.Pattern = d.pattern(c.Pattern)
			}
			for _, s := range c.Statements {
				sc.Statements = append(sc.Statements, d.stmt(s))
			}
			cases = append(cases, sc)
		}
		return &syntax.Switch{Base: d.base(raw), Value: d.expr(d.valueNode(raw)), Cases: cases}
	case "Labeled":
		return &syntax.Labeled{Base: d.base(raw), Label: raw.Label, Stmt: d.stmt(raw.Stmt)}
	case "ExprStmt":
		return &syntax.ExprStmt{Base: d.base(raw), Expr: d.expr(raw.Inner)}
	case "Unrecognized":
		return &syntax.Unrecognized{Base: d.base(raw), Reason: raw.Reason}
	default:
		return d.unrecognized(raw, "no statement mapping for kind "+raw.Kind)
	}
}

func paramOrigin(s string) syntax.ParamOrigin {
	switch s {
	case "named":
		return syntax.ParamNamed
	case "optionalPositional":
		return syntax.ParamOptionalPositional
	default:
		return syntax.ParamPositional
	}
}
