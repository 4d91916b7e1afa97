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

// This file defines the resolved "semantic element" view the widget
// resolver consumes: declarations with resolved types, supertype chains,
// and const/factory/static flags. The external front end populates these
// alongside the syntax tree; the resolver never touches raw syntax nodes.

// TypeRef is a resolved reference to a type.
//
// Description:
//
//	A TypeRef names a type, carries its resolved generic arguments, and,
//	when the front end resolved the reference, links to the declaring
//	ClassElement. Type parameters are represented with IsTypeParameter set
//	and their declared bound in Bound.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type TypeRef struct {
	// Name is the type name as written, without generic arguments.
	Name string

	// Library is the defining library URI, when resolved.
	Library string

	// TypeArgs are the resolved generic arguments, in declaration order.
	TypeArgs []*TypeRef

	// Class is the declaring class element. Nil for unresolved references,
	// type parameters, and non-class types.
	Class *ClassElement

	// IsTypeParameter is true when this reference names a type parameter
	// rather than a concrete type.
	IsTypeParameter bool

	// Bound is the declared bound of a type parameter. Nil when unbounded.
	Bound *TypeRef
}

// Declaration is the interface satisfied by every semantic declaration the
// resolver classifies. Identity is pointer identity; the resolver memoizes
// per declaration pointer.
type Declaration interface {
	// DeclName is the declared name, for diagnostics.
	DeclName() string

	declaration()
}

// ClassElement is a resolved class declaration.
type ClassElement struct {
	Name    string
	Library string

	// Supertype is the extended class. Nil for root classes.
	Supertype *TypeRef

	// Interfaces are the implemented interface types.
	Interfaces []*TypeRef

	// Mixins are the mixed-in types.
	Mixins []*TypeRef

	Constructors []*ConstructorElement
	Methods      []*MethodElement
	Fields       []*FieldElement
}

// AsType returns a TypeRef naming this class.
func (c *ClassElement) AsType() *TypeRef {
	return &TypeRef{Name: c.Name, Library: c.Library, Class: c}
}

// Method returns the declared method with the given name, or nil.
func (c *ClassElement) Method(name string) *MethodElement {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ConstructorElement is a resolved constructor declaration.
type ConstructorElement struct {
	// Name is the named-constructor variant. Empty for the default
	// constructor.
	Name string

	// Class is the enclosing class. Never nil.
	Class *ClassElement

	IsConst   bool
	IsFactory bool

	// Redirect is the redirection target of a redirecting factory
	// constructor. Nil otherwise.
	Redirect *ConstructorElement

	// ReturnType is the declared return type. For generative constructors
	// this is the enclosing class type.
	ReturnType *TypeRef
}

// MethodElement is a resolved method, getter, or free-function-like member
// declaration.
type MethodElement struct {
	Name       string
	IsStatic   bool
	IsGetter   bool
	ReturnType *TypeRef
	Params     []*ParamElement
}

// ParamElement is a resolved parameter declaration.
type ParamElement struct {
	Name string
	Type *TypeRef
}

// FieldElement is a resolved field declaration.
type FieldElement struct {
	Name     string
	IsStatic bool

	// Type is the declared field type. Nil for inferred fields.
	Type *TypeRef

	// Getter is the implicit or explicit getter for the field, when the
	// front end materialized one.
	Getter *MethodElement
}

// FunctionElement is a resolved top-level function declaration.
type FunctionElement struct {
	Name       string
	ReturnType *TypeRef
	Params     []*ParamElement
}

func (c *ClassElement) DeclName() string { return c.Name }

func (c *ConstructorElement) DeclName() string {
	if c.Name == "" {
		return c.Class.Name
	}
	return c.Class.Name + "." + c.Name
}
func (m *MethodElement) DeclName() string      { return m.Name }
func (f *FieldElement) DeclName() string       { return f.Name }
func (f *FunctionElement) DeclName() string    { return f.Name }

func (*ClassElement) declaration()       {}
func (*ConstructorElement) declaration() {}
func (*MethodElement) declaration()      {}
func (*FieldElement) declaration()       {}
func (*FunctionElement) declaration()    {}
