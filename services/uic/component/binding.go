// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package component

import "fmt"

// BindingKind classifies a widget property binding.
type BindingKind int

const (
	// BindingLiteral is the default: a literal or otherwise inert value.
	BindingLiteral BindingKind = iota

	// BindingReference is a reference to a variable in scope.
	BindingReference

	// BindingCallback is an event-handler closure or tear-off.
	BindingCallback

	// BindingBuilder is a closure that builds nested UI.
	BindingBuilder

	// BindingExpression is a computed, non-literal value.
	BindingExpression
)

// String returns the stable name used in serialized output.
func (k BindingKind) String() string {
	switch k {
	case BindingReference:
		return "reference"
	case BindingCallback:
		return "callback"
	case BindingBuilder:
		return "builder"
	case BindingExpression:
		return "expression"
	default:
		return "literal"
	}
}

// MarshalJSON renders the kind as its stable name.
func (k BindingKind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// PropertyBinding is one classified named argument of a Widget.
//
// Description:
//
//	Value is the argument's raw source text. Callback and builder bindings
//	additionally carry the closure's parameter names in declaration order
//	and its async flag.
type PropertyBinding struct {
	// Name is the argument name.
	Name string `json:"name"`

	// Value is the argument source text.
	Value string `json:"value"`

	// Kind is the binding classification.
	Kind BindingKind `json:"type"`

	// Params are closure parameter names for callback/builder bindings.
	Params []string `json:"params,omitempty"`

	// IsAsync marks async closures for callback/builder bindings.
	IsAsync bool `json:"isAsync,omitempty"`
}
