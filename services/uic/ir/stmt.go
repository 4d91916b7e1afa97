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

// StatementClass tags what an expression statement does, so downstream
// passes can filter without re-inspecting the expression.
type StatementClass int

const (
	StmtOther StatementClass = iota
	StmtMethodCall
	StmtConstructorCall
	StmtAssignment
	StmtCascade
	StmtAwait
)

// String returns the stable name used in serialized output.
func (c StatementClass) String() string {
	switch c {
	case StmtMethodCall:
		return "methodCall"
	case StmtConstructorCall:
		return "constructorCall"
	case StmtAssignment:
		return "assignment"
	case StmtCascade:
		return "cascade"
	case StmtAwait:
		return "await"
	default:
		return "other"
	}
}

// =============================================================================
// Statement variants
// =============================================================================

// Block is a statement sequence.
type Block struct {
	NodeInfo
	Statements []Statement `json:"statements"`
}

// VarDecl declares one local variable.
type VarDecl struct {
	NodeInfo
	Keyword string     `json:"keyword"`
	Name    string     `json:"name"`
	Type    string     `json:"type,omitempty"`
	Init    Expression `json:"init,omitempty"`
}

// Return exits the enclosing function, optionally with a value.
type Return struct {
	NodeInfo
	Value Expression `json:"value,omitempty"`
}

// Break exits the enclosing loop or switch.
type Break struct {
	NodeInfo
	Label string `json:"label,omitempty"`
}

// Continue advances the enclosing loop.
type Continue struct {
	NodeInfo
	Label string `json:"label,omitempty"`
}

// Throw raises an error value.
type Throw struct {
	NodeInfo
	Value Expression `json:"value"`
}

// If is a conditional statement; Else may be nil.
type If struct {
	NodeInfo
	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

// IfCase is an if-with-pattern statement.
type IfCase struct {
	NodeInfo
	Value   Expression `json:"value"`
	Pattern Expression `json:"pattern"`
	Guard   Expression `json:"guard,omitempty"`
	Then    Statement  `json:"then"`
	Else    Statement  `json:"else,omitempty"`
}

// For is a classic three-clause loop.
type For struct {
	NodeInfo
	Init      Statement    `json:"init,omitempty"`
	Condition Expression   `json:"condition,omitempty"`
	Updates   []Expression `json:"updates,omitempty"`
	Body      Statement    `json:"body"`
}

// ForEach iterates a collection.
type ForEach struct {
	NodeInfo
	Keyword  string     `json:"keyword,omitempty"`
	Variable string     `json:"variable"`
	Iterable Expression `json:"iterable"`
	Body     Statement  `json:"body"`
	IsAwait  bool       `json:"isAwait,omitempty"`
}

// While is a pre-condition loop.
type While struct {
	NodeInfo
	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

// DoWhile is a post-condition loop.
type DoWhile struct {
	NodeInfo
	Body      Statement  `json:"body"`
	Condition Expression `json:"condition"`
}

// Catch is one catch handler of a Try.
type Catch struct {
	ExcType    string    `json:"excType,omitempty"`
	Param      string    `json:"param,omitempty"`
	StackParam string    `json:"stackParam,omitempty"`
	Body       Statement `json:"body"`
}

// Try is a try/catch/finally statement.
type Try struct {
	NodeInfo
	Body    Statement `json:"body"`
	Catches []Catch   `json:"catches,omitempty"`
	Finally Statement `json:"finally,omitempty"`
}

// SwitchCase is one case of a Switch.
type SwitchCase struct {
	Values     []Expression `json:"values,omitempty"`
	Pattern    Expression   `json:"pattern,omitempty"`
	IsDefault  bool         `json:"isDefault,omitempty"`
	Statements []Statement  `json:"statements"`
}

// Switch is a switch statement.
type Switch struct {
	NodeInfo
	Value Expression   `json:"value"`
	Cases []SwitchCase `json:"cases"`
}

// Labeled attaches a label to a statement.
type Labeled struct {
	NodeInfo
	Label string    `json:"label"`
	Stmt  Statement `json:"stmt"`
}

// ExprStmt is an expression in statement position, with a classification
// tag describing what the expression does.
type ExprStmt struct {
	NodeInfo
	Expr  Expression     `json:"expr"`
	Class StatementClass `json:"class"`
}

// UnknownStmt is the statement-position fallback for unrecognized shapes.
type UnknownStmt struct {
	NodeInfo
	Reason string `json:"reason,omitempty"`
}

func (s *Block) Info() NodeInfo       { return s.NodeInfo }
func (s *VarDecl) Info() NodeInfo     { return s.NodeInfo }
func (s *Return) Info() NodeInfo      { return s.NodeInfo }
func (s *Break) Info() NodeInfo       { return s.NodeInfo }
func (s *Continue) Info() NodeInfo    { return s.NodeInfo }
func (s *Throw) Info() NodeInfo       { return s.NodeInfo }
func (s *If) Info() NodeInfo          { return s.NodeInfo }
func (s *IfCase) Info() NodeInfo      { return s.NodeInfo }
func (s *For) Info() NodeInfo         { return s.NodeInfo }
func (s *ForEach) Info() NodeInfo     { return s.NodeInfo }
func (s *While) Info() NodeInfo       { return s.NodeInfo }
func (s *DoWhile) Info() NodeInfo     { return s.NodeInfo }
func (s *Try) Info() NodeInfo         { return s.NodeInfo }
func (s *Switch) Info() NodeInfo      { return s.NodeInfo }
func (s *Labeled) Info() NodeInfo     { return s.NodeInfo }
func (s *ExprStmt) Info() NodeInfo    { return s.NodeInfo }
func (s *UnknownStmt) Info() NodeInfo { return s.NodeInfo }

func (*Block) irNode()       {}
func (*VarDecl) irNode()     {}
func (*Return) irNode()      {}
func (*Break) irNode()       {}
func (*Continue) irNode()    {}
func (*Throw) irNode()       {}
func (*If) irNode()          {}
func (*IfCase) irNode()      {}
func (*For) irNode()         {}
func (*ForEach) irNode()     {}
func (*While) irNode()       {}
func (*DoWhile) irNode()     {}
func (*Try) irNode()         {}
func (*Switch) irNode()      {}
func (*Labeled) irNode()     {}
func (*ExprStmt) irNode()    {}
func (*UnknownStmt) irNode() {}

func (*Block) irStatement()       {}
func (*VarDecl) irStatement()     {}
func (*Return) irStatement()      {}
func (*Break) irStatement()       {}
func (*Continue) irStatement()    {}
func (*Throw) irStatement()       {}
func (*If) irStatement()          {}
func (*IfCase) irStatement()      {}
func (*For) irStatement()         {}
func (*ForEach) irStatement()     {}
func (*While) irStatement()       {}
func (*DoWhile) irStatement()     {}
func (*Try) irStatement()         {}
func (*Switch) irStatement()      {}
func (*Labeled) irStatement()     {}
func (*ExprStmt) irStatement()    {}
func (*UnknownStmt) irStatement() {}
