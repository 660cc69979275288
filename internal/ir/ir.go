// Package ir holds the resolved tree: identifiers are split into module
// references and lambda parameters, and builtins appear as Raw leaves.
package ir

import (
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/token"
	"github.com/funvibe/func/internal/typesystem"
)

type Expression interface {
	Accept(v Visitor)
	GetToken() token.Token
	expressionNode()
}

type Visitor interface {
	VisitInteger(n *Integer)
	VisitString(n *String)
	VisitReference(n *Reference)
	VisitParameter(n *Parameter)
	VisitCall(n *Call)
	VisitLambda(n *Lambda)
	VisitIfElse(n *IfElse)
	VisitRaw(n *Raw)
}

// Module maps binding names to their resolved values. Order is irrelevant
// once names are resolved.
type Module struct {
	Bindings map[string]Expression
}

func NewModule() *Module {
	return &Module{Bindings: make(map[string]Expression)}
}

type Integer struct {
	Token token.Token
	Value int64
}

// StringPart is literal text, or an interpolated expression when Expr is set.
type StringPart struct {
	Text string
	Expr Expression
}

type String struct {
	Token token.Token
	Parts []StringPart
}

// Reference names a module binding or builtin.
type Reference struct {
	Token token.Token
	Name  string
}

// Parameter names the nearest enclosing lambda parameter.
type Parameter struct {
	Token token.Token
	Name  string
}

type Call struct {
	Callable Expression
	Argument Expression
}

type Lambda struct {
	Token     token.Token
	Parameter string
	Body      Expression
}

type IfElse struct {
	Token     token.Token
	Condition Expression
	True      Expression
	False     Expression
}

// Raw is a builtin: its type and code are supplied rather than derived.
type Raw struct {
	Name string
	Type typesystem.Type
	Code bytecode.Program
}

func (n *Integer) Accept(v Visitor)   { v.VisitInteger(n) }
func (n *String) Accept(v Visitor)    { v.VisitString(n) }
func (n *Reference) Accept(v Visitor) { v.VisitReference(n) }
func (n *Parameter) Accept(v Visitor) { v.VisitParameter(n) }
func (n *Call) Accept(v Visitor)      { v.VisitCall(n) }
func (n *Lambda) Accept(v Visitor)    { v.VisitLambda(n) }
func (n *IfElse) Accept(v Visitor)    { v.VisitIfElse(n) }
func (n *Raw) Accept(v Visitor)       { v.VisitRaw(n) }

func (n *Integer) expressionNode()   {}
func (n *String) expressionNode()    {}
func (n *Reference) expressionNode() {}
func (n *Parameter) expressionNode() {}
func (n *Call) expressionNode()      {}
func (n *Lambda) expressionNode()    {}
func (n *IfElse) expressionNode()    {}
func (n *Raw) expressionNode()       {}

func (n *Integer) GetToken() token.Token   { return n.Token }
func (n *String) GetToken() token.Token    { return n.Token }
func (n *Reference) GetToken() token.Token { return n.Token }
func (n *Parameter) GetToken() token.Token { return n.Token }
func (n *Call) GetToken() token.Token      { return n.Callable.GetToken() }
func (n *Lambda) GetToken() token.Token    { return n.Token }
func (n *IfElse) GetToken() token.Token    { return n.Token }
func (n *Raw) GetToken() token.Token       { return token.Token{Lexeme: n.Name} }
