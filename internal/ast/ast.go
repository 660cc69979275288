package ast

import "github.com/funvibe/func/internal/token"

// Node is the base interface for all syntax tree nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Expression is the closed set of expression forms. Consumers implement
// Visitor, so a new form cannot be added without handling it everywhere.
type Expression interface {
	Node
	Accept(v Visitor)
	expressionNode()
}

type Visitor interface {
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitIdentifier(n *Identifier)
	VisitCall(n *Call)
	VisitLambda(n *Lambda)
	VisitIfElse(n *IfElse)
}

// Module is an ordered list of top-level bindings.
type Module struct {
	Bindings []*Binding
	File     string
}

// Binding associates a name with an expression: name = value
type Binding struct {
	Token token.Token // the identifier token
	Name  string
	Value Expression
}

func (b *Binding) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Binding) GetToken() token.Token { return b.Token }

// IntegerLiteral keeps the digits as written; conversion happens during
// resolution.
type IntegerLiteral struct {
	Token  token.Token
	Digits string
}

func (n *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(n) }
func (n *IntegerLiteral) expressionNode()       {}
func (n *IntegerLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *IntegerLiteral) GetToken() token.Token { return n.Token }

// StringPart is literal text, or an interpolated expression when Expr is set.
type StringPart struct {
	Text string
	Expr Expression
}

type StringLiteral struct {
	Token token.Token
	Parts []StringPart
}

func (n *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(n) }
func (n *StringLiteral) expressionNode()       {}
func (n *StringLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StringLiteral) GetToken() token.Token { return n.Token }

type Identifier struct {
	Token token.Token
	Name  string
}

func (n *Identifier) Accept(v Visitor)      { v.VisitIdentifier(n) }
func (n *Identifier) expressionNode()       {}
func (n *Identifier) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Identifier) GetToken() token.Token { return n.Token }

// Call applies Callable to a single Argument. f a b parses as (f a) b.
type Call struct {
	Callable Expression
	Argument Expression
}

func (n *Call) Accept(v Visitor)      { v.VisitCall(n) }
func (n *Call) expressionNode()       {}
func (n *Call) TokenLiteral() string  { return n.Callable.TokenLiteral() }
func (n *Call) GetToken() token.Token { return n.Callable.GetToken() }

// Lambda is \param -> body
type Lambda struct {
	Token     token.Token // the lambda token
	Parameter string
	Body      Expression
}

func (n *Lambda) Accept(v Visitor)      { v.VisitLambda(n) }
func (n *Lambda) expressionNode()       {}
func (n *Lambda) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Lambda) GetToken() token.Token { return n.Token }

type IfElse struct {
	Token     token.Token // the 'if' token
	Condition Expression
	True      Expression
	False     Expression
}

func (n *IfElse) Accept(v Visitor)      { v.VisitIfElse(n) }
func (n *IfElse) expressionNode()       {}
func (n *IfElse) TokenLiteral() string  { return n.Token.Lexeme }
func (n *IfElse) GetToken() token.Token { return n.Token }
