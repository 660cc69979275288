package parser

import (
	"errors"

	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/lexer"
	"github.com/funvibe/func/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 500

// TokenSource yields tokens one at a time. *lexer.Lexer implements it.
type TokenSource interface {
	NextToken() (token.Token, error)
}

type atomParseFn func() (ast.Expression, error)

// Parser is a recursive-descent parser over a lazily filled token buffer.
// Argument atoms are parsed speculatively: a failed attempt rewinds the
// buffer position and ends the application chain.
type Parser struct {
	source TokenSource
	tokens []token.Token
	pos    int
	depth  int

	atomParseFns map[token.TokenType]atomParseFn
}

func New(source TokenSource) *Parser {
	p := &Parser{source: source}
	p.atomParseFns = map[token.TokenType]atomParseFn{
		token.INTEGER:    p.parseIntegerLiteral,
		token.IDENTIFIER: p.parseIdentifier,
		token.STRING:     p.parseStringLiteral,
		token.LAMBDA:     p.parseLambda,
		token.IF:         p.parseIfElse,
		token.LPAREN:     p.parseGroupedExpression,
	}
	return p
}

// ParseModule parses a whole source text.
func ParseModule(input string) (*ast.Module, error) {
	return New(lexer.New(input)).ParseModule()
}

// ParseBinding parses exactly one binding spanning the whole input.
func ParseBinding(input string) (*ast.Binding, error) {
	p := New(lexer.New(input))
	b, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return b, nil
}

// ParseExpression parses exactly one expression spanning the whole input.
func ParseExpression(input string) (ast.Expression, error) {
	p := New(lexer.New(input))
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseModule parses bindings separated by newlines. Blank lines are
// allowed anywhere between bindings.
func (p *Parser) ParseModule() (*ast.Module, error) {
	module := &ast.Module{}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return module, nil
		}
		binding, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		module.Bindings = append(module.Bindings, binding)

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return module, nil
		}
		if _, err := p.expect(token.NEWLINE); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseBinding() (*ast.Binding, error) {
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Binding{Token: name, Name: name.Literal, Value: value}, nil
}

// parseExpression parses one or more atoms and folds them into
// left-associative calls.
func (p *Parser) parseExpression() (ast.Expression, error) {
	p.depth++
	defer func() { p.depth-- }()

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if p.depth > MaxRecursionDepth {
		return nil, diagnostics.NewError(diagnostics.ErrP002, tok, "Expression nested too deeply")
	}

	fn := p.atomParseFns[tok.Type]
	if fn == nil {
		return nil, expectedError("an expression", tok)
	}
	expr, err := fn()
	if err != nil {
		return nil, err
	}

	for {
		arg, ok, err := p.tryAtom()
		if err != nil {
			return nil, err
		}
		if !ok {
			return expr, nil
		}
		expr = &ast.Call{Callable: expr, Argument: arg}
	}
}

// tryAtom attempts an argument atom. Parse failures rewind and report
// ok=false; tokenise failures are returned as they cannot be recovered.
func (p *Parser) tryAtom() (ast.Expression, bool, error) {
	saved := p.pos
	tok, err := p.peek()
	if err != nil {
		return nil, false, err
	}
	fn := p.atomParseFns[tok.Type]
	if fn == nil {
		return nil, false, nil
	}
	expr, err := fn()
	if err != nil {
		if errors.Is(err, diagnostics.ErrParse) {
			p.pos = saved
			return nil, false, nil
		}
		return nil, false, err
	}
	return expr, true, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return &ast.IntegerLiteral{Token: tok, Digits: tok.Literal}, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Token: tok, Name: tok.Literal}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	lit := &ast.StringLiteral{Token: tok}
	for _, part := range tok.Parts {
		if !part.IsExpr {
			lit.Parts = append(lit.Parts, ast.StringPart{Text: part.Text})
			continue
		}
		inner := New(&sliceSource{tokens: part.Tokens, end: tok})
		inner.depth = p.depth
		expr, err := inner.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := inner.expectEnd(); err != nil {
			return nil, err
		}
		lit.Parts = append(lit.Parts, ast.StringPart{Expr: expr})
	}
	return lit, nil
}

func (p *Parser) parseLambda() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	param, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Token: tok, Parameter: param.Literal, Body: body}, nil
}

func (p *Parser) parseIfElse() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	t, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	f, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.IfElse{Token: tok, Condition: cond, True: t, False: f}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	if _, err := p.next(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}
