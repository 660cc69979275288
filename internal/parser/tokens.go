package parser

import (
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/token"
)

// peek returns the token at the current position, pulling from the source
// when the buffer is exhausted. Once EOF is buffered it is returned forever.
func (p *Parser) peek() (token.Token, error) {
	for p.pos >= len(p.tokens) {
		if n := len(p.tokens); n > 0 && p.tokens[n-1].Type == token.EOF {
			return p.tokens[n-1], nil
		}
		tok, err := p.source.NextToken()
		if err != nil {
			return token.Token{}, err
		}
		p.tokens = append(p.tokens, tok)
	}
	return p.tokens[p.pos], nil
}

func (p *Parser) next() (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok, nil
}

func (p *Parser) expect(tt token.TokenType) (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, expectedError(token.Describe(tt), tok)
	}
	return p.next()
}

func (p *Parser) expectEnd() error {
	_, err := p.expect(token.EOF)
	return err
}

func (p *Parser) skipNewlines() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Type != token.NEWLINE {
			return nil
		}
		p.pos++
	}
}

func expectedError(expected string, actual token.Token) error {
	return diagnostics.NewError(diagnostics.ErrP001, actual, "Expected %s, got %s", expected, token.Describe(actual.Type))
}

// sliceSource replays the tokens of an interpolated expression. The EOF
// it reports carries the position of the enclosing string.
type sliceSource struct {
	tokens []token.Token
	end    token.Token
	pos    int
}

func (s *sliceSource) NextToken() (token.Token, error) {
	if s.pos >= len(s.tokens) {
		return token.Token{Type: token.EOF, Line: s.end.Line, Column: s.end.Column}, nil
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
