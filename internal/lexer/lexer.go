package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/token"
)

const stringDelimiter = '\''

var characterEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'\'': '\'',
	'\\': '\\',
}

// Lexer produces tokens on demand from a single forward pass over input.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination, 0 at end of input
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += w
	l.column++
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next token, or an EOF token once input is exhausted.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	line, col := l.line, l.column
	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: line, Column: col}, nil
	}

	simple := func(tt token.TokenType, lexeme string) token.Token {
		for range lexeme {
			l.readChar()
		}
		return token.Token{Type: tt, Lexeme: lexeme, Line: line, Column: col}
	}

	switch {
	case l.ch == '\n':
		return simple(token.NEWLINE, "\n"), nil
	case l.ch == '\r' && l.peekChar() == '\n':
		return simple(token.NEWLINE, "\r\n"), nil
	case l.ch == '=':
		return simple(token.EQUALS, "="), nil
	case l.ch == '\\' || l.ch == 'λ':
		return simple(token.LAMBDA, string(l.ch)), nil
	case l.ch == '-' && l.peekChar() == '>':
		return simple(token.ARROW, "->"), nil
	case l.ch == '(':
		return simple(token.LPAREN, "("), nil
	case l.ch == ')':
		return simple(token.RPAREN, ")"), nil
	case l.ch == stringDelimiter:
		return l.readString()
	case isLetter(l.ch):
		ident := l.readWhile(isIdentChar)
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}, nil
	case isDigit(l.ch):
		digits := l.readWhile(isDigit)
		return token.Token{Type: token.INTEGER, Lexeme: digits, Literal: digits, Line: line, Column: col}, nil
	}

	tok := token.Token{Lexeme: string(l.ch), Line: line, Column: col}
	return token.Token{}, diagnostics.NewError(diagnostics.ErrL001, tok, "Unexpected character: %s", quoteChar(l.ch))
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) readWhile(pred func(rune) bool) string {
	start := l.position
	for !l.atEnd() && pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString consumes a complete string literal. Interpolated expressions
// are tokenised by re-entering NextToken until the bracket opened by the
// escape is balanced again.
func (l *Lexer) readString() (token.Token, error) {
	tok := token.Token{Type: token.STRING, Line: l.line, Column: l.column}
	start := l.position
	l.readChar() // opening delimiter

	var content strings.Builder
	flush := func() {
		if content.Len() > 0 {
			tok.Parts = append(tok.Parts, token.StringPart{Text: content.String()})
			content.Reset()
		}
	}

	for {
		if l.atEnd() {
			return token.Token{}, l.endOfSource(tok, "inside string")
		}
		switch l.ch {
		case stringDelimiter:
			l.readChar()
			flush()
			tok.Lexeme = l.input[start:l.position]
			return tok, nil
		case '\\':
			l.readChar()
			if l.atEnd() {
				return token.Token{}, l.endOfSource(tok, "immediately after string escape")
			}
			if l.ch == '(' {
				l.readChar()
				flush()
				inner, err := l.readInterpolation(tok)
				if err != nil {
					return token.Token{}, err
				}
				tok.Parts = append(tok.Parts, token.StringPart{Tokens: inner, IsExpr: true})
				continue
			}
			escaped, ok := characterEscapes[l.ch]
			if !ok {
				bad := token.Token{Lexeme: string(l.ch), Line: l.line, Column: l.column}
				return token.Token{}, diagnostics.NewError(diagnostics.ErrL005, bad, "Invalid escape character: %s", quoteChar(l.ch))
			}
			content.WriteRune(escaped)
			l.readChar()
		default:
			content.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readInterpolation(str token.Token) ([]token.Token, error) {
	var tokens []token.Token
	depth := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.EOF:
			return nil, l.endOfSource(str, "inside expression escape")
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				return tokens, nil
			}
			depth--
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) endOfSource(tok token.Token, location string) error {
	code := diagnostics.ErrL002
	switch location {
	case "immediately after string escape":
		code = diagnostics.ErrL004
	case "inside expression escape":
		code = diagnostics.ErrL003
	}
	return diagnostics.NewError(code, tok, "Unexpected end-of-source %s", location)
}

// Tokenise drains a lexer into a slice, stopping at the first error.
// The trailing EOF token is not included.
func Tokenise(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func quoteChar(ch rune) string {
	if ch == '\'' {
		return `"'"`
	}
	return "'" + string(ch) + "'"
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}
