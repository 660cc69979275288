package token

import "fmt"

type TokenType string

const (
	IDENTIFIER TokenType = "IDENTIFIER"
	INTEGER    TokenType = "INTEGER"
	STRING     TokenType = "STRING"

	EQUALS  TokenType = "="
	LAMBDA  TokenType = "\\"
	ARROW   TokenType = "->"
	NEWLINE TokenType = "NEWLINE"
	LPAREN  TokenType = "("
	RPAREN  TokenType = ")"

	// Keywords
	IF   TokenType = "IF"
	THEN TokenType = "THEN"
	ELSE TokenType = "ELSE"

	EOF TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"if":   IF,
	"then": THEN,
	"else": ELSE,
}

// LookupIdent returns the keyword type for ident, or IDENTIFIER.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// Token is a single lexical unit. String tokens keep their content in Parts.
type Token struct {
	Type    TokenType
	Lexeme  string // source text the token was read from
	Literal string // identifier name or integer digits
	Parts   []StringPart
	Line    int
	Column  int
}

// StringPart is one segment of a string literal: either plain text or the
// tokens of an interpolated expression.
type StringPart struct {
	Text   string
	Tokens []Token
	IsExpr bool
}

func (t Token) String() string {
	switch t.Type {
	case IDENTIFIER, INTEGER:
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
	case STRING:
		return fmt.Sprintf("STRING(%d parts)", len(t.Parts))
	}
	return string(t.Type)
}

// Describe renders the token kind the way parse errors name it.
func Describe(tt TokenType) string {
	switch tt {
	case IDENTIFIER:
		return "an identifier"
	case INTEGER:
		return "an integer"
	case STRING:
		return "a string"
	case EQUALS:
		return "an equals symbol"
	case LAMBDA:
		return "the beginning of a lambda"
	case ARROW:
		return "an arrow"
	case NEWLINE:
		return "a newline"
	case LPAREN:
		return "an opening bracket"
	case RPAREN:
		return "a closing bracket"
	case IF:
		return "the keyword 'if'"
	case THEN:
		return "the keyword 'then'"
	case ELSE:
		return "the keyword 'else'"
	case EOF:
		return "end-of-source"
	}
	return string(tt)
}
