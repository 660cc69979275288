package lexer

import (
	"testing"

	"github.com/funvibe/func/internal/token"
)

func FuzzTokenise(f *testing.F) {
	f.Add("main = print 'Hello, \\(name)!'")
	f.Add("λx -> x\r\n")
	f.Add("'\\")
	f.Add("'\\(")

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenise(input)
		if err != nil {
			return
		}
		for _, tok := range tokens {
			if tok.Type == token.EOF {
				t.Fatalf("EOF inside token list for %q", input)
			}
			if tok.Line < 1 || tok.Column < 1 {
				t.Fatalf("bad position %d:%d for %q", tok.Line, tok.Column, tok.Lexeme)
			}
		}
	})
}
