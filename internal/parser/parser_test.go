package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/lexer"
	"github.com/funvibe/func/internal/parser"
	"github.com/funvibe/func/internal/pipeline"
	"github.com/funvibe/func/internal/prettyprinter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"integer", "a = 5", "a = 5"},
		{"identifier", "a = b", "a = b"},
		{"call", "a = f x", "a = f x"},
		{"left_assoc", "a = f x y z", "a = f x y z"},
		{"grouped_argument", "a = f (g x) y", "a = f (g x) y"},
		{"redundant_parens", "a = (((f)) (x))", "a = f x"},
		{"lambda", "inc = \\x -> add x 1", "inc = \\x -> add x 1"},
		{"lambda_unicode", "inc = λx -> add x 1", "inc = \\x -> add x 1"},
		{"nested_lambda", "k = \\a -> \\b -> a", "k = \\a -> \\b -> a"},
		{"applied_lambda", "a = (\\x -> x) 1", "a = (\\x -> x) 1"},
		{"if_else", "a = if c then 'Yes' else 'No'", "a = if c then 'Yes' else 'No'"},
		{"if_calls", "a = if f x then g y else h z", "a = if f x then g y else h z"},
		{"string_interpolation", "greet = print 'Hello, \\(name)!'", "greet = print 'Hello, \\(name)!'"},
		{"string_interpolation_call", "s = 'n = \\(integer_to_string (add 1 2))'", "s = 'n = \\(integer_to_string (add 1 2))'"},
		{"two_bindings", "name = 'World'\ngreet = print 'Hello, \\(name)!'", "name = 'World'\ngreet = print 'Hello, \\(name)!'"},
		{"blank_lines", "\n\na = 1\n\n\nb = 2\n", "a = 1\nb = 2"},
		{"crlf", "a = 1\r\nb = 2", "a = 1\nb = 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			module, err := parser.ParseModule(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, prettyprinter.PrintModule(module))
		})
	}
}

func TestParseStructure(t *testing.T) {
	module, err := parser.ParseModule("greet = print 'Hello, \\(name)!'")
	require.NoError(t, err)
	require.Len(t, module.Bindings, 1)

	b := module.Bindings[0]
	assert.Equal(t, "greet", b.Name)
	call, ok := b.Value.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "print", call.Callable.(*ast.Identifier).Name)

	str, ok := call.Argument.(*ast.StringLiteral)
	require.True(t, ok)
	require.Len(t, str.Parts, 3)
	assert.Equal(t, "Hello, ", str.Parts[0].Text)
	assert.Equal(t, "name", str.Parts[1].Expr.(*ast.Identifier).Name)
	assert.Equal(t, "!", str.Parts[2].Text)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"main", "Expected an equals symbol, got end-of-source"},
		{"main =", "Expected an expression, got end-of-source"},
		{"= 1", "Expected an identifier, got an equals symbol"},
		{"1 = 1", "Expected an identifier, got an integer"},
		{"a = 1 b = 2", "Expected a newline, got an equals symbol"},
		{"a = )", "Expected an expression, got a closing bracket"},
		{"a = (1", "Expected a closing bracket, got end-of-source"},
		{"a = \\ -> 1", "Expected an identifier, got an arrow"},
		{"a = \\x 1", "Expected an arrow, got an integer"},
		{"a = if 1 else 2", "Expected the keyword 'then', got the keyword 'else'"},
		{"a = if 1 then 2", "Expected the keyword 'else', got end-of-source"},
		{"a = 'x \\() y'", "Expected an expression, got end-of-source"},
		{"a = '\\(f ->)'", "Expected end-of-source, got an arrow"},
		{"a = then", "Expected an expression, got the keyword 'then'"},
		{"a = 'x' =", "Expected a newline, got an equals symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.ParseModule(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagnostics.ErrParse))
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

// A failed argument atom is abandoned and the expression ends before it.
func TestArgumentBacktracking(t *testing.T) {
	_, err := parser.ParseModule("a = f (g")
	assert.EqualError(t, err, "Expected a newline, got an opening bracket")

	expr, err := parser.ParseExpression("f x")
	require.NoError(t, err)
	assert.Equal(t, "f x", prettyprinter.PrintExpression(expr))
}

func TestTokeniseErrorsAreNotBacktracked(t *testing.T) {
	_, err := parser.ParseModule("a = f #")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostics.ErrTokenise))
	assert.Equal(t, "Unexpected character: '#'", err.Error())
}

func TestParseBindingAndExpression(t *testing.T) {
	b, err := parser.ParseBinding("x = add 1 2")
	require.NoError(t, err)
	assert.Equal(t, "x", b.Name)

	_, err = parser.ParseBinding("add 1 2")
	assert.EqualError(t, err, "Expected an equals symbol, got an integer")

	_, err = parser.ParseBinding("x = 1\ny = 2")
	assert.EqualError(t, err, "Expected end-of-source, got a newline")

	expr, err := parser.ParseExpression("add 1 2")
	require.NoError(t, err)
	assert.Equal(t, "add 1 2", prettyprinter.PrintExpression(expr))

	_, err = parser.ParseExpression("x = 1")
	assert.EqualError(t, err, "Expected end-of-source, got an equals symbol")
}

func TestDeepNesting(t *testing.T) {
	input := "a = " + strings.Repeat("(", parser.MaxRecursionDepth+10) + "1" + strings.Repeat(")", parser.MaxRecursionDepth+10)
	_, err := parser.ParseModule(input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostics.ErrParse))
}

func TestProcessors(t *testing.T) {
	ctx := pipeline.NewContext("a = 1\nmain = print a")
	ctx.FilePath = "test.func"
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	require.False(t, ctx.Failed())
	assert.Len(t, ctx.AstRoot.Bindings, 2)
	assert.Equal(t, "test.func", ctx.AstRoot.File)

	ctx = pipeline.NewContext("a = (1")
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	require.True(t, ctx.Failed())
	assert.Equal(t, "Expected a closing bracket, got end-of-source", ctx.Err().Error())
	assert.Equal(t, 1, ctx.Errors[0].Token.Line)
}
