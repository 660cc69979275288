package analyzer

import (
	"errors"
	"testing"

	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/parser"
	"github.com/funvibe/func/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveExpr(t *testing.T, input string) ir.Expression {
	t.Helper()
	expr, err := parser.ParseExpression(input)
	require.NoError(t, err)
	resolved, err := ResolveExpression(expr, builtins.Names())
	require.NoError(t, err)
	return resolved
}

func TestInfer(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1", "Integer"},
		{"'text'", "String"},
		{"'one \\(1) two'", "String"},
		{"add", "Integer -> Integer -> Integer"},
		{"add 1", "Integer -> Integer"},
		{"add 1 2", "Integer"},
		{"print (integer_to_string (add 1 2))", "Unit"},
		{"if 1 then 'Yes' else 'No'", "String"},
		{"\\a -> add a 1", "Integer -> Integer"},
		{"\\a -> add a a", "Integer -> Integer"},
		{"\\a -> if 1 then a else 'x'", "String -> String"},
		{"\\a -> if a then 'x' else 'y'", "Integer -> String"},
		{"\\f -> f 1", "(Integer -> t1) -> t1"},
		{"\\f -> add (f 'x') 1", "(String -> Integer) -> Integer"},
		// t1 is solved to Integer by its use as an argument to add.
		{"\\f -> if 1 then f 1 else add (f 2) 1", "(Integer -> Integer) -> Integer"},
		{"\\unused -> 1", "unused -> Integer"},
		{"\\a -> \\b -> add a b", "Integer -> Integer -> Integer"},
		{"(\\x -> add x 10) 3", "Integer"},
		// The inner a is String; it must not leak into the outer lambda.
		{"\\a -> if 1 then (\\a -> print a) 'x' else a", "Unit -> Unit"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := Infer(resolveExpr(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, typ.String())
		})
	}
}

func TestInferErrors(t *testing.T) {
	tests := []struct {
		input    string
		code     diagnostics.ErrorCode
		expected string
	}{
		{"1 2", diagnostics.ErrT001, "Expected a callable, got expression of type Integer"},
		{"print 1", diagnostics.ErrT002, "Expected call argument to be of type String, got Integer"},
		{"add 'one'", diagnostics.ErrT002, "Expected call argument to be of type Integer, got String"},
		{"if 'a' then 1 else 2", diagnostics.ErrT003, "Expected if-else condition to be of type Integer, got String"},
		{"if 1 then 1 else 'a'", diagnostics.ErrT004, "Expected if-else branch types to match Integer, got String"},
		{"\\a -> if a then '' else a", diagnostics.ErrT004, "Expected if-else branch types to match String, got Integer"},
		{"\\a -> a", diagnostics.ErrT005, "Undefined parameter: a"},
		{"\\a -> add a (print a)", diagnostics.ErrT002, "Expected call argument to be of type String, got Integer"},
		{"\\f -> if 1 then f 1 else integer_to_string (f 2)", diagnostics.ErrT004, "Expected if-else branch types to match Integer, got String"},
		{"\\f -> add (f 1) (integer_to_string (f 2))", diagnostics.ErrT002, "Expected call argument to be of type Integer, got String"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Infer(resolveExpr(t, tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagnostics.ErrType))
			var de *diagnostics.DiagnosticError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

// Lambda(a, IfElse(Parameter a, String [], Parameter a)) built directly.
func TestInferBranchMismatchOnHandBuiltTree(t *testing.T) {
	expr := &ir.Lambda{Parameter: "a", Body: &ir.IfElse{
		Condition: &ir.Parameter{Name: "a"},
		True:      &ir.String{},
		False:     &ir.Parameter{Name: "a"},
	}}
	_, err := Infer(expr)
	assert.EqualError(t, err, "Expected if-else branch types to match String, got Integer")
}

func TestInferRaw(t *testing.T) {
	raw, ok := builtins.Lookup("integer_to_string")
	require.True(t, ok)
	typ, err := Infer(&ir.Call{Callable: raw, Argument: &ir.Integer{Value: 3}})
	require.NoError(t, err)
	assert.True(t, typesystem.Equal(typesystem.String, typ))
}

func TestInferRejectsReferencesWithoutEnvironment(t *testing.T) {
	_, err := Infer(&ir.Reference{Name: "x"})
	assert.EqualError(t, err, "Cannot infer type of reference: x")
}

func TestInferIn(t *testing.T) {
	env := map[string]ir.Expression{
		"x": &ir.Integer{Value: 5},
		"y": &ir.Reference{Name: "x"},
	}
	typ, err := InferIn(&ir.Call{
		Callable: &ir.Call{Callable: &ir.Reference{Name: "add"}, Argument: &ir.Reference{Name: "y"}},
		Argument: &ir.Integer{Value: 1},
	}, mergeBuiltins(env))
	require.NoError(t, err)
	assert.Equal(t, "Integer", typ.String())
}

func mergeBuiltins(env map[string]ir.Expression) map[string]ir.Expression {
	all := builtins.Bindings()
	for name, expr := range env {
		all[name] = expr
	}
	return all
}

func TestCheckModule(t *testing.T) {
	module, err := resolve(t, "double = \\x -> add x x\nmain = print (integer_to_string (double 2))\nlabel = 'n'")
	require.NoError(t, err)

	types, err := CheckModule(module)
	require.NoError(t, err)
	assert.Equal(t, "Integer -> Integer", types["double"].String())
	assert.Equal(t, "Unit", types["main"].String())
	assert.Equal(t, "String", types["label"].String())
	assert.NotContains(t, types, "print")
}

func TestCheckModuleErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a = b\nb = a", "Recursive reference: a"},
		{"main = print count\ncount = 3", "Expected call argument to be of type String, got Integer"},
	}
	for _, tt := range tests {
		module, err := resolve(t, tt.input)
		require.NoError(t, err)
		_, err = CheckModule(module)
		assert.EqualError(t, err, tt.expected)
	}
}
