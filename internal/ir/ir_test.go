package ir

import (
	"testing"

	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/token"
	"github.com/funvibe/func/internal/typesystem"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "Integer", KindOf(&Integer{Value: 1}))
	assert.Equal(t, "Lambda", KindOf(&Lambda{Parameter: "x", Body: &Parameter{Name: "x"}}))
	assert.Equal(t, "Raw", KindOf(&Raw{Name: "print"}))
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := &Call{
		Callable: &Reference{Token: token.Token{Line: 1, Column: 1}, Name: "f"},
		Argument: &String{Parts: []StringPart{{Text: "x"}, {Expr: &Parameter{Name: "p"}}}},
	}
	b := &Call{
		Callable: &Reference{Token: token.Token{Line: 9, Column: 4}, Name: "f"},
		Argument: &String{Parts: []StringPart{{Text: "x"}, {Expr: &Parameter{Name: "p"}}}},
	}
	assert.True(t, Equal(a, b))

	b.Argument.(*String).Parts[1].Expr = &Reference{Name: "p"}
	assert.False(t, Equal(a, b))
}

func TestEqualRaw(t *testing.T) {
	add := func() *Raw {
		return &Raw{
			Name: "add",
			Type: typesystem.Func(typesystem.Integer, typesystem.Integer, typesystem.Integer),
			Code: bytecode.Ops(bytecode.OP_ADD),
		}
	}
	assert.True(t, Equal(add(), add()))

	other := add()
	other.Code = bytecode.Ops(bytecode.OP_PRINT)
	assert.False(t, Equal(add(), other))
}

func TestEqualModules(t *testing.T) {
	a := NewModule()
	a.Bindings["main"] = &Integer{Value: 1}
	b := NewModule()
	b.Bindings["main"] = &Integer{Value: 1}
	assert.True(t, EqualModules(a, b))

	b.Bindings["extra"] = &Integer{Value: 2}
	assert.False(t, EqualModules(a, b))
}
