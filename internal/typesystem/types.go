package typesystem

import "fmt"

// Type is the interface for all types in our system.
type Type interface {
	String() string
	typeNode()
}

// TVar is a not-yet-constrained type, named after the parameter it came
// from or a generated name (t1, t2, ...). Generated variables carry a
// nonzero ID and are the only ones a Subst can solve.
type TVar struct {
	Name string
	ID   int
}

func (t TVar) String() string { return t.Name }
func (t TVar) typeNode()      {}

// TCon is a ground type such as Integer or String.
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }
func (t TCon) typeNode()      {}

// TFunc is the type of a single-parameter callable.
type TFunc struct {
	Param  Type
	Return Type
}

func (t TFunc) String() string {
	param := t.Param.String()
	if _, ok := t.Param.(TFunc); ok {
		param = "(" + param + ")"
	}
	return fmt.Sprintf("%s -> %s", param, t.Return)
}
func (t TFunc) typeNode() {}

var (
	Integer = TCon{Name: "Integer"}
	String  = TCon{Name: "String"}
	Unit    = TCon{Name: "Unit"}
)

// Func builds a curried function type: Func(a, b, c) is a -> b -> c.
func Func(types ...Type) Type {
	if len(types) == 1 {
		return types[0]
	}
	return TFunc{Param: types[0], Return: Func(types[1:]...)}
}

// Equal reports structural equality.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case TVar:
		b, ok := b.(TVar)
		return ok && a.Name == b.Name && a.ID == b.ID
	case TCon:
		b, ok := b.(TCon)
		return ok && a.Name == b.Name
	case TFunc:
		b, ok := b.(TFunc)
		return ok && Equal(a.Param, b.Param) && Equal(a.Return, b.Return)
	}
	return false
}
