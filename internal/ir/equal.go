package ir

import (
	"slices"

	"github.com/funvibe/func/internal/typesystem"
)

// Equal compares two trees structurally, ignoring source positions.
func Equal(a, b Expression) bool {
	switch a := a.(type) {
	case *Integer:
		b, ok := b.(*Integer)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		if !ok || len(a.Parts) != len(b.Parts) {
			return false
		}
		for i := range a.Parts {
			pa, pb := a.Parts[i], b.Parts[i]
			if (pa.Expr == nil) != (pb.Expr == nil) || pa.Text != pb.Text {
				return false
			}
			if pa.Expr != nil && !Equal(pa.Expr, pb.Expr) {
				return false
			}
		}
		return true
	case *Reference:
		b, ok := b.(*Reference)
		return ok && a.Name == b.Name
	case *Parameter:
		b, ok := b.(*Parameter)
		return ok && a.Name == b.Name
	case *Call:
		b, ok := b.(*Call)
		return ok && Equal(a.Callable, b.Callable) && Equal(a.Argument, b.Argument)
	case *Lambda:
		b, ok := b.(*Lambda)
		return ok && a.Parameter == b.Parameter && Equal(a.Body, b.Body)
	case *IfElse:
		b, ok := b.(*IfElse)
		return ok && Equal(a.Condition, b.Condition) && Equal(a.True, b.True) && Equal(a.False, b.False)
	case *Raw:
		b, ok := b.(*Raw)
		return ok && a.Name == b.Name && typesystem.Equal(a.Type, b.Type) && slices.Equal(a.Code, b.Code)
	}
	return false
}

// EqualModules compares binding tables structurally.
func EqualModules(a, b *Module) bool {
	if len(a.Bindings) != len(b.Bindings) {
		return false
	}
	for name, ea := range a.Bindings {
		eb, ok := b.Bindings[name]
		if !ok || !Equal(ea, eb) {
			return false
		}
	}
	return true
}
