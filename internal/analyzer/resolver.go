package analyzer

import (
	"strconv"

	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
)

// Resolve checks binding names are unique and every identifier is bound,
// splitting identifiers into references and parameters. Names in globals
// (builtins and any outer environment) count as already declared.
func Resolve(module *ast.Module, globals []string) (*ir.Module, error) {
	names := make(map[string]bool, len(globals)+len(module.Bindings))
	for _, name := range globals {
		names[name] = true
	}
	for _, binding := range module.Bindings {
		if names[binding.Name] {
			return nil, diagnostics.NewError(diagnostics.ErrA001, binding.Token,
				"Duplicate binding name: '%s'", binding.Name)
		}
		names[binding.Name] = true
	}

	resolved := ir.NewModule()
	for _, binding := range module.Bindings {
		value, err := resolveExpression(binding.Value, names)
		if err != nil {
			return nil, err
		}
		resolved.Bindings[binding.Name] = value
	}
	return resolved, nil
}

// ResolveExpression resolves a standalone expression against names.
func ResolveExpression(expr ast.Expression, names []string) (ir.Expression, error) {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return resolveExpression(expr, set)
}

func resolveExpression(expr ast.Expression, globals map[string]bool) (ir.Expression, error) {
	r := &resolver{globals: globals}
	return r.resolve(expr)
}

// resolver walks one binding value. params is the stack of enclosing
// lambda parameters, innermost last.
type resolver struct {
	globals map[string]bool
	params  []string

	result ir.Expression
	err    error
}

func (r *resolver) resolve(expr ast.Expression) (ir.Expression, error) {
	r.result, r.err = nil, nil
	expr.Accept(r)
	return r.result, r.err
}

func (r *resolver) isParameter(name string) bool {
	for i := len(r.params) - 1; i >= 0; i-- {
		if r.params[i] == name {
			return true
		}
	}
	return false
}

func (r *resolver) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	value, err := strconv.ParseInt(n.Digits, 10, 64)
	if err != nil {
		r.err = diagnostics.NewError(diagnostics.ErrA003, n.Token, "Integer literal out of range: %s", n.Digits)
		return
	}
	r.result = &ir.Integer{Token: n.Token, Value: value}
}

func (r *resolver) VisitStringLiteral(n *ast.StringLiteral) {
	str := &ir.String{Token: n.Token}
	for _, part := range n.Parts {
		if part.Expr == nil {
			str.Parts = append(str.Parts, ir.StringPart{Text: part.Text})
			continue
		}
		expr, err := r.resolve(part.Expr)
		if err != nil {
			r.result, r.err = nil, err
			return
		}
		str.Parts = append(str.Parts, ir.StringPart{Expr: expr})
	}
	r.result, r.err = str, nil
}

func (r *resolver) VisitIdentifier(n *ast.Identifier) {
	switch {
	case r.isParameter(n.Name):
		r.result = &ir.Parameter{Token: n.Token, Name: n.Name}
	case r.globals[n.Name]:
		r.result = &ir.Reference{Token: n.Token, Name: n.Name}
	default:
		r.err = diagnostics.NewError(diagnostics.ErrA002, n.Token, "Unbound name: '%s'", n.Name)
	}
}

func (r *resolver) VisitCall(n *ast.Call) {
	callable, err := r.resolve(n.Callable)
	if err != nil {
		return
	}
	argument, err := r.resolve(n.Argument)
	if err != nil {
		return
	}
	r.result = &ir.Call{Callable: callable, Argument: argument}
}

func (r *resolver) VisitLambda(n *ast.Lambda) {
	r.params = append(r.params, n.Parameter)
	body, err := r.resolve(n.Body)
	r.params = r.params[:len(r.params)-1]
	if err != nil {
		return
	}
	r.result = &ir.Lambda{Token: n.Token, Parameter: n.Parameter, Body: body}
}

func (r *resolver) VisitIfElse(n *ast.IfElse) {
	cond, err := r.resolve(n.Condition)
	if err != nil {
		return
	}
	t, err := r.resolve(n.True)
	if err != nil {
		return
	}
	f, err := r.resolve(n.False)
	if err != nil {
		return
	}
	r.result = &ir.IfElse{Token: n.Token, Condition: cond, True: t, False: f}
}
