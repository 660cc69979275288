package analyzer

import (
	"fmt"
	"sort"

	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/token"
	"github.com/funvibe/func/internal/typesystem"
)

// expectations records the type fixed for each lambda parameter by its
// first use. Later uses are checked against it, never re-inferred.
type expectations map[string]typesystem.Type

// Checker infers types of resolved expressions. References are followed
// through env when one is supplied; each referenced binding is inferred
// once with its own expectation table.
type Checker struct {
	env      map[string]ir.Expression
	cache    map[string]typesystem.Type
	visiting map[string]bool
	subst    typesystem.Subst
	fresh    int
}

func NewChecker(env map[string]ir.Expression) *Checker {
	return &Checker{
		env:      env,
		cache:    make(map[string]typesystem.Type),
		visiting: make(map[string]bool),
		subst:    make(typesystem.Subst),
	}
}

// Infer types expr on its own. References cannot be followed and are
// reported as errors.
func Infer(expr ir.Expression) (typesystem.Type, error) {
	return NewChecker(nil).Infer(expr)
}

// InferIn types expr, dereferencing references through env.
func InferIn(expr ir.Expression, env map[string]ir.Expression) (typesystem.Type, error) {
	return NewChecker(env).Infer(expr)
}

// Infer starts a fresh expectation table for expr. Generated variables
// solved along the way are substituted into the result.
func (c *Checker) Infer(expr ir.Expression) (typesystem.Type, error) {
	t, err := c.infer(expr, expectations{})
	if err != nil {
		return nil, err
	}
	return c.subst.Apply(t), nil
}

// CheckModule infers every binding of module, with builtins in scope.
// Bindings are checked in name order; the first failure is returned.
func CheckModule(module *ir.Module) (map[string]typesystem.Type, error) {
	env := builtins.Bindings()
	for name, expr := range module.Bindings {
		env[name] = expr
	}
	names := make([]string, 0, len(module.Bindings))
	for name := range module.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	c := NewChecker(env)
	types := make(map[string]typesystem.Type, len(names))
	for _, name := range names {
		t, err := c.Binding(name, token.Token{Lexeme: name})
		if err != nil {
			return nil, err
		}
		types[name] = t
	}
	return types, nil
}

// Binding returns the type of a named binding in the checker's environment.
func (c *Checker) Binding(name string, tok token.Token) (typesystem.Type, error) {
	if t, ok := c.cache[name]; ok {
		return t, nil
	}
	if c.env == nil {
		return nil, diagnostics.NewError(diagnostics.ErrT006, tok, "Cannot infer type of reference: %s", name)
	}
	expr, ok := c.env[name]
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT006, tok, "Undefined binding: %s", name)
	}
	if c.visiting[name] {
		return nil, diagnostics.NewError(diagnostics.ErrT007, tok, "Recursive reference: %s", name)
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	t, err := c.Infer(expr)
	if err != nil {
		return nil, err
	}
	c.cache[name] = t
	return t, nil
}

func (c *Checker) freshVar() typesystem.TVar {
	c.fresh++
	return typesystem.TVar{Name: fmt.Sprintf("t%d", c.fresh), ID: c.fresh}
}

func (c *Checker) infer(expr ir.Expression, exp expectations) (typesystem.Type, error) {
	v := &typeVisitor{checker: c, exp: exp}
	expr.Accept(v)
	return v.result, v.err
}

// expect checks that expr has type expected. A parameter seen for the first
// time takes expected as its type instead.
func (c *Checker) expect(expr ir.Expression, exp expectations, description string, expected typesystem.Type) error {
	if param, ok := expr.(*ir.Parameter); ok {
		if _, seen := exp[param.Name]; !seen {
			exp[param.Name] = expected
			return nil
		}
	}
	actual, err := c.infer(expr, exp)
	if err != nil {
		return err
	}
	if !c.unify(expected, actual) {
		return diagnostics.NewError(codeFor(description), expr.GetToken(),
			"Expected %s %s, got %s", description, c.subst.Apply(expected), c.subst.Apply(actual))
	}
	return nil
}

// unify reports whether a and b can be the same type. A generated
// variable meeting another type is solved to it, so later uses are
// checked against that solution. Placeholders named after a parameter
// are left unconstrained and match anything.
func (c *Checker) unify(a, b typesystem.Type) bool {
	a, b = c.subst.Apply(a), c.subst.Apply(b)
	if v, ok := a.(typesystem.TVar); ok {
		return c.bind(v, b)
	}
	if v, ok := b.(typesystem.TVar); ok {
		return c.bind(v, a)
	}
	switch a := a.(type) {
	case typesystem.TCon:
		b, ok := b.(typesystem.TCon)
		return ok && a.Name == b.Name
	case typesystem.TFunc:
		b, ok := b.(typesystem.TFunc)
		return ok && c.unify(a.Param, b.Param) && c.unify(a.Return, b.Return)
	}
	return false
}

func (c *Checker) bind(v typesystem.TVar, t typesystem.Type) bool {
	if v.ID == 0 || typesystem.Equal(v, t) {
		return true
	}
	if other, ok := t.(typesystem.TVar); ok && other.ID == 0 {
		return true
	}
	if c.subst.Occurs(v.ID, t) {
		return false
	}
	c.subst[v.ID] = t
	return true
}

const (
	argumentExpectation  = "call argument to be of type"
	conditionExpectation = "if-else condition to be of type"
	branchExpectation    = "if-else branch types to match"
)

func codeFor(description string) diagnostics.ErrorCode {
	switch description {
	case conditionExpectation:
		return diagnostics.ErrT003
	case branchExpectation:
		return diagnostics.ErrT004
	}
	return diagnostics.ErrT002
}

type typeVisitor struct {
	checker *Checker
	exp     expectations

	result typesystem.Type
	err    error
}

func (v *typeVisitor) VisitInteger(*ir.Integer) { v.result = typesystem.Integer }

func (v *typeVisitor) VisitString(n *ir.String) {
	for _, part := range n.Parts {
		if part.Expr == nil {
			continue
		}
		if _, err := v.checker.infer(part.Expr, v.exp); err != nil {
			v.err = err
			return
		}
	}
	v.result = typesystem.String
}

func (v *typeVisitor) VisitReference(n *ir.Reference) {
	if raw, ok := builtins.Lookup(n.Name); ok && v.checker.env == nil {
		v.result = raw.Type
		return
	}
	v.result, v.err = v.checker.Binding(n.Name, n.Token)
}

func (v *typeVisitor) VisitParameter(n *ir.Parameter) {
	t, ok := v.exp[n.Name]
	if !ok {
		v.err = diagnostics.NewError(diagnostics.ErrT005, n.Token, "Undefined parameter: %s", n.Name)
		return
	}
	v.result = t
}

func (v *typeVisitor) VisitCall(n *ir.Call) {
	c := v.checker
	if param, ok := n.Callable.(*ir.Parameter); ok {
		if _, seen := v.exp[param.Name]; !seen {
			argType, err := c.infer(n.Argument, v.exp)
			if err != nil {
				v.err = err
				return
			}
			ret := c.freshVar()
			v.exp[param.Name] = typesystem.TFunc{Param: argType, Return: ret}
			v.result = ret
			return
		}
	}

	callableType, err := c.infer(n.Callable, v.exp)
	if err != nil {
		v.err = err
		return
	}
	callableType = c.subst.Apply(callableType)
	fn, ok := callableType.(typesystem.TFunc)
	if !ok {
		v.err = diagnostics.NewError(diagnostics.ErrT001, n.GetToken(),
			"Expected a callable, got expression of type %s", callableType)
		return
	}
	if err := c.expect(n.Argument, v.exp, argumentExpectation, fn.Param); err != nil {
		v.err = err
		return
	}
	v.result = fn.Return
}

// VisitLambda scopes the parameter's expectation to the body: an outer
// parameter of the same name gets its expectation back afterwards.
func (v *typeVisitor) VisitLambda(n *ir.Lambda) {
	outer, hadOuter := v.exp[n.Parameter]
	delete(v.exp, n.Parameter)
	defer func() {
		if hadOuter {
			v.exp[n.Parameter] = outer
		} else {
			delete(v.exp, n.Parameter)
		}
	}()

	body, err := v.checker.infer(n.Body, v.exp)
	if err != nil {
		v.err = err
		return
	}
	param, ok := v.exp[n.Parameter]
	if !ok {
		param = typesystem.TVar{Name: n.Parameter}
	}
	v.result = typesystem.TFunc{Param: param, Return: body}
}

// VisitIfElse types the branch that is not a bare parameter first, so a
// parameter branch can take the other branch's type.
func (v *typeVisitor) VisitIfElse(n *ir.IfElse) {
	c := v.checker
	if err := c.expect(n.Condition, v.exp, conditionExpectation, typesystem.Integer); err != nil {
		v.err = err
		return
	}
	checked, other := n.True, n.False
	if _, ok := n.True.(*ir.Parameter); ok {
		checked, other = n.False, n.True
	}
	t, err := c.infer(checked, v.exp)
	if err != nil {
		v.err = err
		return
	}
	if err := c.expect(other, v.exp, branchExpectation, t); err != nil {
		v.err = err
		return
	}
	v.result = t
}

func (v *typeVisitor) VisitRaw(n *ir.Raw) { v.result = n.Type }
