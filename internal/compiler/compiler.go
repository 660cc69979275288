// Package compiler lowers a resolved module to a flat bytecode program.
// References are inlined by substitution and lambdas are compiled in place
// at their call sites, so no runtime environment is needed.
package compiler

import (
	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/token"
)

// MaxStringLength is the largest payload a heap record length byte holds.
const MaxStringLength = 255

// Compiler compiles resolved expressions against a binding table
type Compiler struct {
	bindings map[string]ir.Expression

	// expanding holds the names whose definitions are being compiled;
	// meeting one again means the program has no finite expansion.
	expanding map[string]bool

	// frames tracks lambda invocations being compiled, innermost last.
	frames []*frame
}

// frame is one inlined lambda application. The argument is on the stack
// when the body starts, so the first read of the parameter emits nothing.
type frame struct {
	param string
	uses  int
}

// New creates a compiler over bindings merged with the builtin table.
func New(bindings map[string]ir.Expression) *Compiler {
	all := make(map[string]ir.Expression, len(bindings)+3)
	for name, expr := range bindings {
		all[name] = expr
	}
	for name, expr := range builtins.Bindings() {
		all[name] = expr
	}
	return &Compiler{bindings: all, expanding: make(map[string]bool)}
}

// Compile produces the program for the module's main binding.
func Compile(module *ir.Module) (bytecode.Program, error) {
	c := New(module.Bindings)
	main, ok := c.bindings[config.MainBindingName]
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrC001, token.Token{}, "No main binding defined")
	}
	return c.Compile(main)
}

// CompileExpression compiles expr as if it were main over bindings.
func CompileExpression(expr ir.Expression, bindings map[string]ir.Expression) (bytecode.Program, error) {
	return New(bindings).Compile(expr)
}

func (c *Compiler) Compile(expr ir.Expression) (bytecode.Program, error) {
	var out bytecode.Program
	if err := c.compileExpression(expr, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Compiler) compileExpression(expr ir.Expression, out *bytecode.Program) error {
	v := &expressionCompiler{c: c, out: out}
	expr.Accept(v)
	return v.err
}

// dereference follows references until a non-reference is reached and
// calls fn with it while the followed names are marked as expanding.
func (c *Compiler) dereference(expr ir.Expression, fn func(ir.Expression) error) error {
	var followed []string
	defer func() {
		for _, name := range followed {
			delete(c.expanding, name)
		}
	}()
	for {
		ref, ok := expr.(*ir.Reference)
		if !ok {
			break
		}
		if c.expanding[ref.Name] {
			return diagnostics.NewError(diagnostics.ErrC006, ref.Token, "Recursive reference: %s", ref.Name)
		}
		target, ok := c.bindings[ref.Name]
		if !ok {
			return diagnostics.NewError(diagnostics.ErrC005, ref.Token, "Undefined binding: %s", ref.Name)
		}
		c.expanding[ref.Name] = true
		followed = append(followed, ref.Name)
		expr = target
	}
	return fn(expr)
}

func (c *Compiler) compileCall(call *ir.Call, out *bytecode.Program) error {
	if err := c.compileExpression(call.Argument, out); err != nil {
		return err
	}
	return c.compileCallable(call.Callable, out)
}

// compileCallable emits the code that consumes an argument already pushed.
func (c *Compiler) compileCallable(expr ir.Expression, out *bytecode.Program) error {
	return c.dereference(expr, func(target ir.Expression) error {
		switch target := target.(type) {
		case *ir.Raw:
			out.Append(target.Code)
			return nil
		case *ir.Call:
			return c.compileCall(target, out)
		case *ir.Lambda:
			c.frames = append(c.frames, &frame{param: target.Parameter})
			defer func() { c.frames = c.frames[:len(c.frames)-1] }()
			return c.compileExpression(target.Body, out)
		case *ir.IfElse:
			return c.compileIfElse(target, out, c.compileCallable)
		}
		return diagnostics.NewError(diagnostics.ErrC003, target.GetToken(),
			"Unsupported callable type: %s", ir.KindOf(target))
	})
}

// compileIfElse lays out
//
//	condition, JUMP_IF len(false)+2, false, JUMP len(true), true
//
// Both branches are generated before either jump so offsets are measured
// rather than patched. Each branch starts from the same parameter state.
func (c *Compiler) compileIfElse(n *ir.IfElse, out *bytecode.Program, branch func(ir.Expression, *bytecode.Program) error) error {
	if err := c.compileExpression(n.Condition, out); err != nil {
		return err
	}

	before := c.snapshot()
	var trueBlock bytecode.Program
	if err := branch(n.True, &trueBlock); err != nil {
		return err
	}
	afterTrue := c.snapshot()
	c.restore(before)

	var falseBlock bytecode.Program
	if err := branch(n.False, &falseBlock); err != nil {
		return err
	}
	c.merge(afterTrue)
	falseBlock.Emit(bytecode.OP_JUMP, trueBlock.Len())

	out.Emit(bytecode.OP_JUMP_IF, falseBlock.Len())
	out.Append(falseBlock)
	out.Append(trueBlock)
	return nil
}

func (c *Compiler) snapshot() []int {
	uses := make([]int, len(c.frames))
	for i, f := range c.frames {
		uses[i] = f.uses
	}
	return uses
}

func (c *Compiler) restore(uses []int) {
	for i, f := range c.frames {
		f.uses = uses[i]
	}
}

func (c *Compiler) merge(uses []int) {
	for i, f := range c.frames {
		f.uses = max(f.uses, uses[i])
	}
}

// compileParameter relies on the argument staying on top of the stack. The
// first use consumes it in place and later uses DUP the top, so a use after
// other values have been pushed copies one of those instead.
func (c *Compiler) compileParameter(n *ir.Parameter, out *bytecode.Program) error {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]
		if f.param != n.Name {
			continue
		}
		if f.uses > 0 {
			out.Emit(bytecode.OP_DUP)
		}
		f.uses++
		return nil
	}
	return unsupportedExpression(n)
}

func compileString(n *ir.String, out *bytecode.Program) error {
	var text string
	switch {
	case len(n.Parts) == 0:
	case len(n.Parts) == 1 && n.Parts[0].Expr == nil:
		text = n.Parts[0].Text
	default:
		return diagnostics.NewError(diagnostics.ErrC004, n.Token, "String expression escapes are not supported")
	}
	data := []byte(text)
	if len(data) > MaxStringLength {
		return diagnostics.NewError(diagnostics.ErrC007, n.Token, "String literal too long: %d bytes", len(data))
	}
	out.EmitString(data)
	return nil
}

func unsupportedExpression(expr ir.Expression) error {
	return diagnostics.NewError(diagnostics.ErrC002, expr.GetToken(),
		"Unsupported expression type: %s", ir.KindOf(expr))
}

// expressionCompiler emits code that leaves the value of an expression on
// the stack.
type expressionCompiler struct {
	c   *Compiler
	out *bytecode.Program
	err error
}

func (v *expressionCompiler) VisitInteger(n *ir.Integer) {
	v.out.Emit(bytecode.OP_PUSH, n.Value)
}

func (v *expressionCompiler) VisitString(n *ir.String) {
	v.err = compileString(n, v.out)
}

func (v *expressionCompiler) VisitReference(n *ir.Reference) {
	v.err = v.c.dereference(n, func(target ir.Expression) error {
		return v.c.compileExpression(target, v.out)
	})
}

func (v *expressionCompiler) VisitParameter(n *ir.Parameter) {
	v.err = v.c.compileParameter(n, v.out)
}

func (v *expressionCompiler) VisitCall(n *ir.Call) {
	v.err = v.c.compileCall(n, v.out)
}

func (v *expressionCompiler) VisitLambda(n *ir.Lambda) {
	v.err = unsupportedExpression(n)
}

func (v *expressionCompiler) VisitIfElse(n *ir.IfElse) {
	v.err = v.c.compileIfElse(n, v.out, v.c.compileExpression)
}

func (v *expressionCompiler) VisitRaw(n *ir.Raw) {
	v.err = unsupportedExpression(n)
}
