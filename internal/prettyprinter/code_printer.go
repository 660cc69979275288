package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/func/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter renders syntax trees back to source text. Parsing its output
// yields the same tree.
type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// PrintModule renders a module, one binding per line.
func PrintModule(module *ast.Module) string {
	p := NewCodePrinter()
	for i, binding := range module.Bindings {
		if i > 0 {
			p.write("\n")
		}
		p.PrintBinding(binding)
	}
	return p.String()
}

// PrintExpression renders a single expression.
func PrintExpression(expr ast.Expression) string {
	p := NewCodePrinter()
	expr.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) PrintBinding(b *ast.Binding) {
	p.write(b.Name + " = ")
	b.Value.Accept(p)
}

// printGrouped wraps expressions that would otherwise extend past their
// position: lambdas and conditionals swallow everything to their right,
// and calls in argument position must stay together.
func (p *CodePrinter) printGrouped(expr ast.Expression, allowCall bool) {
	needsParens := false
	switch expr.(type) {
	case *ast.Lambda, *ast.IfElse:
		needsParens = true
	case *ast.Call:
		needsParens = !allowCall
	}
	if needsParens {
		p.write("(")
	}
	expr.Accept(p)
	if needsParens {
		p.write(")")
	}
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(n.Digits)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`)

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write("'")
	for _, part := range n.Parts {
		if part.Expr == nil {
			p.write(stringEscaper.Replace(part.Text))
			continue
		}
		p.write(`\(`)
		part.Expr.Accept(p)
		p.write(")")
	}
	p.write("'")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Name)
}

func (p *CodePrinter) VisitCall(n *ast.Call) {
	p.printGrouped(n.Callable, true)
	p.write(" ")
	p.printGrouped(n.Argument, false)
}

func (p *CodePrinter) VisitLambda(n *ast.Lambda) {
	p.write(`\` + n.Parameter + " -> ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitIfElse(n *ast.IfElse) {
	p.write("if ")
	n.Condition.Accept(p)
	p.write(" then ")
	n.True.Accept(p)
	p.write(" else ")
	n.False.Accept(p)
}
