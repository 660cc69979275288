package prettyprinter

import (
	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/token"
)

// --- Tree Printer (Output is a generic tree for JSON dumps) ---

// Node is a JSON-friendly view of a syntax tree node.
type Node map[string]interface{}

// TreeBuilder converts syntax trees into nested Nodes.
type TreeBuilder struct {
	result Node
}

func ModuleTree(module *ast.Module) Node {
	bindings := make([]Node, 0, len(module.Bindings))
	for _, b := range module.Bindings {
		bindings = append(bindings, Node{
			"name":  b.Name,
			"line":  b.Token.Line,
			"value": ExpressionTree(b.Value),
		})
	}
	return Node{"kind": "Module", "bindings": bindings}
}

func ExpressionTree(expr ast.Expression) Node {
	tb := &TreeBuilder{}
	expr.Accept(tb)
	return tb.result
}

// TokenTree converts tokens, expanding string parts recursively.
func TokenTree(tokens []token.Token) []Node {
	nodes := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		n := Node{"type": string(tok.Type), "line": tok.Line, "column": tok.Column}
		switch tok.Type {
		case token.IDENTIFIER, token.INTEGER:
			n["literal"] = tok.Literal
		case token.STRING:
			parts := make([]Node, 0, len(tok.Parts))
			for _, part := range tok.Parts {
				if part.IsExpr {
					parts = append(parts, Node{"tokens": TokenTree(part.Tokens)})
				} else {
					parts = append(parts, Node{"text": part.Text})
				}
			}
			n["parts"] = parts
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func (tb *TreeBuilder) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	tb.result = Node{"kind": "Integer", "digits": n.Digits}
}

func (tb *TreeBuilder) VisitStringLiteral(n *ast.StringLiteral) {
	parts := make([]interface{}, 0, len(n.Parts))
	for _, part := range n.Parts {
		if part.Expr != nil {
			parts = append(parts, ExpressionTree(part.Expr))
		} else {
			parts = append(parts, part.Text)
		}
	}
	tb.result = Node{"kind": "String", "parts": parts}
}

func (tb *TreeBuilder) VisitIdentifier(n *ast.Identifier) {
	tb.result = Node{"kind": "Identifier", "name": n.Name}
}

func (tb *TreeBuilder) VisitCall(n *ast.Call) {
	tb.result = Node{
		"kind":     "Call",
		"callable": ExpressionTree(n.Callable),
		"argument": ExpressionTree(n.Argument),
	}
}

func (tb *TreeBuilder) VisitLambda(n *ast.Lambda) {
	tb.result = Node{"kind": "Lambda", "parameter": n.Parameter, "body": ExpressionTree(n.Body)}
}

func (tb *TreeBuilder) VisitIfElse(n *ast.IfElse) {
	tb.result = Node{
		"kind":      "IfElse",
		"condition": ExpressionTree(n.Condition),
		"true":      ExpressionTree(n.True),
		"false":     ExpressionTree(n.False),
	}
}
