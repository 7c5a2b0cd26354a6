// Package mathexpr evaluates restricted arithmetic expressions: numeric
// literals and the four basic operators only. Anything else (identifiers,
// calls, indexing, strings) is rejected, never executed.
package mathexpr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// Eval parses and evaluates expr. The grammar is Go expression syntax
// limited to numbers, + - * /, parentheses, and unary minus.
func Eval(expr string) (float64, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("invalid expression: %w", err)
	}
	return eval(node)
}

func eval(node ast.Expr) (float64, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("unsupported literal %s", n.Value)
		}
		var v float64
		if _, err := fmt.Sscanf(n.Value, "%g", &v); err != nil {
			return 0, fmt.Errorf("bad number %q", n.Value)
		}
		return v, nil

	case *ast.ParenExpr:
		return eval(n.X)

	case *ast.UnaryExpr:
		if n.Op != token.SUB && n.Op != token.ADD {
			return 0, fmt.Errorf("unsupported operator %s", n.Op)
		}
		v, err := eval(n.X)
		if err != nil {
			return 0, err
		}
		if n.Op == token.SUB {
			return -v, nil
		}
		return v, nil

	case *ast.BinaryExpr:
		left, err := eval(n.X)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.Y)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return left + right, nil
		case token.SUB:
			return left - right, nil
		case token.MUL:
			return left * right, nil
		case token.QUO:
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return left / right, nil
		default:
			return 0, fmt.Errorf("unsupported operator %s", n.Op)
		}

	default:
		return 0, fmt.Errorf("unsupported expression element %T", node)
	}
}
