package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexpr renders a node as an S-expression, e.g. (+ 2 (* 3 4)). Positions are
// not printed, so two trees print the same iff they have the same shape.
func Sexpr(node Expr) string {
	var b strings.Builder
	writeSexpr(&b, node)
	return b.String()
}

// Program renders one statement per line.
func Program(exprs []Expr) string {
	lines := make([]string, len(exprs))
	for i, expr := range exprs {
		lines[i] = Sexpr(expr)
	}
	return strings.Join(lines, "\n")
}

func writeSexpr(b *strings.Builder, node Expr) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *Variable:
		b.WriteString(n.Name)
	case *BinaryExpression:
		fmt.Fprintf(b, "(%s ", n.Operator)
		writeSexpr(b, n.Left)
		b.WriteByte(' ')
		writeSexpr(b, n.Right)
		b.WriteByte(')')
	case *UnaryExpression:
		fmt.Fprintf(b, "(%s ", n.Operator)
		writeSexpr(b, n.Operand)
		b.WriteByte(')')
	case *Assignment:
		fmt.Fprintf(b, "(= %s ", n.Name)
		writeSexpr(b, n.Value)
		b.WriteByte(')')
	case *ScopeExpression:
		b.WriteString("(block")
		for _, stmt := range n.Body {
			b.WriteByte(' ')
			writeSexpr(b, stmt)
		}
		b.WriteByte(')')
	case *FunctionDefinition:
		fmt.Fprintf(b, "(fn %s (%s) ", n.Name, strings.Join(n.Params, " "))
		if n.Body == nil {
			b.WriteString("<nil>")
		} else {
			writeSexpr(b, n.Body)
		}
		b.WriteByte(')')
	case *FunctionCall:
		fmt.Fprintf(b, "(call %s", n.Name)
		for _, arg := range n.Arguments {
			b.WriteByte(' ')
			writeSexpr(b, arg)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}
