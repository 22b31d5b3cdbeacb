package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/ast"
)

type compact struct {
	strings.Builder
}

func (b *compact) node(n ast.Node) {
	switch expr := n.(type) {
	case *ast.LogicExpr:
		b.binary(expr.Left, expr.Op.String(), expr.Right)
	case *ast.NotExpr:
		b.unary("not", expr.Expr)
	case *ast.CmpExpr:
		b.binary(expr.Left, expr.Op.String(), expr.Right)
	case *ast.ArithOperand:
		b.node(expr.Expr)
	case *ast.BinaryExpr:
		b.binary(expr.Left, expr.Op.String(), expr.Right)
	case *ast.MinusExpr:
		b.unary("-", expr.Expr)
	case *ast.Value:
		b.WriteString(value(expr))
	case *ast.Attribute:
		b.WriteString(attribute(expr))
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func (b *compact) binary(lhs ast.Node, op string, rhs ast.Node) {
	b.WriteByte('(')
	b.node(lhs)
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	b.node(rhs)
	b.WriteByte(')')
}

func (b *compact) unary(op string, operand ast.Node) {
	b.WriteByte('(')
	b.WriteString(op)
	b.WriteByte(' ')
	b.node(operand)
	b.WriteByte(')')
}

func value(v *ast.Value) string {
	return v.Type.String() + "(" + v.Text + ")"
}

func attribute(a *ast.Attribute) string {
	if a.Qualified() {
		return "Attr(" + a.Table + "." + a.Name + ")"
	}
	return "Attr(" + a.Name + ")"
}

func (p *printer) tree(n ast.Node) {
	switch expr := n.(type) {
	case *ast.LogicExpr:
		p.branch("Logic "+expr.Op.String(), expr.Left, expr.Right)
	case *ast.NotExpr:
		p.branch("Not", expr.Expr)
	case *ast.CmpExpr:
		p.branch("Cmp "+expr.Op.String(), expr.Left, expr.Right)
	case *ast.ArithOperand:
		p.tree(expr.Expr)
	case *ast.BinaryExpr:
		p.branch("Binary "+expr.Op.String(), expr.Left, expr.Right)
	case *ast.MinusExpr:
		p.branch("Minus", expr.Expr)
	case *ast.Value:
		p.line(value(expr))
	case *ast.Attribute:
		p.line(attribute(expr))
	case nil:
		p.line("<nil>")
	default:
		p.line(fmt.Sprintf("<%T>", n))
	}
}

func (p *printer) branch(label string, children ...ast.Node) {
	p.line(label)
	p.indent()
	for _, c := range children {
		p.tree(c)
	}
	p.dedent()
}
