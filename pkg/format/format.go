package format

import (
	"github.com/leapstack-labs/leapfilter/pkg/ast"
)

// Node renders n in compact form: binary nodes as "(lhs op rhs)", negation
// as "(not x)" and "(- x)", values as "Type(text)" and attributes as
// "Attr(table.name)" or "Attr(name)". A nil node renders as "<nil>".
func Node(n ast.Node) string {
	var b compact
	b.node(n)
	return b.String()
}

// Tree renders n as an indented outline, one node per line. Arithmetic
// operands of comparisons do not get a line of their own.
func Tree(n ast.Node) string {
	p := newPrinter()
	p.tree(n)
	return p.String()
}
