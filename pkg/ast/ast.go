// Package ast defines the syntax tree of filter conditions.
//
// A tree has no sharing and no cycles: every node owns its children. Nodes
// are built by the parser and are not modified afterwards.
package ast

// Node is implemented by every syntax tree node.
type Node interface {
	node()
}

// Condition is a boolean-valued node: *LogicExpr, *NotExpr or *CmpExpr.
type Condition interface {
	Node
	conditionNode()
}

// CmpOperand is one side of a comparison: *ArithOperand or a string/null
// *Value taken directly from the source.
type CmpOperand interface {
	Node
	cmpOperandNode()
}

// Arith is an arithmetic node: *BinaryExpr, *MinusExpr, *Value or *Attribute.
type Arith interface {
	Node
	arithNode()
}

// ---------- Operators ----------

// LogicOp is a boolean connective.
type LogicOp int

// LogicOp constants.
const (
	Or LogicOp = iota
	And
)

func (op LogicOp) String() string {
	switch op {
	case Or:
		return "or"
	case And:
		return "and"
	}
	return "?"
}

// CmpOp is a comparison operator.
type CmpOp int

// CmpOp constants.
const (
	LT CmpOp = iota
	GT
	LE
	GE
	EQ
	NE
	Is
	IsNot
)

var cmpOpNames = [...]string{
	LT:    "<",
	GT:    ">",
	LE:    "<=",
	GE:    ">=",
	EQ:    "=",
	NE:    "!=",
	Is:    "is",
	IsNot: "is not",
}

func (op CmpOp) String() string {
	if op >= 0 && int(op) < len(cmpOpNames) {
		return cmpOpNames[op]
	}
	return "?"
}

// ArithOp is a binary arithmetic operator.
type ArithOp int

// ArithOp constants.
const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

var arithOpNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
}

func (op ArithOp) String() string {
	if op >= 0 && int(op) < len(arithOpNames) {
		return arithOpNames[op]
	}
	return "?"
}

// ValueType is the type of a literal.
type ValueType int

// ValueType constants.
const (
	Integer ValueType = iota
	Float
	String
	Null
)

func (t ValueType) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Null:
		return "Null"
	}
	return "Unknown"
}

// ---------- Condition Types ----------

// LogicExpr combines two conditions with and/or.
type LogicExpr struct {
	Left  Condition
	Op    LogicOp
	Right Condition
}

func (*LogicExpr) node()          {}
func (*LogicExpr) conditionNode() {}

// NotExpr negates a condition.
type NotExpr struct {
	Expr Condition
}

func (*NotExpr) node()          {}
func (*NotExpr) conditionNode() {}

// CmpExpr compares two operands.
type CmpExpr struct {
	Left  CmpOperand
	Op    CmpOp
	Right CmpOperand
}

func (*CmpExpr) node()          {}
func (*CmpExpr) conditionNode() {}

// ArithOperand uses an arithmetic expression as a comparison operand.
type ArithOperand struct {
	Expr Arith
}

func (*ArithOperand) node()           {}
func (*ArithOperand) cmpOperandNode() {}

// ---------- Arithmetic Types ----------

// BinaryExpr is a binary arithmetic expression.
type BinaryExpr struct {
	Left  Arith
	Op    ArithOp
	Right Arith
}

func (*BinaryExpr) node()      {}
func (*BinaryExpr) arithNode() {}

// MinusExpr is a unary minus. Unary plus produces no node.
type MinusExpr struct {
	Expr Arith
}

func (*MinusExpr) node()      {}
func (*MinusExpr) arithNode() {}

// Value is a literal with its source text. A string or null Value may also
// stand directly as a comparison operand.
type Value struct {
	Text string
	Type ValueType
}

func (*Value) node()           {}
func (*Value) arithNode()      {}
func (*Value) cmpOperandNode() {}

// Attribute is an attribute reference, optionally qualified by a table.
type Attribute struct {
	Table string // empty when unqualified
	Name  string
}

func (*Attribute) node()      {}
func (*Attribute) arithNode() {}

// Qualified reports whether the attribute names its table.
func (a *Attribute) Qualified() bool {
	return a.Table != ""
}

// String returns "table.name", or just the name when unqualified.
func (a *Attribute) String() string {
	if a.Qualified() {
		return a.Table + "." + a.Name
	}
	return a.Name
}

// ---------- Traversal ----------

// Walk traverses a tree depth-first, parents before children and left
// before right, calling fn for each node. If fn returns false the children
// of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *LogicExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *NotExpr:
		Walk(n.Expr, fn)
	case *CmpExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *ArithOperand:
		Walk(n.Expr, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *MinusExpr:
		Walk(n.Expr, fn)
	}
}

// Attributes returns every attribute referenced in n, in source order.
func Attributes(n Node) []*Attribute {
	var attrs []*Attribute
	Walk(n, func(n Node) bool {
		if a, ok := n.(*Attribute); ok {
			attrs = append(attrs, a)
		}
		return true
	})
	return attrs
}
