package parser

import (
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/combinator"
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Arithmetic parsing: additive and multiplicative chains, unary signs and
// primitives.

var (
	additiveOps = map[token.TokenType]ast.ArithOp{
		token.PLUS:  ast.Add,
		token.MINUS: ast.Sub,
	}
	multiplicativeOps = map[token.TokenType]ast.ArithOp{
		token.STAR:    ast.Mul,
		token.SLASH:   ast.Div,
		token.PERCENT: ast.Mod,
	}
)

func foldArith(lhs ast.Arith, op ast.ArithOp, rhs ast.Arith) ast.Arith {
	return &ast.BinaryExpr{Left: lhs, Op: op, Right: rhs}
}

// parseArith parses a full arithmetic expression.
func (p *Parser) parseArith(c *cursor.Cursor) (ast.Arith, diag.List) {
	return combinator.Chain[ast.Arith](c, p.parseMultiplicative, additiveOps, foldArith)
}

func (p *Parser) parseMultiplicative(c *cursor.Cursor) (ast.Arith, diag.List) {
	return combinator.Chain[ast.Arith](c, p.parseUnary, multiplicativeOps, foldArith)
}

// parseUnary handles leading signs. "+" is dropped; "-" wraps its operand.
func (p *Parser) parseUnary(c *cursor.Cursor) (ast.Arith, diag.List) {
	switch c.PeekType() {
	case token.MINUS:
		c.Next()
		operand, errs := p.parseUnary(c)
		if errs != nil {
			return nil, errs
		}
		return &ast.MinusExpr{Expr: operand}, nil
	case token.PLUS:
		c.Next()
		return p.parseUnary(c)
	}
	return p.parsePrimitive(c)
}

// parsePrimitive parses a parenthesized expression, a literal or an
// attribute reference.
func (p *Parser) parsePrimitive(c *cursor.Cursor) (ast.Arith, diag.List) {
	tok, errs := peek(c)
	if errs != nil {
		return nil, errs
	}

	switch {
	case tok.Type == token.LPAREN:
		c.Next()
		expr, errs := p.parseArith(c)
		if errs != nil {
			return nil, errs
		}
		if _, errs := expect(c, token.RPAREN); errs != nil {
			return nil, errs
		}
		return expr, nil

	case token.IsLiteral(tok.Type):
		c.Next()
		return &ast.Value{Text: tok.Literal, Type: toValueType(tok.Type)}, nil

	case tok.Type == token.IDENT:
		attr, errs := p.resolver.Resolve(c)
		if errs != nil {
			return nil, errs
		}
		return attr, nil
	}

	return nil, diag.UnexpectedWant(tok, wantPrimitive)
}

func toValueType(t token.TokenType) ast.ValueType {
	switch t {
	case token.INTEGER:
		return ast.Integer
	case token.FLOAT:
		return ast.Float
	case token.STRING:
		return ast.String
	case token.NULL:
		return ast.Null
	}
	invariant("literal", t)
	return 0
}
