package parser

import (
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/combinator"
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Condition parsing: or/and chains, negation, parenthesized conditions and
// comparisons.
//
// Precedence levels handled here (lowest first):
//
//	or
//	and
//	not, ( condition )
//	comparison (=, !=, <, >, <=, >=, is, is not)

var (
	orOps  = map[token.TokenType]ast.LogicOp{token.OR: ast.Or}
	andOps = map[token.TokenType]ast.LogicOp{token.AND: ast.And}
)

func foldLogic(lhs ast.Condition, op ast.LogicOp, rhs ast.Condition) ast.Condition {
	return &ast.LogicExpr{Left: lhs, Op: op, Right: rhs}
}

// parseCondition parses a full condition.
func (p *Parser) parseCondition(c *cursor.Cursor) (ast.Condition, diag.List) {
	return combinator.Chain[ast.Condition](c, p.parseAnd, orOps, foldLogic)
}

// parseAnd parses an and-chain.
func (p *Parser) parseAnd(c *cursor.Cursor) (ast.Condition, diag.List) {
	return combinator.Chain[ast.Condition](c, p.parseConditionPrimitive, andOps, foldLogic)
}

// parseConditionPrimitive parses not, a parenthesized condition or a
// comparison.
func (p *Parser) parseConditionPrimitive(c *cursor.Cursor) (ast.Condition, diag.List) {
	tok, errs := peek(c)
	if errs != nil {
		return nil, errs
	}

	switch tok.Type {
	case token.NOT:
		c.Next()
		operand, errs := combinator.Try[ast.Condition](c, p.parseCondition)
		if errs != nil {
			return nil, errs
		}
		return &ast.NotExpr{Expr: operand}, nil

	case token.LPAREN:
		// "(" opens either a nested condition or the left arithmetic
		// operand of a comparison: "(a = 1)" vs "(a + 1) > 2".
		cond, errs := combinator.OneOf[ast.Condition](c, p.parseParenCondition, p.parseCmp)
		if errs != nil {
			p.logger.Debug("no parenthesized alternative applies", "column", tok.Column, "diagnostics", len(errs))
		}
		return cond, errs

	default:
		return p.parseCmp(c)
	}
}

// parseParenCondition parses "(" condition ")".
func (p *Parser) parseParenCondition(c *cursor.Cursor) (ast.Condition, diag.List) {
	if _, errs := expect(c, token.LPAREN); errs != nil {
		return nil, errs
	}
	cond, errs := p.parseCondition(c)
	if errs != nil {
		return nil, errs
	}
	if _, errs := expect(c, token.RPAREN); errs != nil {
		return nil, errs
	}
	return cond, nil
}

// parseCmp parses exactly one comparison; comparisons do not chain.
func (p *Parser) parseCmp(c *cursor.Cursor) (ast.Condition, diag.List) {
	lhs, errs := combinator.Try[ast.CmpOperand](c, p.parseCmpOperand)
	if errs != nil {
		return nil, errs
	}

	tok, ok := c.Next()
	if !ok {
		return nil, diag.Of(diag.New(diag.NoMoreToken, diag.EndToken(c),
			"expect %s but no more token found", wantComparison))
	}
	if !token.IsComparison(tok.Type) {
		return nil, diag.UnexpectedWant(tok, wantComparison)
	}
	op := toCmpOp(tok.Type)

	rhs, errs := combinator.Try[ast.CmpOperand](c, p.parseCmpOperand)
	if errs != nil {
		return nil, errs
	}
	return &ast.CmpExpr{Left: lhs, Op: op, Right: rhs}, nil
}

// parseCmpOperand parses a string or null literal directly, and anything
// else as an arithmetic expression.
func (p *Parser) parseCmpOperand(c *cursor.Cursor) (ast.CmpOperand, diag.List) {
	tok, errs := peek(c)
	if errs != nil {
		return nil, errs
	}

	switch tok.Type {
	case token.STRING, token.NULL:
		c.Next()
		return &ast.Value{Text: tok.Literal, Type: toValueType(tok.Type)}, nil
	}

	expr, errs := p.parseArith(c)
	if errs != nil {
		return nil, errs
	}
	return &ast.ArithOperand{Expr: expr}, nil
}

func toCmpOp(t token.TokenType) ast.CmpOp {
	switch t {
	case token.LT:
		return ast.LT
	case token.GT:
		return ast.GT
	case token.LE:
		return ast.LE
	case token.GE:
		return ast.GE
	case token.EQ:
		return ast.EQ
	case token.NE:
		return ast.NE
	case token.IS:
		return ast.Is
	case token.ISNOT:
		return ast.IsNot
	}
	invariant("comparison operator", t)
	return 0
}
