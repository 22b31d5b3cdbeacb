// Package parser parses filter conditions into an AST.
//
// # Usage
//
//	cond, errs := parser.ParseString(`price * qty > 100 and status != "void"`)
//	if errs != nil {
//	    // errs is a diag.List; each entry carries the offending token
//	}
//
// Callers that tokenize themselves hand a cursor to Parse and must check
// the remainder with CheckParseToEnd: a successful Parse does not by itself
// guarantee that the whole input was consumed.
//
// # Grammar Overview
//
// Precedence from lowest to highest:
//
//	condition   → and_cond ("or" and_cond)*
//	and_cond    → cond_prim ("and" cond_prim)*
//	cond_prim   → "not" condition | "(" condition ")" | comparison
//	comparison  → cmp_operand cmp_op cmp_operand
//	cmp_operand → STRING | NULL | arith
//	arith       → term (("+" | "-") term)*
//	term        → unary (("*" | "/" | "%") unary)*
//	unary       → "-" unary | "+" unary | primitive
//	primitive   → "(" arith ")" | INTEGER | FLOAT | STRING | NULL | attribute
//	attribute   → IDENT ["." IDENT]
//
// A "(" at cond_prim is tried as a parenthesized condition first and as the
// start of a comparison second.
package parser

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/attribute"
	"github.com/leapstack-labs/leapfilter/pkg/combinator"
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/lexer"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Parser parses conditions. It holds only configuration and is safe for
// concurrent use.
type Parser struct {
	resolver attribute.Resolver
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithResolver sets the attribute resolver.
func WithResolver(r attribute.Resolver) Option {
	return func(p *Parser) {
		p.resolver = r
	}
}

// WithValidator resolves attributes with the default resolver and checks
// them with v.
func WithValidator(v attribute.Validator) Option {
	return WithResolver(attribute.New(v))
}

// WithLogger sets the logger for debug tracing of backtracking decisions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		resolver: attribute.Default,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses a condition with the default parser.
func Parse(c *cursor.Cursor) (ast.Condition, diag.List) {
	return defaultParser.Parse(c)
}

// ParseArith parses an arithmetic expression with the default parser.
func ParseArith(c *cursor.Cursor) (ast.Arith, diag.List) {
	return defaultParser.ParseArith(c)
}

// Parse parses a condition at c. On success c is advanced past it; on
// failure c is unchanged.
func (p *Parser) Parse(c *cursor.Cursor) (ast.Condition, diag.List) {
	cond, errs := combinator.Try[ast.Condition](c, p.parseCondition)
	if errs != nil {
		p.logger.Debug("condition parse failed", "diagnostics", len(errs), "first", errs[0].Message)
	}
	return cond, errs
}

// ParseArith parses an arithmetic expression at c. On success c is advanced
// past it; on failure c is unchanged.
func (p *Parser) ParseArith(c *cursor.Cursor) (ast.Arith, diag.List) {
	expr, errs := combinator.Try[ast.Arith](c, p.parseArith)
	if errs != nil {
		p.logger.Debug("arithmetic parse failed", "diagnostics", len(errs), "first", errs[0].Message)
	}
	return expr, errs
}

// CheckParseToEnd returns nil when c has no tokens left, and otherwise a
// CanNotParseLeftToken diagnostic for the next unconsumed token.
func CheckParseToEnd(c *cursor.Cursor) *diag.Diagnostic {
	tok, ok := c.Peek()
	if !ok {
		return nil
	}
	return diag.LeftToken(tok)
}

// ParseString tokenizes src, parses one condition and checks that the
// whole input was consumed.
func (p *Parser) ParseString(src string) (ast.Condition, diag.List) {
	return parseWhole[ast.Condition](p, src, p.Parse)
}

// ParseArithString tokenizes src, parses one arithmetic expression and
// checks that the whole input was consumed.
func (p *Parser) ParseArithString(src string) (ast.Arith, diag.List) {
	return parseWhole[ast.Arith](p, src, p.ParseArith)
}

// ParseString parses src as a condition with a parser built from opts.
func ParseString(src string, opts ...Option) (ast.Condition, diag.List) {
	return New(opts...).ParseString(src)
}

// ParseArithString parses src as an arithmetic expression with a parser
// built from opts.
func ParseArithString(src string, opts ...Option) (ast.Arith, diag.List) {
	return New(opts...).ParseArithString(src)
}

func parseWhole[T any](p *Parser, src string, parse combinator.Func[T]) (T, diag.List) {
	var zero T
	toks, errs := lexer.Tokenize(src)
	if errs != nil {
		return zero, errs
	}
	c := cursor.New(toks)
	v, errs := parse(&c)
	if errs != nil {
		return zero, errs
	}
	if d := CheckParseToEnd(&c); d != nil {
		p.logger.Debug("input not fully consumed", "consumed", c.Pos(), "left", leftover(c.Tokens()))
		return zero, diag.Of(d)
	}
	return v, nil
}

// leftover joins the literals of toks for logging.
func leftover(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.Literal
	}
	return strings.Join(parts, " ")
}
