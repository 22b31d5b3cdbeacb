package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Expected-category descriptions used in diagnostics.
const (
	wantPrimitive  = "Literal or Identifier"
	wantComparison = "comparison operator"
)

// expect consumes the next token if it has type t.
func expect(c *cursor.Cursor, t token.TokenType) (token.Token, diag.List) {
	tok, ok := c.Next()
	if !ok {
		return tok, diag.NoMore(c, t)
	}
	if tok.Type != t {
		return tok, diag.Unexpected(tok, t)
	}
	return tok, nil
}

// peek returns the next token or a NoMoreToken diagnostic.
func peek(c *cursor.Cursor) (token.Token, diag.List) {
	tok, ok := c.Peek()
	if !ok {
		return tok, diag.NoMore(c)
	}
	return tok, nil
}

// invariant aborts on a parser bug: a token reached a mapping after its
// membership in the allowed set was already checked.
func invariant(what string, t token.TokenType) {
	panic(fmt.Sprintf("parser: unexpected token type %s for %s", t, what))
}
