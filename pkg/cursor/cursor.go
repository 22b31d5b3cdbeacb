// Package cursor provides a cheaply copyable view over a fixed token sequence.
//
// A Cursor is a value: assigning it duplicates it, and advancing the copy
// never affects the original. All cursors derived from one New call share
// the same read-only token buffer, which is what lets a successful trial be
// committed back onto the cursor a caller holds (see Align).
package cursor

import "github.com/leapstack-labs/leapfilter/pkg/token"

// buffer is the shared, read-only backing storage.
type buffer struct {
	tokens []token.Token
}

// Cursor is a window [pos, end) over a shared token buffer.
type Cursor struct {
	buf *buffer
	pos int
	end int
}

// New returns a cursor over tokens. The slice must not be modified while any
// cursor over it is in use.
func New(tokens []token.Token) Cursor {
	return Cursor{buf: &buffer{tokens: tokens}, end: len(tokens)}
}

// Remaining returns the number of unconsumed tokens.
func (c *Cursor) Remaining() int {
	return c.end - c.pos
}

// Pos returns the offset of the next token in the backing buffer.
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (token.Token, bool) {
	if c.pos >= c.end {
		return token.Token{}, false
	}
	return c.buf.tokens[c.pos], true
}

// PeekType returns the type of the next token, or token.EOF when exhausted.
func (c *Cursor) PeekType() token.TokenType {
	tok, ok := c.Peek()
	if !ok {
		return token.EOF
	}
	return tok.Type
}

// Next consumes and returns the next token from the front.
func (c *Cursor) Next() (token.Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Back consumes and returns the last token from the tail.
func (c *Cursor) Back() (token.Token, bool) {
	if c.pos >= c.end {
		return token.Token{}, false
	}
	c.end--
	return c.buf.tokens[c.end], true
}

// Skip advances the front by n tokens, stopping at the end.
func (c *Cursor) Skip(n int) {
	c.pos = min(c.pos+n, c.end)
}

// Tokens returns the unconsumed tokens. The result aliases the shared buffer
// and must not be modified.
func (c *Cursor) Tokens() []token.Token {
	if c.buf == nil {
		return nil
	}
	return c.buf.tokens[c.pos:c.end]
}

// Align commits the progress of one cursor onto the other. Both must be
// derived from the same New call. The cursor with more remaining tokens is
// advanced from the front by the difference; afterwards both have the same
// number of remaining tokens.
func Align(a, b *Cursor) {
	if a.buf != b.buf {
		panic("cursor: align across different token buffers")
	}
	switch {
	case a.Remaining() > b.Remaining():
		a.Skip(a.Remaining() - b.Remaining())
	case a.Remaining() < b.Remaining():
		Align(b, a)
	}
}
