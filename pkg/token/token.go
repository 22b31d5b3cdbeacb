// Package token defines the token types of the filter condition language.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota // end-of-input sentinel, never produced by the lexer
	ILLEGAL

	// Literals
	IDENT   // attribute_name
	INTEGER // 123
	FLOAT   // 45.67
	STRING  // "hello" or 'hello'
	NULL    // null

	// Structural
	LPAREN // (
	RPAREN // )
	DOT    // .

	// Logic keywords
	AND
	OR
	NOT
	IS
	ISNOT // is not

	// Comparison operators
	EQ // =
	NE // != or <>
	LT // <
	GT // >
	LE // <=
	GE // >=

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:   "IDENT",
	INTEGER: "INTEGER",
	FLOAT:   "FLOAT",
	STRING:  "STRING",
	NULL:    "NULL",

	LPAREN: "(",
	RPAREN: ")",
	DOT:    ".",

	AND:   "AND",
	OR:    "OR",
	NOT:   "NOT",
	IS:    "IS",
	ISNOT: "IS NOT",

	EQ: "=",
	NE: "!=",
	LT: "<",
	GT: ">",
	LE: "<=",
	GE: ">=",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
}

// keywords maps lowercase keyword strings to their token types.
// "is not" is assembled by the lexer from two words.
var keywords = map[string]TokenType{
	"and":  AND,
	"or":   OR,
	"not":  NOT,
	"is":   IS,
	"null": NULL,
}

// LookupIdent returns the keyword token type for a lowercase identifier,
// or IDENT when it is not a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t == NULL || (t >= AND && t <= ISNOT)
}

// IsLiteral returns true for integer, float, string and null literals.
func IsLiteral(t TokenType) bool {
	return t >= INTEGER && t <= NULL
}

// IsComparison returns true for the eight comparison operators.
func IsComparison(t TokenType) bool {
	return t == IS || t == ISNOT || (t >= EQ && t <= GE)
}

// IsArithmetic returns true for + - * / %.
func IsArithmetic(t TokenType) bool {
	return t >= PLUS && t <= PERCENT
}

// Token represents a lexical token. Column is 1-based; the synthetic
// end-of-input token has column 0.
type Token struct {
	Type    TokenType `json:"type"`
	Literal string    `json:"text"`
	Column  int       `json:"column"`
}

// End returns the synthetic end-of-input token.
func End() Token {
	return Token{Type: EOF}
}

// IsEnd reports whether t is the synthetic end-of-input token.
func (t Token) IsEnd() bool {
	return t.Type == EOF
}

func (t Token) String() string {
	if t.IsEnd() {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}
