// Package diag provides the diagnostics reported while lexing and parsing
// filter conditions.
//
// A failed parse returns a List: an ordered, non-empty sequence of
// Diagnostic values. Lists merged from several failed alternatives keep the
// order in which the alternatives were attempted.
package diag

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// NoMoreToken means a required token is absent because the input is exhausted.
	NoMoreToken Kind = iota + 1
	// UnexpectedTokenType means a token is present but of the wrong type.
	UnexpectedTokenType
	// CanNotParseLeftToken means tokens are left over after a top-level parse.
	CanNotParseLeftToken

	// TableAttrNotExist means the referenced attribute is not in the schema.
	TableAttrNotExist
	// NoTable means the referenced table is not in the schema.
	NoTable
	// LackOfSpecifyingTable means an unqualified attribute matches several tables.
	LackOfSpecifyingTable

	// InvalidEscapeChar means a string literal contains an unknown escape.
	InvalidEscapeChar
	// UnexpectedChar means the input contains a character outside the language.
	UnexpectedChar
	// IncompleteString means a string literal has no closing quote.
	IncompleteString
	// InvalidFloat means a number has a decimal point without fraction digits.
	InvalidFloat
)

var kindNames = map[Kind]string{
	NoMoreToken:           "NoMoreToken",
	UnexpectedTokenType:   "UnexpectedTokenType",
	CanNotParseLeftToken:  "CanNotParseLeftToken",
	TableAttrNotExist:     "TableAttrNotExist",
	NoTable:               "NoTable",
	LackOfSpecifyingTable: "LackOfSpecifyingTable",
	InvalidEscapeChar:     "InvalidEscapeChar",
	UnexpectedChar:        "UnexpectedChar",
	IncompleteString:      "IncompleteString",
	InvalidFloat:          "InvalidFloat",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsLexical reports whether the kind is raised by the lexer.
func (k Kind) IsLexical() bool {
	return k >= InvalidEscapeChar && k <= InvalidFloat
}

// IsSchema reports whether the kind is raised by schema validation.
func (k Kind) IsSchema() bool {
	return k >= TableAttrNotExist && k <= LackOfSpecifyingTable
}

// Diagnostic is a single lexing, parsing or validation failure.
type Diagnostic struct {
	Kind    Kind        `json:"kind"`
	Token   token.Token `json:"token"`
	Message string      `json:"message"`
}

func (d *Diagnostic) Error() string {
	if d.Token.IsEnd() {
		return fmt.Sprintf("at end of input: %s", d.Message)
	}
	return fmt.Sprintf("column %d: %s", d.Token.Column, d.Message)
}

// List is an ordered list of diagnostics.
type List []*Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("%d problems: %s", len(l), strings.Join(msgs, "; "))
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Kinds returns the kind of every diagnostic in order.
func (l List) Kinds() []Kind {
	kinds := make([]Kind, len(l))
	for i, d := range l {
		kinds[i] = d.Kind
	}
	return kinds
}

// New builds a single diagnostic.
func New(kind Kind, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Of wraps diagnostics into a List.
func Of(ds ...*Diagnostic) List {
	return List(ds)
}

// EndToken returns the token a diagnostic should reference when the input
// ends: the last token of the cursor's window, or the synthetic end token
// when the window is empty. c is not modified.
func EndToken(c *cursor.Cursor) token.Token {
	tail := *c
	if tok, ok := tail.Back(); ok {
		return tok
	}
	return token.End()
}

// NoMore reports that a token of one of the expected types was required but
// the input is exhausted. With no expected types the message is generic.
func NoMore(c *cursor.Cursor, expected ...token.TokenType) List {
	if len(expected) == 0 {
		return Of(New(NoMoreToken, EndToken(c), "expect token but no more token found"))
	}
	return Of(New(NoMoreToken, EndToken(c), "expect %s but no more token found", typeList(expected)))
}

// Unexpected reports a present token of the wrong type.
func Unexpected(tok token.Token, expected ...token.TokenType) List {
	return Of(New(UnexpectedTokenType, tok, "expect token type: %s, but got %s", typeList(expected), tok.Type))
}

// UnexpectedWant reports a present token of the wrong type, naming the
// expected categories in prose.
func UnexpectedWant(tok token.Token, want string) List {
	return Of(New(UnexpectedTokenType, tok, "unexpected token type: %s, expect %s", tok.Type, want))
}

// LeftToken reports unconsumed input after a top-level parse.
func LeftToken(tok token.Token) *Diagnostic {
	return New(CanNotParseLeftToken, tok, "can not parse the left tokens: %q", tok.Literal)
}

func typeList(types []token.TokenType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " or ")
}
