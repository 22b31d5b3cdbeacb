// Package attribute resolves attribute references of the form
// identifier or table.identifier.
//
// Schema validation is not part of the grammar. A Resolver may carry a
// Validator, which is consulted after an attribute has been parsed and may
// reject it with one of the schema diagnostic kinds (diag.TableAttrNotExist,
// diag.NoTable, diag.LackOfSpecifyingTable).
package attribute

import (
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Resolver parses an attribute reference at the cursor.
type Resolver interface {
	Resolve(c *cursor.Cursor) (*ast.Attribute, diag.List)
}

// Validator checks a parsed attribute against a schema. tok is the first
// token of the reference. It returns nil when the attribute is acceptable.
type Validator interface {
	Validate(attr *ast.Attribute, tok token.Token) *diag.Diagnostic
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(attr *ast.Attribute, tok token.Token) *diag.Diagnostic

// Validate calls f.
func (f ValidatorFunc) Validate(attr *ast.Attribute, tok token.Token) *diag.Diagnostic {
	return f(attr, tok)
}

// TableResolver is the default Resolver.
type TableResolver struct {
	validator Validator
}

// New returns a resolver. v may be nil to accept every attribute.
func New(v Validator) *TableResolver {
	return &TableResolver{validator: v}
}

// Default resolves attributes without schema validation.
var Default Resolver = New(nil)

// Resolve consumes identifier or identifier "." identifier.
func (r *TableResolver) Resolve(c *cursor.Cursor) (*ast.Attribute, diag.List) {
	first, errs := expectIdent(c)
	if errs != nil {
		return nil, errs
	}

	attr := &ast.Attribute{Name: first.Literal}
	if c.PeekType() == token.DOT {
		c.Next()
		name, errs := expectIdent(c)
		if errs != nil {
			return nil, errs
		}
		attr = &ast.Attribute{Table: first.Literal, Name: name.Literal}
	}

	if r.validator != nil {
		if d := r.validator.Validate(attr, first); d != nil {
			return nil, diag.Of(d)
		}
	}
	return attr, nil
}

func expectIdent(c *cursor.Cursor) (token.Token, diag.List) {
	tok, ok := c.Next()
	if !ok {
		return tok, diag.NoMore(c, token.IDENT)
	}
	if tok.Type != token.IDENT {
		return tok, diag.Unexpected(tok, token.IDENT)
	}
	return tok, nil
}
