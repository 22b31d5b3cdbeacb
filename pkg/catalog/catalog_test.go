package catalog

import (
	"testing"

	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/parser"
	"github.com/leapstack-labs/leapfilter/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return New(map[string][]string{
		"orders":    {"id", "total", "customer_id"},
		"customers": {"id", "Name"},
	})
}

func TestCatalog_Validate(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Literal: "x", Column: 4}

	tests := []struct {
		name     string
		attr     *ast.Attribute
		wantKind diag.Kind
		wantOK   bool
	}{
		{name: "qualified column", attr: &ast.Attribute{Table: "orders", Name: "total"}, wantOK: true},
		{name: "case insensitive", attr: &ast.Attribute{Table: "ORDERS", Name: "Total"}, wantOK: true},
		{name: "declared case", attr: &ast.Attribute{Table: "customers", Name: "name"}, wantOK: true},
		{name: "unique unqualified column", attr: &ast.Attribute{Name: "total"}, wantOK: true},
		{name: "unknown table", attr: &ast.Attribute{Table: "ghost", Name: "id"}, wantKind: diag.NoTable},
		{name: "unknown qualified column", attr: &ast.Attribute{Table: "orders", Name: "name"}, wantKind: diag.TableAttrNotExist},
		{name: "ambiguous column", attr: &ast.Attribute{Name: "id"}, wantKind: diag.LackOfSpecifyingTable},
		{name: "unknown column", attr: &ast.Attribute{Name: "missing"}, wantKind: diag.TableAttrNotExist},
	}

	c := testCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Validate(tt.attr, tok)
			if tt.wantOK {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tok, d.Token)
		})
	}
}

func TestCatalog_AmbiguousMessage(t *testing.T) {
	d := testCatalog().Validate(&ast.Attribute{Name: "id"}, token.Token{})
	require.NotNil(t, d)
	assert.Contains(t, d.Message, "customers, orders")
}

func TestCatalog_Tables(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"customers", "orders"}, c.Tables())
	assert.Equal(t, []string{"id", "total", "customer_id"}, c.Columns("Orders"))
	assert.Nil(t, c.Columns("ghost"))
	assert.Equal(t, 2, c.Len())

	empty := New(map[string][]string{"audit": nil})
	assert.Equal(t, []string{"audit"}, empty.Tables())
	assert.Empty(t, empty.Columns("audit"))
}

func TestCatalog_WithParser(t *testing.T) {
	c := testCatalog()

	_, errs := parser.ParseString("orders.total > 10 and customer_id = 3", parser.WithValidator(c))
	require.Empty(t, errs)

	_, errs = parser.ParseString("id = 3 and total > 10", parser.WithValidator(c))
	require.Len(t, errs, 1)
	assert.Equal(t, diag.LackOfSpecifyingTable, errs[0].Kind)
	assert.Equal(t, 1, errs[0].Token.Column)

	// A rejected right operand ends the and-chain, leaving "and" unparsed.
	_, errs = parser.ParseString("total > 10 and id = 3", parser.WithValidator(c))
	require.Len(t, errs, 1)
	assert.Equal(t, diag.CanNotParseLeftToken, errs[0].Kind)
	assert.Equal(t, 12, errs[0].Token.Column)

	_, errs = parser.ParseString("invoices.total = 1", parser.WithValidator(c))
	require.Len(t, errs, 1)
	assert.Equal(t, diag.NoTable, errs[0].Kind)
}
